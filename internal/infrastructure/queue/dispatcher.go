package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgea/academic-events/internal/core/ports"
	"github.com/sgea/academic-events/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// Dispatcher is the outgoing mail outbox. Messages are routed to a fixed set
// of workers using consistent hashing on the recipient, so mails to the same
// address are delivered in order. Delivery is best-effort: a full worker
// queue drops the message and a failed send is only logged.
type Dispatcher struct {
	workers []chan ports.MailMessage
	mailer  ports.Mailer
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.MailMessage, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MailMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands msg to the worker responsible for its recipient. It never
// blocks.
func (d *Dispatcher) Enqueue(msg ports.MailMessage) {
	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.MailsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("to", msg.To).Int("worker_id", idx).Msg("mail queue full, message dropped")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MailMessage) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			metrics.MailQueueDepth.WithLabelValues(label).Dec()
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, msg ports.MailMessage) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := d.mailer.Send(sendCtx, msg.To, msg.Subject, msg.Body); err != nil {
		metrics.MailsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("to", msg.To).
			Int("worker_id", id).
			Msg("mail delivery failed")
		return
	}
	metrics.MailsTotal.WithLabelValues("sent").Inc()
}
