package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgea/academic-events/internal/api"
	"github.com/sgea/academic-events/internal/infrastructure/db/mongo"
	"github.com/sgea/academic-events/internal/infrastructure/db/redis"
	"github.com/sgea/academic-events/internal/infrastructure/http/handlers"
	"github.com/sgea/academic-events/internal/infrastructure/mail"
	"github.com/sgea/academic-events/internal/infrastructure/queue"
	"github.com/sgea/academic-events/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	if err := a.connect(ctx); err != nil {
		return err
	}
	defer a.close(context.Background())

	if err := mongo.NewAuditRepository(a.mongoDB).EnsureIndexes(ctx); err != nil {
		a.log.Warn().Err(err).Msg("audit indexes not ensured")
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	outbox := queue.NewDispatcher(a.cfg.Mail.Workers, mail.New(a.cfg.SMTP, logger.Component("mail")), logger.Component("outbox"))
	outbox.Start(workerCtx)
	defer func() {
		stopWorkers()
		outbox.Wait()
	}()

	svc, err := a.services(outbox)
	if err != nil {
		return err
	}

	limiter := redis.NewRateLimiter(a.rdb, a.cfg.RateLimit.Window, map[string]int64{
		redis.ScopeEventList:    a.cfg.RateLimit.EventList,
		redis.ScopeRegistration: a.cfg.RateLimit.Registrations,
	})

	e := api.NewRouter(api.Deps{
		Users:        svc.users,
		Events:       svc.events,
		Enrollment:   svc.enrollment,
		Certificates: svc.certificates,
		Audit:        svc.audit,
		Limiter:      limiter,
		Readiness:    handlers.NewHealthDependenciesHandler(a.pg, a.mongoDB, a.rdb),
		JWTSecret:    a.cfg.JWTSecret,
		Log:          logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Msg("http server listening")
		if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
