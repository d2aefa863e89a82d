package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sgea/academic-events/internal/core/domain"
	"github.com/sgea/academic-events/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store implementing every repository port. A single mutex makes
// CreateWithinCapacity atomic, mirroring the row lock of the real store.
// ---------------------------------------------------------------------------

type memStore struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*domain.User
	events  map[string]*domain.Event
	regs    map[string]*domain.Registration // key: user|event
	certs   map[string]*domain.Certificate  // key: id
	findErr error                           // if set, FindByID on users returns it
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[string]*domain.User),
		events: make(map[string]*domain.Event),
		regs:   make(map[string]*domain.Registration),
		certs:  make(map[string]*domain.Certificate),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func regKey(userID, eventID string) string { return userID + "|" + eventID }

func (m *memStore) addUser(id string, role domain.Role) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.User{
		ID:          id,
		Username:    id,
		Email:       id + "@example.com",
		FirstName:   strings.ToUpper(id[:1]) + id[1:],
		LastName:    "Tester",
		Institution: "UFSC",
		Role:        role,
		Active:      true,
	}
	m.users[id] = u
	clone := *u
	return &clone
}

func (m *memStore) addEvent(e domain.Event) *domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = m.nextID("event")
	}
	m.events[e.ID] = &e
	clone := e
	return &clone
}

func (m *memStore) addRegistration(userID, eventID string, confirmed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[regKey(userID, eventID)] = &domain.Registration{
		ID:                m.nextID("reg"),
		UserID:            userID,
		EventID:           eventID,
		PresenceConfirmed: confirmed,
		CreatedAt:         time.Now().UTC(),
	}
}

func (m *memStore) addCertificate(userID, eventID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID("cert")
	m.certs[id] = &domain.Certificate{ID: id, UserID: userID, EventID: eventID, DocumentRef: "existing", IssuedAt: time.Now().UTC()}
}

func (m *memStore) countRegs(eventID string) int {
	n := 0
	for _, r := range m.regs {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

func (m *memStore) registrationCount(eventID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countRegs(eventID)
}

func (m *memStore) certificateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.certs)
}

// --- ports.UserRepository ---

func (m *memStore) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	u.ID = m.nextID("user")
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *memStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memStore) Activate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = true
	return nil
}

// eventRepo, regRepo and certRepo expose the store under the method sets of
// the remaining ports, which share method names with UserRepository.

type eventRepo struct{ *memStore }

func (r eventRepo) Create(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.nextID("event")
	clone := *e
	r.events[e.ID] = &clone
	return nil
}

func (r eventRepo) Update(_ context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; !ok {
		return domain.ErrEventNotFound
	}
	clone := *e
	r.events[e.ID] = &clone
	return nil
}

func (r eventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	for k, reg := range r.regs {
		if reg.EventID == id {
			delete(r.regs, k)
		}
	}
	for k, c := range r.certs {
		if c.EventID == id {
			delete(r.certs, k)
		}
	}
	return nil
}

func (r eventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	clone := *e
	return &clone, nil
}

func (r eventRepo) FindSummary(ctx context.Context, id string) (*domain.EventSummary, error) {
	e, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.EventSummary{Event: *e, Registered: r.registrationCount(id)}, nil
}

func (r eventRepo) List(_ context.Context, f domain.EventFilter) ([]domain.EventSummary, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.EventSummary
	for _, e := range r.events {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, domain.EventSummary{Event: *e, Registered: r.countRegs(e.ID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, int64(len(out)), nil
}

func (r eventRepo) ListEndedBefore(_ context.Context, day time.Time) ([]domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, e := range r.events {
		if domain.Day(e.EndDate).Before(day) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type regRepo struct{ *memStore }

func (r regRepo) CreateWithinCapacity(_ context.Context, reg *domain.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[reg.EventID]
	if !ok {
		return domain.ErrEventNotFound
	}
	if _, dup := r.regs[regKey(reg.UserID, reg.EventID)]; dup {
		return domain.ErrDuplicateRegistration
	}
	if r.countRegs(reg.EventID) >= event.Capacity {
		return domain.ErrCapacityExceeded
	}
	reg.ID = r.nextID("reg")
	clone := *reg
	r.regs[regKey(reg.UserID, reg.EventID)] = &clone
	return nil
}

func (r regRepo) Delete(_ context.Context, userID, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := regKey(userID, eventID)
	if _, ok := r.regs[k]; !ok {
		return domain.ErrRegistrationNotFound
	}
	delete(r.regs, k)
	return nil
}

func (r regRepo) Find(_ context.Context, userID, eventID string) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[regKey(userID, eventID)]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	clone := *reg
	return &clone, nil
}

func (r regRepo) SetPresence(_ context.Context, userID, eventID string, confirmed bool) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[regKey(userID, eventID)]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	reg.PresenceConfirmed = confirmed
	clone := *reg
	return &clone, nil
}

func (r regRepo) filter(keep func(*domain.Registration) bool) []domain.Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Registration
	for _, reg := range r.regs {
		if keep(reg) {
			out = append(out, *reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (r regRepo) ListByUser(_ context.Context, userID string) ([]domain.Registration, error) {
	return r.filter(func(reg *domain.Registration) bool { return reg.UserID == userID }), nil
}

func (r regRepo) ListByEvent(_ context.Context, eventID string) ([]domain.Registration, error) {
	return r.filter(func(reg *domain.Registration) bool { return reg.EventID == eventID }), nil
}

func (r regRepo) ListConfirmed(_ context.Context, eventID string) ([]domain.Registration, error) {
	return r.filter(func(reg *domain.Registration) bool {
		return reg.EventID == eventID && reg.PresenceConfirmed
	}), nil
}

type certRepo struct{ *memStore }

func (r certRepo) Exists(_ context.Context, userID, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.certs {
		if c.UserID == userID && c.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (r certRepo) Create(ctx context.Context, c *domain.Certificate) error {
	if exists, _ := r.Exists(ctx, c.UserID, c.EventID); exists {
		return domain.ErrCertificateExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID("cert")
	clone := *c
	r.certs[c.ID] = &clone
	return nil
}

func (r certRepo) FindByID(_ context.Context, id string) (*domain.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.certs[id]
	if !ok {
		return nil, domain.ErrCertificateNotFound
	}
	clone := *c
	return &clone, nil
}

func (r certRepo) ListByUser(_ context.Context, userID string) ([]domain.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Certificate
	for _, c := range r.certs {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type recordedAudit struct {
	Actor       *domain.User
	Action      domain.AuditAction
	Description string
	IP          string
}

type stubAudit struct {
	mu      sync.Mutex
	entries []recordedAudit
}

func (a *stubAudit) Record(_ context.Context, actor *domain.User, action domain.AuditAction, description, ip string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, recordedAudit{Actor: actor, Action: action, Description: description, IP: ip})
}

func (a *stubAudit) List(context.Context, domain.AuditFilter) ([]domain.AuditLog, int64, error) {
	return nil, 0, nil
}

func (a *stubAudit) byAction(action domain.AuditAction) []recordedAudit {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []recordedAudit
	for _, e := range a.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type stubBlobStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	saveErr error
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{files: make(map[string][]byte)}
}

func (b *stubBlobStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if b.saveErr != nil {
		return "", b.saveErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[name] = append([]byte(nil), data...)
	return "mem://" + name, nil
}

func (b *stubBlobStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.files[strings.TrimPrefix(ref, "mem://")]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// stubRenderer fails for participants listed in failFor.
type stubRenderer struct {
	failFor map[string]bool
}

func (r *stubRenderer) Render(d domain.CertificateData) ([]byte, error) {
	if r.failFor[d.ParticipantName] {
		return nil, errors.New("template exploded")
	}
	return []byte(fmt.Sprintf("%s attended %s", d.ParticipantName, d.EventTitle)), nil
}

type stubSigner struct {
	unsignErr error
}

func (s *stubSigner) Sign(payload string) (string, error) { return "signed." + payload, nil }

func (s *stubSigner) Unsign(token string, _ time.Duration) (string, error) {
	if s.unsignErr != nil {
		return "", s.unsignErr
	}
	if !strings.HasPrefix(token, "signed.") {
		return "", domain.ErrTokenInvalid
	}
	return strings.TrimPrefix(token, "signed."), nil
}

type stubMailQueue struct {
	sent []ports.MailMessage
}

func (q *stubMailQueue) Enqueue(msg ports.MailMessage) { q.sent = append(q.sent, msg) }

type stubLock struct {
	held     bool
	released int
}

func (l *stubLock) Acquire(context.Context) (string, bool, error) {
	if l.held {
		return "", false, nil
	}
	l.held = true
	return "stub-token", true, nil
}

func (l *stubLock) Release(_ context.Context, token string) error {
	if token != "stub-token" {
		return errors.New("unknown lock token")
	}
	l.held = false
	l.released++
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func day(offset int) time.Time { return domain.Day(fixedNow).AddDate(0, 0, offset) }
