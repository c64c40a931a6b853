package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/upb/lms-dashboard/credstore"
	"github.com/upb/lms-dashboard/token"
	"go.uber.org/zap"
)

// Authenticator is the backend's login/logout surface.
type Authenticator interface {
	// Login exchanges an identifier and password for a credential.
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	// Logout tells the backend the current credential is no longer used.
	Logout(ctx context.Context) error
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager derives the session from the credential store and keeps the two
// consistent.
type Manager struct {
	store  credstore.Store
	auth   Authenticator
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	snapshot Snapshot
	// paired is the record the snapshot's identity was built from
	paired credstore.Record

	hydrateOnce sync.Once

	subMu       sync.Mutex
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// NewManager creates a Manager in the Initializing state. Call Hydrate
// before trusting any access decision.
func NewManager(store credstore.Store, auth Authenticator, logger *zap.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		auth:        auth,
		logger:      logger,
		now:         time.Now,
		snapshot:    Snapshot{Status: Initializing},
		subscribers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Hydrate reads the credential store once and moves the manager to Ready.
// Failures degrade to "no identity"; Hydrate never panics outward.
func (m *Manager) Hydrate() {
	m.hydrateOnce.Do(func() {
		var (
			identity *Identity
			rec      credstore.Record
		)
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("hydration panicked, continuing signed out", zap.Any("panic", r))
				m.store.Clear()
				identity, rec = nil, credstore.Record{}
			}
			m.mu.Lock()
			m.paired = rec
			m.mu.Unlock()
			m.publish(Snapshot{Status: Ready, Identity: identity})
		}()

		identity, rec = m.hydrate()
	})
}

func (m *Manager) hydrate() (*Identity, credstore.Record) {
	rec, ok := m.store.Get()
	if !ok {
		m.logger.Debug("no stored credential")
		return nil, credstore.Record{}
	}

	identity, err := m.identityFrom(rec)
	if err != nil {
		m.logger.Info("discarding stored credential", zap.Error(err))
		m.store.Clear()
		return nil, credstore.Record{}
	}

	m.logger.Info("session restored",
		zap.String("user_id", identity.ID),
		zap.String("role", string(identity.Role)))
	return identity, rec
}

// Login authenticates against the backend. On success the credential and
// its attributes are persisted and the session gains an identity. On a
// rejected login the store and the session are left exactly as they were.
// If the store fails to keep the new credential, the prior session survives
// only while the store still holds its record.
func (m *Manager) Login(ctx context.Context, identifier, password string) (*Identity, error) {
	res, err := m.auth.Login(ctx, identifier, password)
	if err != nil {
		m.logger.Warn("login failed", zap.String("identifier", identifier), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLoginRejected, err)
	}

	rec := credstore.Record{
		Credential: res.AccessToken,
		Attributes: credstore.Attributes{
			Role:           string(res.Role),
			ID:             res.ID,
			ProfilePicture: res.ProfilePicture,
		},
	}

	identity, err := m.identityFrom(rec)
	if err != nil {
		m.logger.Warn("login returned an unusable credential", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrLoginRejected, err)
	}

	m.mu.Lock()
	m.store.Put(rec)
	if stored, ok := m.store.Get(); !ok || stored != rec {
		snap, changed := m.unpairLocked()
		m.mu.Unlock()

		m.logger.Error("login not persisted", zap.Bool("session_ended", changed))
		if changed {
			m.notify(snap)
		}
		return nil, fmt.Errorf("%w: %w", ErrLoginRejected, ErrNotPersisted)
	}
	m.paired = rec
	m.snapshot = Snapshot{Status: Ready, Identity: identity}
	snap := m.snapshot
	m.mu.Unlock()

	m.logger.Info("logged in",
		zap.String("user_id", identity.ID),
		zap.String("role", string(identity.Role)))
	m.notify(snap)

	return identity, nil
}

// Logout notifies the backend when a credential is stored, then tears the
// session down regardless of the outcome. Calling it repeatedly is safe.
func (m *Manager) Logout(ctx context.Context) {
	if _, ok := m.store.Get(); ok {
		if err := m.auth.Logout(ctx); err != nil {
			m.logger.Warn("logout notification failed", zap.Error(err))
		}
	}
	m.teardown("logout")
}

// ForceInvalidate tears the session down without contacting the backend.
// It is used when the backend itself has already rejected the credential.
func (m *Manager) ForceInvalidate(reason string) {
	m.teardown(reason)
}

// Snapshot returns the current session. An identity whose credential has
// expired since it was established is dropped before returning.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	snap := m.snapshot
	m.mu.RUnlock()

	// ExpiresAt has whole-second resolution, so this matches token.IsExpired.
	if snap.Identity != nil && !snap.Identity.ExpiresAt.After(m.now()) {
		m.expire(snap.Identity)
		return m.current()
	}
	return snap
}

// Subscribe registers fn to receive every session change. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.subMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subscribers, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) current() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// teardown clears the store and the identity. The store is cleared while
// holding the lock so no reader can pair a stale identity with it.
func (m *Manager) teardown(reason string) {
	m.mu.Lock()
	m.store.Clear()
	had := m.snapshot.Identity != nil
	m.paired = credstore.Record{}
	m.snapshot = Snapshot{Status: Ready}
	snap := m.snapshot
	m.mu.Unlock()

	if !had {
		return
	}
	m.logger.Info("session ended", zap.String("reason", reason))
	m.notify(snap)
}

// expire tears the session down only if stale is still the current identity,
// so a login that raced with the expiry check is kept.
func (m *Manager) expire(stale *Identity) {
	m.mu.Lock()
	if m.snapshot.Identity != stale {
		m.mu.Unlock()
		return
	}
	m.store.Clear()
	m.paired = credstore.Record{}
	m.snapshot = Snapshot{Status: Ready}
	snap := m.snapshot
	m.mu.Unlock()

	m.logger.Info("session ended", zap.String("reason", "expired"))
	m.notify(snap)
}

// unpairLocked restores the pairing of store and session after a failed
// write. If the store still holds the record behind the current identity,
// nothing changes; otherwise both are emptied. m.mu must be held.
func (m *Manager) unpairLocked() (Snapshot, bool) {
	if stored, ok := m.store.Get(); ok && m.snapshot.Identity != nil && stored == m.paired {
		return m.snapshot, false
	}
	m.store.Clear()
	had := m.snapshot.Identity != nil
	m.paired = credstore.Record{}
	m.snapshot = Snapshot{Status: Ready}
	return m.snapshot, had
}

func (m *Manager) publish(snap Snapshot) {
	m.mu.Lock()
	m.snapshot = snap
	m.mu.Unlock()
	m.notify(snap)
}

func (m *Manager) notify(snap Snapshot) {
	m.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (m *Manager) identityFrom(rec credstore.Record) (*Identity, error) {
	claims, err := token.Decode(rec.Credential)
	if err != nil {
		return nil, err
	}
	if token.IsExpired(claims, m.now()) {
		return nil, fmt.Errorf("%w at %s", ErrExpired, claims.ExpiryTime().UTC().Format(time.RFC3339))
	}
	if role := Role(rec.Attributes.Role); !role.Valid() {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidAttributes, rec.Attributes.Role)
	}
	if rec.Attributes.ID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidAttributes)
	}

	return &Identity{
		ID:             rec.Attributes.ID,
		Role:           Role(rec.Attributes.Role),
		Subject:        claims.Subject,
		ExpiresAt:      claims.ExpiryTime(),
		ProfilePicture: rec.Attributes.ProfilePicture,
		Claims:         claims.Attributes,
	}, nil
}
