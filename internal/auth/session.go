// Package auth is the mock session layer: demo accounts, in-memory sessions and
// the request context plumbing that exposes the current viewer.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mathnotes-io/mathnotes/internal/access"
	"github.com/mathnotes-io/mathnotes/internal/tier"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session has expired")
)

type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	Token     string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Viewer is the projection the access gate consumes.
func (s *Session) Viewer() access.Viewer {
	if s == nil {
		return access.Anonymous
	}
	return access.Viewer{Tier: s.User.Tier, Present: true}
}

func (s *Session) clone() *Session {
	c := *s
	if s.User.SubscribedUntil != nil {
		until := *s.User.SubscribedUntil
		c.User.SubscribedUntil = &until
	}
	return &c
}

type Options struct {
	Secret     string
	LoginDelay time.Duration
	SessionTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Manager owns every session. It is the only place sessions are created or
// changed; everything else reads copies.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	demo   map[string]demoAccount
	tokens *TokenManager
	delay  time.Duration
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

func NewManager(opts Options, log zerolog.Logger) (*Manager, error) {
	if opts.Secret == "" {
		return nil, errors.New("auth: empty token secret")
	}
	cost := opts.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	demo, err := newDemoAccounts(cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Manager{
		sessions: make(map[string]*Session),
		demo:     demo,
		tokens:   NewTokenManager(opts.Secret),
		delay:    opts.LoginDelay,
		ttl:      ttl,
		now:      time.Now,
		log:      log.With().Str("component", "sessions").Logger(),
	}, nil
}

// Login waits out the simulated round trip, then signs in. Demo emails need the
// demo password; any other non-empty pair becomes a fresh free account.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if acct, ok := m.demo[strings.ToLower(email)]; ok {
		if !acct.matches(password) {
			m.log.Info().Str("email", email).Msg("demo login rejected")
			return nil, ErrInvalidCredentials
		}
		return m.create(acct.user)
	}

	return m.create(User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  localPart(email),
		Tier:  tier.Free,
	})
}

// Signup always yields a fresh free account for a non-empty email and password.
func (m *Manager) Signup(ctx context.Context, email, password, name string) (*Session, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if name == "" {
		name = localPart(email)
	}

	return m.create(User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Tier:  tier.Free,
	})
}

// Logout ends the session behind token.
func (m *Manager) Logout(token string) error {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[claims.SessionID()]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, claims.SessionID())
	return nil
}

// UpgradeTier changes the tier of the session behind token. Paid tiers get the
// fixed subscription end; free clears it.
func (m *Manager) UpgradeTier(token string, t tier.Tier) (*Session, error) {
	if !t.Valid() {
		return nil, tier.ErrUnknownTier
	}
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.lookupLocked(claims.SessionID())
	if err != nil {
		return nil, err
	}
	s.User = s.User.withTier(t)

	m.log.Info().Str("session", s.ID).Stringer("tier", t).Msg("tier changed")
	return s.clone(), nil
}

// Resolve returns the live session behind token.
func (m *Manager) Resolve(token string) (*Session, error) {
	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	s, err := m.lookupLocked(claims.SessionID())
	if err != nil {
		return nil, err
	}
	return s.clone(), nil
}

// CleanupExpired drops sessions past their expiry and reports how many went.
func (m *Manager) CleanupExpired() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Debug().Int("removed", removed).Msg("expired sessions cleaned up")
	}
	return removed
}

// Len reports the number of stored sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// TTL is the lifetime of new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) lookupLocked(id string) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !m.now().Before(s.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return s, nil
}

func (m *Manager) create(u User) (*Session, error) {
	if u.SubscribedUntil != nil {
		until := *u.SubscribedUntil
		u.SubscribedUntil = &until
	}
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		User:      u,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	token, err := m.tokens.GenerateToken(s)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	s.Token = token

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info().Str("session", s.ID).Str("email", u.Email).Stringer("tier", u.Tier).Msg("session created")
	return s.clone(), nil
}

func (m *Manager) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
