package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/dlsistemas/comisiones/internal/auth/domain"
	"github.com/dlsistemas/comisiones/internal/clock"
	"github.com/dlsistemas/comisiones/internal/config"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Params struct {
	fx.In

	Cfg    config.Config
	Holder *config.CommissionConfigHolder
	Log    *zap.Logger
	Clock  clock.Clock
}

type Service struct {
	cfg    config.Config
	holder *config.CommissionConfigHolder
	log    *zap.Logger
	clock  clock.Clock

	mu       sync.Mutex
	failures int
	lockedAt time.Time
	sessions map[string]time.Time
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Cfg,
		holder:   p.Holder,
		log:      p.Log.Named("auth.service"),
		clock:    p.Clock,
		sessions: make(map[string]time.Time),
	}
}

func (s *Service) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	cfg := s.holder.Get()
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lockedAt.IsZero() {
		if now.Sub(s.lockedAt) < cfg.LockoutDuration {
			return nil, domain.ErrLockedOut
		}
		s.lockedAt = time.Time{}
		s.failures = 0
	}

	if !s.checkCredentials(username, password) {
		s.failures++
		if s.failures >= cfg.LockoutMaxAttempts {
			s.lockedAt = now
			s.log.Warn("login locked out", zap.Int("failures", s.failures))
		}
		return nil, domain.ErrInvalidCredentials
	}

	s.failures = 0
	session := &domain.Session{
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(cfg.SessionTTL),
	}
	s.sessions[session.Token] = session.ExpiresAt
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *Service) Validate(ctx context.Context, token string) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if s.clock.Now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

func (s *Service) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AuthUsername)) == 1

	if s.cfg.AuthPasswordHash != "" {
		return userOK && bcrypt.CompareHashAndPassword([]byte(s.cfg.AuthPasswordHash), []byte(password)) == nil
	}
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AuthPassword)) == 1
	return userOK && passOK
}
