package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/arklim/selfstudy-web/internal/core/domain"
	"github.com/arklim/selfstudy-web/internal/core/port"
	"github.com/arklim/selfstudy-web/internal/infra/logger"
	"github.com/arklim/selfstudy-web/internal/infra/security"
	"github.com/arklim/selfstudy-web/internal/upstream"
)

var (
	// ErrNotAuthenticated indicates no usable credential pair is present.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredentials indicates the platform rejected the email or
	// password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionExpired indicates the platform rejected the stored
	// credentials; the pair has been cleared.
	ErrSessionExpired = errors.New("session expired")
)

// SessionService is the single writer of the credential pair and the owner of
// the login state machine: anonymous -> authenticating -> authenticated ->
// anonymous (on logout or a platform 401).
type SessionService struct {
	store    port.SessionStore
	tokens   port.TokenExchanger
	accounts port.AccountRepository
	log      *zap.Logger

	mu    sync.Mutex
	state domain.SessionState
}

// NewSessionService constructs the session service. A stored pair from a
// previous run resumes the authenticated state.
func NewSessionService(store port.SessionStore, tokens port.TokenExchanger, accounts port.AccountRepository, log *zap.Logger) *SessionService {
	if log == nil {
		log = zap.NewNop()
	}

	state := domain.SessionAnonymous
	if store.Authenticated() {
		state = domain.SessionAuthenticated
	}

	return &SessionService{
		store:    store,
		tokens:   tokens,
		accounts: accounts,
		log:      log,
		state:    state,
	}
}

// State returns the current state machine position.
func (s *SessionService) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SessionService) setState(state domain.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Authenticated reports whether an access credential is stored.
func (s *SessionService) Authenticated() bool {
	return s.store.Authenticated()
}

// Login runs the authenticating transition. On success the pair is persisted
// atomically; on failure nothing is retained and the state returns to
// anonymous.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return ErrInvalidCredentials
	}

	s.setState(domain.SessionAuthenticating)

	pair, err := s.tokens.ObtainToken(ctx, email, password)
	if err != nil {
		s.setState(domain.SessionAnonymous)
		if errors.Is(err, upstream.ErrUnauthorized) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("obtain token: %w", err)
	}
	if !pair.Complete() {
		s.setState(domain.SessionAnonymous)
		return fmt.Errorf("obtain token: platform returned a partial credential pair")
	}

	if err := s.store.Set(pair.Access, pair.Refresh); err != nil {
		s.setState(domain.SessionAnonymous)
		return fmt.Errorf("persist credentials: %w", err)
	}

	s.setState(domain.SessionAuthenticated)
	s.log.Info("login succeeded", zap.String("email", logger.MaskEmail(email)))
	return nil
}

// Logout clears the pair and returns to anonymous. Idempotent.
func (s *SessionService) Logout() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	s.setState(domain.SessionAnonymous)
	return nil
}

// Expire is the uniform reaction to a platform 401: the pair is cleared and
// the state machine drops to anonymous. Safe to call repeatedly.
func (s *SessionService) Expire() {
	if err := s.store.Clear(); err != nil {
		s.log.Warn("failed to clear credentials on expiry", zap.Error(err))
	}
	s.setState(domain.SessionAnonymous)
}

// RefreshAccess exchanges the refresh credential for a new access credential,
// replacing the stored pair as a whole.
func (s *SessionService) RefreshAccess(ctx context.Context) error {
	refresh, ok := s.store.Refresh()
	if !ok {
		return ErrNotAuthenticated
	}

	access, err := s.tokens.RefreshToken(ctx, refresh)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			s.Expire()
			return ErrSessionExpired
		}
		return fmt.Errorf("refresh token: %w", err)
	}

	if err := s.store.Set(access, refresh); err != nil {
		return fmt.Errorf("persist refreshed credentials: %w", err)
	}
	return nil
}

// Identity resolves the caller identity from the stored access credential.
// A missing role claim falls back to the profile, the authoritative source.
// A malformed credential reads as unauthenticated, never as a failure that
// could crash a view.
func (s *SessionService) Identity(ctx context.Context) (domain.Identity, error) {
	access, ok := s.store.Access()
	if !ok {
		return domain.Identity{}, ErrNotAuthenticated
	}

	claims, err := security.ParseAccessClaims(access)
	if err != nil {
		s.log.Debug("stored access credential is undecodable", zap.Error(err))
		return domain.Identity{}, ErrNotAuthenticated
	}

	identity := claims.Identity()
	if identity.Role != "" {
		return identity, nil
	}

	profile, err := s.accounts.Me(ctx)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("resolve role from profile: %w", err)
	}
	identity.Role = profile.Role
	return identity, nil
}
