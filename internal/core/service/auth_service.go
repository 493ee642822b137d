package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/trackly/project-tracker/internal/core/async"
	"github.com/trackly/project-tracker/internal/core/domain"
	"github.com/trackly/project-tracker/internal/core/persistence"
)

const (
	keyAuthToken   = "auth_token"
	keyCurrentUser = "current_user"

	// DefaultLoginLatency is the simulated round trip of a login call.
	DefaultLoginLatency = time.Second

	subscriberBuffer = 8
)

// AuthService is the session state machine. It is either Anonymous or
// Authenticated(user); every transition is persisted and published.
type AuthService struct {
	adapter     *persistence.Adapter
	credentials []domain.Credential
	secret      []byte
	latency     time.Duration
	log         zerolog.Logger

	mu    sync.RWMutex
	user  *domain.User
	token string

	subMu   sync.Mutex
	subs    map[int]chan domain.SessionEvent
	nextSub int
}

// AuthOptions tunes an AuthService. Nil Credentials select the seed table and
// an empty TokenSecret a random per-process key.
type AuthOptions struct {
	Credentials []domain.Credential
	TokenSecret string
	Latency     time.Duration
}

// NewAuthService constructs the session manager and rehydrates it from
// storage. A corrupt stored session is cleared and the service starts
// Anonymous; only storage failures are returned.
func NewAuthService(ctx context.Context, adapter *persistence.Adapter, opts AuthOptions, log zerolog.Logger) (*AuthService, error) {
	creds := opts.Credentials
	if creds == nil {
		var err error
		if creds, err = SeedCredentials(); err != nil {
			return nil, err
		}
	}
	latency := opts.Latency
	if latency < 0 {
		latency = 0
	}
	secret := []byte(opts.TokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("token secret: %w", err)
		}
	}

	s := &AuthService{
		adapter:     adapter,
		credentials: creds,
		secret:      secret,
		latency:     latency,
		log:         log,
		subs:        make(map[int]chan domain.SessionEvent),
	}
	if err := s.rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AuthService) rehydrate(ctx context.Context) error {
	var token string
	tokenFound, tokenErr := s.adapter.Decode(ctx, keyAuthToken, &token)
	var user domain.User
	userFound, userErr := s.adapter.Decode(ctx, keyCurrentUser, &user)

	for _, err := range []error{tokenErr, userErr} {
		if err != nil && !errors.Is(err, persistence.ErrMalformed) {
			return fmt.Errorf("rehydrate session: %w", err)
		}
	}

	corrupt := errors.Is(tokenErr, persistence.ErrMalformed) || errors.Is(userErr, persistence.ErrMalformed)
	if !corrupt && tokenFound && userFound && (token == "" || user.ID == 0) {
		corrupt = true
	}

	switch {
	case corrupt:
		s.log.Warn().
			Err(domain.NewCorruptStateError(errors.Join(tokenErr, userErr))).
			Msg("stored session is corrupt, logging out")
		return s.clearStored(ctx)
	case tokenFound && userFound:
		s.user, s.token = &user, token
		s.log.Info().Int64("user_id", user.ID).Msg("session restored")
	default:
		s.log.Debug().Msg("no stored session")
	}
	return nil
}

// Login validates email and password against the credential table. Matching
// is exact and case-sensitive. A mismatch rejects immediately and leaves the
// session untouched; a match persists the session and resolves after the
// simulated latency.
func (s *AuthService) Login(ctx context.Context, email, password string) *async.Future[domain.LoginResponse] {
	cred, ok := s.match(email, password)
	if !ok {
		s.log.Info().Msg("login rejected")
		return async.Rejected[domain.LoginResponse](domain.NewAuthenticationError())
	}

	user := cred.User()
	token, err := s.mintToken(user)
	if err != nil {
		return async.Rejected[domain.LoginResponse](domain.NewUnavailableError(err))
	}

	if err := s.adapter.Write(ctx, keyAuthToken, token); err != nil {
		s.log.Error().Err(err).Msg("persist token failed")
		return async.Rejected[domain.LoginResponse](domain.NewUnavailableError(err))
	}
	if err := s.adapter.Write(ctx, keyCurrentUser, user); err != nil {
		s.log.Error().Err(err).Msg("persist user failed")
		_ = s.adapter.Remove(ctx, keyAuthToken)
		return async.Rejected[domain.LoginResponse](domain.NewUnavailableError(err))
	}

	s.transition(&user, token)
	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")

	return async.After(s.latency, domain.APIResponse[domain.LoginResponse]{
		Status:  http.StatusOK,
		Data:    domain.LoginResponse{User: user, Token: token},
		Message: "Login successful",
	}, nil)
}

// Logout clears the stored session and moves to Anonymous. The in-memory
// state is reset even when storage fails.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.clearStored(ctx)
	s.transition(nil, "")
	s.log.Info().Msg("logged out")
	return err
}

func (s *AuthService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// CurrentUser returns a copy of the session user, or nil when Anonymous.
func (s *AuthService) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the opaque session token, empty when Anonymous.
func (s *AuthService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers for session transitions. Events are dropped for a
// subscriber whose buffer is full.
func (s *AuthService) Subscribe() (<-chan domain.SessionEvent, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.SessionEvent, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *AuthService) transition(user *domain.User, token string) {
	s.mu.Lock()
	wasAuthenticated := s.user != nil
	s.user, s.token = user, token
	s.mu.Unlock()

	if !wasAuthenticated && user == nil {
		return
	}
	ev := domain.SessionEvent{Authenticated: user != nil}
	if user != nil {
		u := *user
		ev.User = &u
	}
	s.publish(ev)
}

func (s *AuthService) publish(ev domain.SessionEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.log.Warn().Int("subscriber", id).Msg("session subscriber is full, dropping event")
		}
	}
}

func (s *AuthService) clearStored(ctx context.Context) error {
	return errors.Join(
		s.adapter.Remove(ctx, keyAuthToken),
		s.adapter.Remove(ctx, keyCurrentUser),
	)
}

func (s *AuthService) match(email, password string) (domain.Credential, bool) {
	for _, c := range s.credentials {
		if c.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) == nil {
			return c, true
		}
	}
	return domain.Credential{}, false
}

// mintToken produces an opaque token that is unique per call. It is shaped as
// a JWT but nothing in the tracker ever verifies it.
func (s *AuthService) mintToken(user domain.User) (string, error) {
	jti, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("token id: %w", err)
	}
	claims := jwt.MapClaims{
		"sub":   fmt.Sprint(user.ID),
		"email": user.Email,
		"role":  string(user.Role),
		"jti":   jti.String(),
		"iat":   time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
