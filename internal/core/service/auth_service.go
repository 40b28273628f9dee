package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fintrack/fintrack/internal/core/domain"
	"github.com/fintrack/fintrack/internal/core/ports"
	"github.com/fintrack/fintrack/internal/token"
)

const minPasswordLength = 8

// LoginThrottle abstracts the failed-attempt limiter (Redis).
type LoginThrottle interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// ActivityRecorder accepts auth activity events for asynchronous persistence.
type ActivityRecorder interface {
	Record(event domain.ActivityEvent)
}

// dummyHash is compared against when the identifier is unknown, so that an
// unknown email and a wrong password take the same time to reject.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("fintrack.equalizer"), bcrypt.DefaultCost)

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.AuthRepository
	codec    *token.Codec
	tokenTTL time.Duration
	throttle LoginThrottle    // optional
	activity ActivityRecorder // optional
	log      zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, codec *token.Codec, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, codec: codec, tokenTTL: tokenTTL, log: log}
}

// WithThrottle enables the failed-attempt limiter.
func (s *AuthService) WithThrottle(t LoginThrottle) *AuthService {
	s.throttle = t
	return s
}

// WithActivity enables the activity trail.
func (s *AuthService) WithActivity(a ActivityRecorder) *AuthService {
	s.activity = a
	return s
}

func (s *AuthService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.record(email, domain.ActivityRegistered)
	return created, nil
}

// Login verifies the credential and mints a session token. The server keeps
// no record of issued tokens; the token itself is the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyAttempts(ctx, email)
		if err != nil {
			// Fail open: a limiter outage must not lock everyone out.
			s.log.Warn().Err(err).Msg("login throttle check failed")
		} else if blocked {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Burn the same hashing cost as the wrong-password path.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.loginFailed(ctx, email)
		return "", nil, domain.ErrUserNotFound
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.loginFailed(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	raw, err := s.codec.Mint(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID},
		Email:            user.Email,
		Name:             user.Name,
	}, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}
	s.record(email, domain.ActivityLoggedIn)

	return raw, user, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login throttle record failed")
		}
	}
	s.record(email, domain.ActivityLoginFailed)
}

func (s *AuthService) record(email string, kind domain.ActivityKind) {
	if s.activity == nil {
		return
	}
	s.activity.Record(domain.ActivityEvent{
		Email:     email,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
