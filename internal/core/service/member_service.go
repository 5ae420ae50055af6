package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/qdconsortium/qdw-api/internal/core/domain"
	"github.com/qdconsortium/qdw-api/internal/core/ports"
)

const (
	minPasswordLength = 8
	passwordHashCost  = 10
)

// MemberService implements the member-area auth flows: login, one-time
// set-password, and session re-verification. Sessions are HS256-signed
// expiring tokens rather than bare email lookups.
type MemberService struct {
	repo          ports.RegistrantRepository
	sessionSecret string
	sessionTTL    time.Duration
	log           zerolog.Logger
}

func NewMemberService(repo ports.RegistrantRepository, sessionSecret string, sessionTTL time.Duration, log zerolog.Logger) *MemberService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &MemberService{repo: repo, sessionSecret: sessionSecret, sessionTTL: sessionTTL, log: log}
}

func (s *MemberService) Login(ctx context.Context, email, password string) (string, *domain.MemberProfile, error) {
	if email == "" || password == "" {
		return "", nil, domain.NewValidationError("Email and password are required")
	}

	reg, err := s.repo.FindPaidByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrRegistrantNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if reg.PasswordHash == "" {
		return "", nil, domain.ErrAccountIncomplete
	}

	if bcrypt.CompareHashAndPassword([]byte(reg.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrPasswordMismatch
	}

	token, err := s.issueToken(reg)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("email", reg.Email).Msg("member logged in")
	return token, reg.Profile(), nil
}

func (s *MemberService) SetPassword(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return domain.NewValidationError("Email and password are required")
	}
	if len(password) < minPasswordLength {
		return domain.NewValidationError("Password must be at least 8 characters")
	}

	reg, err := s.repo.FindPaidByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return err
	}

	// One-time operation: there is no reset path.
	if reg.PasswordHash != "" {
		return domain.ErrPasswordAlreadySet
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return err
	}

	if err := s.repo.SetPasswordHash(ctx, reg.ID, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("email", reg.Email).Msg("member password set")
	return nil
}

// Verify validates a session token and re-checks that its subject still maps
// to a paid registrant.
func (s *MemberService) Verify(ctx context.Context, token string) (*domain.MemberProfile, error) {
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.sessionSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidSession
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, domain.ErrInvalidSession
	}

	reg, err := s.repo.FindPaidByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrRegistrantNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	return reg.Profile(), nil
}

func (s *MemberService) issueToken(reg *domain.Registrant) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   reg.ID,
		"email": reg.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.sessionTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.sessionSecret))
}
