package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bistro-backend/order-svc/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

type AuthConfig struct {
	Secret        string
	AdminEmail    string
	AdminPassword string
	TokenTTL      time.Duration
}

// TokenClaims is the payload the gateway verifies. Customer tokens carry the
// user id; the admin token carries only the admin email.
type TokenClaims struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  UserRepository
	config AuthConfig
	now    func() time.Time
}

func NewAuthService(users UserRepository, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	cfg.AdminEmail = normalizeEmail(cfg.AdminEmail)
	return &AuthService{users: users, config: cfg, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer account. The admin address is reserved.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}
	if s.config.AdminEmail != "" && email == s.config.AdminEmail {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.Validationf("password must be at most 72 bytes")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{Name: name, Email: email, PasswordHash: string(hash)}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	zap.L().Info("user registered", zap.Int64("user_id", u.ID))
	return u, nil
}

// Login never tells an unknown address apart from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(TokenClaims{ID: strconv.FormatInt(u.ID, 10), IsAdmin: u.IsAdmin}, u)
}

// AdminLogin checks the configured operator credentials. Both must match.
func (s *AuthService) AdminLogin(_ context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}
	if s.config.AdminEmail == "" || s.config.AdminPassword == "" {
		return nil, domain.ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.config.AdminEmail))
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.config.AdminPassword))
	if emailOK&passwordOK != 1 {
		zap.L().Warn("admin login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	admin := &domain.User{Name: "Admin", Email: s.config.AdminEmail, IsAdmin: true}
	return s.issue(TokenClaims{Email: admin.Email, IsAdmin: true}, admin)
}

// Profile returns the caller's account. The operator has no stored account
// and is described from the identity alone.
func (s *AuthService) Profile(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	id, err := strconv.ParseInt(caller.UserID, 10, 64)
	if err != nil {
		if caller.IsAdmin {
			return &domain.User{Name: "Admin", Email: caller.UserID, IsAdmin: true}, nil
		}
		return nil, domain.ErrUserNotFound
	}
	return s.users.GetUser(ctx, id)
}

func (s *AuthService) issue(claims TokenClaims, u *domain.User) (*domain.Session, error) {
	if s.config.Secret == "" {
		return nil, errors.New("token signing secret is not configured")
	}

	now := s.now()
	expires := now.Add(s.config.TokenTTL)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.Session{Token: token, ExpiresAt: expires, User: u}, nil
}
