// Package auth implements operator registration, login, and session token
// verification. Sessions are 24h HS256 JWTs; the rest of the API only cares
// whether a valid session is present.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmovs/decanting/internal/domain/models"
	"github.com/farmovs/decanting/internal/repository"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrWeakCredentials indicates a registration payload below the minimums.
var ErrWeakCredentials = errors.New("username or password too short")

const (
	tokenTTL    = 24 * time.Hour
	minUserLen  = 3
	minPassLen  = 8
	bcryptCost  = bcrypt.DefaultCost
	signingAlg  = "HS256"
	storeAccess = 5 * time.Second
)

// Claims is the session token payload.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service implements registration and login against the user store.
type Service struct {
	users  repository.Users
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an auth service signing tokens with the given secret.
func NewService(users repository.Users, secret string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:  users,
		secret: []byte(secret),
		logger: logger,
		now:    time.Now,
	}
}

// Register creates an operator account. Usernames are lowercased and must be
// unique.
func (s *Service) Register(ctx context.Context, username, password string) (models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < minUserLen || len(password) < minPassLen {
		return models.User{}, ErrWeakCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		CreatedAt:    s.now().UTC(),
	}

	opCtx, cancel := context.WithTimeout(ctx, storeAccess)
	defer cancel()

	if err := s.users.InsertUser(opCtx, user); err != nil {
		return models.User{}, err
	}

	s.logger.Info("user registered", zap.String("username", username))
	return user, nil
}

// Login verifies the password and issues a signed session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	opCtx, cancel := context.WithTimeout(ctx, storeAccess)
	defer cancel()

	user, err := s.users.FindUser(opCtx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning its claims.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %q, want %s", token.Method.Alg(), signingAlg)
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
