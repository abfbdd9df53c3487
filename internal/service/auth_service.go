package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcunha12/medstudent/internal/config"
	"github.com/mcunha12/medstudent/internal/domain"
	"github.com/mcunha12/medstudent/internal/dto"
	"github.com/mcunha12/medstudent/internal/logger"
	"github.com/mcunha12/medstudent/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess   = "access"
	minPasswordLength = 8
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService handles accounts and access tokens.
type AuthService interface {
	// Register sets a password on a new account, or on a legacy account that
	// was created before passwords existed.
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, user *domain.User) (string, error)
	// GetOrCreateUser finds an account by email, creating a passwordless one if needed.
	GetOrCreateUser(ctx context.Context, email string) (*domain.User, error)
	AccessTokenTTL() time.Duration
}

type authServiceImpl struct {
	userRepo  domain.UserRepository
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo domain.UserRepository, cfg config.JWTConfig) (AuthService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authServiceImpl{
		userRepo:  userRepo,
		secretKey: []byte(cfg.SecretKey),
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

func (s *authServiceImpl) AccessTokenTTL() time.Duration { return s.ttl }

func (s *authServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, domain.ValidationErrors{{Field: "password", Message: fmt.Sprintf("must have at least %d characters", minPasswordLength)}}
	}
	email = domain.NormalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewInternalError("Failed to hash password", err)
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewStorageError("Failed to look up user", err)
	}
	if existing.HasPassword() {
		return nil, domain.NewConflictError("An account with this email already exists")
	}

	if existing != nil {
		if err := s.userRepo.SetPasswordHash(ctx, existing.ID, string(hash)); err != nil {
			return nil, domain.NewStorageError("Failed to set password", err)
		}
		existing.PasswordHash = string(hash)
		logger.Get().Info("Password attached to legacy account", zap.String("userID", existing.ID))
		return existing, nil
	}

	user := &domain.User{
		ID:           util.NewULID(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, domain.NewStorageError("Failed to create user", err)
	}
	logger.Get().Info("New user registered", zap.String("userID", user.ID))
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	invalid := domain.NewUnauthorizedError("Invalid email or password")
	if email == "" || password == "" {
		return "", nil, invalid
	}

	user, err := s.userRepo.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return "", nil, domain.NewStorageError("Failed to look up user", err)
	}
	if !user.HasPassword() {
		return "", nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, invalid
	}

	token, err := s.CreateJWT(ctx, user)
	if err != nil {
		return "", nil, domain.NewInternalError("Failed to create access token", err)
	}
	return token, user, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	now := s.now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || claims.TokenType != tokenTypeAccess || claims.UserID == "" {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}

func (s *authServiceImpl) GetOrCreateUser(ctx context.Context, email string) (*domain.User, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	email = domain.NormalizeEmail(email)

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewStorageError("Failed to look up user", err)
	}
	if user != nil {
		return user, nil
	}

	user = &domain.User{ID: util.NewULID(), Email: email, CreatedAt: s.now()}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, domain.NewStorageError("Failed to create user", err)
	}
	logger.Get().Info("New passwordless user created", zap.String("userID", user.ID))
	return user, nil
}
