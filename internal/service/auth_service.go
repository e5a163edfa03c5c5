package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload embedded in issued credentials. Email is the
// identity every ownership check binds against.
type Claims struct {
	Email string          `json:"email"`
	Role  entity.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Issue produces a signed credential for an existing account. Unknown
	// emails fail closed with ErrForbidden.
	Issue(ctx context.Context, email string) (string, error)
	// Verify validates a presented credential and returns its claims.
	Verify(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	log      logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, secret string, ttl time.Duration, log logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		log:      log,
	}
}

func (s *authService) Issue(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Token requested for unknown email %s", email)
			return "", ErrForbidden
		}
		return "", fmt.Errorf("failed to look up account for token issuance: %w", err)
	}

	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Infof("Issued credential for %s", user.Email)
	return signed, nil
}

func (s *authService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.log.Warn("Expired credential presented")
		}
		return nil, ErrForbidden
	}
	if !token.Valid {
		return nil, ErrForbidden
	}
	if claims.Email == "" {
		return nil, ErrForbidden
	}

	return claims, nil
}
