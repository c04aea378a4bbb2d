package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/shamcart/storefront/configs"
	"github.com/shamcart/storefront/internal/core/domain/auth"
	"github.com/shamcart/storefront/internal/core/domain/user"
	"github.com/shamcart/storefront/internal/core/ports"
)

// AuthService issues and validates JWTs. Token revocation (logout) is a
// cache-backed blacklist keyed by token hash, expiring with the token.
type AuthService struct {
	users     ports.UserRepository
	cache     ports.CacheStore
	jwtConfig configs.JWTConfig
	logger    *logrus.Logger
}

func NewAuthService(users ports.UserRepository, cacheStore ports.CacheStore, jwtConfig configs.JWTConfig, logger *logrus.Logger) ports.AuthService {
	return &AuthService{users: users, cache: cacheStore, jwtConfig: jwtConfig, logger: logger}
}

func (s *AuthService) tokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum)
}

func blacklistKey(hash string) string {
	return "auth:blacklist:" + hash
}

func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest) (*auth.TokenPair, *user.User, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}
	if !u.IsActive {
		return nil, nil, fmt.Errorf("account is deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	pair, err := s.generateTokens(u)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	u.LastLoginAt = &now
	if err := s.users.Update(ctx, u); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Warn("auth: failed to record last login")
		}
	}
	return pair, u, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, s.keyFunc)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid refresh token")
	}
	if s.cache.Exists(ctx, blacklistKey(s.tokenHash(refreshToken))) {
		return nil, fmt.Errorf("refresh token revoked")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token")
	}
	if !u.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	// Rotate: the used refresh token is revoked for its remaining lifetime.
	s.revoke(ctx, refreshToken, claims.ExpiresAt)
	return s.generateTokens(u)
}

func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, s.keyFunc)
	if err != nil || !token.Valid {
		return fmt.Errorf("invalid token")
	}
	s.revoke(ctx, accessToken, claims.ExpiresAt)
	return nil
}

func (s *AuthService) ValidateAccessToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims := &auth.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if s.cache.Exists(ctx, blacklistKey(s.tokenHash(tokenString))) {
		return nil, fmt.Errorf("token revoked")
	}
	return claims, nil
}

// keyFunc rejects non-HMAC signing methods before returning the secret.
func (s *AuthService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(s.jwtConfig.Secret), nil
}

func (s *AuthService) generateTokens(u *user.User) (*auth.TokenPair, error) {
	now := time.Now()

	claims := &auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshClaims := jwt.RegisteredClaims{
		Subject:   u.ID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.RefreshTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &auth.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtConfig.AccessTokenTTL.Seconds()),
	}, nil
}

// revoke blacklists a token for its remaining lifetime.
func (s *AuthService) revoke(ctx context.Context, token string, expiresAt *jwt.NumericDate) {
	ttl := s.jwtConfig.RefreshTokenTTL
	if expiresAt != nil {
		ttl = time.Until(expiresAt.Time)
	}
	if ttl <= 0 {
		return
	}
	s.cache.Set(ctx, blacklistKey(s.tokenHash(token)), []byte("1"), ttl)
}
