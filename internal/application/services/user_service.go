package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/shamcart/storefront/internal/core/domain/user"
	"github.com/shamcart/storefront/internal/core/ports"
	"github.com/shamcart/storefront/internal/infrastructure/cache"
)

const (
	verificationTokenTTL = 24 * time.Hour
	passwordResetTTL     = 1 * time.Hour
	ttlUserByID          = 15 * time.Minute
)

// UserService owns account lifecycle: registration, profile updates and the
// email verification / password reset flows. One-time tokens live in the
// cache store under their own TTLs, so they expire without cleanup jobs.
type UserService struct {
	repo         ports.UserRepository
	emailService ports.EmailService
	cache        ports.CacheStore
	logger       *logrus.Logger
}

func NewUserService(repo ports.UserRepository, emailService ports.EmailService, cacheStore ports.CacheStore, logger *logrus.Logger) ports.UserService {
	return &UserService{repo: repo, emailService: emailService, cache: cacheStore, logger: logger}
}

func (s *UserService) Register(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("email '%s' is already taken", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &user.User{
		ID:            uuid.New(),
		Email:         email,
		PasswordHash:  string(hashedPassword),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Phone:         req.Phone,
		City:          req.City,
		Role:          user.RoleCustomer,
		IsActive:      true,
		EmailVerified: false,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sendVerification(ctx, newUser); err != nil {
		// Log but don't fail registration
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": newUser.ID, "email": newUser.Email}).WithError(err).Warn("failed to send verification email")
		}
	}
	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(ctx, newUser); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": newUser.ID}).WithError(err).Warn("failed to send welcome email")
		}
	}
	return newUser, nil
}

// GetUser reads through the by-id key. The cached copy carries no password
// hash (it is excluded from the JSON form), so credential checks always go
// to the repository directly.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if s.cache == nil {
		return s.repo.GetByID(ctx, id)
	}
	raw, err := s.cache.GetOrSet(ctx, cache.UserByID(id.String()), ttlUserByID, func(ctx context.Context) ([]byte, error) {
		u, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return json.Marshal(u)
	})
	if err != nil {
		return nil, err
	}
	var u user.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return s.repo.GetByID(ctx, id)
	}
	return &u, nil
}

func (s *UserService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache != nil {
		s.cache.Delete(ctx, cache.UserByID(id.String()))
	}
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.City != nil {
		u.City = *req.City
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, req *user.ChangePasswordRequest) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hashed)
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// ForgotPassword is deliberately silent about unknown addresses.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil
	}

	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	s.cache.Set(ctx, resetTokenKey(token), []byte(u.ID.String()), passwordResetTTL)

	if s.emailService != nil {
		if err := s.emailService.SendPasswordResetEmail(ctx, u, token); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Error("failed to send password reset email")
			}
			return fmt.Errorf("failed to send password reset email: %w", err)
		}
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, req *user.ResetPasswordRequest) error {
	raw, ok := s.cache.Get(ctx, resetTokenKey(req.Token))
	if !ok {
		return fmt.Errorf("invalid or expired reset token")
	}
	userID, err := uuid.Parse(string(raw))
	if err != nil {
		return fmt.Errorf("invalid or expired reset token")
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("invalid or expired reset token")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hashed)
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	// One-time use.
	s.cache.Delete(ctx, resetTokenKey(req.Token))
	s.invalidate(ctx, u.ID)

	if s.emailService != nil {
		if err := s.emailService.SendPasswordResetSuccessEmail(ctx, u); err != nil && s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Warn("failed to send reset confirmation email")
		}
	}
	return nil
}

func (s *UserService) VerifyEmail(ctx context.Context, token string) (*user.User, error) {
	raw, ok := s.cache.Get(ctx, verifyTokenKey(token))
	if !ok {
		return nil, fmt.Errorf("invalid or expired verification token")
	}
	userID, err := uuid.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid or expired verification token")
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired verification token")
	}

	if !u.EmailVerified {
		u.EmailVerified = true
		if err := s.repo.Update(ctx, u); err != nil {
			return nil, err
		}
		s.invalidate(ctx, u.ID)
	}
	s.cache.Delete(ctx, verifyTokenKey(token))
	return u, nil
}

func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil
	}
	if u.EmailVerified {
		return nil
	}
	return s.sendVerification(ctx, u)
}

func (s *UserService) sendVerification(ctx context.Context, u *user.User) error {
	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}
	s.cache.Set(ctx, verifyTokenKey(token), []byte(u.ID.String()), verificationTokenTTL)
	if s.emailService == nil {
		return nil
	}
	return s.emailService.SendVerificationEmail(ctx, u, token)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func resetTokenKey(token string) string {
	return "user:reset:" + token
}

func verifyTokenKey(token string) string {
	return "user:verify:" + token
}
