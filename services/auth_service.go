package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"b2bconnect-backend/models"
	"b2bconnect-backend/repository"
	"b2bconnect-backend/utils"
	"b2bconnect-backend/utils/logger"
)

// Authentication failures map to HTTP statuses in the controller:
// weak password / email in use -> 400, bad credentials -> 401,
// locked account -> 429.
var (
	ErrWeakPassword       = errors.New("password is too weak")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTooManyAttempts    = errors.New("too many failed login attempts, try again later")
)

const (
	minPasswordLength = 6
	maxFailedLogins   = 5
	lockoutDuration   = 15 * time.Minute
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type AuthService struct {
	userRepo repository.UserRepositoryInterface
	logger   logger.Logger
}

func NewAuthService(userRepo repository.UserRepositoryInterface, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		logger:   log,
	}
}

// Register creates an account and returns the stored user.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := s.validateRegister(req); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.logger.Errorf("Failed to hash password: %v", err)
		return nil, err
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Status:       models.UserStatusActive,
	}
	user.DisplayName = strings.TrimSpace(user.FirstName + " " + user.LastName)

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	return created, nil
}

func (s *AuthService) validateRegister(req *models.RegisterRequest) error {
	if req == nil {
		return invalid("registration request is required")
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		return ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLength {
		return ErrWeakPassword
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return invalid("first name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return invalid("last name is required")
	}
	return nil
}

// Login verifies credentials and returns the user. Failed attempts are
// counted; five in a row lock the account for fifteen minutes.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.AccountLockedUntil != nil && user.AccountLockedUntil.After(time.Now()) {
		return nil, ErrTooManyAttempts
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		s.recordFailedLogin(ctx, user)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	updates := map[string]interface{}{
		"last_login_at":         now,
		"failed_login_attempts": 0,
	}
	if err := s.userRepo.UpdateUser(ctx, user.ID, updates); err != nil {
		// Login still succeeds; the counter reset is best effort.
		s.logger.Warnf("Failed to reset login counter for %s: %v", user.ID, err)
	}
	user.LastLoginAt = &now
	user.FailedLoginAttempts = 0

	return user, nil
}

func (s *AuthService) recordFailedLogin(ctx context.Context, user *models.User) {
	attempts := user.FailedLoginAttempts + 1
	updates := map[string]interface{}{
		"failed_login_attempts": attempts,
	}
	if attempts >= maxFailedLogins {
		updates["account_locked_until"] = time.Now().Add(lockoutDuration)
	}
	if err := s.userRepo.UpdateUser(ctx, user.ID, updates); err != nil {
		s.logger.Warnf("Failed to record failed login for %s: %v", user.ID, err)
	}
}

// ResetPassword kicks off a password reset. The outcome is identical
// whether or not the address has an account, so callers cannot probe for
// registered emails.
func (s *AuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if req == nil || req.Email == "" {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		s.logger.Infof("Password reset requested for unknown email")
		return nil
	}

	// Delivery of the reset mail is out of band; the token is logged for
	// the operator until a mail provider is wired up.
	token := utils.GenerateUUID()
	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
	}).Infof("Password reset token issued: %s", token)

	return nil
}

// GetUserByID loads an account for token validation
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}
