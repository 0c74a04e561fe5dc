package services

import (
	"context"
	"testing"
	"time"

	"b2bconnect-backend/models"
	"b2bconnect-backend/repository"
	"b2bconnect-backend/utils"
	"b2bconnect-backend/utils/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	service  *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.userRepo = new(MockUserRepository)
	s.service = NewAuthService(s.userRepo, logger.NewLogger("error", "text"))
}

func (s *AuthServiceTestSuite) TestRegisterSuccess() {
	s.userRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(&models.User{
			ID:          "uid-1",
			Email:       "jane@example.com",
			DisplayName: "Jane Doe",
			Status:      models.UserStatusActive,
		}, nil)

	user, err := s.service.Register(context.Background(), &models.RegisterRequest{
		Email:     "Jane@Example.com",
		Password:  "secret123",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	s.NoError(err)
	s.Equal("uid-1", user.ID)
	s.Equal("Jane Doe", user.DisplayName)

	created := s.userRepo.Calls[0].Arguments.Get(1).(*models.User)
	s.Equal("jane@example.com", created.Email)
	s.NotEqual("secret123", created.PasswordHash)
	s.True(utils.CheckPassword(created.PasswordHash, "secret123"))
}

func (s *AuthServiceTestSuite) TestRegisterWeakPassword() {
	_, err := s.service.Register(context.Background(), &models.RegisterRequest{
		Email:     "jane@example.com",
		Password:  "short",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	s.ErrorIs(err, ErrWeakPassword)
	s.userRepo.AssertNotCalled(s.T(), "CreateUser", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestRegisterInvalidEmail() {
	_, err := s.service.Register(context.Background(), &models.RegisterRequest{
		Email:     "not-an-email",
		Password:  "secret123",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	s.ErrorIs(err, ErrInvalidEmail)
}

func (s *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	s.userRepo.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, repository.ErrDuplicateEmail)

	_, err := s.service.Register(context.Background(), &models.RegisterRequest{
		Email:     "jane@example.com",
		Password:  "secret123",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	s.ErrorIs(err, ErrEmailInUse)
}

func (s *AuthServiceTestSuite) TestLoginSuccess() {
	hash, err := utils.HashPassword("secret123")
	s.Require().NoError(err)

	s.userRepo.On("GetUserByEmail", mock.Anything, "jane@example.com").
		Return(&models.User{ID: "uid-1", Email: "jane@example.com", PasswordHash: hash}, nil)
	s.userRepo.On("UpdateUser", mock.Anything, "uid-1", mock.Anything).Return(nil)

	user, err := s.service.Login(context.Background(), &models.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret123",
	})

	s.NoError(err)
	s.Equal("uid-1", user.ID)
	s.Zero(user.FailedLoginAttempts)
	s.NotNil(user.LastLoginAt)
}

func (s *AuthServiceTestSuite) TestLoginUnknownEmail() {
	s.userRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.ErrNotFound)

	_, err := s.service.Login(context.Background(), &models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})

	// Unknown accounts look exactly like bad passwords
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLoginWrongPasswordRecordsAttempt() {
	hash, err := utils.HashPassword("secret123")
	s.Require().NoError(err)

	s.userRepo.On("GetUserByEmail", mock.Anything, "jane@example.com").
		Return(&models.User{ID: "uid-1", Email: "jane@example.com", PasswordHash: hash}, nil)
	s.userRepo.On("UpdateUser", mock.Anything, "uid-1", mock.Anything).Return(nil)

	_, err = s.service.Login(context.Background(), &models.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})

	s.ErrorIs(err, ErrInvalidCredentials)
	s.userRepo.AssertCalled(s.T(), "UpdateUser", mock.Anything, "uid-1",
		map[string]interface{}{"failed_login_attempts": 1})
}

func (s *AuthServiceTestSuite) TestLoginLockedAccount() {
	hash, err := utils.HashPassword("secret123")
	s.Require().NoError(err)

	lockedUntil := time.Now().Add(10 * time.Minute)
	s.userRepo.On("GetUserByEmail", mock.Anything, "jane@example.com").
		Return(&models.User{
			ID:                  "uid-1",
			Email:               "jane@example.com",
			PasswordHash:        hash,
			FailedLoginAttempts: 5,
			AccountLockedUntil:  &lockedUntil,
		}, nil)

	_, err = s.service.Login(context.Background(), &models.LoginRequest{
		Email:    "jane@example.com",
		Password: "secret123",
	})

	// Even the right password is rejected while the lock is in effect
	s.ErrorIs(err, ErrTooManyAttempts)
}

func (s *AuthServiceTestSuite) TestResetPasswordUnknownEmail() {
	s.userRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.ErrNotFound)

	err := s.service.ResetPassword(context.Background(), &models.ResetPasswordRequest{
		Email: "ghost@example.com",
	})

	// Reset never discloses whether the account exists
	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestResetPasswordKnownEmail() {
	s.userRepo.On("GetUserByEmail", mock.Anything, "jane@example.com").
		Return(&models.User{ID: "uid-1", Email: "jane@example.com"}, nil)

	err := s.service.ResetPassword(context.Background(), &models.ResetPasswordRequest{
		Email: "jane@example.com",
	})
	s.NoError(err)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func TestFifthFailedLoginLocksAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := NewAuthService(userRepo, logger.NewLogger("error", "text"))

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	userRepo.On("GetUserByEmail", mock.Anything, "jane@example.com").
		Return(&models.User{
			ID:                  "uid-1",
			Email:               "jane@example.com",
			PasswordHash:        hash,
			FailedLoginAttempts: 4,
		}, nil)
	userRepo.On("UpdateUser", mock.Anything, "uid-1", mock.Anything).Return(nil)

	_, err = service.Login(context.Background(), &models.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	updates := userRepo.Calls[len(userRepo.Calls)-1].Arguments.Get(2).(map[string]interface{})
	assert.Equal(t, 5, updates["failed_login_attempts"])
	assert.Contains(t, updates, "account_locked_until")
}
