package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"b2bconnect-backend/middelware"
	"b2bconnect-backend/models"
	"b2bconnect-backend/services"
	"b2bconnect-backend/utils/logger"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type AuthControllerTestSuite struct {
	suite.Suite
	auth       *MockAuthService
	controller *AuthController
	router     *gin.Engine
}

func (s *AuthControllerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &models.Config{
		AppName:           "b2bconnect",
		JWTSecret:         "test-secret",
		JWTExpiresIn:      time.Hour,
		SessionCookieName: "b2b_session",
	}
	log := logger.NewLogger("error", "text")
	jwtManager := middelware.NewJWTManager(cfg, log, nil)

	s.auth = new(MockAuthService)
	s.controller = NewAuthController(context.Background(), s.auth, jwtManager, cfg, log)

	s.router = gin.New()
	s.router.POST("/auth", s.controller.Register)
	s.router.PUT("/auth", s.controller.Login)
	s.router.PATCH("/auth", s.controller.ResetPassword)
}

func TestAuthControllerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthControllerTestSuite))
}

func (s *AuthControllerTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func (s *AuthControllerTestSuite) TestRegisterCreated() {
	s.auth.On("Register", mock.Anything, mock.AnythingOfType("*models.RegisterRequest")).
		Return(&models.User{ID: "user-1", Email: "jane@example.com", DisplayName: "Jane Doe"}, nil)

	recorder := s.request(http.MethodPost, "/auth", models.RegisterRequest{
		Email:     "jane@example.com",
		Password:  "longenoughpassword",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	s.Equal(http.StatusCreated, recorder.Code)

	var response models.RegisterResponse
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	s.Equal("user-1", response.UID)
	s.Equal("jane@example.com", response.Email)
	s.Equal("Jane Doe", response.DisplayName)
	s.True(response.Success)
}

func (s *AuthControllerTestSuite) TestRegisterWeakPasswordIs400() {
	s.auth.On("Register", mock.Anything, mock.Anything).
		Return(nil, services.ErrWeakPassword)

	recorder := s.request(http.MethodPost, "/auth", models.RegisterRequest{
		Email:     "jane@example.com",
		Password:  "short",
		FirstName: "Jane",
		LastName:  "Doe",
	})

	s.Equal(http.StatusBadRequest, recorder.Code)
	s.Contains(recorder.Body.String(), services.ErrWeakPassword.Error())
}

func (s *AuthControllerTestSuite) TestRegisterMissingFieldsIs400() {
	recorder := s.request(http.MethodPost, "/auth", map[string]string{"email": "jane@example.com"})

	s.Equal(http.StatusBadRequest, recorder.Code)
	s.auth.AssertNotCalled(s.T(), "Register", mock.Anything, mock.Anything)
}

func (s *AuthControllerTestSuite) TestLoginReturnsTokenAndCookie() {
	s.auth.On("Login", mock.Anything, mock.AnythingOfType("*models.LoginRequest")).
		Return(&models.User{ID: "user-1", Email: "jane@example.com", Status: models.UserStatusActive}, nil)

	recorder := s.request(http.MethodPut, "/auth", models.LoginRequest{
		Email:    "jane@example.com",
		Password: "longenoughpassword",
	})

	s.Equal(http.StatusOK, recorder.Code)

	var response map[string]interface{}
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	s.NotEmpty(response["access_token"])
	s.Equal(true, response["success"])

	cookies := recorder.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal("b2b_session", cookies[0].Name)
	s.Equal(response["access_token"], cookies[0].Value)
	s.True(cookies[0].HttpOnly)
}

func (s *AuthControllerTestSuite) TestLoginBadCredentialsIs401() {
	s.auth.On("Login", mock.Anything, mock.Anything).
		Return(nil, services.ErrInvalidCredentials)

	recorder := s.request(http.MethodPut, "/auth", models.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrongpassword",
	})

	s.Equal(http.StatusUnauthorized, recorder.Code)
}

func (s *AuthControllerTestSuite) TestLoginLockedAccountIs429() {
	s.auth.On("Login", mock.Anything, mock.Anything).
		Return(nil, services.ErrTooManyAttempts)

	recorder := s.request(http.MethodPut, "/auth", models.LoginRequest{
		Email:    "jane@example.com",
		Password: "longenoughpassword",
	})

	s.Equal(http.StatusTooManyRequests, recorder.Code)
}

func (s *AuthControllerTestSuite) TestResetPasswordAlwaysSucceeds() {
	s.auth.On("ResetPassword", mock.Anything, mock.Anything).Return(nil)

	recorder := s.request(http.MethodPatch, "/auth", models.ResetPasswordRequest{
		Email: "nobody@example.com",
	})

	s.Equal(http.StatusOK, recorder.Code)

	var response models.SuccessResponse
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	s.True(response.Success)
}
