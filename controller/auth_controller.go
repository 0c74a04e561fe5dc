package controller

import (
	"context"
	"net/http"

	"b2bconnect-backend/middelware"
	"b2bconnect-backend/models"
	"b2bconnect-backend/services"
	"b2bconnect-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	ctx        context.Context
	auth       services.AuthServiceInterface
	jwtManager *middelware.JWTManager
	config     *models.Config
	logger     logger.Logger
}

func NewAuthController(ctx context.Context, auth services.AuthServiceInterface, jwtManager *middelware.JWTManager, cfg *models.Config, log logger.Logger) *AuthController {
	return &AuthController{
		ctx:        ctx,
		auth:       auth,
		jwtManager: jwtManager,
		config:     cfg,
		logger:     log,
	}
}

// Register handles POST /api/v1/auth
// @Summary Register a new account
// @Description Create an account from email, password and name
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.RegisterResponse "Account created"
// @Failure 400 {object} models.ErrorResponse "Invalid registration data"
// @Failure 429 {object} models.ErrorResponse "Too many requests"
// @Router /auth [post]
func (h *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind registration body:", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warnf("Registration rejected for %s: %v", req.Email, err)
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.RegisterResponse{
		UID:         user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Success:     true,
	})
}

// Login handles PUT /api/v1/auth
// @Summary Sign in
// @Description Authenticate with email and password, returns a bearer token and sets the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} map[string]interface{} "access_token, user and success flag"
// @Failure 400 {object} models.ErrorResponse "Invalid login data"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Failure 429 {object} models.ErrorResponse "Account locked or too many requests"
// @Router /auth [put]
func (h *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind login body:", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		h.logger.Error("Failed to issue token:", err)
		fail(c, err)
		return
	}

	// Browser clients ride on the cookie, API clients on the header
	maxAge := int(h.config.JWTExpiresIn.Seconds())
	c.SetCookie(h.config.SessionCookieName, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"user":         user,
		"success":      true,
	})
}

// ResetPassword handles PATCH /api/v1/auth
// @Summary Request a password reset
// @Description Always responds with success so account existence is not disclosed
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.ResetPasswordRequest true "Reset request"
// @Success 200 {object} models.SuccessResponse "Reset initiated"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Router /auth [patch]
func (h *AuthController) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind reset body:", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), &req); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "if the account exists, a reset email has been sent",
	})
}

// Logout handles POST /api/v1/auth/logout
// @Summary Sign out
// @Description Revoke the current token and clear the session cookie
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.SuccessResponse "Logged out"
// @Failure 401 {object} models.ErrorResponse "Not authenticated"
// @Router /auth/logout [post]
func (h *AuthController) Logout(c *gin.Context) {
	claims, exists := c.Get("jwt_claims")
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "not authenticated"})
		return
	}

	jwtClaims, ok := claims.(*models.JWTClaims)
	if !ok {
		h.logger.Error("Unexpected claims type in context")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
		return
	}

	h.jwtManager.RevokeToken(jwtClaims.ID, jwtClaims.ExpiresAt.Time)
	c.SetCookie(h.config.SessionCookieName, "", -1, "/", "", false, true)

	h.logger.Debugf("User %s logged out", jwtClaims.UserID)
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// TokenValidationRequest is the body for POST /auth/validate
type TokenValidationRequest struct {
	Token string `json:"token" binding:"required"`
}

// ValidateToken handles POST /api/v1/auth/validate
// @Summary Validate a bearer token
// @Description Check a token and return the identity embedded in it
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body TokenValidationRequest true "Token to validate"
// @Success 200 {object} map[string]interface{} "Token claims"
// @Failure 400 {object} models.ErrorResponse "Missing token"
// @Failure 401 {object} models.ErrorResponse "Invalid or expired token"
// @Router /auth/validate [post]
func (h *AuthController) ValidateToken(c *gin.Context) {
	var req TokenValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "token is required"})
		return
	}

	claims, err := h.jwtManager.ValidateToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid or expired token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      claims.UserID,
		"email":        claims.Email,
		"display_name": claims.DisplayName,
		"expires_at":   claims.ExpiresAt.Time,
		"success":      true,
	})
}
