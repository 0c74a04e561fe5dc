package middelware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"b2bconnect-backend/models"
	"b2bconnect-backend/repository"
	"b2bconnect-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager handles JWT token operations
type JWTManager struct {
	Config            *models.Config
	Logger            logger.Logger
	UserRepo          repository.UserRepositoryInterface
	BlacklistedTokens map[string]time.Time // token ID -> expiry, for immediate revocation
	TokenMutex        sync.RWMutex
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *models.Config, log logger.Logger, userRepo repository.UserRepositoryInterface) *JWTManager {
	return &JWTManager{
		Config:            cfg,
		Logger:            log,
		UserRepo:          userRepo,
		BlacklistedTokens: make(map[string]time.Time),
	}
}

// GenerateToken generates a JWT token for a user
func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	claims := models.JWTClaims{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		BusinessID:  user.BusinessID,
		IsAdmin:     user.IsAdmin,
		Status:      user.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    j.Config.AppName,
			Audience:  jwt.ClaimStrings{j.Config.AppName},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.Config.JWTExpiresIn)),
			NotBefore: jwt.NewNumericDate(time.Now()),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(j.Config.JWTSecret))
	if err != nil {
		j.Logger.Errorf("Failed to sign JWT token: %v", err)
		return "", err
	}

	j.Logger.Debugf("Generated JWT token for user: %s", user.ID)
	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims, cross-checking
// the account state in the database.
func (j *JWTManager) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Only HS256; anything else is an algorithm confusion attempt.
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("invalid signing algorithm: %v", method.Alg())
		}
		return []byte(j.Config.JWTSecret), nil
	})
	if err != nil {
		j.Logger.Errorf("Failed to parse JWT token: %v", err)
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	j.TokenMutex.RLock()
	if expiry, exists := j.BlacklistedTokens[claims.ID]; exists && expiry.After(time.Now()) {
		j.TokenMutex.RUnlock()
		return nil, fmt.Errorf("token has been revoked")
	}
	j.TokenMutex.RUnlock()

	if j.UserRepo != nil {
		user, err := j.UserRepo.GetUserByID(context.Background(), claims.UserID)
		if err != nil {
			j.Logger.Errorf("Failed to verify user in database: %v", err)
			return nil, fmt.Errorf("user verification failed")
		}
		if err := j.validateUserStatus(user); err != nil {
			return nil, err
		}
	}

	return claims, nil
}

// validateUserStatus checks if the account is in a usable state
func (j *JWTManager) validateUserStatus(user *models.User) error {
	if user.Status != models.UserStatusActive {
		return fmt.Errorf("user account is %s", user.Status)
	}
	if user.AccountLockedUntil != nil && user.AccountLockedUntil.After(time.Now()) {
		return fmt.Errorf("account is locked until %s", user.AccountLockedUntil.Format(time.RFC3339))
	}
	return nil
}

// RevokeToken blacklists a token ID until its natural expiry (logout)
func (j *JWTManager) RevokeToken(tokenID string, expiry time.Time) {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()
	j.BlacklistedTokens[tokenID] = expiry
	j.Logger.Debugf("Revoked token: %s", tokenID)
}

// CleanupExpiredTokens removes expired entries from the blacklist
func (j *JWTManager) CleanupExpiredTokens() {
	j.TokenMutex.Lock()
	defer j.TokenMutex.Unlock()

	now := time.Now()
	for tokenID, expiry := range j.BlacklistedTokens {
		if expiry.Before(now) {
			delete(j.BlacklistedTokens, tokenID)
		}
	}
}

// extractToken pulls the token from the Authorization header or, failing
// that, the session cookie.
func (j *JWTManager) extractToken(c *gin.Context) (token string, fromCookie bool, err error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", false, fmt.Errorf("authorization header must be in format: Bearer <token>")
		}
		return strings.TrimSpace(parts[1]), false, nil
	}

	cookie, cookieErr := c.Cookie(j.Config.SessionCookieName)
	if cookieErr == nil && cookie != "" {
		return cookie, true, nil
	}

	return "", false, fmt.Errorf("not authenticated")
}

// clearSessionCookie expires the session cookie on the client
func (j *JWTManager) clearSessionCookie(c *gin.Context) {
	c.SetCookie(j.Config.SessionCookieName, "", -1, "/", "", false, true)
}

// AuthMiddleware requires a valid token on the request. A stale session
// cookie is cleared so browsers stop resending it.
func (j *JWTManager) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, fromCookie, err := j.extractToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "not authenticated"})
			c.Abort()
			return
		}

		claims, err := j.ValidateToken(tokenString)
		if err != nil {
			if fromCookie {
				j.clearSessionCookie(c)
			}
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "not authenticated"})
			c.Abort()
			return
		}

		setUserContext(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches user context when a valid token is present but
// never rejects the request. Public endpoints use it to vary responses for
// signed-in callers.
func (j *JWTManager) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, fromCookie, err := j.extractToken(c)
		if err == nil {
			if claims, verr := j.ValidateToken(tokenString); verr == nil {
				setUserContext(c, claims)
			} else if fromCookie {
				j.clearSessionCookie(c)
			}
		}
		c.Next()
	}
}

// RequireAdmin allows only administrator accounts past
func (j *JWTManager) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.Get("jwt_claims")
		if !ok {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "not authenticated"})
			c.Abort()
			return
		}
		if jc, ok := claims.(*models.JWTClaims); !ok || !jc.IsAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "administrator access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func setUserContext(c *gin.Context, claims *models.JWTClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("user_email", claims.Email)
	c.Set("business_id", claims.BusinessID)
	c.Set("is_admin", claims.IsAdmin)
	c.Set("jwt_claims", claims)
}
