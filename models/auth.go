package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT claims
type JWTClaims struct {
	UserID      string     `json:"user_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	BusinessID  string     `json:"business_id,omitempty"`
	IsAdmin     bool       `json:"is_admin"`
	Status      UserStatus `json:"status"`

	jwt.RegisteredClaims
}
