package models

import "time"

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive              UserStatus = "active"
	UserStatusInactive            UserStatus = "inactive"
	UserStatusSuspended           UserStatus = "suspended"
	UserStatusPendingVerification UserStatus = "pending_verification"
)

// User represents an individual account, optionally linked to a business
type User struct {
	ID                  string     `json:"uid" dynamodbav:"id"`
	Email               string     `json:"email" dynamodbav:"email"`
	PasswordHash        string     `json:"-" dynamodbav:"password_hash"`
	FirstName           string     `json:"first_name" dynamodbav:"first_name"`
	LastName            string     `json:"last_name" dynamodbav:"last_name"`
	DisplayName         string     `json:"display_name" dynamodbav:"display_name"`
	PhotoURL            string     `json:"photo_url,omitempty" dynamodbav:"photo_url,omitempty"`
	Phone               *string    `json:"phone,omitempty" dynamodbav:"phone,omitempty"`
	BusinessID          string     `json:"business_id,omitempty" dynamodbav:"business_id,omitempty"`
	IsAdmin             bool       `json:"is_admin" dynamodbav:"is_admin"`
	Status              UserStatus `json:"status" dynamodbav:"status"`
	CreatedAt           time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" dynamodbav:"updated_at"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty" dynamodbav:"last_login_at,omitempty"`
	FailedLoginAttempts int        `json:"failed_login_attempts" dynamodbav:"failed_login_attempts"`
	AccountLockedUntil  *time.Time `json:"account_locked_until,omitempty" dynamodbav:"account_locked_until,omitempty"`
}

// RegisterRequest is the body for POST /auth
// @Description User registration request with account details
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"user@example.com"`
	Password  string `json:"password" binding:"required" example:"securePassword123"`
	FirstName string `json:"first_name" binding:"required" example:"John"`
	LastName  string `json:"last_name" binding:"required" example:"Doe"`
}

// LoginRequest is the body for PUT /auth
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// ResetPasswordRequest is the body for PATCH /auth
type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"user@example.com"`
}

// RegisterResponse mirrors the identity-provider contract:
// register(email, password, name) -> {uid, email, displayName}
type RegisterResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Success     bool   `json:"success"`
}
