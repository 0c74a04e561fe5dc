package models

import "time"

// Sector is a fixed taxonomy entry used to categorize businesses. The
// catalog is seeded at bootstrap and reconciled by the background worker;
// it is never modified through the public API.
type Sector struct {
	ID           string    `json:"id" dynamodbav:"id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Slug         string    `json:"slug" dynamodbav:"slug"`
	Description  string    `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Icon         string    `json:"icon,omitempty" dynamodbav:"icon,omitempty"`
	CompanyCount int       `json:"company_count" dynamodbav:"company_count"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
