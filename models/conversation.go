package models

import "time"

// ConversationType distinguishes why a thread was opened.
type ConversationType string

const (
	ConversationTypeInquiry  ConversationType = "inquiry"
	ConversationTypeB2B      ConversationType = "business-to-business"
	ConversationTypeGeneral  ConversationType = "general"
)

// ConversationStatus is the lifecycle state of a thread.
type ConversationStatus string

const (
	ConversationStatusActive   ConversationStatus = "active"
	ConversationStatusArchived ConversationStatus = "archived"
)

// LastMessage is the denormalized preview of the newest message, kept on
// the conversation so inbox listings need no message-table reads.
type LastMessage struct {
	Text          string    `json:"text" dynamodbav:"text"`
	SenderID      string    `json:"sender_id" dynamodbav:"sender_id"`
	HasAttachment bool      `json:"has_attachment" dynamodbav:"has_attachment"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Conversation is a direct message thread between users, usually on
// behalf of their businesses.
type Conversation struct {
	ID           string   `json:"id" dynamodbav:"id"`
	Participants []string `json:"participants" dynamodbav:"participants"`
	BusinessIDs  []string `json:"business_ids,omitempty" dynamodbav:"business_ids,omitempty"`

	Subject string             `json:"subject,omitempty" dynamodbav:"subject,omitempty" validate:"omitempty,max=150"`
	Type    ConversationType   `json:"type" dynamodbav:"type" validate:"omitempty,oneof=inquiry business-to-business general"`
	Status  ConversationStatus `json:"status" dynamodbav:"status"`

	LastMessage *LastMessage `json:"last_message,omitempty" dynamodbav:"last_message,omitempty"`

	// UnreadCounts maps participant user ID to pending message count.
	UnreadCounts map[string]int `json:"unread_counts" dynamodbav:"unread_counts"`

	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// HasParticipant reports whether the user is part of the thread.
func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Message is a single message inside a conversation
type Message struct {
	ID             string     `json:"id" dynamodbav:"id"`
	ConversationID string     `json:"conversation_id" dynamodbav:"conversation_id"`
	SenderID       string     `json:"sender_id" dynamodbav:"sender_id"`
	Text           string     `json:"text" dynamodbav:"text" validate:"required,min=1,max=4000"`
	Read           bool       `json:"read" dynamodbav:"read"`
	ReadAt         *time.Time `json:"read_at,omitempty" dynamodbav:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at" dynamodbav:"created_at"`
}

// CreateConversationRequest starts a thread with another user
type CreateConversationRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Subject     string `json:"subject" validate:"omitempty,max=150"`
	Type        string `json:"type" validate:"omitempty,oneof=inquiry business-to-business general"`
	Text        string `json:"text" validate:"required,min=1,max=4000"`
}

// SendMessageRequest appends a message to an existing thread
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=4000"`
}
