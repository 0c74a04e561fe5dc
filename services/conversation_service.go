package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"b2bconnect-backend/models"
	"b2bconnect-backend/repository"
	"b2bconnect-backend/utils/logger"
)

// ErrNotParticipant is returned when the caller is outside the thread.
var ErrNotParticipant = errors.New("not a participant in this conversation")

type ConversationService struct {
	conversationRepo repository.ConversationRepositoryInterface
	logger           logger.Logger
}

func NewConversationService(conversationRepo repository.ConversationRepositoryInterface, log logger.Logger) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		logger:           log,
	}
}

// StartConversation opens a thread with another user and sends the first
// message. The recipient's unread counter starts at one.
func (s *ConversationService) StartConversation(ctx context.Context, senderID string, req *models.CreateConversationRequest) (*models.Conversation, error) {
	if err := s.validateStart(senderID, req); err != nil {
		return nil, err
	}

	convType := models.ConversationType(req.Type)
	if convType == "" {
		convType = models.ConversationTypeGeneral
	}

	now := time.Now()
	conversation := &models.Conversation{
		Participants: []string{senderID, req.RecipientID},
		Subject:      strings.TrimSpace(req.Subject),
		Type:         convType,
		Status:       models.ConversationStatusActive,
		LastMessage: &models.LastMessage{
			Text:      req.Text,
			SenderID:  senderID,
			CreatedAt: now,
		},
		UnreadCounts: map[string]int{
			senderID:        0,
			req.RecipientID: 1,
		},
	}

	created, err := s.conversationRepo.CreateConversation(ctx, conversation)
	if err != nil {
		return nil, err
	}

	if _, err := s.conversationRepo.CreateMessage(ctx, &models.Message{
		ConversationID: created.ID,
		SenderID:       senderID,
		Text:           req.Text,
	}); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *ConversationService) validateStart(senderID string, req *models.CreateConversationRequest) error {
	if req == nil {
		return invalid("conversation request is required")
	}
	if strings.TrimSpace(req.RecipientID) == "" {
		return invalid("recipient is required")
	}
	if req.RecipientID == senderID {
		return invalid("cannot start a conversation with yourself")
	}
	if strings.TrimSpace(req.Text) == "" {
		return invalid("message text is required")
	}
	return checkStruct(req)
}

// ListInbox returns the caller's threads, most recent activity first
func (s *ConversationService) ListInbox(ctx context.Context, userID string) ([]*models.Conversation, error) {
	conversations, err := s.conversationRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return lastActivity(conversations[i]).After(lastActivity(conversations[j]))
	})
	return conversations, nil
}

func lastActivity(c *models.Conversation) time.Time {
	if c.LastMessage != nil {
		return c.LastMessage.CreatedAt
	}
	return c.UpdatedAt
}

// GetMessages returns a thread's messages in chronological order. Callers
// outside the thread get ErrNotParticipant.
func (s *ConversationService) GetMessages(ctx context.Context, conversationID, userID string) ([]*models.Message, error) {
	conversation, err := s.conversationRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	messages, err := s.conversationRepo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// SendMessage appends to a thread and refreshes the denormalized preview
// plus every other participant's unread counter.
func (s *ConversationService) SendMessage(ctx context.Context, conversationID, senderID string, req *models.SendMessageRequest) (*models.Message, error) {
	if req == nil || strings.TrimSpace(req.Text) == "" {
		return nil, invalid("message text is required")
	}

	conversation, err := s.conversationRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	message, err := s.conversationRepo.CreateMessage(ctx, &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           req.Text,
	})
	if err != nil {
		return nil, err
	}

	unread := conversation.UnreadCounts
	if unread == nil {
		unread = map[string]int{}
	}
	for _, p := range conversation.Participants {
		if p != senderID {
			unread[p]++
		}
	}

	updates := map[string]interface{}{
		"last_message": &models.LastMessage{
			Text:      message.Text,
			SenderID:  senderID,
			CreatedAt: message.CreatedAt,
		},
		"unread_counts": unread,
	}
	if err := s.conversationRepo.UpdateConversation(ctx, conversationID, updates); err != nil {
		s.logger.Warnf("Failed to update conversation preview for %s: %v", conversationID, err)
	}

	return message, nil
}

// MarkRead zeroes the caller's unread counter
func (s *ConversationService) MarkRead(ctx context.Context, conversationID, userID string) error {
	conversation, err := s.conversationRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conversation.HasParticipant(userID) {
		return ErrNotParticipant
	}

	unread := conversation.UnreadCounts
	if unread == nil {
		unread = map[string]int{}
	}
	unread[userID] = 0

	return s.conversationRepo.UpdateConversation(ctx, conversationID, map[string]interface{}{
		"unread_counts": unread,
	})
}
