package repository

import (
	"context"
	"errors"
	"time"

	"b2bconnect-backend/dal"
	"b2bconnect-backend/models"
	"b2bconnect-backend/utils"
	"b2bconnect-backend/utils/logger"
)

// ConversationRepository implements ConversationRepositoryInterface
type ConversationRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewConversationRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *ConversationRepository {
	return &ConversationRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *ConversationRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_conversations"
}

func (r *ConversationRepository) messagesTable() string {
	return r.config.DynamoDBTablePrefix + "_messages"
}

// CreateConversation inserts a new thread
func (r *ConversationRepository) CreateConversation(ctx context.Context, conversation *models.Conversation) (*models.Conversation, error) {
	now := time.Now()
	conversation.ID = utils.GenerateUUID()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	if err := r.db.PutItem(ctx, r.tableName(), conversation); err != nil {
		r.logger.Errorf("Failed to create conversation: %v", err)
		return nil, err
	}

	r.logger.Infof("Conversation created successfully: %s", conversation.ID)
	return conversation, nil
}

// GetConversation fetches a thread by primary key
func (r *ConversationRepository) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	if id == "" {
		return nil, errors.New("conversation ID is required")
	}

	conversation := models.Conversation{}
	config := models.QueryConfig{
		TableName: r.tableName(),
		KeyName:   "id",
		KeyValue:  id,
		KeyType:   models.StringType,
	}
	if err := r.db.GetItem(ctx, config, &conversation); err != nil {
		r.logger.Errorf("Failed to get conversation: %v", err)
		return nil, err
	}

	if conversation.ID == "" {
		return nil, ErrNotFound
	}
	return &conversation, nil
}

// ListByParticipant returns the threads a user takes part in.
// Participants is a list attribute, which DynamoDB cannot index, so this
// scans the table and filters in memory. Inbox sizes stay small enough
// that this holds up.
func (r *ConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]*models.Conversation, error) {
	var all []*models.Conversation
	if err := r.db.Scan(ctx, r.tableName(), &all); err != nil {
		r.logger.Errorf("Failed to list conversations: %v", err)
		return nil, err
	}

	var mine []*models.Conversation
	for _, c := range all {
		if c.HasParticipant(userID) {
			mine = append(mine, c)
		}
	}
	return mine, nil
}

// UpdateConversation applies a partial update to the thread record
func (r *ConversationRepository) UpdateConversation(ctx context.Context, id string, updates map[string]interface{}) error {
	if id == "" {
		return errors.New("conversation ID is required")
	}

	updates["updated_at"] = time.Now()
	if err := r.db.UpdateItem(ctx, r.tableName(), "id", id, updates); err != nil {
		r.logger.Errorf("Failed to update conversation %s: %v", id, err)
		return err
	}
	return nil
}

// CreateMessage appends a message to the messages table
func (r *ConversationRepository) CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error) {
	message.ID = utils.GenerateUUID()
	message.CreatedAt = time.Now()

	if err := r.db.PutItem(ctx, r.messagesTable(), message); err != nil {
		r.logger.Errorf("Failed to create message: %v", err)
		return nil, err
	}
	return message, nil
}

// ListMessages returns a thread's messages through the conversation GSI
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*models.Message, error) {
	var messages []*models.Message
	if err := r.db.QueryByIndex(ctx, r.messagesTable(), "conversation-index", "conversation_id", conversationID, &messages); err != nil {
		r.logger.Errorf("Failed to list messages: %v", err)
		return nil, err
	}
	return messages, nil
}
