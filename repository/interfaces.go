package repository

import (
	"context"

	"b2bconnect-backend/models"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, updates map[string]interface{}) error
}

// BusinessRepositoryInterface defines the contract for business repository operations
type BusinessRepositoryInterface interface {
	CreateBusiness(ctx context.Context, business *models.Business) (*models.Business, error)
	GetBusiness(ctx context.Context, key string) (*models.Business, error)
	GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error)
	ListBusinesses(ctx context.Context) ([]*models.Business, error)
	ListBySector(ctx context.Context, sector string) ([]*models.Business, error)
	UpdateBusiness(ctx context.Context, id string, updates map[string]interface{}) error
	IncrementViewCount(ctx context.Context, id string) error
}

// PostRepositoryInterface defines the contract for post repository operations
type PostRepositoryInterface interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPost(ctx context.Context, key string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]*models.Post, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*models.Post, error)
	UpdatePost(ctx context.Context, id string, updates map[string]interface{}) error
	IncrementViewCount(ctx context.Context, id string) error
}

// SectorRepositoryInterface defines the contract for sector repository operations
type SectorRepositoryInterface interface {
	CreateSector(ctx context.Context, sector *models.Sector) (*models.Sector, error)
	ListSectors(ctx context.Context) ([]*models.Sector, error)
	UpdateCompanyCount(ctx context.Context, id string, count int) error
	IncrementCompanyCount(ctx context.Context, id string) error
	DecrementCompanyCount(ctx context.Context, id string) error
}

// ConversationRepositoryInterface defines the contract for messaging repository operations
type ConversationRepositoryInterface interface {
	CreateConversation(ctx context.Context, conversation *models.Conversation) (*models.Conversation, error)
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]*models.Conversation, error)
	UpdateConversation(ctx context.Context, id string, updates map[string]interface{}) error
	CreateMessage(ctx context.Context, message *models.Message) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]*models.Message, error)
}

// RepositoryContainerInterface defines the contract for the repository container
type RepositoryContainerInterface interface {
	GetUserRepository() UserRepositoryInterface
	GetBusinessRepository() BusinessRepositoryInterface
	GetPostRepository() PostRepositoryInterface
	GetSectorRepository() SectorRepositoryInterface
	GetConversationRepository() ConversationRepositoryInterface
}
