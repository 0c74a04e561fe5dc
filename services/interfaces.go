package services

import (
	"context"
	"io"

	"b2bconnect-backend/models"
)

// AuthServiceInterface defines the contract for the auth service
type AuthServiceInterface interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// BusinessServiceInterface defines the contract for the business service
type BusinessServiceInterface interface {
	CreateBusiness(ctx context.Context, ownerID string, req *models.CreateBusinessRequest) (*models.Business, error)
	GetBusiness(ctx context.Context, key string) (*models.Business, error)
	ListDirectory(ctx context.Context, filter *models.BusinessFilter) ([]*models.Business, *models.Pagination, error)
	SaveSection(ctx context.Context, id, userID string, req *models.UpdateBusinessRequest) (*models.Business, error)
	UploadMedia(ctx context.Context, id, userID, kind, filename, contentType string, body io.Reader) (*models.Business, error)
}

// PostServiceInterface defines the contract for the post service
type PostServiceInterface interface {
	CreatePost(ctx context.Context, userID, businessID string, req *models.CreatePostRequest) (*models.Post, error)
	GetPost(ctx context.Context, key string) (*models.Post, error)
	ListFeed(ctx context.Context, userID string, filter *models.PostFilter) ([]*models.Post, *models.Pagination, error)
	UpdatePost(ctx context.Context, id, userID string, req *models.UpdatePostRequest) (*models.Post, error)
	RecordView(ctx context.Context, id string) error
	UploadFeaturedImage(ctx context.Context, id, userID, filename, contentType string, body io.Reader) (*models.Post, error)
}

// SectorServiceInterface defines the contract for the sector service
type SectorServiceInterface interface {
	ListSectors(ctx context.Context) ([]*models.Sector, error)
}

// ConversationServiceInterface defines the contract for the messaging service
type ConversationServiceInterface interface {
	StartConversation(ctx context.Context, senderID string, req *models.CreateConversationRequest) (*models.Conversation, error)
	ListInbox(ctx context.Context, userID string) ([]*models.Conversation, error)
	GetMessages(ctx context.Context, conversationID, userID string) ([]*models.Message, error)
	SendMessage(ctx context.Context, conversationID, senderID string, req *models.SendMessageRequest) (*models.Message, error)
	MarkRead(ctx context.Context, conversationID, userID string) error
}

// ServiceContainerInterface defines the main service container contract
type ServiceContainerInterface interface {
	GetAuthService() AuthServiceInterface
	GetBusinessService() BusinessServiceInterface
	GetPostService() PostServiceInterface
	GetSectorService() SectorServiceInterface
	GetConversationService() ConversationServiceInterface
}
