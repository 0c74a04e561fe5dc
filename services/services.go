package services

import (
	"b2bconnect-backend/dal"
	"b2bconnect-backend/repository"
	"b2bconnect-backend/utils/logger"
)

// Service implements ServiceContainerInterface
type Service struct {
	authService         AuthServiceInterface
	businessService     BusinessServiceInterface
	postService         PostServiceInterface
	sectorService       SectorServiceInterface
	conversationService ConversationServiceInterface
}

// NewService creates a new service container with all dependencies injected
func NewService(
	repos *repository.Repository,
	blobStore dal.BlobStoreInterface,
	log logger.Logger,
) ServiceContainerInterface {
	return &Service{
		authService:         NewAuthService(repos.User, log),
		businessService:     NewBusinessService(repos.Business, repos.Sector, blobStore, log),
		postService:         NewPostService(repos.Post, repos.Business, blobStore, log),
		sectorService:       NewSectorService(repos.Sector, log),
		conversationService: NewConversationService(repos.Conversation, log),
	}
}

// GetAuthService returns the auth service interface
func (s *Service) GetAuthService() AuthServiceInterface {
	return s.authService
}

// GetBusinessService returns the business service interface
func (s *Service) GetBusinessService() BusinessServiceInterface {
	return s.businessService
}

// GetPostService returns the post service interface
func (s *Service) GetPostService() PostServiceInterface {
	return s.postService
}

// GetSectorService returns the sector service interface
func (s *Service) GetSectorService() SectorServiceInterface {
	return s.sectorService
}

// GetConversationService returns the messaging service interface
func (s *Service) GetConversationService() ConversationServiceInterface {
	return s.conversationService
}
