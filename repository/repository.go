package repository

import (
	"b2bconnect-backend/dal"
	"b2bconnect-backend/models"
	"b2bconnect-backend/utils/logger"
)

// Repository bundles every repository over one database client
type Repository struct {
	User         *UserRepository
	Business     *BusinessRepository
	Post         *PostRepository
	Sector       *SectorRepository
	Conversation *ConversationRepository
}

func NewRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, cfg, log),
		Business:     NewBusinessRepository(db, cfg, log),
		Post:         NewPostRepository(db, cfg, log),
		Sector:       NewSectorRepository(db, cfg, log),
		Conversation: NewConversationRepository(db, cfg, log),
	}
}
