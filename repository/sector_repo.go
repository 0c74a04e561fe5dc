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

// SectorRepository implements SectorRepositoryInterface
type SectorRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewSectorRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *SectorRepository {
	return &SectorRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *SectorRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_sectors"
}

// CreateSector inserts a taxonomy entry, used by the bootstrap worker
func (r *SectorRepository) CreateSector(ctx context.Context, sector *models.Sector) (*models.Sector, error) {
	now := time.Now()
	if sector.ID == "" {
		sector.ID = utils.GenerateUUID()
	}
	sector.CreatedAt = now
	sector.UpdatedAt = now

	if err := r.db.PutItem(ctx, r.tableName(), sector); err != nil {
		r.logger.Errorf("Failed to create sector: %v", err)
		return nil, err
	}
	return sector, nil
}

// ListSectors returns the full sector catalog
func (r *SectorRepository) ListSectors(ctx context.Context) ([]*models.Sector, error) {
	var sectors []*models.Sector
	if err := r.db.Scan(ctx, r.tableName(), &sectors); err != nil {
		r.logger.Errorf("Failed to list sectors: %v", err)
		return nil, err
	}
	return sectors, nil
}

// IncrementCompanyCount bumps the denormalized company count atomically
func (r *SectorRepository) IncrementCompanyCount(ctx context.Context, id string) error {
	return r.db.AddToCounter(ctx, r.tableName(), "id", id, "company_count", 1)
}

// DecrementCompanyCount lowers the denormalized company count atomically
func (r *SectorRepository) DecrementCompanyCount(ctx context.Context, id string) error {
	return r.db.AddToCounter(ctx, r.tableName(), "id", id, "company_count", -1)
}

// UpdateCompanyCount overwrites the denormalized company count
func (r *SectorRepository) UpdateCompanyCount(ctx context.Context, id string, count int) error {
	if id == "" {
		return errors.New("sector ID is required")
	}

	updates := map[string]interface{}{
		"company_count": count,
		"updated_at":    time.Now(),
	}
	if err := r.db.UpdateItem(ctx, r.tableName(), "id", id, updates); err != nil {
		r.logger.Errorf("Failed to update sector %s: %v", id, err)
		return err
	}
	return nil
}
