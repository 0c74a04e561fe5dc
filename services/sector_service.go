package services

import (
	"context"
	"sort"

	"b2bconnect-backend/models"
	"b2bconnect-backend/repository"
	"b2bconnect-backend/utils/logger"
)

type SectorService struct {
	sectorRepo repository.SectorRepositoryInterface
	logger     logger.Logger
}

func NewSectorService(sectorRepo repository.SectorRepositoryInterface, log logger.Logger) *SectorService {
	return &SectorService{
		sectorRepo: sectorRepo,
		logger:     log,
	}
}

// ListSectors returns the catalog sorted by name
func (s *SectorService) ListSectors(ctx context.Context) ([]*models.Sector, error) {
	sectors, err := s.sectorRepo.ListSectors(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(sectors, func(i, j int) bool {
		return sectors[i].Name < sectors[j].Name
	})
	return sectors, nil
}
