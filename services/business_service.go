package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"b2bconnect-backend/dal"
	"b2bconnect-backend/models"
	"b2bconnect-backend/repository"
	"b2bconnect-backend/utils"
	"b2bconnect-backend/utils/logger"
)

// ErrForbidden is returned when the caller is not a member of the business.
var ErrForbidden = errors.New("not authorized to manage this business")

const defaultPageSize = 20

type BusinessService struct {
	businessRepo repository.BusinessRepositoryInterface
	sectorRepo   repository.SectorRepositoryInterface
	blobStore    dal.BlobStoreInterface
	logger       logger.Logger
}

func NewBusinessService(
	businessRepo repository.BusinessRepositoryInterface,
	sectorRepo repository.SectorRepositoryInterface,
	blobStore dal.BlobStoreInterface,
	log logger.Logger,
) *BusinessService {
	return &BusinessService{
		businessRepo: businessRepo,
		sectorRepo:   sectorRepo,
		blobStore:    blobStore,
		logger:       log,
	}
}

// CreateBusiness creates a company profile owned by the calling user. The
// slug is derived from the name; a taken slug rejects the whole creation.
func (s *BusinessService) CreateBusiness(ctx context.Context, ownerID string, req *models.CreateBusinessRequest) (*models.Business, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	slug := utils.Slugify(req.Name)
	if slug == "" {
		return nil, invalid("business name must contain letters or digits")
	}

	yearFounded := 0
	if req.YearFounded != "" {
		y, err := strconv.Atoi(req.YearFounded)
		if err != nil {
			return nil, invalid("year founded must be a number")
		}
		yearFounded = y
	}

	business := &models.Business{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Tagline:     strings.TrimSpace(req.Tagline),
		Description: strings.TrimSpace(req.Description),
		Sector:      req.Sector,
		Tags:        utils.SplitTags(req.Tags),
		Email:       req.Email,
		Phone:       req.Phone,
		Website:     req.Website,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		YearFounded: yearFounded,
		OwnerID:     ownerID,
		Members:     []string{ownerID},
		Status:      models.BusinessStatusActive,
	}
	s.recomputeCompletion(business)

	created, err := s.businessRepo.CreateBusiness(ctx, business)
	if err != nil {
		return nil, err
	}

	if created.Sector != "" {
		if err := s.sectorRepo.IncrementCompanyCount(ctx, created.Sector); err != nil {
			// The count drifts until the reconciliation job runs.
			s.logger.Warnf("Failed to bump company count for sector %s: %v", created.Sector, err)
		}
	}

	return created, nil
}

func (s *BusinessService) validateCreate(req *models.CreateBusinessRequest) error {
	if req == nil {
		return invalid("business request is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return invalid("business name is required")
	}
	if len(req.Name) < 2 || len(req.Name) > 100 {
		return invalid("business name must be between 2 and 100 characters")
	}
	if len(req.Description) > 2000 {
		return invalid("description must be less than 2000 characters")
	}
	return checkStruct(req)
}

// GetBusiness resolves by id or slug. Slug lookups count as public profile
// views and bump the view counter.
func (s *BusinessService) GetBusiness(ctx context.Context, key string) (*models.Business, error) {
	business, err := s.businessRepo.GetBusiness(ctx, key)
	if err != nil {
		return nil, err
	}

	if key != business.ID {
		if err := s.businessRepo.IncrementViewCount(ctx, business.ID); err != nil {
			s.logger.Warnf("Failed to bump view count for %s: %v", business.ID, err)
		} else {
			business.ViewCount++
		}
	}

	return business, nil
}

// ListDirectory filters the company directory. Sector matches by exact id,
// the query matches as a case-insensitive substring against name,
// description, and tags. Store order is preserved and pagination is
// offset-style over the filtered slice.
func (s *BusinessService) ListDirectory(ctx context.Context, filter *models.BusinessFilter) ([]*models.Business, *models.Pagination, error) {
	if filter == nil {
		filter = &models.BusinessFilter{}
	}

	var (
		businesses []*models.Business
		err        error
	)
	if filter.Sector != "" {
		businesses, err = s.businessRepo.ListBySector(ctx, filter.Sector)
	} else {
		businesses, err = s.businessRepo.ListBusinesses(ctx)
	}
	if err != nil {
		return nil, nil, err
	}

	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		var matched []*models.Business
		for _, b := range businesses {
			if matchesQuery(b, q) {
				matched = append(matched, b)
			}
		}
		businesses = matched
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	total := len(businesses)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	pagination := &models.Pagination{
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1 && total > 0,
	}
	return businesses[start:end], pagination, nil
}

func matchesQuery(b *models.Business, q string) bool {
	if strings.Contains(strings.ToLower(b.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(b.Description), q) {
		return true
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// SaveSection applies one profile-edit step. The section's completion flag
// is set when its required fields end up non-empty and cleared otherwise,
// then the percentage is re-derived.
func (s *BusinessService) SaveSection(ctx context.Context, id, userID string, req *models.UpdateBusinessRequest) (*models.Business, error) {
	if req == nil {
		return nil, invalid("update request is required")
	}
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	business, err := s.businessRepo.GetBusiness(ctx, id)
	if err != nil {
		return nil, err
	}
	if !business.IsMember(userID) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	previousSector := business.Sector

	switch req.Section {
	case models.SectionBasicInfo:
		applyString(updates, "name", req.Name, &business.Name)
		applyString(updates, "tagline", req.Tagline, &business.Tagline)
		applyString(updates, "description", req.Description, &business.Description)
	case models.SectionContactDetails:
		applyString(updates, "email", req.Email, &business.Email)
		applyString(updates, "phone", req.Phone, &business.Phone)
		applyString(updates, "website", req.Website, &business.Website)
		applyString(updates, "address", req.Address, &business.Address)
		applyString(updates, "city", req.City, &business.City)
		applyString(updates, "state", req.State, &business.State)
		applyString(updates, "postal_code", req.PostalCode, &business.PostalCode)
		applyString(updates, "country", req.Country, &business.Country)
	case models.SectionMedia:
		applyString(updates, "logo_url", req.LogoURL, &business.LogoURL)
		applyString(updates, "banner_url", req.BannerURL, &business.BannerURL)
		if req.Gallery != nil {
			business.Gallery = req.Gallery
			updates["gallery"] = req.Gallery
		}
	case models.SectionCategoriesAndTags:
		applyString(updates, "sector", req.Sector, &business.Sector)
		applyString(updates, "subsector", req.Subsector, &business.Subsector)
		if req.Tags != nil {
			business.Tags = req.Tags
			updates["tags"] = req.Tags
		}
	default:
		return nil, invalid("unknown profile section")
	}

	business.ProfileCompletion.SetSection(req.Section, s.sectionComplete(business, req.Section))
	updates["profile_completion"] = business.ProfileCompletion

	if err := s.businessRepo.UpdateBusiness(ctx, business.ID, updates); err != nil {
		return nil, err
	}

	if business.Sector != previousSector {
		s.moveSectorCount(ctx, previousSector, business.Sector)
	}
	return business, nil
}

// moveSectorCount keeps the denormalized sector counts in step when a
// company changes sector. Failures only drift the counts until the
// reconciliation job runs.
func (s *BusinessService) moveSectorCount(ctx context.Context, from, to string) {
	if from != "" {
		if err := s.sectorRepo.DecrementCompanyCount(ctx, from); err != nil {
			s.logger.Warnf("Failed to lower company count for sector %s: %v", from, err)
		}
	}
	if to != "" {
		if err := s.sectorRepo.IncrementCompanyCount(ctx, to); err != nil {
			s.logger.Warnf("Failed to bump company count for sector %s: %v", to, err)
		}
	}
}

// sectionComplete checks the required fields of one section
func (s *BusinessService) sectionComplete(b *models.Business, section models.ProfileSection) bool {
	switch section {
	case models.SectionBasicInfo:
		return b.Name != "" && b.Description != ""
	case models.SectionContactDetails:
		return b.Email != "" && b.Phone != "" && b.City != ""
	case models.SectionMedia:
		return b.LogoURL != ""
	case models.SectionCategoriesAndTags:
		return b.Sector != "" && len(b.Tags) > 0
	}
	return false
}

// recomputeCompletion derives all four flags from current field values,
// used at creation time where no sections have been saved yet.
func (s *BusinessService) recomputeCompletion(b *models.Business) {
	b.ProfileCompletion.BasicInfo = s.sectionComplete(b, models.SectionBasicInfo)
	b.ProfileCompletion.ContactDetails = s.sectionComplete(b, models.SectionContactDetails)
	b.ProfileCompletion.Media = s.sectionComplete(b, models.SectionMedia)
	b.ProfileCompletion.CategoriesAndTags = s.sectionComplete(b, models.SectionCategoriesAndTags)
	b.ProfileCompletion.Recalculate()
}

// UploadMedia stores a logo or banner image and points the business at it.
// The media completion flag follows the logo.
func (s *BusinessService) UploadMedia(ctx context.Context, id, userID, kind, filename, contentType string, body io.Reader) (*models.Business, error) {
	if kind != "logo" && kind != "banner" {
		return nil, invalid("unknown media kind")
	}

	business, err := s.businessRepo.GetBusiness(ctx, id)
	if err != nil {
		return nil, err
	}
	if !business.IsMember(userID) {
		return nil, ErrForbidden
	}

	key := fmt.Sprintf("businesses/%s/%s-%s", business.ID, kind, utils.Slugify(filename))
	url, err := s.blobStore.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if kind == "logo" {
		business.LogoURL = url
		updates["logo_url"] = url
	} else {
		business.BannerURL = url
		updates["banner_url"] = url
	}

	business.ProfileCompletion.SetSection(models.SectionMedia, s.sectionComplete(business, models.SectionMedia))
	updates["profile_completion"] = business.ProfileCompletion

	if err := s.businessRepo.UpdateBusiness(ctx, business.ID, updates); err != nil {
		return nil, err
	}
	return business, nil
}

// applyString records a non-empty incoming value into both the entity and
// the update map.
func applyString(updates map[string]interface{}, field, incoming string, target *string) {
	if incoming == "" {
		return
	}
	*target = incoming
	updates[field] = incoming
}
