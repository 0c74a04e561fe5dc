package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"b2bconnect-backend/dal"
	"b2bconnect-backend/models"
	"b2bconnect-backend/utils"
	"b2bconnect-backend/utils/logger"
)

// ErrDuplicateSlug is returned when creating a business whose slug is taken.
var ErrDuplicateSlug = errors.New("business with this name already exists")

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// BusinessRepository implements BusinessRepositoryInterface
type BusinessRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewBusinessRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *BusinessRepository {
	return &BusinessRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *BusinessRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_businesses"
}

// CreateBusiness inserts a new business after checking the slug is unused.
// The slug check and the write are not atomic; simultaneous creations with
// the same name can both pass the check and the later write wins.
func (r *BusinessRepository) CreateBusiness(ctx context.Context, business *models.Business) (*models.Business, error) {
	r.logger.Infof("Creating business: %s", business.Name)

	var existing []*models.Business
	err := r.db.QueryByIndex(ctx, r.tableName(), "slug-index", "slug", business.Slug, &existing)
	if err == nil && len(existing) > 0 {
		return nil, ErrDuplicateSlug
	}

	now := time.Now()
	business.ID = utils.GenerateUUID()
	business.CreatedAt = now
	business.UpdatedAt = now

	if err := r.db.PutItem(ctx, r.tableName(), business); err != nil {
		r.logger.Errorf("Failed to create business: %v", err)
		return nil, err
	}

	r.logger.Infof("Business created successfully: %s", business.ID)
	return business, nil
}

// GetBusiness resolves a business by UUID primary key or by slug. Keys that
// look like UUIDs hit the table directly, anything else goes through the
// slug GSI.
func (r *BusinessRepository) GetBusiness(ctx context.Context, key string) (*models.Business, error) {
	if key == "" {
		return nil, errors.New("business ID is required")
	}

	if uuidPattern.MatchString(strings.ToLower(key)) {
		business := models.Business{}
		config := models.QueryConfig{
			TableName: r.tableName(),
			KeyName:   "id",
			KeyValue:  key,
			KeyType:   models.StringType,
		}
		if err := r.db.GetItem(ctx, config, &business); err != nil {
			r.logger.Errorf("Failed to get business by id: %v", err)
			return nil, err
		}
		if business.ID == "" {
			return nil, ErrNotFound
		}
		return &business, nil
	}

	return r.GetBusinessBySlug(ctx, key)
}

// GetBusinessBySlug fetches a business through the slug GSI
func (r *BusinessRepository) GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	var businesses []*models.Business
	if err := r.db.QueryByIndex(ctx, r.tableName(), "slug-index", "slug", slug, &businesses); err != nil {
		r.logger.Errorf("Failed to get business by slug: %v", err)
		return nil, err
	}
	if len(businesses) == 0 {
		return nil, ErrNotFound
	}
	return businesses[0], nil
}

// ListBusinesses returns every business in table order
func (r *BusinessRepository) ListBusinesses(ctx context.Context) ([]*models.Business, error) {
	var businesses []*models.Business
	if err := r.db.Scan(ctx, r.tableName(), &businesses); err != nil {
		r.logger.Errorf("Failed to list businesses: %v", err)
		return nil, err
	}
	return businesses, nil
}

// ListBySector returns businesses in one sector through the sector GSI
func (r *BusinessRepository) ListBySector(ctx context.Context, sector string) ([]*models.Business, error) {
	var businesses []*models.Business
	if err := r.db.QueryByIndex(ctx, r.tableName(), "sector-index", "sector", sector, &businesses); err != nil {
		r.logger.Errorf("Failed to list businesses by sector: %v", err)
		return nil, err
	}
	return businesses, nil
}

// UpdateBusiness applies a partial update to the business record
func (r *BusinessRepository) UpdateBusiness(ctx context.Context, id string, updates map[string]interface{}) error {
	if id == "" {
		return errors.New("business ID is required")
	}

	updates["updated_at"] = time.Now()
	if err := r.db.UpdateItem(ctx, r.tableName(), "id", id, updates); err != nil {
		r.logger.Errorf("Failed to update business %s: %v", id, err)
		return err
	}
	return nil
}

// IncrementViewCount bumps the profile view counter atomically
func (r *BusinessRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.db.AddToCounter(ctx, r.tableName(), "id", id, "view_count", 1)
}
