package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"b2bconnect-backend/dal"
	"b2bconnect-backend/models"
	"b2bconnect-backend/utils"
	"b2bconnect-backend/utils/logger"
)

// ErrDuplicatePostSlug is returned when creating a post whose slug is taken.
var ErrDuplicatePostSlug = errors.New("post with this title already exists")

// PostRepository implements PostRepositoryInterface
type PostRepository struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewPostRepository(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *PostRepository {
	return &PostRepository{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *PostRepository) tableName() string {
	return r.config.DynamoDBTablePrefix + "_posts"
}

// CreatePost inserts a new post after checking the slug is unused. Same
// non-atomic check-then-write pattern as business creation.
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	var existing []*models.Post
	err := r.db.QueryByIndex(ctx, r.tableName(), "slug-index", "slug", post.Slug, &existing)
	if err == nil && len(existing) > 0 {
		return nil, ErrDuplicatePostSlug
	}

	now := time.Now()
	post.ID = utils.GenerateUUID()
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := r.db.PutItem(ctx, r.tableName(), post); err != nil {
		r.logger.Errorf("Failed to create post: %v", err)
		return nil, err
	}

	r.logger.Infof("Post created successfully: %s", post.ID)
	return post, nil
}

// GetPost resolves a post by UUID primary key or by slug
func (r *PostRepository) GetPost(ctx context.Context, key string) (*models.Post, error) {
	if key == "" {
		return nil, errors.New("post ID is required")
	}

	if uuidPattern.MatchString(strings.ToLower(key)) {
		post := models.Post{}
		config := models.QueryConfig{
			TableName: r.tableName(),
			KeyName:   "id",
			KeyValue:  key,
			KeyType:   models.StringType,
		}
		if err := r.db.GetItem(ctx, config, &post); err != nil {
			r.logger.Errorf("Failed to get post by id: %v", err)
			return nil, err
		}
		if post.ID == "" {
			return nil, ErrNotFound
		}
		return &post, nil
	}

	var posts []*models.Post
	if err := r.db.QueryByIndex(ctx, r.tableName(), "slug-index", "slug", key, &posts); err != nil {
		r.logger.Errorf("Failed to get post by slug: %v", err)
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrNotFound
	}
	return posts[0], nil
}

// ListPosts returns every post in table order
func (r *PostRepository) ListPosts(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.Scan(ctx, r.tableName(), &posts); err != nil {
		r.logger.Errorf("Failed to list posts: %v", err)
		return nil, err
	}
	return posts, nil
}

// ListByBusiness returns one business's posts through the business GSI
func (r *PostRepository) ListByBusiness(ctx context.Context, businessID string) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.QueryByIndex(ctx, r.tableName(), "business-index", "business_id", businessID, &posts); err != nil {
		r.logger.Errorf("Failed to list posts by business: %v", err)
		return nil, err
	}
	return posts, nil
}

// UpdatePost applies a partial update to the post record
func (r *PostRepository) UpdatePost(ctx context.Context, id string, updates map[string]interface{}) error {
	if id == "" {
		return errors.New("post ID is required")
	}

	updates["updated_at"] = time.Now()
	if err := r.db.UpdateItem(ctx, r.tableName(), "id", id, updates); err != nil {
		r.logger.Errorf("Failed to update post %s: %v", id, err)
		return err
	}
	return nil
}

// IncrementViewCount bumps the post view counter atomically
func (r *PostRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.db.AddToCounter(ctx, r.tableName(), "id", id, "view_count", 1)
}
