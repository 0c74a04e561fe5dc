package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"b2bconnect-backend/dal"
	"b2bconnect-backend/models"
	"b2bconnect-backend/repository"
	"b2bconnect-backend/utils"
	"b2bconnect-backend/utils/logger"
)

// ErrProfileIncomplete gates posting behind the completion threshold.
var ErrProfileIncomplete = errors.New("complete at least 50% of your profile to publish posts")

type PostService struct {
	postRepo     repository.PostRepositoryInterface
	businessRepo repository.BusinessRepositoryInterface
	blobStore    dal.BlobStoreInterface
	logger       logger.Logger
}

func NewPostService(
	postRepo repository.PostRepositoryInterface,
	businessRepo repository.BusinessRepositoryInterface,
	blobStore dal.BlobStoreInterface,
	log logger.Logger,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		businessRepo: businessRepo,
		blobStore:    blobStore,
		logger:       log,
	}
}

// CreatePost publishes or drafts a post for the caller's business. Posting
// requires the profile completion threshold regardless of draft status.
func (s *PostService) CreatePost(ctx context.Context, userID, businessID string, req *models.CreatePostRequest) (*models.Post, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	business, err := s.businessRepo.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !business.IsMember(userID) {
		return nil, ErrForbidden
	}
	if !business.CanPublishPosts() {
		return nil, ErrProfileIncomplete
	}

	slug := utils.Slugify(req.Title)
	if slug == "" {
		return nil, invalid("post title must contain letters or digits")
	}

	category := models.PostCategory(req.Category)
	if category == "" {
		category = models.PostCategoryUpdate
	}

	post := &models.Post{
		BusinessID: business.ID,
		AuthorID:   userID,
		Title:      strings.TrimSpace(req.Title),
		Slug:       slug,
		Content:    req.Content,
		Excerpt:    utils.Excerpt(req.Content, models.ExcerptLength),
		Category:   category,
		Tags:       utils.SplitTags(req.Tags),
		Status:     models.PostStatusDraft,
	}
	if req.Publish {
		now := time.Now()
		post.Status = models.PostStatusPublished
		post.PublishedAt = &now
	}

	created, err := s.postRepo.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	if err := s.businessRepo.UpdateBusiness(ctx, business.ID, map[string]interface{}{
		"post_count": business.PostCount + 1,
	}); err != nil {
		s.logger.Warnf("Failed to bump post count for %s: %v", business.ID, err)
	}

	return created, nil
}

func (s *PostService) validateCreate(req *models.CreatePostRequest) error {
	if req == nil {
		return invalid("post request is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return invalid("post title is required")
	}
	if len(req.Title) < 3 || len(req.Title) > 150 {
		return invalid("post title must be between 3 and 150 characters")
	}
	if len(strings.TrimSpace(req.Content)) < 10 {
		return invalid("post content must be at least 10 characters")
	}
	return checkStruct(req)
}

// GetPost resolves a post by id or slug
func (s *PostService) GetPost(ctx context.Context, key string) (*models.Post, error) {
	return s.postRepo.GetPost(ctx, key)
}

// ListFeed returns published posts, newest first. With a business filter it
// also returns drafts, but only when the caller is a member of that
// business; everyone else sees published posts regardless of the Status
// filter.
func (s *PostService) ListFeed(ctx context.Context, userID string, filter *models.PostFilter) ([]*models.Post, *models.Pagination, error) {
	if filter == nil {
		filter = &models.PostFilter{}
	}

	var (
		posts  []*models.Post
		err    error
		member bool
	)
	if filter.BusinessID != "" {
		business, berr := s.businessRepo.GetBusiness(ctx, filter.BusinessID)
		if berr != nil {
			return nil, nil, berr
		}
		member = userID != "" && business.IsMember(userID)
		posts, err = s.postRepo.ListByBusiness(ctx, business.ID)
	} else {
		posts, err = s.postRepo.ListPosts(ctx)
	}
	if err != nil {
		return nil, nil, err
	}

	query := strings.ToLower(filter.Query)
	var visible []*models.Post
	for _, p := range posts {
		if member && filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if !member && p.Status != models.PostStatusPublished {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if query != "" && !postMatchesQuery(p, query) {
			continue
		}
		visible = append(visible, p)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return postTime(visible[i]).After(postTime(visible[j]))
	})

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	total := len(visible)
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
	return visible[start:end], pagination, nil
}

func postMatchesQuery(p *models.Post, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func postTime(p *models.Post) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// UpdatePost edits a post on behalf of a business member. A transition to
// published stamps publishedAt exactly once.
func (s *PostService) UpdatePost(ctx context.Context, id, userID string, req *models.UpdatePostRequest) (*models.Post, error) {
	if req == nil {
		return nil, invalid("update request is required")
	}
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	business, err := s.businessRepo.GetBusiness(ctx, post.BusinessID)
	if err != nil {
		return nil, err
	}
	if !business.IsMember(userID) {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}

	if req.Title != nil && *req.Title != "" {
		post.Title = strings.TrimSpace(*req.Title)
		updates["title"] = post.Title
	}
	if req.Content != nil && *req.Content != "" {
		post.Content = *req.Content
		post.Excerpt = utils.Excerpt(post.Content, models.ExcerptLength)
		updates["content"] = post.Content
		updates["excerpt"] = post.Excerpt
	}
	if req.Category != nil && *req.Category != "" {
		post.Category = models.PostCategory(*req.Category)
		updates["category"] = string(post.Category)
	}
	if req.Tags != nil {
		post.Tags = req.Tags
		updates["tags"] = req.Tags
	}
	if req.Status != nil && *req.Status != "" {
		status := models.PostStatus(*req.Status)
		if status == models.PostStatusPublished && post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
			updates["published_at"] = now
		}
		post.Status = status
		updates["status"] = string(status)
	}

	if len(updates) == 0 {
		return post, nil
	}

	if err := s.postRepo.UpdatePost(ctx, post.ID, updates); err != nil {
		return nil, err
	}
	return post, nil
}

// RecordView bumps the post view counter
func (s *PostService) RecordView(ctx context.Context, id string) error {
	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	return s.postRepo.IncrementViewCount(ctx, post.ID)
}

// UploadFeaturedImage stores a featured image for an existing post
func (s *PostService) UploadFeaturedImage(ctx context.Context, id, userID, filename, contentType string, body io.Reader) (*models.Post, error) {
	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	business, err := s.businessRepo.GetBusiness(ctx, post.BusinessID)
	if err != nil {
		return nil, err
	}
	if !business.IsMember(userID) {
		return nil, ErrForbidden
	}

	key := fmt.Sprintf("posts/%s/featured-%s", post.ID, utils.Slugify(filename))
	url, err := s.blobStore.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, err
	}

	post.FeaturedImageURL = url
	if err := s.postRepo.UpdatePost(ctx, post.ID, map[string]interface{}{
		"featured_image_url": url,
	}); err != nil {
		return nil, err
	}
	return post, nil
}
