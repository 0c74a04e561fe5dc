package models

import "time"

// PostStatus represents the publication state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// PostCategory distinguishes the kinds of posts a business can publish.
type PostCategory string

const (
	PostCategoryUpdate       PostCategory = "update"
	PostCategoryAnnouncement PostCategory = "announcement"
	PostCategoryArticle      PostCategory = "article"
	PostCategoryEvent        PostCategory = "event"
)

// ExcerptLength is the maximum length of the derived excerpt, in runes.
const ExcerptLength = 150

// Post represents a content item published by a business
type Post struct {
	ID         string `json:"id" dynamodbav:"id"`
	BusinessID string `json:"business_id" dynamodbav:"business_id"`
	AuthorID   string `json:"author_id" dynamodbav:"author_id"`

	Title   string `json:"title" dynamodbav:"title" validate:"required,min=3,max=150"`
	Slug    string `json:"slug" dynamodbav:"slug"`
	Content string `json:"content" dynamodbav:"content" validate:"required,min=10"`
	// Excerpt is derived from Content on save, never client supplied.
	Excerpt string `json:"excerpt" dynamodbav:"excerpt"`

	Category PostCategory `json:"category" dynamodbav:"category" validate:"omitempty,oneof=update announcement article event"`
	Status   PostStatus   `json:"status" dynamodbav:"status"`

	FeaturedImageURL string   `json:"featured_image_url,omitempty" dynamodbav:"featured_image_url,omitempty"`
	Tags             []string `json:"tags,omitempty" dynamodbav:"tags,omitempty"`

	ViewCount    int `json:"view_count" dynamodbav:"view_count"`
	LikeCount    int `json:"like_count" dynamodbav:"like_count"`
	CommentCount int `json:"comment_count" dynamodbav:"comment_count"`

	// PublishedAt is set on the first transition to published and never
	// moves afterwards.
	PublishedAt *time.Time `json:"published_at,omitempty" dynamodbav:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

// CreatePostRequest is the multipart form for POST /posts
type CreatePostRequest struct {
	Title    string `form:"title" validate:"required,min=3,max=150"`
	Content  string `form:"content" validate:"required,min=10"`
	Category string `form:"category" validate:"omitempty,oneof=update announcement article event"`
	Tags     string `form:"tags"` // comma separated
	Publish  bool   `form:"publish"`
}

// UpdatePostRequest is the body for PATCH /posts/:id
type UpdatePostRequest struct {
	Title    *string  `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Content  *string  `json:"content,omitempty" validate:"omitempty,min=10"`
	Category *string  `json:"category,omitempty" validate:"omitempty,oneof=update announcement article event"`
	Tags     []string `json:"tags,omitempty"`
	Status   *string  `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
}

// PostFilter holds feed/listing parameters
type PostFilter struct {
	BusinessID string
	Status     PostStatus
	Category   PostCategory
	Query      string
	Page       int
	PageSize   int
}
