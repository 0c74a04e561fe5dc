package controller

import (
	"context"
	"net/http"

	"b2bconnect-backend/models"
	"b2bconnect-backend/services"
	"b2bconnect-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type PostController struct {
	ctx    context.Context
	posts  services.PostServiceInterface
	logger logger.Logger
}

func NewPostController(ctx context.Context, posts services.PostServiceInterface, log logger.Logger) *PostController {
	return &PostController{
		ctx:    ctx,
		posts:  posts,
		logger: log,
	}
}

// Create handles POST /api/v1/posts
// @Summary Publish a post
// @Description Create a post for a company; accepts multipart form data with an optional featured image
// @Tags Posts
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param business_id formData string true "Company the post belongs to"
// @Param title formData string true "Post title"
// @Param content formData string true "Post body"
// @Param category formData string false "update, announcement, article or event"
// @Param publish formData bool false "Publish immediately instead of saving a draft"
// @Param featured_image formData file false "Featured image"
// @Success 201 {object} map[string]interface{} "Created post"
// @Failure 400 {object} models.ErrorResponse "Invalid post data"
// @Failure 403 {object} models.ErrorResponse "Not a member or profile below the posting threshold"
// @Router /posts [post]
func (h *PostController) Create(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Error("Failed to bind post form:", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	userID := c.GetString("user_id")
	businessID := c.PostForm("business_id")
	if businessID == "" {
		businessID = c.GetString("business_id")
	}
	if businessID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "business_id is required"})
		return
	}

	post, err := h.posts.CreatePost(c.Request.Context(), userID, businessID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	if file, err := c.FormFile("featured_image"); err == nil && file != nil {
		src, openErr := file.Open()
		if openErr != nil {
			h.logger.Error("Failed to open featured image:", openErr)
		} else {
			defer src.Close()
			updated, upErr := h.posts.UploadFeaturedImage(c.Request.Context(), post.ID, userID,
				file.Filename, file.Header.Get("Content-Type"), src)
			if upErr != nil {
				h.logger.Warnf("Featured image upload failed for post %s: %v", post.ID, upErr)
			} else {
				post = updated
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"post":    post,
		"success": true,
	})
}

// List handles GET /api/v1/posts
// @Summary Browse the post feed
// @Description List published posts, optionally scoped to one company or category
// @Tags Posts
// @Produce json
// @Param business_id query string false "Only posts from this company"
// @Param category query string false "update, announcement, article or event"
// @Param status query string false "draft or published, company scope only"
// @Param q query string false "Text search over title, content and tags"
// @Param page query int false "Page number"
// @Param page_size query int false "Results per page"
// @Success 200 {object} map[string]interface{} "Posts and pagination"
// @Router /posts [get]
func (h *PostController) List(c *gin.Context) {
	filter := &models.PostFilter{
		BusinessID: c.Query("business_id"),
		Status:     models.PostStatus(c.Query("status")),
		Category:   models.PostCategory(c.Query("category")),
		Query:      c.Query("q"),
	}
	filter.Page, filter.PageSize = pageParams(c)

	posts, pagination, err := h.posts.ListFeed(c.Request.Context(), c.GetString("user_id"), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      posts,
		"pagination": pagination,
		"success":    true,
	})
}

// Get handles GET /api/v1/posts/:id
// @Summary Get a post
// @Description Fetch a single post by id or slug
// @Tags Posts
// @Produce json
// @Param id path string true "Post ID or slug"
// @Success 200 {object} map[string]interface{} "Post"
// @Failure 404 {object} models.ErrorResponse "Post not found"
// @Router /posts/{id} [get]
func (h *PostController) Get(c *gin.Context) {
	post, err := h.posts.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":    post,
		"success": true,
	})
}

// Update handles PATCH /api/v1/posts/:id
// @Summary Update a post
// @Description Edit post fields or flip a draft to published
// @Tags Posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body models.UpdatePostRequest true "Fields to update"
// @Success 200 {object} map[string]interface{} "Updated post"
// @Failure 400 {object} models.ErrorResponse "Invalid update data"
// @Failure 403 {object} models.ErrorResponse "Not a member of the owning company"
// @Failure 404 {object} models.ErrorResponse "Post not found"
// @Router /posts/{id} [patch]
func (h *PostController) Update(c *gin.Context) {
	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind post update body:", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	post, err := h.posts.UpdatePost(c.Request.Context(), c.Param("id"), c.GetString("user_id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":    post,
		"success": true,
	})
}

// RecordView handles POST /api/v1/posts/:id/view
// @Summary Count a post view
// @Description Increment the view counter for a post
// @Tags Posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.SuccessResponse "View recorded"
// @Failure 404 {object} models.ErrorResponse "Post not found"
// @Router /posts/{id}/view [post]
func (h *PostController) RecordView(c *gin.Context) {
	if err := h.posts.RecordView(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
