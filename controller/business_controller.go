package controller

import (
	"context"
	"net/http"
	"strconv"

	"b2bconnect-backend/models"
	"b2bconnect-backend/services"
	"b2bconnect-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type BusinessController struct {
	ctx      context.Context
	business services.BusinessServiceInterface
	logger   logger.Logger
}

func NewBusinessController(ctx context.Context, business services.BusinessServiceInterface, log logger.Logger) *BusinessController {
	return &BusinessController{
		ctx:      ctx,
		business: business,
		logger:   log,
	}
}

// Create handles POST /api/v1/companies
// @Summary Register a company profile
// @Description Create a company profile; accepts multipart form data with an optional logo file
// @Tags Companies
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param name formData string true "Company name"
// @Param description formData string false "Company description"
// @Param sector formData string false "Sector slug"
// @Param logo formData file false "Logo image"
// @Success 201 {object} map[string]interface{} "Created company"
// @Failure 400 {object} models.ErrorResponse "Invalid company data or duplicate name"
// @Failure 401 {object} models.ErrorResponse "Not authenticated"
// @Router /companies [post]
func (h *BusinessController) Create(c *gin.Context) {
	var req models.CreateBusinessRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Error("Failed to bind company form:", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	ownerID := c.GetString("user_id")
	business, err := h.business.CreateBusiness(c.Request.Context(), ownerID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	// The logo rides along on the creation form when provided
	if file, err := c.FormFile("logo"); err == nil && file != nil {
		src, openErr := file.Open()
		if openErr != nil {
			h.logger.Error("Failed to open uploaded logo:", openErr)
		} else {
			defer src.Close()
			updated, upErr := h.business.UploadMedia(c.Request.Context(), business.ID, ownerID,
				"logo", file.Filename, file.Header.Get("Content-Type"), src)
			if upErr != nil {
				h.logger.Warnf("Logo upload failed for business %s: %v", business.ID, upErr)
			} else {
				business = updated
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"business": business,
		"success":  true,
	})
}

// List handles GET /api/v1/companies
// @Summary Browse the company directory
// @Description List companies with optional sector and free-text filters
// @Tags Companies
// @Produce json
// @Param sector query string false "Sector slug"
// @Param q query string false "Search term matched against name, description and tags"
// @Param page query int false "Page number"
// @Param page_size query int false "Results per page"
// @Success 200 {object} map[string]interface{} "Companies and pagination"
// @Router /companies [get]
func (h *BusinessController) List(c *gin.Context) {
	filter := &models.BusinessFilter{
		Sector: c.Query("sector"),
		Query:  c.Query("q"),
	}
	filter.Page, filter.PageSize = pageParams(c)

	businesses, pagination, err := h.business.ListDirectory(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"pagination": pagination,
		"success":    true,
	})
}

// Get handles GET /api/v1/companies/:id
// @Summary Get a company profile
// @Description Fetch a company by id or by slug; slug lookups count as profile views
// @Tags Companies
// @Produce json
// @Param id path string true "Company ID or slug"
// @Success 200 {object} map[string]interface{} "Company profile"
// @Failure 404 {object} models.ErrorResponse "Company not found"
// @Router /companies/{id} [get]
func (h *BusinessController) Get(c *gin.Context) {
	business, err := h.business.GetBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
		"success":  true,
	})
}

// SaveSection handles PATCH /api/v1/companies/:id
// @Summary Update a profile section
// @Description Save one profile section and recompute the completion score
// @Tags Companies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body models.UpdateBusinessRequest true "Section update"
// @Success 200 {object} map[string]interface{} "Updated company"
// @Failure 400 {object} models.ErrorResponse "Invalid section data"
// @Failure 403 {object} models.ErrorResponse "Not a member of this company"
// @Failure 404 {object} models.ErrorResponse "Company not found"
// @Router /companies/{id} [patch]
func (h *BusinessController) SaveSection(c *gin.Context) {
	var req models.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind section body:", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	business, err := h.business.SaveSection(c.Request.Context(), c.Param("id"), c.GetString("user_id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business":   business,
		"completion": business.ProfileCompletion.CompletionPercentage,
		"success":    true,
	})
}

// UploadMedia handles POST /api/v1/companies/:id/media
// @Summary Upload company media
// @Description Upload a logo or banner image for a company
// @Tags Companies
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param id path string true "Company ID"
// @Param kind formData string true "Media kind, logo or banner"
// @Param file formData file true "Image file"
// @Success 200 {object} map[string]interface{} "Updated company"
// @Failure 400 {object} models.ErrorResponse "Missing file or unknown media kind"
// @Failure 403 {object} models.ErrorResponse "Not a member of this company"
// @Router /companies/{id}/media [post]
func (h *BusinessController) UploadMedia(c *gin.Context) {
	kind := c.PostForm("kind")
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file:", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "could not read uploaded file"})
		return
	}
	defer src.Close()

	business, err := h.business.UploadMedia(c.Request.Context(), c.Param("id"), c.GetString("user_id"),
		kind, file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
		"success":  true,
	})
}

// pageParams reads page and page_size query values, zero means service defaults
func pageParams(c *gin.Context) (page, pageSize int) {
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.Query("page_size")); err == nil && ps > 0 && ps <= 100 {
		pageSize = ps
	}
	return page, pageSize
}
