package controller

import (
	"context"
	"net/http"

	"b2bconnect-backend/services"
	"b2bconnect-backend/utils/logger"

	"github.com/gin-gonic/gin"
)

type SectorController struct {
	ctx     context.Context
	sectors services.SectorServiceInterface
	logger  logger.Logger
}

func NewSectorController(ctx context.Context, sectors services.SectorServiceInterface, log logger.Logger) *SectorController {
	return &SectorController{
		ctx:     ctx,
		sectors: sectors,
		logger:  log,
	}
}

// List handles GET /api/v1/sectors
// @Summary List sectors
// @Description Return the sector catalog with per-sector company counts
// @Tags Sectors
// @Produce json
// @Success 200 {object} map[string]interface{} "Sectors"
// @Router /sectors [get]
func (h *SectorController) List(c *gin.Context) {
	sectors, err := h.sectors.ListSectors(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sectors": sectors,
		"success": true,
	})
}
