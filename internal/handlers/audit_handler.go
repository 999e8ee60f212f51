package handlers

import (
	"net/http"
	"strconv"

	"github.com/academic-tracker/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary Recent audit activity
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param limit query int false "At most 100, default 20"
// @Success 200 {array} services.Activity
// @Router /api/v1/audit/recent [get]
func (h *AuditHandler) GetRecentActivity(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "20")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit > 100 {
		limit = 20
	}

	activities, err := h.auditService.Recent(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if activities == nil {
		activities = []services.Activity{}
	}

	c.JSON(http.StatusOK, activities)
}
