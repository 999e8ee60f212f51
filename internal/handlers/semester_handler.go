package handlers

import (
	"net/http"

	"github.com/academic-tracker/backend/internal/models"
	"github.com/academic-tracker/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type SemesterHandler struct {
	semesterService *services.SemesterService
	auditService    *services.AuditService
}

func NewSemesterHandler(semesterService *services.SemesterService, auditService *services.AuditService) *SemesterHandler {
	return &SemesterHandler{semesterService: semesterService, auditService: auditService}
}

// SemesterRequest carries dates as YYYY-MM-DD; a blank name becomes "Semester N"
type SemesterRequest struct {
	Name      string `json:"name" binding:"max=100"`
	Number    int    `json:"number" binding:"required,gte=1"`
	StartDate string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

func (r SemesterRequest) input() services.SemesterInput {
	return services.SemesterInput{
		Name:      r.Name,
		Number:    r.Number,
		StartDate: parseOptionalDate(r.StartDate),
		EndDate:   parseOptionalDate(r.EndDate),
	}
}

func semesterSnapshot(s *models.Semester) models.JSONB {
	return models.JSONB{"name": s.Name, "number": s.Number}
}

// @Summary List semesters
// @Tags semesters
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Semester
// @Router /api/v1/semesters [get]
func (h *SemesterHandler) List(c *gin.Context) {
	semesters, err := h.semesterService.List(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, semesters)
}

// @Summary Create a semester
// @Tags semesters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SemesterRequest true "Semester"
// @Success 201 {object} models.Semester
// @Failure 409 {object} map[string]string
// @Router /api/v1/semesters [post]
func (h *SemesterHandler) Create(c *gin.Context) {
	var req SemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID := currentUserID(c)
	semester, err := h.semesterService.Create(userID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionCreate, "semester", semester.ID, nil, semesterSnapshot(semester), c.ClientIP())

	c.JSON(http.StatusCreated, semester)
}

// @Summary Semester running today
// @Tags semesters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Semester
// @Failure 404 {object} map[string]string
// @Router /api/v1/semesters/current [get]
func (h *SemesterHandler) Current(c *gin.Context) {
	semester, err := h.semesterService.Current(currentUserID(c), now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, semester)
}

// @Summary Update a semester
// @Tags semesters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Semester ID"
// @Param request body SemesterRequest true "Semester"
// @Success 200 {object} models.Semester
// @Router /api/v1/semesters/{id} [put]
func (h *SemesterHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req SemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID := currentUserID(c)
	before, err := h.semesterService.Get(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	beforeSnap := semesterSnapshot(before)

	semester, err := h.semesterService.Update(userID, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionUpdate, "semester", semester.ID, beforeSnap, semesterSnapshot(semester), c.ClientIP())

	c.JSON(http.StatusOK, semester)
}

// @Summary Delete a semester
// @Description Modules of the semester are kept but detached from it.
// @Tags semesters
// @Security BearerAuth
// @Param id path string true "Semester ID"
// @Success 204
// @Router /api/v1/semesters/{id} [delete]
func (h *SemesterHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	userID := currentUserID(c)
	semester, err := h.semesterService.Delete(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionDelete, "semester", semester.ID, semesterSnapshot(semester), nil, c.ClientIP())

	c.Status(http.StatusNoContent)
}
