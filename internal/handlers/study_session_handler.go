package handlers

import (
	"net/http"
	"time"

	"github.com/academic-tracker/backend/internal/services"
	"github.com/academic-tracker/backend/internal/studytime"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StudySessionHandler struct {
	sessionService *services.StudySessionService
}

func NewStudySessionHandler(sessionService *services.StudySessionService) *StudySessionHandler {
	return &StudySessionHandler{sessionService: sessionService}
}

// SessionRequest takes RFC 3339 timestamps
type SessionRequest struct {
	ModuleID    string     `json:"module_id" binding:"required,uuid"`
	StartTime   *time.Time `json:"start_time" binding:"required"`
	EndTime     *time.Time `json:"end_time" binding:"required"`
	SessionType string     `json:"session_type" binding:"max=50"`
}

// @Summary Record a study session
// @Tags study-sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SessionRequest true "Session"
// @Success 201 {object} models.StudySession
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Router /api/v1/study-sessions [post]
func (h *StudySessionHandler) Record(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	moduleID := uuid.MustParse(req.ModuleID)

	session, err := h.sessionService.Record(currentUserID(c), services.SessionInput{
		ModuleID:    &moduleID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		SessionType: req.SessionType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// @Summary List study sessions, newest first
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.StudySession
// @Router /api/v1/study-sessions [get]
func (h *StudySessionHandler) List(c *gin.Context) {
	sessions, err := h.sessionService.List(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// @Summary Delete a study session
// @Tags study-sessions
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204
// @Router /api/v1/study-sessions/{id} [delete]
func (h *StudySessionHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.sessionService.Delete(currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Seconds studied today
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param module_id query string false "Module to single out"
// @Success 200 {object} studytime.Summary
// @Router /api/v1/study-sessions/today-summary [get]
func (h *StudySessionHandler) TodaySummary(c *gin.Context) {
	moduleID, ok := queryUUID(c, "module_id")
	if !ok {
		return
	}
	summary, err := h.sessionService.TodaySummary(currentUserID(c), moduleID, now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Per-module totals for one day
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} studytime.DayBreakdown
// @Router /api/v1/study-sessions/by-day [get]
func (h *StudySessionHandler) ByDay(c *gin.Context) {
	date, ok := queryDate(c, "date", now())
	if !ok {
		return
	}
	breakdown, err := h.sessionService.BreakdownForDate(currentUserID(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// @Summary Seconds studied per day
// @Description Defaults to the current month.
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD, inclusive"
// @Success 200 {object} map[string]int64
// @Router /api/v1/study-sessions/heatmap [get]
func (h *StudySessionHandler) Heatmap(c *gin.Context) {
	first, last := studytime.MonthBounds(now())
	start, ok := queryDate(c, "start", first)
	if !ok {
		return
	}
	end, ok := queryDate(c, "end", last)
	if !ok {
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return
	}

	heatmap, err := h.sessionService.Heatmap(currentUserID(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, heatmap)
}

// @Summary Sessions of a seven day week
// @Tags study-sessions
// @Produce json
// @Security BearerAuth
// @Param week_start query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {array} models.StudySession
// @Router /api/v1/study-sessions/weekly [get]
func (h *StudySessionHandler) Weekly(c *gin.Context) {
	weekStart, ok := queryDate(c, "week_start", now())
	if !ok {
		return
	}
	sessions, err := h.sessionService.Weekly(currentUserID(c), weekStart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
