package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/academic-tracker/backend/internal/grading"
	"github.com/academic-tracker/backend/internal/services"
	"github.com/academic-tracker/backend/internal/transcript"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type GpaHandler struct {
	gpaService  *services.GpaService
	userService *services.UserService
}

func NewGpaHandler(gpaService *services.GpaService, userService *services.UserService) *GpaHandler {
	return &GpaHandler{gpaService: gpaService, userService: userService}
}

// @Summary GPA overview
// @Description SGPA per semester plus CGPA. Values are null when there is no countable data.
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} grading.Overview
// @Router /api/v1/grades/overview [get]
func (h *GpaHandler) Overview(c *gin.Context) {
	overview, err := h.gpaService.Overview(currentUserID(c), now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary SGPA for a semester number
// @Description Returns a bare number; 0.0 when the semester has no countable modules.
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param semester query int true "Semester number"
// @Success 200 {number} number
// @Router /api/v1/grades/sgpa [get]
func (h *GpaHandler) SemesterSGPA(c *gin.Context) {
	number, err := strconv.Atoi(c.Query("semester"))
	if err != nil || number < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "semester must be a positive integer"})
		return
	}

	sgpa, err := h.gpaService.SemesterSGPA(currentUserID(c), number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grading.OrZero(sgpa))
}

// @Summary Cumulative GPA
// @Description Returns a bare number; 0.0 when there are no countable modules.
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Success 200 {number} number
// @Router /api/v1/grades/cgpa [get]
func (h *GpaHandler) CGPA(c *gin.Context) {
	cgpa, err := h.gpaService.CGPA(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grading.OrZero(cgpa))
}

// @Summary Transcript spreadsheet
// @Tags grades
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /api/v1/grades/transcript.xlsx [get]
func (h *GpaHandler) Transcript(c *gin.Context) {
	userID := currentUserID(c)
	user, err := h.userService.Get(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	modules, overview, err := h.gpaService.TranscriptData(userID, now())
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := transcript.Write(&buf, user.Name, modules, overview); err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("transcript-%s.xlsx", strings.ToLower(user.Username))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
