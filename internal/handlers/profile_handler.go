package handlers

import (
	"net/http"

	"github.com/academic-tracker/backend/internal/models"
	"github.com/academic-tracker/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	userService  *services.UserService
	auditService *services.AuditService
}

func NewProfileHandler(userService *services.UserService, auditService *services.AuditService) *ProfileHandler {
	return &ProfileHandler{userService: userService, auditService: auditService}
}

// UpdateProfileRequest leaves absent fields untouched
type UpdateProfileRequest struct {
	Name           *string `json:"name" binding:"omitempty,notblank"`
	Username       *string `json:"username" binding:"omitempty,notblank,max=100"`
	Email          *string `json:"email" binding:"omitempty,email"`
	University     *string `json:"university"`
	AcademicYear   *string `json:"academic_year"`
	Degree         *string `json:"degree"`
	GraduationYear *int    `json:"graduation_year" binding:"omitempty,gte=1900,lte=2200"`
	Batch          *string `json:"batch" binding:"omitempty,notblank"`
	Telephone      *string `json:"telephone"`
	DOB            *string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
}

// @Summary Current user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /api/v1/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.userService.GetProfile(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Update the current user's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 409 {object} map[string]string
// @Router /api/v1/profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	in := services.ProfileInput{
		Name:           req.Name,
		Username:       req.Username,
		Email:          req.Email,
		University:     req.University,
		AcademicYear:   req.AcademicYear,
		Degree:         req.Degree,
		GraduationYear: req.GraduationYear,
		Batch:          req.Batch,
		Telephone:      req.Telephone,
	}
	if req.DOB != nil {
		in.DOB = parseOptionalDate(*req.DOB)
	}

	userID := currentUserID(c)
	user, err := h.userService.UpdateProfile(userID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionUpdate, "user", user.ID, nil, models.JSONB{"username": user.Username, "email": user.Email}, c.ClientIP())

	c.JSON(http.StatusOK, user)
}
