package handlers

import (
	"net/http"

	"github.com/academic-tracker/backend/internal/models"
	"github.com/academic-tracker/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  *services.AuthService
	auditService *services.AuditService
}

func NewAuthHandler(authService *services.AuthService, auditService *services.AuditService) *AuthHandler {
	return &AuthHandler{authService: authService, auditService: auditService}
}

type RegisterRequest struct {
	Name                string `json:"name" binding:"required,notblank"`
	Username            string `json:"username" binding:"required,notblank,max=100"`
	Email               string `json:"email" binding:"required,email"`
	Password            string `json:"password" binding:"required,min=8"`
	Batch               string `json:"batch" binding:"required,notblank"`
	UniversityRegNumber string `json:"university_reg_number" binding:"required,notblank"`
	ALYear              int    `json:"al_year" binding:"required,gt=0"`
	University          string `json:"university"`
	Degree              string `json:"degree"`
	Telephone           string `json:"telephone"`
}

// LoginRequest accepts an email address or a username as identifier
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,notblank"`
	Password   string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"name":     user.Name,
		"role":     user.Role,
	}
}

// @Summary Register a student account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Name:                req.Name,
		Username:            req.Username,
		Email:               req.Email,
		Password:            req.Password,
		Batch:               req.Batch,
		UniversityRegNumber: req.UniversityRegNumber,
		ALYear:              req.ALYear,
		University:          req.University,
		Degree:              req.Degree,
		Telephone:           req.Telephone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(user.ID, services.ActionCreate, "user", user.ID, nil, models.JSONB{"username": user.Username}, c.ClientIP())

	c.JSON(http.StatusCreated, user)
}

// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} services.TokenPair
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tokens, user, err := h.authService.Login(req.Identifier, req.Password)
	if err != nil {
		if services.IsUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"user":   userResponse(user),
	})
}

// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} services.TokenPair
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tokens, err := h.authService.RefreshTokens(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// @Summary Logout
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.authService.RevokeToken(req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
