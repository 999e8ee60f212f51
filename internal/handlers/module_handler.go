package handlers

import (
	"net/http"

	"github.com/academic-tracker/backend/internal/models"
	"github.com/academic-tracker/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ModuleHandler struct {
	moduleService *services.ModuleService
	auditService  *services.AuditService
}

func NewModuleHandler(moduleService *services.ModuleService, auditService *services.AuditService) *ModuleHandler {
	return &ModuleHandler{moduleService: moduleService, auditService: auditService}
}

type ModuleRequest struct {
	Code       string  `json:"code" binding:"required,notblank,max=50"`
	Name       string  `json:"name" binding:"required,notblank"`
	Credits    int     `json:"credits" binding:"required,min=1,max=30"`
	SemesterID string  `json:"semester_id" binding:"omitempty,uuid"`
	Grade      *string `json:"grade" binding:"omitempty,grade"`
}

func (r ModuleRequest) input() services.ModuleInput {
	in := services.ModuleInput{
		Code:    r.Code,
		Name:    r.Name,
		Credits: r.Credits,
		Grade:   r.Grade,
	}
	if r.SemesterID != "" {
		if id, err := uuid.Parse(r.SemesterID); err == nil {
			in.SemesterID = &id
		}
	}
	return in
}

func moduleSnapshot(m *models.Module) models.JSONB {
	snap := models.JSONB{"code": m.Code, "name": m.Name, "credits": m.Credits}
	if m.Grade != nil {
		snap["grade"] = *m.Grade
	}
	if m.SemesterID != nil {
		snap["semester_id"] = m.SemesterID.String()
	}
	return snap
}

// @Summary List modules
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param semester_id query string false "Only modules of this semester"
// @Success 200 {array} models.Module
// @Router /api/v1/modules [get]
func (h *ModuleHandler) List(c *gin.Context) {
	semesterID, ok := queryUUID(c, "semester_id")
	if !ok {
		return
	}

	modules, err := h.moduleService.List(currentUserID(c), semesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, modules)
}

// @Summary Register a module
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ModuleRequest true "Module"
// @Success 201 {object} models.Module
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/modules [post]
func (h *ModuleHandler) Create(c *gin.Context) {
	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID := currentUserID(c)
	module, err := h.moduleService.Register(userID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionCreate, "module", module.ID, nil, moduleSnapshot(module), c.ClientIP())

	c.JSON(http.StatusCreated, module)
}

// @Summary Get a module
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 200 {object} models.Module
// @Failure 404 {object} map[string]string
// @Router /api/v1/modules/{id} [get]
func (h *ModuleHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	module, err := h.moduleService.Get(currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, module)
}

// @Summary Modules of the semester running today
// @Tags modules
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Module
// @Router /api/v1/modules/current-semester [get]
func (h *ModuleHandler) ListCurrentSemester(c *gin.Context) {
	modules, err := h.moduleService.ListForCurrentSemester(currentUserID(c), now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, modules)
}

// @Summary Update a module
// @Tags modules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Param request body ModuleRequest true "Module"
// @Success 200 {object} models.Module
// @Router /api/v1/modules/{id} [put]
func (h *ModuleHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID := currentUserID(c)
	before, module, err := h.moduleService.Update(userID, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionUpdate, "module", module.ID, moduleSnapshot(&before), moduleSnapshot(module), c.ClientIP())

	c.JSON(http.StatusOK, module)
}

// @Summary Delete a module and its study sessions
// @Tags modules
// @Security BearerAuth
// @Param id path string true "Module ID"
// @Success 204
// @Router /api/v1/modules/{id} [delete]
func (h *ModuleHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	userID := currentUserID(c)
	module, err := h.moduleService.Delete(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.Log(userID, services.ActionDelete, "module", module.ID, moduleSnapshot(module), nil, c.ClientIP())

	c.Status(http.StatusNoContent)
}
