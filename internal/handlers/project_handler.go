package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/studioflow/shoot-scheduler/internal/audit"
	domain "github.com/studioflow/shoot-scheduler/internal/domain/booking"
	"github.com/studioflow/shoot-scheduler/internal/httperr"
	"github.com/studioflow/shoot-scheduler/internal/httpresp"
	"github.com/studioflow/shoot-scheduler/internal/middleware"
	"github.com/studioflow/shoot-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// ProjectHandler cobre só a entrada de projetos. O status é mutado pelo
// booking state machine, nunca por edição direta aqui.
type ProjectHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewProjectHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *ProjectHandler {
	return &ProjectHandler{db: db, audit: dispatcher}
}

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	project := models.Project{
		UserID: userID,
		Name:   req.Name,
		Status: string(domain.ProjectOpen),
	}

	if err := h.db.Create(&project).Error; err != nil {
		httperr.Internal(c, "failed_to_create_project", "Erro ao criar projeto.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:     strconv.FormatUint(uint64(userID), 10),
		TargetTable: "projects",
		TargetID:    &project.ID,
		ActionType:  "INSERT",
		Changes:     map[string]any{"name": project.Name},
	})

	httpresp.Created(c, project)
}

// List devolve os projetos do centro autenticado; admins veem todos.
func (h *ProjectHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	isAdmin := c.MustGet(middleware.ContextIsAdmin).(bool)

	q := h.db.Order("created_at DESC")
	if !isAdmin {
		q = q.Where("user_id = ?", userID)
	}

	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		httperr.Internal(c, "project_list_failed", "Erro ao listar projetos.")
		return
	}

	httpresp.List(c, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	isAdmin := c.MustGet(middleware.ContextIsAdmin).(bool)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	var project models.Project
	if err := h.db.First(&project, uint(id)).Error; err != nil {
		httperr.NotFound(c, "project_not_found", "Projeto não encontrado.")
		return
	}

	if !isAdmin && project.UserID != userID {
		httperr.Forbidden(c, "not_project_owner", "Projeto pertence a outro centro.")
		return
	}

	httpresp.OK(c, project)
}
