package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "totality/internal/errors"
	"totality/internal/pagination"
	"totality/internal/services"
)

// WorkspaceHandler handles workspace directory requests.
type WorkspaceHandler struct {
	workspaceService services.WorkspaceServicer
	auditService     services.AuditServicer
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService services.WorkspaceServicer, auditService services.AuditServicer) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService, auditService: auditService}
}

// CreateWorkspaceRequest represents the request payload for creating a workspace
type CreateWorkspaceRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	CreatedBy string `json:"created_by" binding:"max=100"`
}

// CreateWorkspace handles the creation of a new workspace.
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(req.Name, req.CreatedBy)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(workspace.ID, "CREATE_WORKSPACE", "workspace", workspace.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"workspace": workspace})
}

// GetWorkspaces returns a paginated list of workspaces.
func (h *WorkspaceHandler) GetWorkspaces(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	resp, err := h.workspaceService.GetWorkspaces(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetWorkspace returns a single workspace by ID.
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	workspace, err := h.workspaceService.GetWorkspaceByID(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspace": workspace})
}
