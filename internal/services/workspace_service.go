package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "totality/internal/errors"
	"totality/internal/models"
	"totality/internal/pagination"
)

// workspaceService handles workspace directory logic.
type workspaceService struct {
	db *gorm.DB
}

// NewWorkspaceService creates a new WorkspaceServicer.
func NewWorkspaceService(db *gorm.DB) WorkspaceServicer {
	return &workspaceService{db: db}
}

// CreateWorkspace creates a new workspace.
func (s *workspaceService) CreateWorkspace(name, createdBy string) (*models.Workspace, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "workspace name is required")
	}

	workspace := &models.Workspace{
		Name:      name,
		CreatedBy: createdBy,
	}
	if err := s.db.Create(workspace).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return workspace, nil
}

// GetWorkspaces retrieves a paginated list of workspaces.
func (s *workspaceService) GetWorkspaces(page pagination.PageRequest) (*pagination.PageResponse[models.Workspace], error) {
	page.Defaults()

	base := s.db.Model(&models.Workspace{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var workspaces []models.Workspace
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at ASC").
		Find(&workspaces).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(workspaces, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetWorkspaceByID retrieves a workspace by ID.
func (s *workspaceService) GetWorkspaceByID(workspaceID string) (*models.Workspace, error) {
	var workspace models.Workspace
	if err := s.db.Where("id = ?", workspaceID).First(&workspace).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWorkspaceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &workspace, nil
}
