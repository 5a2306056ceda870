package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "totality/internal/errors"
	"totality/internal/models"
	"totality/internal/pagination"
)

// bucketService handles the budget-bucket directory.
type bucketService struct {
	db *gorm.DB
}

// NewBucketService creates a new BucketServicer.
func NewBucketService(db *gorm.DB) BucketServicer {
	return &bucketService{db: db}
}

// CreateBucket creates a new budget bucket in a workspace.
func (s *bucketService) CreateBucket(workspaceID, name string, kind models.BucketKind) (*models.Bucket, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bucket name is required")
	}
	if kind != models.BucketKindIncome && kind != models.BucketKindExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bucket kind must be income or expense")
	}

	var workspaceCount int64
	if err := s.db.Model(&models.Workspace{}).Where("id = ?", workspaceID).Count(&workspaceCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if workspaceCount == 0 {
		return nil, apperrors.ErrWorkspaceNotFound
	}

	// Bucket names are unique within a workspace.
	var count int64
	if err := s.db.Model(&models.Bucket{}).
		Where("workspace_id = ? AND name = ?", workspaceID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bucket with this name already exists")
	}

	bucket := &models.Bucket{
		WorkspaceID: workspaceID,
		Name:        name,
		Kind:        kind,
	}
	if err := s.db.Create(bucket).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return bucket, nil
}

// GetWorkspaceBuckets retrieves a paginated list of a workspace's buckets.
func (s *bucketService) GetWorkspaceBuckets(workspaceID string, page pagination.PageRequest) (*pagination.PageResponse[models.Bucket], error) {
	page.Defaults()

	base := s.db.Model(&models.Bucket{}).Where("workspace_id = ?", workspaceID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var buckets []models.Bucket
	if err := base.Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&buckets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(buckets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBucketByID retrieves a bucket by ID within a workspace.
func (s *bucketService) GetBucketByID(workspaceID, bucketID string) (*models.Bucket, error) {
	var bucket models.Bucket
	if err := s.db.Where("id = ? AND workspace_id = ?", bucketID, workspaceID).First(&bucket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBucketNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &bucket, nil
}
