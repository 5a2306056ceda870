package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "totality/internal/errors"
	"totality/internal/models"
	"totality/internal/pagination"
	"totality/internal/services"
)

// BucketHandler handles budget bucket requests.
type BucketHandler struct {
	bucketService  services.BucketServicer
	balanceService services.BalanceServicer
	auditService   services.AuditServicer
}

// NewBucketHandler creates a new BucketHandler.
func NewBucketHandler(bucketService services.BucketServicer, balanceService services.BalanceServicer, auditService services.AuditServicer) *BucketHandler {
	return &BucketHandler{bucketService: bucketService, balanceService: balanceService, auditService: auditService}
}

// CreateBucketRequest represents the request payload for creating a bucket
type CreateBucketRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Kind string `json:"kind" binding:"required,bucket_kind"`
}

// CreateBucket handles the creation of a new bucket.
func (h *BucketHandler) CreateBucket(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBucketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	bucket, err := h.bucketService.CreateBucket(workspaceID, req.Name, models.BucketKind(req.Kind))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(workspaceID, "CREATE_BUCKET", "bucket", bucket.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "kind": req.Kind})

	c.JSON(http.StatusCreated, gin.H{"bucket": bucket})
}

// GetBuckets returns the workspace's buckets, paginated.
func (h *BucketHandler) GetBuckets(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	page.Defaults()

	resp, err := h.bucketService.GetWorkspaceBuckets(workspaceID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetBucket returns a single bucket by ID.
func (h *BucketHandler) GetBucket(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	bucketID, err := parsePathID(c, "bucket_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bucket, err := h.bucketService.GetBucketByID(workspaceID, bucketID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bucket": bucket})
}

// GetBucketBalances returns every bucket with its per-currency allocations
// from the current ledger snapshot.
func (h *BucketHandler) GetBucketBalances(c *gin.Context) {
	workspaceID, err := parsePathID(c, "workspace_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	views, err := h.balanceService.GetBucketBalances(workspaceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"buckets": views})
}
