package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"totality/internal/models"
	"totality/internal/pagination"
	"totality/internal/services"
)

// --- mock bucket service ---

type mockBucketService struct {
	createBucketFn        func(workspaceID, name string, kind models.BucketKind) (*models.Bucket, error)
	getWorkspaceBucketsFn func(workspaceID string, page pagination.PageRequest) (*pagination.PageResponse[models.Bucket], error)
	getBucketByIDFn       func(workspaceID, bucketID string) (*models.Bucket, error)
}

func (m *mockBucketService) CreateBucket(workspaceID, name string, kind models.BucketKind) (*models.Bucket, error) {
	if m.createBucketFn != nil {
		return m.createBucketFn(workspaceID, name, kind)
	}
	return &models.Bucket{}, nil
}

func (m *mockBucketService) GetWorkspaceBuckets(workspaceID string, page pagination.PageRequest) (*pagination.PageResponse[models.Bucket], error) {
	if m.getWorkspaceBucketsFn != nil {
		return m.getWorkspaceBucketsFn(workspaceID, page)
	}
	resp := pagination.NewPageResponse([]models.Bucket{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBucketService) GetBucketByID(workspaceID, bucketID string) (*models.Bucket, error) {
	if m.getBucketByIDFn != nil {
		return m.getBucketByIDFn(workspaceID, bucketID)
	}
	return &models.Bucket{}, nil
}

var _ services.BucketServicer = (*mockBucketService)(nil)

func setupBucketRouter(handler *BucketHandler) *gin.Engine {
	r := gin.New()
	r.POST("/workspaces/:workspace_id/buckets", handler.CreateBucket)
	r.GET("/workspaces/:workspace_id/buckets", handler.GetBuckets)
	r.GET("/workspaces/:workspace_id/buckets/balances", handler.GetBucketBalances)
	r.GET("/workspaces/:workspace_id/buckets/:bucket_id", handler.GetBucket)
	return r
}

func TestBucketHandler_CreateBucket(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		bucketSvc := &mockBucketService{
			createBucketFn: func(workspaceID, name string, kind models.BucketKind) (*models.Bucket, error) {
				return &models.Bucket{
					Base:        models.Base{ID: testBucketID},
					WorkspaceID: workspaceID,
					Name:        name,
					Kind:        kind,
				}, nil
			},
		}
		handler := NewBucketHandler(bucketSvc, &mockBalanceService{}, &mockAuditService{})
		r := setupBucketRouter(handler)

		rec := doRequest(r, "POST", "/workspaces/"+testWorkspaceID+"/buckets",
			`{"name":"Groceries","kind":"expense"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		bucket := result["bucket"].(map[string]interface{})
		if bucket["kind"] != "expense" {
			t.Errorf("expected expense, got %v", bucket["kind"])
		}
	})

	t.Run("returns 400 on invalid kind", func(t *testing.T) {
		handler := NewBucketHandler(&mockBucketService{}, &mockBalanceService{}, &mockAuditService{})
		r := setupBucketRouter(handler)

		rec := doRequest(r, "POST", "/workspaces/"+testWorkspaceID+"/buckets",
			`{"name":"Groceries","kind":"stash"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBucketHandler_GetBucketBalances(t *testing.T) {
	balSvc := &mockBalanceService{
		getBucketBalancesFn: func(_ string) ([]services.BucketBalanceView, error) {
			return []services.BucketBalanceView{
				{
					Bucket:  models.Bucket{Base: models.Base{ID: testBucketID}, Name: "Groceries"},
					Amounts: map[string]int64{"USD": 2500},
				},
			}, nil
		},
	}
	handler := NewBucketHandler(&mockBucketService{}, balSvc, &mockAuditService{})
	r := setupBucketRouter(handler)

	rec := doRequest(r, "GET", "/workspaces/"+testWorkspaceID+"/buckets/balances", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	buckets := result["buckets"].([]interface{})
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket view, got %d", len(buckets))
	}
	view := buckets[0].(map[string]interface{})
	amounts := view["amounts"].(map[string]interface{})
	if amounts["USD"] != float64(2500) {
		t.Errorf("expected USD 2500, got %v", amounts["USD"])
	}
}
