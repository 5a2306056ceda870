package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"totality/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestWorkspace creates a workspace with a unique name.
func CreateTestWorkspace(t *testing.T, db *gorm.DB) *models.Workspace {
	t.Helper()

	ws := &models.Workspace{
		Name:      fmt.Sprintf("Test Workspace %d", nextID()),
		CreatedBy: "tester",
	}
	if err := db.Create(ws).Error; err != nil {
		t.Fatalf("failed to create test workspace: %v", err)
	}
	return ws
}

// CreateTestAccount creates a USD account in the given workspace.
func CreateTestAccount(t *testing.T, db *gorm.DB, workspaceID string) *models.Account {
	t.Helper()
	return CreateTestAccountWithCurrency(t, db, workspaceID, "USD")
}

// CreateTestAccountWithCurrency creates an account denominated in the given currency.
func CreateTestAccountWithCurrency(t *testing.T, db *gorm.DB, workspaceID, currency string) *models.Account {
	t.Helper()

	account := &models.Account{
		WorkspaceID: workspaceID,
		Name:        fmt.Sprintf("Test Account %d", nextID()),
		Currency:    currency,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestBucket creates a bucket of the given kind.
func CreateTestBucket(t *testing.T, db *gorm.DB, workspaceID string, kind models.BucketKind) *models.Bucket {
	t.Helper()

	bucket := &models.Bucket{
		WorkspaceID: workspaceID,
		Name:        fmt.Sprintf("Test Bucket %d", nextID()),
		Kind:        kind,
	}
	if err := db.Create(bucket).Error; err != nil {
		t.Fatalf("failed to create test bucket: %v", err)
	}
	return bucket
}
