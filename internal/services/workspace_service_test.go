package services

import (
	"testing"

	"totality/internal/testutil"
)

func TestCreateWorkspace(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkspaceService(db)

		ws, err := svc.CreateWorkspace("Household", "alex")
		testutil.AssertNoError(t, err)

		if ws.ID == "" {
			t.Fatal("expected non-empty workspace ID")
		}
		if ws.Name != "Household" {
			t.Errorf("expected name Household, got %s", ws.Name)
		}
		if ws.CreatedBy != "alex" {
			t.Errorf("expected created_by alex, got %s", ws.CreatedBy)
		}
	})

	t.Run("missing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkspaceService(db)

		_, err := svc.CreateWorkspace("", "alex")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetWorkspaceByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkspaceService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		found, err := svc.GetWorkspaceByID(ws.ID)
		testutil.AssertNoError(t, err)
		if found.ID != ws.ID {
			t.Errorf("expected workspace %s, got %s", ws.ID, found.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWorkspaceService(db)

		_, err := svc.GetWorkspaceByID("3b241101-e2bb-4255-8caf-4136c566a962")
		testutil.AssertAppError(t, err, "WORKSPACE_NOT_FOUND")
	})
}
