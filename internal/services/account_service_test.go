package services

import (
	"testing"

	"totality/internal/pagination"
	"totality/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		account, err := svc.CreateAccount(ws.ID, "Checking", "USD", "everyday spending")
		testutil.AssertNoError(t, err)

		if account.ID == "" {
			t.Fatal("expected non-empty account ID")
		}
		if account.Currency != "USD" {
			t.Errorf("expected currency USD, got %s", account.Currency)
		}
		if account.WorkspaceID != ws.ID {
			t.Errorf("expected workspace %s, got %s", ws.ID, account.WorkspaceID)
		}
	})

	t.Run("unknown_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		_, err := svc.CreateAccount(ws.ID, "Checking", "XXX", "")
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
	})

	t.Run("unknown_workspace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.CreateAccount("3b241101-e2bb-4255-8caf-4136c566a962", "Checking", "USD", "")
		testutil.AssertAppError(t, err, "WORKSPACE_NOT_FOUND")
	})

	t.Run("missing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		ws := testutil.CreateTestWorkspace(t, db)

		_, err := svc.CreateAccount(ws.ID, "", "USD", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetWorkspaceAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)
	ws := testutil.CreateTestWorkspace(t, db)
	other := testutil.CreateTestWorkspace(t, db)

	testutil.CreateTestAccount(t, db, ws.ID)
	testutil.CreateTestAccount(t, db, ws.ID)
	testutil.CreateTestAccount(t, db, other.ID)

	resp, err := svc.GetWorkspaceAccounts(ws.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if resp.TotalItems != 2 {
		t.Errorf("expected 2 accounts, got %d", resp.TotalItems)
	}
	for _, account := range resp.Data {
		if account.WorkspaceID != ws.ID {
			t.Errorf("got account from another workspace: %s", account.ID)
		}
	}
}

func TestGetAccountByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		account := testutil.CreateTestAccount(t, db, ws.ID)

		found, err := svc.GetAccountByID(ws.ID, account.ID)
		testutil.AssertNoError(t, err)
		if found.ID != account.ID {
			t.Errorf("expected account %s, got %s", account.ID, found.ID)
		}
	})

	t.Run("wrong_workspace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		other := testutil.CreateTestWorkspace(t, db)
		account := testutil.CreateTestAccount(t, db, ws.ID)

		_, err := svc.GetAccountByID(other.ID, account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestGetCurrencies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db)

	currencies, err := svc.GetCurrencies()
	testutil.AssertNoError(t, err)

	if len(currencies) == 0 {
		t.Fatal("expected seeded currencies")
	}
	for i := 1; i < len(currencies); i++ {
		if currencies[i-1].Code > currencies[i].Code {
			t.Fatalf("expected currencies ordered by code, got %s before %s",
				currencies[i-1].Code, currencies[i].Code)
		}
	}
}
