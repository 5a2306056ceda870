package services

import (
	"testing"
	"time"

	"totality/internal/ledger"
	"totality/internal/models"
	"totality/internal/testutil"
)

func TestGetAccountBalances(t *testing.T) {
	t.Run("zero_ledger_before_first_post", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		account := testutil.CreateTestAccount(t, db, ws.ID)

		accounts, lb, err := svc.GetAccountBalances(ws.ID)
		testutil.AssertNoError(t, err)

		if len(accounts) != 1 || accounts[0].ID != account.ID {
			t.Fatalf("expected the workspace's single account, got %d", len(accounts))
		}
		if got := lb.AccountBalance(account.ID, "USD"); got != 0 {
			t.Errorf("expected zero balance, got %d", got)
		}
	})

	t.Run("reflects_current_snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		acctSvc := NewAccountService(db)
		txSvc := NewTransactionService(db, acctSvc)
		svc := NewBalanceService(db)
		ws := testutil.CreateTestWorkspace(t, db)
		account := testutil.CreateTestAccount(t, db, ws.ID)

		_, err := txSvc.PostTransaction(ws.ID, account.ID, draftEntry(12345))
		testutil.AssertNoError(t, err)

		_, lb, err := svc.GetAccountBalances(ws.ID)
		testutil.AssertNoError(t, err)
		if got := lb.AccountBalance(account.ID, "USD"); got != 12345 {
			t.Errorf("expected balance 12345, got %d", got)
		}
	})

	t.Run("unknown_workspace", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBalanceService(db)

		_, _, err := svc.GetAccountBalances("3b241101-e2bb-4255-8caf-4136c566a962")
		testutil.AssertAppError(t, err, "WORKSPACE_NOT_FOUND")
	})
}

func TestGetBucketBalances(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	acctSvc := NewAccountService(db)
	txSvc := NewTransactionService(db, acctSvc)
	svc := NewBalanceService(db)
	ws := testutil.CreateTestWorkspace(t, db)
	account := testutil.CreateTestAccount(t, db, ws.ID)
	groceries := testutil.CreateTestBucket(t, db, ws.ID, models.BucketKindExpense)
	salary := testutil.CreateTestBucket(t, db, ws.ID, models.BucketKindIncome)

	entry := TransactionEntry{
		Date: time.Now(),
		Lines: []ledger.Line{
			{Type: ledger.LineTypeExternal, Amount: -2500, BucketID: groceries.ID},
		},
	}
	_, err := txSvc.PostTransaction(ws.ID, account.ID, entry)
	testutil.AssertNoError(t, err)

	views, err := svc.GetBucketBalances(ws.ID)
	testutil.AssertNoError(t, err)
	if len(views) != 2 {
		t.Fatalf("expected 2 bucket views, got %d", len(views))
	}

	byID := map[string]BucketBalanceView{}
	for _, view := range views {
		byID[view.Bucket.ID] = view
	}
	if got := byID[groceries.ID].Amounts["USD"]; got != 2500 {
		t.Errorf("expected groceries USD 2500, got %d", got)
	}
	if len(byID[salary.ID].Amounts) != 0 {
		t.Errorf("expected untouched bucket to report no amounts, got %v", byID[salary.ID].Amounts)
	}
}
