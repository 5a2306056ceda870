package services

import (
	"time"

	"totality/internal/ledger"
	"totality/internal/models"
	"totality/internal/pagination"
)

// WorkspaceServicer defines the contract for workspace directory logic.
type WorkspaceServicer interface {
	CreateWorkspace(name, createdBy string) (*models.Workspace, error)
	GetWorkspaces(page pagination.PageRequest) (*pagination.PageResponse[models.Workspace], error)
	GetWorkspaceByID(workspaceID string) (*models.Workspace, error)
}

// AccountServicer defines the contract for the account directory.
type AccountServicer interface {
	CreateAccount(workspaceID, name, currency, description string) (*models.Account, error)
	GetWorkspaceAccounts(workspaceID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(workspaceID, accountID string) (*models.Account, error)
	GetCurrencies() ([]models.Currency, error)
}

// BucketServicer defines the contract for the budget-bucket directory.
type BucketServicer interface {
	CreateBucket(workspaceID, name string, kind models.BucketKind) (*models.Bucket, error)
	GetWorkspaceBuckets(workspaceID string, page pagination.PageRequest) (*pagination.PageResponse[models.Bucket], error)
	GetBucketByID(workspaceID, bucketID string) (*models.Bucket, error)
}

// TransactionEntry carries the caller-supplied fields of one transaction to
// post: the date, free-text note, ordered splits, and importer provenance.
type TransactionEntry struct {
	Date      time.Time
	Note      string
	Lines     []ledger.Line
	Meta      map[string]string
	CreatedBy string
}

// TransactionServicer defines the contract for the posting orchestration:
// every mutation runs as one atomic unit that cuts a new balance snapshot
// and supersedes the previous one.
type TransactionServicer interface {
	PostTransaction(workspaceID, accountID string, entry TransactionEntry) (*models.Transaction, error)
	UpdateTransaction(workspaceID, accountID, transactionID string, entry TransactionEntry) (*models.Transaction, error)
	DeleteTransaction(workspaceID, accountID, transactionID string) (*models.Transaction, error)
	PostTransactions(workspaceID, accountID string, entries []TransactionEntry) error
	GetTransactions(workspaceID, accountID string) ([]models.Transaction, error)
}

// BucketBalanceView is one bucket with its per-currency allocated amounts
// taken from the current balance snapshot.
type BucketBalanceView struct {
	Bucket  models.Bucket    `json:"bucket"`
	Amounts map[string]int64 `json:"amounts"`
}

// BalanceServicer defines the read paths over the current balance snapshot.
type BalanceServicer interface {
	GetAccountBalances(workspaceID string) ([]models.Account, ledger.LedgerBalance, error)
	GetBucketBalances(workspaceID string) ([]BucketBalanceView, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(workspaceID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
