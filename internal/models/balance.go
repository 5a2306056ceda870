package models

// Balance is one immutable snapshot of a workspace's full ledger balance.
// Snapshots form an append-only chain through superseded_by; the single row
// per workspace with a null superseded_by is the current balance. A new
// snapshot and the transaction rows that produced it are always written in
// one atomic unit that also marks the previous head superseded.
type Balance struct {
	Base
	WorkspaceID string `gorm:"type:uuid;not null;index:idx_balances_workspace" json:"workspace_id"`

	LedgerBalance LedgerSnapshot `gorm:"type:jsonb;not null" json:"ledger_balance"`
	// BudgetBalance is owned by the budgeting screens and copied forward
	// verbatim whenever a new snapshot is cut.
	BudgetBalance RawJSON `gorm:"type:jsonb" json:"budget_balance"`

	SupersededBy *string `gorm:"type:uuid;column:superseded_by;index" json:"superseded_by,omitempty"`
}
