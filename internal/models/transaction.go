package models

import "time"

// Transaction is one posted ledger entry for a primary account, holding a
// non-empty ordered list of splits in the Lines jsonb column. Rows are
// immutable once created: editing or deleting posts a new row and points
// the old row's superseded_by at it. The row whose superseded_by is null is
// the live version of its chain; a live row with Deleted set is a deletion
// marker that preserves the original line data for audit.
type Transaction struct {
	Base
	WorkspaceID string `gorm:"type:uuid;not null;index:idx_transactions_workspace" json:"workspace_id"`
	AccountID   string `gorm:"type:uuid;not null;index" json:"account_id"`
	// BalanceID references the Balance snapshot created in the same atomic
	// unit as this row. Bulk imports share one snapshot across many rows.
	BalanceID string `gorm:"type:uuid;not null" json:"balance_id"`

	Date time.Time `gorm:"not null" json:"date"`
	Note string    `gorm:"size:250" json:"note"`

	Lines LineList `gorm:"type:jsonb;column:data;not null" json:"data"`
	Meta  MetaMap  `gorm:"type:jsonb" json:"meta,omitempty"`

	Deleted      bool    `gorm:"not null;default:false" json:"deleted"`
	SupersededBy *string `gorm:"type:uuid;column:superseded_by;index" json:"superseded_by,omitempty"`

	CreatedBy string `json:"created_by"`
}
