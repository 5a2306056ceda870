package models

// BucketKind represents whether a bucket tracks income or expenses
type BucketKind string

const (
	BucketKindIncome  BucketKind = "income"
	BucketKindExpense BucketKind = "expense"
)

// Bucket is a budget category that external transaction lines allocate
// against. Bucket balances are carried per currency inside the workspace's
// Balance snapshots.
type Bucket struct {
	Base
	WorkspaceID string     `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Name        string     `gorm:"not null" json:"name"`
	Kind        BucketKind `gorm:"not null" json:"kind"`

	// Relationships
	Workspace *Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
}
