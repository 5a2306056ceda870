package models

// Account represents a financial account within a workspace. Each account
// is denominated in exactly one currency; its running balance lives in the
// workspace's current Balance snapshot, never on the account row itself.
type Account struct {
	Base
	WorkspaceID string `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Name        string `gorm:"not null" json:"name"`
	Currency    string `gorm:"size:3;not null" json:"currency"`
	Description string `json:"description"`

	// Relationships
	Workspace *Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
}
