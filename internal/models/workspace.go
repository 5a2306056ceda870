package models

// Workspace is the tenancy boundary. Every account, bucket, transaction and
// balance snapshot belongs to exactly one workspace. Authorization of
// workspace membership happens upstream of this service.
type Workspace struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	CreatedBy string `json:"created_by"`

	// Relationships
	Accounts []Account `gorm:"foreignKey:WorkspaceID" json:"accounts,omitempty"`
	Buckets  []Bucket  `gorm:"foreignKey:WorkspaceID" json:"buckets,omitempty"`
}
