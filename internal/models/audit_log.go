package models

// AuditLog records posting operations for traceability. Entries are written
// best-effort outside the posting transaction; the supersession chain
// itself remains the authoritative history.
type AuditLog struct {
	Base
	WorkspaceID  string `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid" json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
