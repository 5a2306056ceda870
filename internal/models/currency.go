package models

// Currency is a directory entry for an ISO 4217 currency. Precision is the
// number of minor-unit digits; all stored amounts are already multiplied by
// 10^Precision. The table is seeded by migration and read-only at runtime.
type Currency struct {
	Code      string `gorm:"primaryKey;size:3" json:"code"`
	Name      string `gorm:"not null" json:"name"`
	Precision int    `gorm:"not null;default:2" json:"precision"`
}

// TableName overrides the default pluralization ("currencies").
func (Currency) TableName() string { return "currencies" }
