// Package testutil provides test helpers for setting up in-memory databases,
// creating fixtures, and making assertions.
package testutil

import (
	"testing"

	"totality/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allModels is the list of all GORM models to auto-migrate in tests.
var allModels = []interface{}{
	&models.Workspace{},
	&models.Currency{},
	&models.Account{},
	&models.Bucket{},
	&models.Balance{},
	&models.Transaction{},
	&models.AuditLog{},
}

// seedCurrencies mirrors the currencies seeded by migration in production.
var seedCurrencies = []models.Currency{
	{Code: "USD", Name: "US Dollar", Precision: 2},
	{Code: "EUR", Name: "Euro", Precision: 2},
	{Code: "GBP", Name: "Pound Sterling", Precision: 2},
	{Code: "AUD", Name: "Australian Dollar", Precision: 2},
	{Code: "JPY", Name: "Yen", Precision: 0},
}

// SetupTestDB creates an in-memory SQLite database with all models migrated
// and the currency directory seeded.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	// The shared-cache DSN reuses one database per process, so the seed
	// must tolerate rows left behind by earlier setups.
	currencies := make([]models.Currency, len(seedCurrencies))
	copy(currencies, seedCurrencies)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&currencies).Error; err != nil {
		t.Fatalf("failed to seed currencies: %v", err)
	}

	return db
}

// TeardownTestDB closes the underlying database connection.
func TeardownTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()

	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
