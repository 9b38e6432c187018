package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/decor-finance/backend/internal/integration/persistence/model"
)

var testDay = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

// newTestDB opens an isolated in-memory database with every model migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbSQL, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	dbSQL.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbSQL.Close() })

	db, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, db *gorm.DB, records ...interface{}) {
	t.Helper()
	for _, r := range records {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("failed to seed %T: %v", r, err)
		}
	}
}

func movementModel(tenantID uuid.UUID, description string, amount int64, daysAgo int) *model.BankMovementModel {
	direction := "credit"
	if amount < 0 {
		direction = "debit"
	}
	return &model.BankMovementModel{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Description:  description,
		Amount:       decimal.NewFromInt(amount),
		Direction:    direction,
		MovementDate: testDay.AddDate(0, 0, -daysAgo),
		CreatedAt:    testDay,
		UpdatedAt:    testDay,
	}
}
