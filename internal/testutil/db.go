package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	config "gigflow.com/gigflow/internal/configs"
	"gigflow.com/gigflow/internal/constants"
	model "gigflow.com/gigflow/internal/models"
)

// NewTestDB opens a private in-memory SQLite database with the schema
// migrated. The connection is closed when the test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := config.Open(config.DriverSQLite, dsn, logger.Discard)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB from gorm: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func NewGig(ownerID string) *model.Gig {
	return &model.Gig{
		ID:          uuid.NewString(),
		Title:       "Build a landing page",
		Description: "Single page, responsive",
		Budget:      500,
		OwnerID:     ownerID,
		Status:      constants.GigStatusOpen,
		Version:     1,
	}
}

func NewBid(gigID, workerID string) *model.Bid {
	return &model.Bid{
		ID:       uuid.NewString(),
		GigID:    gigID,
		WorkerID: workerID,
		Message:  "I can do this",
		Price:    450,
		Status:   constants.BidStatusPending,
	}
}
