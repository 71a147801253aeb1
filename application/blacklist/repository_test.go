package blacklist

import (
	"context"
	"testing"

	"helpdesk/common"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&common.BlacklistEntry{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestBanUnbanRoundTrip(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Ban(ctx, "user-1", "spam", "admin-1"); err != nil {
		t.Fatalf("Ban failed: %v", err)
	}

	entry, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a blacklist entry after Ban")
	}
	if entry.Reason != "spam" || entry.BannedBy != "admin-1" {
		t.Fatalf("entry = %+v", entry)
	}

	if err := repo.Unban(ctx, "user-1"); err != nil {
		t.Fatalf("Unban failed: %v", err)
	}

	entry, err = repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get after Unban failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected no entry after Unban, got %+v", entry)
	}
}

func TestBanOverwritesReason(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Ban(ctx, "user-1", "spam", "admin-1"); err != nil {
		t.Fatalf("first Ban failed: %v", err)
	}
	if err := repo.Ban(ctx, "user-1", "abuse", "admin-2"); err != nil {
		t.Fatalf("second Ban failed: %v", err)
	}

	entry, err := repo.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Reason != "abuse" {
		t.Fatalf("Reason = %q, want most recent reason", entry.Reason)
	}
	if entry.BannedBy != "admin-2" {
		t.Fatalf("BannedBy = %q, want admin-2", entry.BannedBy)
	}

	// Still exactly one entry for the actor
	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List returned %d entries, want 1", len(entries))
	}
}

func TestUnbanAbsentIsNoop(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	if err := repo.Unban(context.Background(), "ghost"); err != nil {
		t.Fatalf("Unban of absent user should be a no-op, got %v", err)
	}
}

func TestListReturnsAllEntries(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	for _, u := range []string{"user-1", "user-2", "user-3"} {
		if err := repo.Ban(ctx, u, "spam", "admin-1"); err != nil {
			t.Fatalf("Ban(%s) failed: %v", u, err)
		}
	}

	entries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(entries))
	}
}
