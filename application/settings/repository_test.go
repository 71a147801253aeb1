package settings

import (
	"context"
	"sort"
	"sync"
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

	// Each sqlite :memory: connection is its own database, so pin the pool
	// to a single connection. This also serializes writers, which the
	// concurrency tests rely on.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&common.GuildSettings{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestGetOrCreateDefaults(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	s, err := repo.GetOrCreate(ctx, "guild-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	if s.MaxOpenTickets != common.DefaultMaxOpenTickets {
		t.Fatalf("MaxOpenTickets = %d, want %d", s.MaxOpenTickets, common.DefaultMaxOpenTickets)
	}
	if s.TicketCounter != 0 {
		t.Fatalf("TicketCounter = %d, want 0", s.TicketCounter)
	}
	if s.SupportRoleID.Valid {
		t.Fatalf("SupportRoleID should be unset by default")
	}

	// Idempotent thereafter
	again, err := repo.GetOrCreate(ctx, "guild-1")
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if again.GuildID != s.GuildID || again.MaxOpenTickets != s.MaxOpenTickets {
		t.Fatalf("second GetOrCreate returned a different record: %+v vs %+v", again, s)
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetOrCreate(ctx, "guild-1"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	role := "role-support"
	maxOpen := 5
	err := repo.Update(ctx, "guild-1", &UpdatePayload{
		SupportRoleID:  &role,
		MaxOpenTickets: &maxOpen,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	s, err := repo.GetOrCreate(ctx, "guild-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if s.SupportRoleID.String != "role-support" {
		t.Fatalf("SupportRoleID = %q, want role-support", s.SupportRoleID.String)
	}
	if s.MaxOpenTickets != 5 {
		t.Fatalf("MaxOpenTickets = %d, want 5", s.MaxOpenTickets)
	}
	// Unspecified fields stay untouched
	if s.AdminRoleID.Valid {
		t.Fatalf("AdminRoleID should still be unset")
	}
}

func TestUpdateRejectsOutOfRange(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetOrCreate(ctx, "guild-1"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	tests := []struct {
		name  string
		value int
	}{
		{name: "below minimum", value: 0},
		{name: "above maximum", value: 11},
		{name: "negative", value: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.value
			err := repo.Update(ctx, "guild-1", &UpdatePayload{MaxOpenTickets: &v})
			if !common.IsValidation(err) {
				t.Fatalf("Update(%d) error = %v, want ValidationError", tt.value, err)
			}
		})
	}

	// Nothing was persisted by the rejected patches
	s, err := repo.GetOrCreate(ctx, "guild-1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if s.MaxOpenTickets != common.DefaultMaxOpenTickets {
		t.Fatalf("MaxOpenTickets = %d, want untouched default", s.MaxOpenTickets)
	}
}

func TestUpdateUnknownGuild(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	maxOpen := 5
	err := repo.Update(context.Background(), "nope", &UpdatePayload{MaxOpenTickets: &maxOpen})
	if !common.IsNotFound(err) {
		t.Fatalf("Update on unknown guild = %v, want NotFoundError", err)
	}
}

func TestAllocateTicketNumberSequential(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetOrCreate(ctx, "guild-1"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	for want := 1; want <= 5; want++ {
		got, err := repo.AllocateTicketNumber(ctx, "guild-1")
		if err != nil {
			t.Fatalf("AllocateTicketNumber failed: %v", err)
		}
		if got != want {
			t.Fatalf("AllocateTicketNumber = %d, want %d", got, want)
		}
	}
}

func TestAllocateTicketNumberConcurrent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	if _, err := repo.GetOrCreate(ctx, "guild-1"); err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	const n = 25
	results := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := repo.AllocateTicketNumber(ctx, "guild-1")
			if err != nil {
				t.Errorf("AllocateTicketNumber failed: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	var nums []int
	for num := range results {
		nums = append(nums, num)
	}
	if len(nums) != n {
		t.Fatalf("got %d allocations, want %d", len(nums), n)
	}

	// N concurrent calls yield N distinct consecutive integers
	sort.Ints(nums)
	for i, num := range nums {
		if num != i+1 {
			t.Fatalf("allocation sequence has gap or duplicate: %v", nums)
		}
	}
}

func TestAllocationsAreIndependentAcrossGuilds(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	for _, g := range []string{"guild-a", "guild-b"} {
		if _, err := repo.GetOrCreate(ctx, g); err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
	}

	if _, err := repo.AllocateTicketNumber(ctx, "guild-a"); err != nil {
		t.Fatalf("allocate guild-a: %v", err)
	}
	if _, err := repo.AllocateTicketNumber(ctx, "guild-a"); err != nil {
		t.Fatalf("allocate guild-a: %v", err)
	}

	got, err := repo.AllocateTicketNumber(ctx, "guild-b")
	if err != nil {
		t.Fatalf("allocate guild-b: %v", err)
	}
	if got != 1 {
		t.Fatalf("guild-b first allocation = %d, want 1", got)
	}
}
