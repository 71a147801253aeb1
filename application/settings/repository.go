package settings

import (
	"context"
	"errors"
	"fmt"

	"helpdesk/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles data access for guild settings
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate returns the guild's settings, lazily persisting a default
// record on first access. Safe against a concurrent first access.
func (r *Repository) GetOrCreate(ctx context.Context, guildID string) (*common.GuildSettings, error) {
	var s common.GuildSettings
	err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	defaults := common.GuildSettings{
		GuildID:        guildID,
		MaxOpenTickets: common.DefaultMaxOpenTickets,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&defaults).Error; err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}

	// Re-read so a concurrent creator's row wins consistently
	if err := r.db.WithContext(ctx).Where("guild_id = ?", guildID).First(&s).Error; err != nil {
		return nil, fmt.Errorf("failed to reload settings: %w", err)
	}
	return &s, nil
}

// Update merges only the supplied fields into the stored record.
// Out-of-range values are rejected before anything is written.
func (r *Repository) Update(ctx context.Context, guildID string, payload *UpdatePayload) error {
	if err := payload.Validate(); err != nil {
		return err
	}

	cols := payload.columns()
	if len(cols) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&common.GuildSettings{}).
		Where("guild_id = ?", guildID).
		Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("failed to update settings: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.NewNotFoundError("settings", guildID)
	}
	return nil
}

// AllocateTicketNumber atomically increments and returns the guild's
// ticket counter. The increment and the read-back run in one transaction,
// so two concurrent open requests in the same guild never observe the
// same value.
func (r *Repository) AllocateTicketNumber(ctx context.Context, guildID string) (int, error) {
	var counter int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&common.GuildSettings{}).
			Where("guild_id = ?", guildID).
			UpdateColumn("ticket_counter", gorm.Expr("ticket_counter + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("failed to increment ticket counter: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return common.NewNotFoundError("settings", guildID)
		}

		var s common.GuildSettings
		if err := tx.Where("guild_id = ?", guildID).First(&s).Error; err != nil {
			return fmt.Errorf("failed to read ticket counter: %w", err)
		}
		counter = s.TicketCounter
		return nil
	})
	if err != nil {
		return 0, err
	}
	return counter, nil
}
