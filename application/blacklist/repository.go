package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpdesk/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles data access for the blacklist
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Ban upserts a blacklist entry. A repeated ban for the same actor
// overwrites the previous entry; the most recent reason wins and no
// history is retained.
func (r *Repository) Ban(ctx context.Context, userID, reason, bannedBy string) error {
	entry := common.BlacklistEntry{
		UserID:   userID,
		Reason:   reason,
		BannedBy: bannedBy,
		BannedAt: time.Now(),
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}
	return nil
}

// Unban removes the actor's entry. Removing an absent entry is a no-op.
func (r *Repository) Unban(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&common.BlacklistEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}
	return nil
}

// Get returns the actor's entry, or nil when the actor is not banned.
func (r *Repository) Get(ctx context.Context, userID string) (*common.BlacklistEntry, error) {
	var entry common.BlacklistEntry
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up blacklist entry: %w", err)
	}
	return &entry, nil
}

// List returns every entry in ban-time order.
func (r *Repository) List(ctx context.Context) ([]common.BlacklistEntry, error) {
	var entries []common.BlacklistEntry
	err := r.db.WithContext(ctx).Order("banned_at ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list blacklist: %w", err)
	}
	return entries, nil
}
