package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpdesk/common"

	"github.com/guregu/null/v5"
	"gorm.io/gorm"
)

// Repository handles data access for tickets
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new open ticket. The open-ticket-per-channel invariant
// is enforced by the unique index on channel_key, not by a read-then-write
// check, so it holds under any isolation level and any number of
// concurrent openers.
func (r *Repository) Create(ctx context.Context, t *common.Ticket) error {
	t.ChannelKey = null.StringFrom(t.ChannelID)

	err := r.db.WithContext(ctx).Create(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.ErrDuplicateChannel
	}
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// FindByID returns the guild's ticket with the given display id, or nil
// when absent.
func (r *Repository) FindByID(ctx context.Context, guildID, ticketID string) (*common.Ticket, error) {
	var t common.Ticket
	err := r.db.WithContext(ctx).
		Where("guild_id = ? AND ticket_id = ?", guildID, ticketID).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return &t, nil
}

// FindByChannel returns the ticket bound to the channel, preferring the
// open one, or nil when the channel has no ticket.
func (r *Repository) FindByChannel(ctx context.Context, channelID string) (*common.Ticket, error) {
	var t common.Ticket
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("status DESC"). // "open" sorts after "closed"
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ticket by channel: %w", err)
	}
	return &t, nil
}

// ListByOwner returns the actor's tickets, optionally filtered by status.
func (r *Repository) ListByOwner(ctx context.Context, actorID, status string) ([]common.Ticket, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", actorID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var out []common.Ticket
	if err := q.Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return out, nil
}

// CountOpenByOwner counts the actor's open tickets in a guild, for quota
// enforcement.
func (r *Repository) CountOpenByOwner(ctx context.Context, guildID, actorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&common.Ticket{}).
		Where("guild_id = ? AND user_id = ? AND status = ?", guildID, actorID, common.StatusOpen).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count open tickets: %w", err)
	}
	return count, nil
}

// Claim sets the claimant in a single conditional UPDATE: the not-yet-
// claimed check and the write happen in one statement, so of any number of
// racing claimers exactly one wins.
func (r *Repository) Claim(ctx context.Context, guildID, ticketID, claimantID string) (*common.Ticket, error) {
	res := r.db.WithContext(ctx).Model(&common.Ticket{}).
		Where("guild_id = ? AND ticket_id = ? AND claimed_by IS NULL", guildID, ticketID).
		Update("claimed_by", claimantID)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to claim ticket: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		existing, err := r.FindByID(ctx, guildID, ticketID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, common.NewNotFoundError("ticket", ticketID)
		}
		return nil, common.ErrAlreadyClaimed
	}

	return r.FindByID(ctx, guildID, ticketID)
}

// Close transitions an open ticket to closed, setting status, closer and
// close time atomically in one conditional UPDATE. Concurrent closes yield
// exactly one success; the rest observe ErrNotOpen. The transition is
// terminal.
func (r *Repository) Close(ctx context.Context, guildID, ticketID, closedBy string) (*common.Ticket, error) {
	res := r.db.WithContext(ctx).Model(&common.Ticket{}).
		Where("guild_id = ? AND ticket_id = ? AND status = ?", guildID, ticketID, common.StatusOpen).
		Updates(map[string]interface{}{
			"status":      common.StatusClosed,
			"closed_at":   null.TimeFrom(time.Now()),
			"closed_by":   null.StringFrom(closedBy),
			"channel_key": nil, // release the channel binding
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to close ticket: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		existing, err := r.FindByID(ctx, guildID, ticketID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, common.NewNotFoundError("ticket", ticketID)
		}
		return nil, common.ErrNotOpen
	}

	return r.FindByID(ctx, guildID, ticketID)
}

// Stats aggregates the guild's counts and top-5 leaderboards. Ties are
// broken by actor id ascending so the ordering is deterministic.
func (r *Repository) Stats(ctx context.Context, guildID string) (*Stats, error) {
	stats := &Stats{
		TopOwners:    []TopActor{},
		TopClaimants: []TopActor{},
	}

	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&common.Ticket{}).Where("guild_id = ?", guildID)
	}

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}
	if err := base().Where("status = ?", common.StatusOpen).Count(&stats.Open).Error; err != nil {
		return nil, fmt.Errorf("failed to count open tickets: %w", err)
	}
	if err := base().Where("status = ?", common.StatusClosed).Count(&stats.Closed).Error; err != nil {
		return nil, fmt.Errorf("failed to count closed tickets: %w", err)
	}

	err := base().
		Select("user_id, COUNT(*) AS cnt").
		Group("user_id").
		Order("cnt DESC, user_id ASC").
		Limit(5).
		Scan(&stats.TopOwners).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank ticket owners: %w", err)
	}

	err = base().
		Select("claimed_by AS user_id, COUNT(*) AS cnt").
		Where("claimed_by IS NOT NULL").
		Group("claimed_by").
		Order("cnt DESC, claimed_by ASC").
		Limit(5).
		Scan(&stats.TopClaimants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank claimants: %w", err)
	}

	return stats, nil
}
