package transcripts

import (
	"context"
	"fmt"

	"helpdesk/common"

	"gorm.io/gorm"
)

// Repository handles data access for transcript messages
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts one transcript line. Rows are never mutated or deleted
// afterwards.
func (r *Repository) Append(ctx context.Context, msg *common.TicketMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to append transcript message: %w", err)
	}
	return nil
}

// ListByTicket returns the ticket's messages in replay order. The primary
// key breaks timestamp ties, so the order matches insertion order.
func (r *Repository) ListByTicket(ctx context.Context, ticketRef uint) ([]common.TicketMessage, error) {
	var msgs []common.TicketMessage
	err := r.db.WithContext(ctx).
		Where("ticket_ref = ?", ticketRef).
		Order("timestamp ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transcript messages: %w", err)
	}
	return msgs, nil
}
