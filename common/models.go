package common

import (
	"time"

	"github.com/guregu/null/v5"
)

// Ticket statuses. A ticket is created open and only ever moves to closed.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// DefaultCategory is applied when an open request carries no category.
const DefaultCategory = "general"

type Ticket struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	GuildID   string `gorm:"index;uniqueIndex:idx_guild_ticket,priority:1" json:"guild_id"`
	TicketID  string `gorm:"uniqueIndex:idx_guild_ticket,priority:2" json:"ticket_id"`
	ChannelID string `gorm:"index" json:"channel_id"`
	// ChannelKey mirrors ChannelID while the ticket is open and goes NULL on
	// close. The unique index is what enforces one open ticket per channel;
	// NULLs never collide.
	ChannelKey null.String `gorm:"uniqueIndex" json:"-"`
	UserID     string      `gorm:"index" json:"user_id"`
	Category   string      `gorm:"default:general" json:"category"`
	Status     string      `gorm:"default:open;index" json:"status"`
	ClaimedBy  null.String `json:"claimed_by"`
	CreatedAt  time.Time   `json:"created_at"`
	ClosedAt   null.Time   `json:"closed_at"`
	ClosedBy   null.String `json:"closed_by"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// IsOpen reports whether the ticket still accepts lifecycle actions.
func (t *Ticket) IsOpen() bool {
	return t.Status == StatusOpen
}

// TicketMessage is one transcript line. Rows are append-only; TicketRef is a
// back-reference to the owning ticket's primary key.
type TicketMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketRef uint      `gorm:"index" json:"ticket_ref"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func (TicketMessage) TableName() string {
	return "ticket_messages"
}

// GuildSettings holds per-guild configuration, created lazily with defaults.
// TicketCounter is monotonically non-decreasing and is the source of
// ticket-id uniqueness within a guild.
type GuildSettings struct {
	GuildID          string      `gorm:"primaryKey" json:"guild_id"`
	TicketCategoryID null.String `json:"ticket_category_id"`
	LogChannelID     null.String `json:"log_channel_id"`
	SupportRoleID    null.String `json:"support_role_id"`
	AdminRoleID      null.String `json:"admin_role_id"`
	TicketCounter    int         `gorm:"default:0" json:"ticket_counter"`
	WelcomeMessage   null.String `json:"welcome_message"`
	CloseMessage     null.String `json:"close_message"`
	MaxOpenTickets   int         `gorm:"default:3" json:"max_open_tickets"`
}

func (GuildSettings) TableName() string {
	return "settings"
}

// Bounds for GuildSettings.MaxOpenTickets.
const (
	MinMaxOpenTickets     = 1
	MaxMaxOpenTickets     = 10
	DefaultMaxOpenTickets = 3
)

// BlacklistEntry bans an actor from opening tickets. At most one entry per
// actor; a repeated ban overwrites the previous one.
type BlacklistEntry struct {
	UserID   string    `gorm:"primaryKey" json:"user_id"`
	Reason   string    `json:"reason"`
	BannedBy string    `json:"banned_by"`
	BannedAt time.Time `json:"banned_at"`
}

func (BlacklistEntry) TableName() string {
	return "blacklist"
}
