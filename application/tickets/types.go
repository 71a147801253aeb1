package tickets

import (
	stdjson "encoding/json"

	"helpdesk/application/policy"
	"helpdesk/common"
)

// Action kinds accepted by Dispatch. The collaborator layer normalizes
// every interaction (slash command, button, menu) into one of these.
const (
	ActionOpen              = "ticket.open"
	ActionClaim             = "ticket.claim"
	ActionClose             = "ticket.close"
	ActionRename            = "ticket.rename"
	ActionAddParticipant    = "ticket.participant.add"
	ActionRemoveParticipant = "ticket.participant.remove"
)

// ActionRequest is the normalized request shape the engine accepts: a
// tagged variant carrying the actor, the guild, the actor's resolved
// capability set and an action-specific payload.
type ActionRequest struct {
	Kind         string              `json:"kind" binding:"required"`
	GuildID      string              `json:"guild_id" binding:"required"`
	ActorID      string              `json:"actor_id" binding:"required"`
	Capabilities policy.Capabilities `json:"capabilities"`
	Payload      stdjson.RawMessage  `json:"payload"`
}

// OpenPayload opens a ticket bound to an already-created channel.
type OpenPayload struct {
	ChannelID string `json:"channel_id"`
	Category  string `json:"category"`
}

// ClaimPayload assigns the acting staff member to a ticket.
type ClaimPayload struct {
	TicketID string `json:"ticket_id"`
}

// ClosePayload closes a ticket with an optional display reason.
type ClosePayload struct {
	TicketID string `json:"ticket_id"`
	Reason   string `json:"reason"`
}

// RenamePayload asks for a new channel name for the ticket.
type RenamePayload struct {
	TicketID string `json:"ticket_id"`
	Name     string `json:"name"`
}

// ParticipantPayload adds or removes an actor from a ticket channel.
type ParticipantPayload struct {
	TicketID string `json:"ticket_id"`
	TargetID string `json:"target_id"`
}

// OpenResult carries the created ticket plus the display defaults the
// collaborator needs to render the welcome embed.
type OpenResult struct {
	Ticket         *common.Ticket `json:"ticket"`
	WelcomeMessage string         `json:"welcome_message,omitempty"`
}

// CloseResult carries the closed ticket plus the display defaults for the
// close notice and the archival log. Channel teardown is the
// collaborator's deferred action; the ticket is already terminal here.
type CloseResult struct {
	Ticket       *common.Ticket `json:"ticket"`
	Reason       string         `json:"reason,omitempty"`
	CloseMessage string         `json:"close_message,omitempty"`
	LogChannelID string         `json:"log_channel_id,omitempty"`
}

// RenameResult echoes the validated name for the collaborator to apply to
// the platform channel. The engine stores no channel name itself.
type RenameResult struct {
	Ticket *common.Ticket `json:"ticket"`
	Name   string         `json:"name"`
}

// ParticipantResult echoes the permitted participant change for the
// collaborator to apply as channel permissions.
type ParticipantResult struct {
	Ticket   *common.Ticket `json:"ticket"`
	TargetID string         `json:"target_id"`
	Added    bool           `json:"added"`
}

// TopActor is one row of a stats leaderboard.
type TopActor struct {
	UserID string `gorm:"column:user_id" json:"user_id"`
	Count  int    `gorm:"column:cnt" json:"count"`
}

// Stats aggregates a guild's ticket activity.
type Stats struct {
	Total        int64      `json:"total"`
	Open         int64      `json:"open"`
	Closed       int64      `json:"closed"`
	TopOwners    []TopActor `json:"top_owners"`
	TopClaimants []TopActor `json:"top_claimants"`
}
