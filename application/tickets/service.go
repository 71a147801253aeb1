package tickets

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"time"

	"helpdesk/application/blacklist"
	"helpdesk/application/policy"
	"helpdesk/application/settings"
	"helpdesk/common"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// Maximum length accepted for a ticket channel name.
const maxRenameLength = 100

// Service owns the ticket lifecycle: it validates every action against the
// blacklist, the guild settings and the policy functions before touching
// the registry, and returns plain results for the collaborator layer to
// render.
type Service struct {
	repo      *Repository
	settings  *settings.Service
	blacklist *blacklist.Service
	logger    *zap.Logger
}

// NewService creates a new Service
func NewService(repo *Repository, settingsSvc *settings.Service, blacklistSvc *blacklist.Service, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		settings:  settingsSvc,
		blacklist: blacklistSvc,
		logger:    logger,
	}
}

// Dispatch routes a normalized ActionRequest to its handler. Unknown kinds
// are rejected without mutation.
func (s *Service) Dispatch(ctx context.Context, req *ActionRequest) (any, error) {
	start := time.Now()

	var (
		result any
		err    error
	)

	switch req.Kind {
	case ActionOpen:
		var p OpenPayload
		if err = decodePayload(req.Payload, &p); err == nil {
			result, err = s.Open(ctx, req.GuildID, req.ActorID, &p)
		}
	case ActionClaim:
		var p ClaimPayload
		if err = decodePayload(req.Payload, &p); err == nil {
			result, err = s.Claim(ctx, req.GuildID, req.ActorID, req.Capabilities, &p)
		}
	case ActionClose:
		var p ClosePayload
		if err = decodePayload(req.Payload, &p); err == nil {
			result, err = s.Close(ctx, req.GuildID, req.ActorID, req.Capabilities, &p)
		}
	case ActionRename:
		var p RenamePayload
		if err = decodePayload(req.Payload, &p); err == nil {
			result, err = s.Rename(ctx, req.GuildID, &p)
		}
	case ActionAddParticipant:
		var p ParticipantPayload
		if err = decodePayload(req.Payload, &p); err == nil {
			result, err = s.AddParticipant(ctx, req.GuildID, &p)
		}
	case ActionRemoveParticipant:
		var p ParticipantPayload
		if err = decodePayload(req.Payload, &p); err == nil {
			result, err = s.RemoveParticipant(ctx, req.GuildID, &p)
		}
	default:
		err = common.NewValidationError("kind", fmt.Sprintf("unknown action kind %q", req.Kind))
	}

	s.logger.Info("action dispatched",
		zap.String("kind", req.Kind),
		zap.String("guild_id", req.GuildID),
		zap.String("actor_id", req.ActorID),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("ok", err == nil),
	)

	return result, err
}

func decodePayload(raw stdjson.RawMessage, v any) error {
	if len(raw) == 0 {
		return common.NewValidationError("payload", "must not be empty")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return common.NewValidationError("payload", fmt.Sprintf("malformed: %v", err))
	}
	return nil
}

// CanOpen evaluates the open-ticket policy for an actor without mutating
// anything. The collaborator calls this before creating the channel.
func (s *Service) CanOpen(ctx context.Context, guildID, actorID string) (policy.Decision, error) {
	entry, err := s.blacklist.IsBanned(ctx, actorID)
	if err != nil {
		return policy.Decision{}, err
	}

	cfg, err := s.settings.GetSettings(ctx, guildID)
	if err != nil {
		return policy.Decision{}, err
	}

	openCount, err := s.repo.CountOpenByOwner(ctx, guildID, actorID)
	if err != nil {
		return policy.Decision{}, err
	}

	return policy.CanOpenTicket(entry, int(openCount), cfg.MaxOpenTickets), nil
}

// Open validates the open request, allocates the next guild-scoped ticket
// number and persists the new ticket bound to its channel.
func (s *Service) Open(ctx context.Context, guildID, actorID string, p *OpenPayload) (*OpenResult, error) {
	if p.ChannelID == "" {
		return nil, common.NewValidationError("channel_id", "must not be empty")
	}

	decision, err := s.CanOpen(ctx, guildID, actorID)
	if err != nil {
		return nil, err
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	num, err := s.settings.AllocateTicketNumber(ctx, guildID)
	if err != nil {
		return nil, err
	}

	category := p.Category
	if category == "" {
		category = common.DefaultCategory
	}

	t := &common.Ticket{
		GuildID:   guildID,
		TicketID:  fmt.Sprintf("ticket-%04d", num),
		ChannelID: p.ChannelID,
		UserID:    actorID,
		Category:  category,
		Status:    common.StatusOpen,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	cfg, err := s.settings.GetSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket opened",
		zap.String("guild_id", guildID),
		zap.String("ticket_id", t.TicketID),
		zap.String("user_id", actorID),
		zap.String("category", category),
	)

	return &OpenResult{
		Ticket:         t,
		WelcomeMessage: cfg.WelcomeMessage.String,
	}, nil
}

// Claim assigns the acting staff member to the ticket, exactly once.
func (s *Service) Claim(ctx context.Context, guildID, actorID string, caps policy.Capabilities, p *ClaimPayload) (*common.Ticket, error) {
	t, err := s.findTicket(ctx, guildID, p.TicketID)
	if err != nil {
		return nil, err
	}

	if d := policy.CanClaimTicket(t, caps); !d.Allowed {
		if t.ClaimedBy.Valid {
			return nil, common.ErrAlreadyClaimed
		}
		return nil, d.Err()
	}

	// The conditional UPDATE settles any race between claimers
	claimed, err := s.repo.Claim(ctx, guildID, p.TicketID, actorID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket claimed",
		zap.String("guild_id", guildID),
		zap.String("ticket_id", p.TicketID),
		zap.String("claimed_by", actorID),
	)
	return claimed, nil
}

// Close transitions the ticket to its terminal state and hands back the
// display defaults for the close notice. A second close is an explicit
// error, never a silent success.
func (s *Service) Close(ctx context.Context, guildID, actorID string, caps policy.Capabilities, p *ClosePayload) (*CloseResult, error) {
	t, err := s.findTicket(ctx, guildID, p.TicketID)
	if err != nil {
		return nil, err
	}

	if err := policy.CanCloseTicket(t, actorID, caps).Err(); err != nil {
		return nil, err
	}

	closed, err := s.repo.Close(ctx, guildID, p.TicketID, actorID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.settings.GetSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket closed",
		zap.String("guild_id", guildID),
		zap.String("ticket_id", p.TicketID),
		zap.String("closed_by", actorID),
	)

	return &CloseResult{
		Ticket:       closed,
		Reason:       p.Reason,
		CloseMessage: cfg.CloseMessage.String,
		LogChannelID: cfg.LogChannelID.String,
	}, nil
}

// Rename validates a new channel name for an open ticket. The name itself
// is platform state; the collaborator applies it.
func (s *Service) Rename(ctx context.Context, guildID string, p *RenamePayload) (*RenameResult, error) {
	if p.Name == "" {
		return nil, common.NewValidationError("name", "must not be empty")
	}
	if len(p.Name) > maxRenameLength {
		return nil, common.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxRenameLength))
	}

	t, err := s.findTicket(ctx, guildID, p.TicketID)
	if err != nil {
		return nil, err
	}
	if !t.IsOpen() {
		return nil, common.ErrNotOpen
	}

	return &RenameResult{Ticket: t, Name: p.Name}, nil
}

// AddParticipant permits adding an actor to an open ticket's channel.
func (s *Service) AddParticipant(ctx context.Context, guildID string, p *ParticipantPayload) (*ParticipantResult, error) {
	t, err := s.participantTarget(ctx, guildID, p)
	if err != nil {
		return nil, err
	}
	return &ParticipantResult{Ticket: t, TargetID: p.TargetID, Added: true}, nil
}

// RemoveParticipant permits removing an actor from an open ticket's
// channel. The ticket owner may never be removed from their own ticket.
func (s *Service) RemoveParticipant(ctx context.Context, guildID string, p *ParticipantPayload) (*ParticipantResult, error) {
	t, err := s.participantTarget(ctx, guildID, p)
	if err != nil {
		return nil, err
	}

	if err := policy.CanRemoveParticipant(t, p.TargetID).Err(); err != nil {
		return nil, err
	}
	return &ParticipantResult{Ticket: t, TargetID: p.TargetID, Added: false}, nil
}

func (s *Service) participantTarget(ctx context.Context, guildID string, p *ParticipantPayload) (*common.Ticket, error) {
	if p.TargetID == "" {
		return nil, common.NewValidationError("target_id", "must not be empty")
	}

	t, err := s.findTicket(ctx, guildID, p.TicketID)
	if err != nil {
		return nil, err
	}
	if !t.IsOpen() {
		return nil, common.ErrNotOpen
	}
	return t, nil
}

func (s *Service) findTicket(ctx context.Context, guildID, ticketID string) (*common.Ticket, error) {
	if ticketID == "" {
		return nil, common.NewValidationError("ticket_id", "must not be empty")
	}

	t, err := s.repo.FindByID(ctx, guildID, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, common.NewNotFoundError("ticket", ticketID)
	}
	return t, nil
}

// GetTicket returns a guild's ticket by display id.
func (s *Service) GetTicket(ctx context.Context, guildID, ticketID string) (*common.Ticket, error) {
	return s.findTicket(ctx, guildID, ticketID)
}

// GetTicketByChannel returns the ticket bound to a channel.
func (s *Service) GetTicketByChannel(ctx context.Context, channelID string) (*common.Ticket, error) {
	t, err := s.repo.FindByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, common.NewNotFoundError("ticket", channelID)
	}
	return t, nil
}

// ListByOwner returns an actor's tickets, optionally filtered by status.
func (s *Service) ListByOwner(ctx context.Context, actorID, status string) ([]common.Ticket, error) {
	if status != "" && status != common.StatusOpen && status != common.StatusClosed {
		return nil, common.NewValidationError("status", "must be open or closed")
	}
	return s.repo.ListByOwner(ctx, actorID, status)
}

// GetStats aggregates the guild's ticket statistics.
func (s *Service) GetStats(ctx context.Context, guildID string) (*Stats, error) {
	return s.repo.Stats(ctx, guildID)
}
