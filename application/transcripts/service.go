package transcripts

import (
	"context"
	"time"

	"helpdesk/application/tickets"
	"helpdesk/common"
	"helpdesk/internal/transcript"
	"helpdesk/middleware"

	"go.uber.org/zap"
)

// Placeholder stored when a message carries no text content.
const attachmentPlaceholder = "[Attachment/Embed]"

// Service handles the transcript log. Append is deliberately best-effort:
// it observes every message in a ticket channel and must never fail the
// surrounding message-handling path, so failures and misses are swallowed
// and logged instead of surfaced.
type Service struct {
	repo     *Repository
	tickets  *tickets.Service
	renderer *transcript.Renderer
	logger   *zap.Logger
}

// NewService creates a new Service
func NewService(repo *Repository, ticketsSvc *tickets.Service, renderer *transcript.Renderer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		tickets:  ticketsSvc,
		renderer: renderer,
		logger:   logger,
	}
}

// Append logs one observed channel message against its open ticket. A
// message in a channel without an open ticket is dropped silently; an
// at-most-once log, not a durability guarantee.
func (s *Service) Append(ctx context.Context, channelID, userID, username, content string) {
	t, err := s.tickets.GetTicketByChannel(ctx, channelID)
	if err != nil || t == nil || !t.IsOpen() {
		s.logger.Debug("transcript append dropped",
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
		return
	}

	if content == "" {
		content = attachmentPlaceholder
	}

	msg := &common.TicketMessage{
		TicketRef: t.ID,
		UserID:    userID,
		Username:  username,
		Content:   content,
		Timestamp: time.Now(),
	}
	if err := s.repo.Append(ctx, msg); err != nil {
		s.logger.Warn("transcript append failed",
			zap.String("channel_id", channelID),
			zap.String("ticket_id", t.TicketID),
			zap.Error(err),
		)
	}
}

func (s *Service) meta(t *common.Ticket) transcript.Meta {
	return transcript.Meta{
		TicketID:  t.TicketID,
		CreatedBy: t.UserID,
		ClosedBy:  t.ClosedBy.String,
	}
}

// Render streams the ticket's archival transcript artifact.
func (s *Service) Render(ctx context.Context, guildID, ticketID string) middleware.StreamResponse {
	t, err := s.tickets.GetTicket(ctx, guildID, ticketID)
	if err != nil {
		return middleware.StreamResponse{Error: err}
	}

	msgs, err := s.repo.ListByTicket(ctx, t.ID)
	if err != nil {
		return middleware.StreamResponse{Error: err}
	}

	return s.renderer.Stream(ctx, s.meta(t), msgs)
}

// RenderText assembles the transcript as one string, for callers that
// need the whole artifact at once.
func (s *Service) RenderText(ctx context.Context, guildID, ticketID string) (string, error) {
	t, err := s.tickets.GetTicket(ctx, guildID, ticketID)
	if err != nil {
		return "", err
	}

	msgs, err := s.repo.ListByTicket(ctx, t.ID)
	if err != nil {
		return "", err
	}

	return s.renderer.RenderString(s.meta(t), msgs), nil
}
