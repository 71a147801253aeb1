package settings

import (
	"context"

	"helpdesk/common"

	"go.uber.org/zap"
)

// Service handles business logic for guild settings
type Service struct {
	repo   *Repository
	logger *zap.Logger
}

// NewService creates a new Service
func NewService(repo *Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetSettings returns the guild's settings, creating defaults on first
// access.
func (s *Service) GetSettings(ctx context.Context, guildID string) (*common.GuildSettings, error) {
	return s.repo.GetOrCreate(ctx, guildID)
}

// UpdateSettings applies a partial patch and returns the updated record.
func (s *Service) UpdateSettings(ctx context.Context, guildID string, payload *UpdatePayload) (*common.GuildSettings, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	// Lazy-create first so a patch against a fresh guild works
	if _, err := s.repo.GetOrCreate(ctx, guildID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, guildID, payload); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("guild settings updated",
		zap.String("guild_id", guildID),
		zap.Int("max_open_tickets", updated.MaxOpenTickets),
	)
	return updated, nil
}

// AllocateTicketNumber hands out the next ticket number for the guild.
func (s *Service) AllocateTicketNumber(ctx context.Context, guildID string) (int, error) {
	if _, err := s.repo.GetOrCreate(ctx, guildID); err != nil {
		return 0, err
	}
	return s.repo.AllocateTicketNumber(ctx, guildID)
}
