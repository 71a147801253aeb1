package blacklist

import (
	"context"

	"helpdesk/common"

	"go.uber.org/zap"
)

// Service handles business logic for the blacklist
type Service struct {
	repo   *Repository
	logger *zap.Logger
}

// NewService creates a new Service
func NewService(repo *Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Ban blacklists an actor, overwriting any prior entry.
func (s *Service) Ban(ctx context.Context, userID, reason, bannedBy string) error {
	if userID == "" {
		return common.NewValidationError("user_id", "must not be empty")
	}
	if reason == "" {
		reason = "No reason provided"
	}

	if err := s.repo.Ban(ctx, userID, reason, bannedBy); err != nil {
		return err
	}

	s.logger.Info("user blacklisted",
		zap.String("user_id", userID),
		zap.String("banned_by", bannedBy),
	)
	return nil
}

// Unban lifts an actor's ban. Absent entries are a no-op.
func (s *Service) Unban(ctx context.Context, userID string) error {
	if userID == "" {
		return common.NewValidationError("user_id", "must not be empty")
	}
	return s.repo.Unban(ctx, userID)
}

// IsBanned returns the actor's entry, or nil when not banned.
func (s *Service) IsBanned(ctx context.Context, userID string) (*common.BlacklistEntry, error) {
	return s.repo.Get(ctx, userID)
}

// List returns all blacklist entries.
func (s *Service) List(ctx context.Context) ([]common.BlacklistEntry, error) {
	return s.repo.List(ctx)
}
