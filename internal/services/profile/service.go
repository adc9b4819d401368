package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/minebase/playerstats/internal/model"
	"github.com/minebase/playerstats/internal/storage"
)

// Service is the player directory: it maps player UUIDs to their last
// known username. Profiles are never deleted.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new profile service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// GetProfile retrieves a player's profile
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*model.PlayerProfile, error) {
	return s.storage.GetProfile(ctx, id)
}

// UpdateProfile creates the player's profile on first call and overwrites
// the username on subsequent calls
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, username string) (*model.PlayerProfile, error) {
	existing, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		if !errors.Is(err, model.ErrPlayerNotFound) {
			return nil, err
		}

		profile := &model.PlayerProfile{UUID: id, Username: username}
		if err := s.storage.SaveProfile(ctx, profile); err != nil {
			return nil, err
		}
		s.logger.Debug("player profile created",
			slog.String("player", id.String()),
			slog.String("username", username),
		)
		return profile, nil
	}

	if username == "" || username == existing.Username {
		return existing, nil
	}

	updated := &model.PlayerProfile{UUID: id, Username: username}
	if err := s.storage.SaveProfile(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Debug("player username updated",
		slog.String("player", id.String()),
		slog.String("username", username),
	)
	return updated, nil
}

// EnsureProfile creates a bare profile for the player if none exists.
// Called before a player's first stat merge so every tracked stat has an
// owning profile.
func (s *Service) EnsureProfile(ctx context.Context, id uuid.UUID) error {
	_, err := s.storage.GetProfile(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrPlayerNotFound) {
		return err
	}

	return s.storage.SaveProfile(ctx, &model.PlayerProfile{UUID: id})
}
