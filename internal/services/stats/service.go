package stats

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/minebase/playerstats/internal/model"
	"github.com/minebase/playerstats/internal/storage"
)

// Service is the stat projection reader. It loads persisted records and
// projects each to a single numeric value; reads never mutate anything.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new stats service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// PlayerStats projects a player's stats in one namespace to a
// stat id -> value map. A player or namespace that was never written
// yields an empty map, not an error.
func (s *Service) PlayerStats(ctx context.Context, player uuid.UUID, namespace string) (map[string]float64, error) {
	records, err := s.storage.ListStats(ctx, player, namespace)
	if err != nil {
		return nil, err
	}
	return project(records), nil
}

// AllPlayerStats projects a player's stats across every namespace they
// have been recorded in, keyed namespace -> stat id -> value
func (s *Service) AllPlayerStats(ctx context.Context, player uuid.UUID) (map[string]map[string]float64, error) {
	namespaces, err := s.storage.ListNamespaces(ctx, player)
	if err != nil {
		return nil, err
	}

	out := make(map[string]map[string]float64, len(namespaces))
	for _, namespace := range namespaces {
		records, err := s.storage.ListStats(ctx, player, namespace)
		if err != nil {
			return nil, err
		}
		out[namespace] = project(records)
	}
	return out, nil
}

// GlobalStats projects a namespace's global (non-player) stats
func (s *Service) GlobalStats(ctx context.Context, namespace string) (map[string]float64, error) {
	records, err := s.storage.ListGlobalStats(ctx, namespace)
	if err != nil {
		return nil, err
	}
	return project(records), nil
}

func project(records []*model.StatRecord) map[string]float64 {
	out := make(map[string]float64, len(records))
	for _, rec := range records {
		out[rec.StatID] = rec.Project()
	}
	return out
}
