package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/minebase/playerstats/internal/model"
	"github.com/minebase/playerstats/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	profiles    map[uuid.UUID]*model.PlayerProfile
	stats       map[statKey]*model.StatRecord
	globalStats map[globalKey]*model.StatRecord
}

type statKey struct {
	player    uuid.UUID
	namespace string
	statID    string
}

type globalKey struct {
	namespace string
	statID    string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		profiles:    make(map[uuid.UUID]*model.PlayerProfile),
		stats:       make(map[statKey]*model.StatRecord),
		globalStats: make(map[globalKey]*model.StatRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.PlayerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UUID] = profile
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, id uuid.UUID) (*model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return profile, nil
}

// Player stat operations

func (s *Storage) GetStat(ctx context.Context, player uuid.UUID, namespace, statID string) (*model.StatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.stats[statKey{player: player, namespace: namespace, statID: statID}]
	if !ok {
		return nil, model.ErrStatNotFound
	}
	return rec, nil
}

// MergeStat holds the write lock across the read-modify-write, so
// concurrent merges to one key are serialized and never lose an update
func (s *Storage) MergeStat(ctx context.Context, player uuid.UUID, namespace, statID string, merge storage.MergeFunc) (*model.StatRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := statKey{player: player, namespace: namespace, statID: statID}
	merged, err := merge(s.stats[key])
	if err != nil {
		return nil, err
	}

	s.stats[key] = merged
	return merged, nil
}

func (s *Storage) ListStats(ctx context.Context, player uuid.UUID, namespace string) ([]*model.StatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []*model.StatRecord{}
	for key, rec := range s.stats {
		if key.player == player && key.namespace == namespace {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (s *Storage) ListNamespaces(ctx context.Context, player uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var namespaces []string
	for key := range s.stats {
		if key.player == player && !seen[key.namespace] {
			seen[key.namespace] = true
			namespaces = append(namespaces, key.namespace)
		}
	}
	return namespaces, nil
}

// Global stat operations

func (s *Storage) MergeGlobalStat(ctx context.Context, namespace, statID string, merge storage.MergeFunc) (*model.StatRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := globalKey{namespace: namespace, statID: statID}
	merged, err := merge(s.globalStats[key])
	if err != nil {
		return nil, err
	}

	s.globalStats[key] = merged
	return merged, nil
}

func (s *Storage) ListGlobalStats(ctx context.Context, namespace string) ([]*model.StatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []*model.StatRecord{}
	for key, rec := range s.globalStats {
		if key.namespace == namespace {
			records = append(records, rec)
		}
	}
	return records, nil
}
