package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/minebase/playerstats/internal/model"
)

// MergeFunc transforms the current record for a stat key into the record
// to persist. existing is nil when the key has never been written.
// Implementations of MergeStat apply it inside a read-modify-write that
// is atomic for that single key.
type MergeFunc func(existing *model.StatRecord) (*model.StatRecord, error)

// Storage defines the interface for data persistence
type Storage interface {
	// Profile operations
	SaveProfile(ctx context.Context, profile *model.PlayerProfile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*model.PlayerProfile, error)

	// Player stat operations. Merges to the same (player, namespace,
	// stat id) key are serialized; merges to different keys never block
	// each other.
	GetStat(ctx context.Context, player uuid.UUID, namespace, statID string) (*model.StatRecord, error)
	MergeStat(ctx context.Context, player uuid.UUID, namespace, statID string, merge MergeFunc) (*model.StatRecord, error)
	ListStats(ctx context.Context, player uuid.UUID, namespace string) ([]*model.StatRecord, error)
	ListNamespaces(ctx context.Context, player uuid.UUID) ([]string, error)

	// Global stat operations, keyed by namespace alone
	MergeGlobalStat(ctx context.Context, namespace, statID string, merge MergeFunc) (*model.StatRecord, error)
	ListGlobalStats(ctx context.Context, namespace string) ([]*model.StatRecord, error)
}
