package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/minebase/playerstats/internal/model"
	"github.com/minebase/playerstats/internal/storage"
)

// errMergeRejected marks a merge function failure inside a transaction so
// it can be told apart from transport errors
var errMergeRejected = errors.New("merge rejected")

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.ReadTimeout = cfg.ReadTimeout

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.PlayerProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, profileKey(profile.UUID), data, 0).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, id uuid.UUID) (*model.PlayerProfile, error) {
	data, err := s.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, unavailable(err)
	}

	var profile model.PlayerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Player stat operations

func (s *Storage) GetStat(ctx context.Context, player uuid.UUID, namespace, statID string) (*model.StatRecord, error) {
	rec, err := s.getRecord(ctx, statKey(player, namespace, statID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, model.ErrStatNotFound
	}
	return rec, nil
}

// MergeStat applies merge to the current record for one stat key inside
// a WATCH/MULTI/EXEC optimistic transaction. A concurrent write to the
// same key fails the EXEC and the merge re-reads and retries, so no
// increment is ever lost. Other keys are untouched and never contend.
func (s *Storage) MergeStat(ctx context.Context, player uuid.UUID, namespace, statID string, merge storage.MergeFunc) (*model.StatRecord, error) {
	key := statKey(player, namespace, statID)

	return s.mergeKey(ctx, key, merge, func(pipe redis.Pipeliner, data []byte) {
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, statsIndexKey(player, namespace), key)
		pipe.SAdd(ctx, namespaceIndexKey(player), namespace)
	})
}

func (s *Storage) ListStats(ctx context.Context, player uuid.UUID, namespace string) ([]*model.StatRecord, error) {
	return s.listRecords(ctx, statsIndexKey(player, namespace))
}

func (s *Storage) ListNamespaces(ctx context.Context, player uuid.UUID) ([]string, error) {
	namespaces, err := s.client.SMembers(ctx, namespaceIndexKey(player)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	return namespaces, nil
}

// Global stat operations

func (s *Storage) MergeGlobalStat(ctx context.Context, namespace, statID string, merge storage.MergeFunc) (*model.StatRecord, error) {
	key := globalStatKey(namespace, statID)

	return s.mergeKey(ctx, key, merge, func(pipe redis.Pipeliner, data []byte) {
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, globalIndexKey(namespace), key)
	})
}

func (s *Storage) ListGlobalStats(ctx context.Context, namespace string) ([]*model.StatRecord, error) {
	return s.listRecords(ctx, globalIndexKey(namespace))
}

// mergeKey runs the optimistic read-modify-write loop for one stat key.
// persist writes the merged record plus any index updates in the same
// transaction.
func (s *Storage) mergeKey(ctx context.Context, key string, merge storage.MergeFunc, persist func(pipe redis.Pipeliner, data []byte)) (*model.StatRecord, error) {
	var (
		merged   *model.StatRecord
		mergeErr error
	)

	txn := func(tx *redis.Tx) error {
		existing, err := recordFromCmd(tx.Get(ctx, key))
		if err != nil {
			return err
		}

		merged, mergeErr = merge(existing)
		if mergeErr != nil {
			return errMergeRejected
		}

		data, err := json.Marshal(merged)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			persist(pipe, data)
			return nil
		})
		return err
	}

	retries := s.cfg.MergeRetries
	if retries <= 0 {
		retries = DefaultConfig().MergeRetries
	}

	for i := 0; i < retries; i++ {
		err := s.client.Watch(ctx, txn, key)
		switch {
		case err == nil:
			return merged, nil
		case errors.Is(err, errMergeRejected):
			return nil, mergeErr
		case errors.Is(err, redis.TxFailedErr):
			// Lost the optimistic lock to a concurrent merge; re-read and retry
			continue
		default:
			return nil, unavailable(err)
		}
	}

	return nil, fmt.Errorf("%w: merge retries exhausted for %s", model.ErrStorageUnavailable, key)
}

// listRecords resolves an index SET to its stat records via MGET
func (s *Storage) listRecords(ctx context.Context, indexKey string) ([]*model.StatRecord, error) {
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	if len(keys) == 0 {
		return []*model.StatRecord{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable(err)
	}

	records := make([]*model.StatRecord, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Indexed key with no record; nothing to project
		}
		var rec model.StatRecord
		if err := json.Unmarshal([]byte(val.(string)), &rec); err != nil {
			continue // Skip invalid data
		}
		records = append(records, &rec)
	}

	return records, nil
}

// getRecord reads one stat record, returning nil when the key is unset
func (s *Storage) getRecord(ctx context.Context, key string) (*model.StatRecord, error) {
	return recordFromCmd(s.client.Get(ctx, key))
}

func recordFromCmd(cmd *redis.StringCmd) (*model.StatRecord, error) {
	data, err := cmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, unavailable(err)
	}

	var rec model.StatRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// unavailable tags transport failures so callers can map them to the
// storage-unavailable taxonomy without inspecting driver errors
func unavailable(err error) error {
	return fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err)
}
