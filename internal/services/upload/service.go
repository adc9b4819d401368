package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minebase/playerstats/internal/model"
	"github.com/minebase/playerstats/internal/services/profile"
	"github.com/minebase/playerstats/internal/storage"
)

// Service is the upload merge engine. It validates an incoming stats
// bundle as a whole, then merges each (player, stat) tuple independently
// through the store's per-key atomic merge.
type Service struct {
	storage  storage.Storage
	profiles *profile.Service
	logger   *slog.Logger
}

// New creates a new upload service
func New(storage storage.Storage, profiles *profile.Service, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		profiles: profiles,
		logger:   logger,
	}
}

// Upload merges a stats bundle into persisted records.
//
// Validation is fail-fast: any violation rejects the whole bundle before
// a single merge runs. After validation, tuples merge independently;
// failures are collected into a PartialFailureError while successful
// tuples stay persisted. There is no cross-key atomicity, so a retried
// bundle re-applies totals that already merged.
func (s *Service) Upload(ctx context.Context, bundle *model.StatsBundle) error {
	if err := validateBundle(bundle); err != nil {
		return err
	}

	s.logger.Debug("stats bundle received",
		slog.String("server", bundle.ServerName),
		slog.String("namespace", bundle.Namespace),
		slog.Int("stats", bundle.Stats.Len()),
	)

	var failures []model.TupleFailure

	for player, stats := range bundle.Stats.Players {
		if err := s.profiles.EnsureProfile(ctx, player); err != nil {
			// No profile means nowhere to hang this player's stats;
			// fail all of their tuples and move on to the next player
			for statID := range stats {
				failures = append(failures, model.TupleFailure{PlayerID: player, StatID: statID, Err: err})
			}
			continue
		}

		for statID, up := range stats {
			if _, err := s.storage.MergeStat(ctx, player, bundle.Namespace, statID, mergeFunc(statID, up)); err != nil {
				failures = append(failures, model.TupleFailure{PlayerID: player, StatID: statID, Err: err})
			}
		}
	}

	for statID, up := range bundle.Stats.Global {
		if _, err := s.storage.MergeGlobalStat(ctx, bundle.Namespace, statID, mergeFunc(statID, up)); err != nil {
			failures = append(failures, model.TupleFailure{Global: true, StatID: statID, Err: err})
		}
	}

	if len(failures) > 0 {
		s.logger.Warn("stats bundle partially failed",
			slog.String("server", bundle.ServerName),
			slog.String("namespace", bundle.Namespace),
			slog.Int("failed", len(failures)),
		)
		return &model.PartialFailureError{Failures: failures}
	}

	return nil
}

// mergeFunc binds one uploaded sample into a storage merge function
func mergeFunc(statID string, up model.UploadStat) storage.MergeFunc {
	return func(existing *model.StatRecord) (*model.StatRecord, error) {
		return model.MergeUpload(statID, existing, up)
	}
}

// validateBundle checks the whole bundle before anything is persisted
func validateBundle(bundle *model.StatsBundle) error {
	if bundle.Namespace == "" {
		return model.ErrInvalidNamespace
	}

	for player, stats := range bundle.Stats.Players {
		if err := validateStats(stats); err != nil {
			return fmt.Errorf("player %s: %w", player, err)
		}
	}

	if err := validateStats(bundle.Stats.Global); err != nil {
		return fmt.Errorf("global: %w", err)
	}

	return nil
}

func validateStats(stats map[string]model.UploadStat) error {
	for statID, up := range stats {
		if strings.Contains(statID, model.StatIDDelimiter) {
			return fmt.Errorf("%w: %q", model.ErrInvalidStatID, statID)
		}
		if err := up.Validate(); err != nil {
			return fmt.Errorf("stat %q: %w", statID, err)
		}
	}
	return nil
}

// FailedTuples extracts the (player, stat) pairs that failed from an
// upload error, for callers that track per-tuple retry state
func FailedTuples(err error) []model.TupleFailure {
	var partial *model.PartialFailureError
	if !errors.As(err, &partial) {
		return nil
	}
	return partial.Failures
}
