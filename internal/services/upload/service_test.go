package upload

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/minebase/playerstats/internal/model"
	"github.com/minebase/playerstats/internal/services/profile"
	"github.com/minebase/playerstats/internal/storage/memory"
	"github.com/minebase/playerstats/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	profiles *profile.Service
	service  *Service
	ctx      context.Context

	player uuid.UUID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.profiles = profile.New(s.storage, testutil.NopLogger())
	s.service = New(s.storage, s.profiles, testutil.NopLogger())
	s.ctx = context.Background()
	s.player = uuid.New()
}

func up(t model.StatType, value string) model.UploadStat {
	return model.UploadStat{Type: t, Value: json.Number(value)}
}

func (s *ServiceSuite) bundle(namespace string, stats map[string]model.UploadStat) *model.StatsBundle {
	return &model.StatsBundle{
		ServerName: "test-server",
		Namespace:  namespace,
		Stats: model.BundleStats{
			Players: map[uuid.UUID]map[string]model.UploadStat{
				s.player: stats,
			},
		},
	}
}

// Upload success cases

func (s *ServiceSuite) TestUploadPersistsTotal() {
	err := s.service.Upload(s.ctx, s.bundle("bed-wars", map[string]model.UploadStat{
		"wins": up(model.StatTypeIntTotal, "3"),
	}))
	s.Require().NoError(err)

	rec, err := s.storage.GetStat(s.ctx, s.player, "bed-wars", "wins")
	s.Require().NoError(err)
	s.Equal(model.StatTypeIntTotal, rec.Type)
	s.Equal(int64(3), rec.IntValue)
}

func (s *ServiceSuite) TestUploadTwiceAccumulates() {
	bundle := s.bundle("bed-wars", map[string]model.UploadStat{
		"wins": up(model.StatTypeIntTotal, "3"),
		"kd":   up(model.StatTypeFloatRollingAverage, "2.5"),
	})

	s.Require().NoError(s.service.Upload(s.ctx, bundle))
	s.Require().NoError(s.service.Upload(s.ctx, bundle))

	wins, err := s.storage.GetStat(s.ctx, s.player, "bed-wars", "wins")
	s.Require().NoError(err)
	s.Equal(int64(6), wins.IntValue)
	s.Equal(6.0, wins.Project())

	kd, err := s.storage.GetStat(s.ctx, s.player, "bed-wars", "kd")
	s.Require().NoError(err)
	s.Equal(int64(2), kd.Count)
	s.Equal(2.5, kd.Project())
}

func (s *ServiceSuite) TestUploadCreatesProfile() {
	err := s.service.Upload(s.ctx, s.bundle("bed-wars", map[string]model.UploadStat{
		"wins": up(model.StatTypeIntTotal, "1"),
	}))
	s.Require().NoError(err)

	p, err := s.profiles.GetProfile(s.ctx, s.player)
	s.Require().NoError(err)
	s.Equal(s.player, p.UUID)
	s.Empty(p.Username)
}

func (s *ServiceSuite) TestUploadKeepsExistingUsername() {
	_, err := s.profiles.UpdateProfile(s.ctx, s.player, "steve")
	s.Require().NoError(err)

	err = s.service.Upload(s.ctx, s.bundle("bed-wars", map[string]model.UploadStat{
		"wins": up(model.StatTypeIntTotal, "1"),
	}))
	s.Require().NoError(err)

	p, err := s.profiles.GetProfile(s.ctx, s.player)
	s.Require().NoError(err)
	s.Equal("steve", p.Username)
}

func (s *ServiceSuite) TestUploadGlobalStats() {
	bundle := &model.StatsBundle{
		ServerName: "test-server",
		Namespace:  "bed-wars",
		Stats: model.BundleStats{
			Global: map[string]model.UploadStat{
				"games_played": up(model.StatTypeIntTotal, "1"),
			},
			Players: map[uuid.UUID]map[string]model.UploadStat{},
		},
	}

	s.Require().NoError(s.service.Upload(s.ctx, bundle))
	s.Require().NoError(s.service.Upload(s.ctx, bundle))

	records, err := s.storage.ListGlobalStats(s.ctx, "bed-wars")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(int64(2), records[0].IntValue)
}

func (s *ServiceSuite) TestUploadEmptyBundle() {
	err := s.service.Upload(s.ctx, &model.StatsBundle{
		ServerName: "test-server",
		Namespace:  "bed-wars",
	})
	s.NoError(err)
}

// Validation: the whole bundle is rejected and nothing persists

func (s *ServiceSuite) TestUploadEmptyNamespace() {
	err := s.service.Upload(s.ctx, s.bundle("", map[string]model.UploadStat{
		"wins": up(model.StatTypeIntTotal, "3"),
	}))
	s.ErrorIs(err, model.ErrInvalidNamespace)
}

func (s *ServiceSuite) TestUploadStatIDWithDelimiter() {
	err := s.service.Upload(s.ctx, s.bundle("bed-wars", map[string]model.UploadStat{
		"wins":     up(model.StatTypeIntTotal, "3"),
		"bad.stat": up(model.StatTypeIntTotal, "1"),
	}))
	s.ErrorIs(err, model.ErrInvalidStatID)

	// Nothing from the bundle persisted, not even the valid stat
	_, err = s.storage.GetStat(s.ctx, s.player, "bed-wars", "wins")
	s.ErrorIs(err, model.ErrStatNotFound)
}

func (s *ServiceSuite) TestUploadUnknownStatType() {
	err := s.service.Upload(s.ctx, s.bundle("bed-wars", map[string]model.UploadStat{
		"wins": up("int_value", "3"),
	}))
	s.ErrorIs(err, model.ErrUnknownStatType)
}

func (s *ServiceSuite) TestUploadFractionalIntValue() {
	err := s.service.Upload(s.ctx, s.bundle("bed-wars", map[string]model.UploadStat{
		"wins": up(model.StatTypeIntTotal, "2.5"),
	}))
	s.ErrorIs(err, model.ErrInvalidValue)
}

func (s *ServiceSuite) TestUploadInvalidGlobalStat() {
	err := s.service.Upload(s.ctx, &model.StatsBundle{
		ServerName: "test-server",
		Namespace:  "bed-wars",
		Stats: model.BundleStats{
			Global: map[string]model.UploadStat{
				"bad.stat": up(model.StatTypeIntTotal, "1"),
			},
		},
	})
	s.ErrorIs(err, model.ErrInvalidStatID)
}

// Partial failure: validation passed, some tuples fail

func (s *ServiceSuite) TestUploadKindConflictIsPartialFailure() {
	s.Require().NoError(s.service.Upload(s.ctx, s.bundle("bed-wars", map[string]model.UploadStat{
		"wins": up(model.StatTypeIntTotal, "3"),
	})))

	err := s.service.Upload(s.ctx, s.bundle("bed-wars", map[string]model.UploadStat{
		"wins": up(model.StatTypeIntRollingAverage, "4"),
		"kd":   up(model.StatTypeFloatRollingAverage, "1.5"),
	}))

	failures := FailedTuples(err)
	s.Require().Len(failures, 1)
	s.Equal(s.player, failures[0].PlayerID)
	s.Equal("wins", failures[0].StatID)
	s.ErrorIs(failures[0].Err, model.ErrKindConflict)

	// The conflicting tuple left the record untouched
	wins, err := s.storage.GetStat(s.ctx, s.player, "bed-wars", "wins")
	s.Require().NoError(err)
	s.Equal(int64(3), wins.IntValue)

	// The sibling tuple still persisted
	kd, err := s.storage.GetStat(s.ctx, s.player, "bed-wars", "kd")
	s.Require().NoError(err)
	s.Equal(1.5, kd.Project())
}

func (s *ServiceSuite) TestUploadFloatIntoIntRecordIsPartialFailure() {
	s.Require().NoError(s.service.Upload(s.ctx, s.bundle("bed-wars", map[string]model.UploadStat{
		"wins": up(model.StatTypeIntTotal, "3"),
	})))

	err := s.service.Upload(s.ctx, s.bundle("bed-wars", map[string]model.UploadStat{
		"wins": up(model.StatTypeFloatTotal, "1.5"),
	}))

	failures := FailedTuples(err)
	s.Require().Len(failures, 1)
	s.ErrorIs(failures[0].Err, model.ErrTypeMismatch)
}

func (s *ServiceSuite) TestFailedTuplesNilForOtherErrors() {
	s.Nil(FailedTuples(nil))
	s.Nil(FailedTuples(model.ErrInvalidNamespace))
}

// Concurrency: merges to the same key never lose an update

func (s *ServiceSuite) TestConcurrentUploadsSameKey() {
	const uploads = 50

	var wg sync.WaitGroup
	errs := make(chan error, uploads)
	for i := 0; i < uploads; i++ {
		value := "5"
		if i%2 == 1 {
			value = "7"
		}
		bundle := s.bundle("bed-wars", map[string]model.UploadStat{
			"example-1": up(model.StatTypeIntTotal, value),
		})

		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.service.Upload(s.ctx, bundle)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	rec, err := s.storage.GetStat(s.ctx, s.player, "bed-wars", "example-1")
	s.Require().NoError(err)
	s.Equal(int64(uploads/2*5+uploads/2*7), rec.IntValue)
}
