package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(t StatType, value string) UploadStat {
	return UploadStat{Type: t, Value: json.Number(value)}
}

func TestStatTypeValid(t *testing.T) {
	assert.True(t, StatTypeIntTotal.Valid())
	assert.True(t, StatTypeIntRollingAverage.Valid())
	assert.True(t, StatTypeFloatTotal.Valid())
	assert.True(t, StatTypeFloatRollingAverage.Valid())

	// "int_value" appears in old payload examples but was never a real type
	assert.False(t, StatType("int_value").Valid())
	assert.False(t, StatType("").Valid())
	assert.False(t, StatType("total").Valid())
}

func TestStatTypeKindAndFamily(t *testing.T) {
	assert.Equal(t, KindTotal, StatTypeIntTotal.Kind())
	assert.Equal(t, KindTotal, StatTypeFloatTotal.Kind())
	assert.Equal(t, KindRollingAverage, StatTypeIntRollingAverage.Kind())
	assert.Equal(t, KindRollingAverage, StatTypeFloatRollingAverage.Kind())

	assert.Equal(t, FamilyInt, StatTypeIntTotal.Family())
	assert.Equal(t, FamilyInt, StatTypeIntRollingAverage.Family())
	assert.Equal(t, FamilyFloat, StatTypeFloatTotal.Family())
	assert.Equal(t, FamilyFloat, StatTypeFloatRollingAverage.Family())
}

func TestUploadStatValidate(t *testing.T) {
	tests := []struct {
		name string
		stat UploadStat
		err  error
	}{
		{"int total ok", upload(StatTypeIntTotal, "5"), nil},
		{"negative int ok", upload(StatTypeIntTotal, "-3"), nil},
		{"float total ok", upload(StatTypeFloatTotal, "2.5"), nil},
		{"float accepts integral", upload(StatTypeFloatTotal, "4"), nil},
		{"rolling average ok", upload(StatTypeIntRollingAverage, "10"), nil},
		{"unknown type", upload("int_value", "5"), ErrUnknownStatType},
		{"empty type", upload("", "5"), ErrUnknownStatType},
		{"fractional for int type", upload(StatTypeIntTotal, "2.5"), ErrInvalidValue},
		{"exponent for int type", upload(StatTypeIntRollingAverage, "1e3"), ErrInvalidValue},
		{"garbage value", upload(StatTypeFloatTotal, "abc"), ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stat.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestMergeUploadFirstWrite(t *testing.T) {
	rec, err := MergeUpload("wins", nil, upload(StatTypeIntTotal, "3"))
	require.NoError(t, err)
	assert.Equal(t, "wins", rec.StatID)
	assert.Equal(t, StatTypeIntTotal, rec.Type)
	assert.Equal(t, int64(3), rec.IntValue)
	assert.Equal(t, int64(0), rec.Count)

	rec, err = MergeUpload("kd", nil, upload(StatTypeFloatRollingAverage, "2.5"))
	require.NoError(t, err)
	assert.Equal(t, StatTypeFloatRollingAverage, rec.Type)
	assert.Equal(t, 2.5, rec.FloatValue)
	assert.Equal(t, int64(1), rec.Count)
}

func TestMergeUploadAccumulatesTotal(t *testing.T) {
	rec, err := MergeUpload("wins", nil, upload(StatTypeIntTotal, "3"))
	require.NoError(t, err)
	rec, err = MergeUpload("wins", rec, upload(StatTypeIntTotal, "4"))
	require.NoError(t, err)

	assert.Equal(t, int64(7), rec.IntValue)
	assert.Equal(t, 7.0, rec.Project())
}

// Accumulation is associative: merging a then b matches merging a+b at once
func TestMergeTotalAssociativity(t *testing.T) {
	base, err := MergeUpload("blocks", nil, upload(StatTypeIntTotal, "100"))
	require.NoError(t, err)

	stepped, err := MergeUpload("blocks", base, upload(StatTypeIntTotal, "5"))
	require.NoError(t, err)
	stepped, err = MergeUpload("blocks", stepped, upload(StatTypeIntTotal, "7"))
	require.NoError(t, err)

	combined, err := MergeUpload("blocks", base, upload(StatTypeIntTotal, "12"))
	require.NoError(t, err)

	assert.Equal(t, combined.IntValue, stepped.IntValue)
}

func TestMergeUploadRollingAverageProjectsToMean(t *testing.T) {
	values := []string{"1", "2", "3", "4"}

	var rec *StatRecord
	var err error
	for _, v := range values {
		rec, err = MergeUpload("score", rec, upload(StatTypeIntRollingAverage, v))
		require.NoError(t, err)
	}

	assert.Equal(t, int64(4), rec.Count)
	assert.Equal(t, 2.5, rec.Project())
}

func TestMergeUploadDoesNotMutateExisting(t *testing.T) {
	rec, err := MergeUpload("wins", nil, upload(StatTypeIntTotal, "3"))
	require.NoError(t, err)

	_, err = MergeUpload("wins", rec, upload(StatTypeIntTotal, "4"))
	require.NoError(t, err)

	assert.Equal(t, int64(3), rec.IntValue)
}

func TestMergeUploadKindConflict(t *testing.T) {
	rec, err := MergeUpload("wins", nil, upload(StatTypeIntTotal, "3"))
	require.NoError(t, err)

	_, err = MergeUpload("wins", rec, upload(StatTypeIntRollingAverage, "4"))
	assert.ErrorIs(t, err, ErrKindConflict)

	_, err = MergeUpload("wins", rec, upload(StatTypeFloatRollingAverage, "4.5"))
	assert.ErrorIs(t, err, ErrKindConflict)
}

func TestMergeUploadWidensIntIntoFloatRecord(t *testing.T) {
	rec, err := MergeUpload("damage", nil, upload(StatTypeFloatTotal, "1.5"))
	require.NoError(t, err)

	rec, err = MergeUpload("damage", rec, upload(StatTypeIntTotal, "2"))
	require.NoError(t, err)

	assert.Equal(t, StatTypeFloatTotal, rec.Type)
	assert.Equal(t, 3.5, rec.FloatValue)
}

func TestMergeUploadRejectsFloatIntoIntRecord(t *testing.T) {
	rec, err := MergeUpload("wins", nil, upload(StatTypeIntTotal, "3"))
	require.NoError(t, err)

	_, err = MergeUpload("wins", rec, upload(StatTypeFloatTotal, "1.5"))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	// record keeps its type after the rejected merge
	assert.Equal(t, StatTypeIntTotal, rec.Type)
}

func TestProjectRollingAverageZeroCount(t *testing.T) {
	rec := &StatRecord{StatID: "kd", Type: StatTypeFloatRollingAverage}
	assert.Equal(t, 0.0, rec.Project())

	rec = &StatRecord{StatID: "score", Type: StatTypeIntRollingAverage}
	assert.Equal(t, 0.0, rec.Project())
}

func TestProjectTotals(t *testing.T) {
	intRec := &StatRecord{StatID: "wins", Type: StatTypeIntTotal, IntValue: 42}
	assert.Equal(t, 42.0, intRec.Project())

	floatRec := &StatRecord{StatID: "distance", Type: StatTypeFloatTotal, FloatValue: 12.25}
	assert.Equal(t, 12.25, floatRec.Project())
}

func TestBundleStatsLen(t *testing.T) {
	bundle := StatsBundle{
		ServerName: "lobby-1",
		Namespace:  "bed-wars",
		Stats: BundleStats{
			Global: map[string]UploadStat{
				"games_played": upload(StatTypeIntTotal, "1"),
			},
			Players: map[uuid.UUID]map[string]UploadStat{
				uuid.New(): {
					"wins": upload(StatTypeIntTotal, "1"),
					"kd":   upload(StatTypeFloatRollingAverage, "2.5"),
				},
			},
		},
	}
	assert.Equal(t, 3, bundle.Stats.Len())
}
