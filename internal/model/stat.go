package model

import (
	"encoding/json"
	"fmt"
)

// StatType identifies how a statistic accumulates and which numeric
// family it stores. The type is fixed on a stat's first write.
type StatType string

const (
	StatTypeIntTotal            StatType = "int_total"
	StatTypeIntRollingAverage   StatType = "int_rolling_average"
	StatTypeFloatTotal          StatType = "float_total"
	StatTypeFloatRollingAverage StatType = "float_rolling_average"
)

// StatKind is the accumulation behavior of a statistic
type StatKind string

const (
	KindTotal          StatKind = "total"
	KindRollingAverage StatKind = "rolling_average"
)

// NumericFamily is the stored numeric representation of a statistic
type NumericFamily string

const (
	FamilyInt   NumericFamily = "int"
	FamilyFloat NumericFamily = "float"
)

// StatIDDelimiter is reserved for storage key namespacing and must not
// appear in stat ids
const StatIDDelimiter = "."

// Valid reports whether t is one of the four recognized stat types
func (t StatType) Valid() bool {
	switch t {
	case StatTypeIntTotal, StatTypeIntRollingAverage, StatTypeFloatTotal, StatTypeFloatRollingAverage:
		return true
	}
	return false
}

// Kind returns the accumulation behavior for this type
func (t StatType) Kind() StatKind {
	switch t {
	case StatTypeIntRollingAverage, StatTypeFloatRollingAverage:
		return KindRollingAverage
	default:
		return KindTotal
	}
}

// Family returns the numeric family for this type
func (t StatType) Family() NumericFamily {
	switch t {
	case StatTypeFloatTotal, StatTypeFloatRollingAverage:
		return FamilyFloat
	default:
		return FamilyInt
	}
}

// StatRecord is a persisted statistic for one (player, namespace, stat id)
// key, or for one (namespace, stat id) key in the global case.
//
// Totals keep their accumulated value in IntValue or FloatValue depending
// on the type's numeric family. Rolling averages keep a running sum in the
// same field plus the sample count in Count.
type StatRecord struct {
	StatID     string   `json:"stat_id"`
	Type       StatType `json:"type"`
	IntValue   int64    `json:"int_value,omitempty"`
	FloatValue float64  `json:"float_value,omitempty"`
	Count      int64    `json:"count,omitempty"`
}

// Project resolves the record to the single numeric value exposed to
// readers. Totals project to their accumulated value; rolling averages
// project to sum/count, or 0 when no samples have been recorded.
func (r *StatRecord) Project() float64 {
	switch r.Type.Kind() {
	case KindRollingAverage:
		if r.Count == 0 {
			return 0
		}
		return r.sum() / float64(r.Count)
	default:
		return r.sum()
	}
}

// sum returns the accumulator widened to float64
func (r *StatRecord) sum() float64 {
	if r.Type.Family() == FamilyFloat {
		return r.FloatValue
	}
	return float64(r.IntValue)
}

// UploadStat is one uploaded statistic sample as it appears on the wire.
// Value stays a json.Number so int-family types can reject fractional
// input instead of silently truncating it.
type UploadStat struct {
	Type  StatType    `json:"type"`
	Value json.Number `json:"value"`
}

// Validate checks the type tag and that the value parses in the type's
// numeric family. Int-family types require an integral literal.
func (u UploadStat) Validate() error {
	if !u.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatType, string(u.Type))
	}

	switch u.Type.Family() {
	case FamilyInt:
		if _, err := u.Value.Int64(); err != nil {
			return fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, u.Value.String())
		}
	case FamilyFloat:
		if _, err := u.Value.Float64(); err != nil {
			return fmt.Errorf("%w: %q is not a number", ErrInvalidValue, u.Value.String())
		}
	}

	return nil
}

// MergeUpload merges an uploaded sample into the existing record for a
// stat key, returning the record to persist. A nil existing record means
// this is the stat's first write and fixes its type.
//
// A stat's kind is immutable once set; uploads with a conflicting kind
// fail with ErrKindConflict. Int samples widen losslessly into a
// float-family record, but a float sample never narrows into an
// int-family record (ErrTypeMismatch).
func MergeUpload(statID string, existing *StatRecord, up UploadStat) (*StatRecord, error) {
	if err := up.Validate(); err != nil {
		return nil, err
	}

	if existing == nil {
		return newRecord(statID, up), nil
	}

	if existing.Type.Kind() != up.Type.Kind() {
		return nil, fmt.Errorf("%w: stat %q is %s, upload is %s",
			ErrKindConflict, statID, existing.Type.Kind(), up.Type.Kind())
	}

	next := *existing

	switch {
	case existing.Type.Family() == up.Type.Family():
		if up.Type.Family() == FamilyFloat {
			v, _ := up.Value.Float64()
			next.FloatValue += v
		} else {
			v, _ := up.Value.Int64()
			next.IntValue += v
		}
	case existing.Type.Family() == FamilyFloat:
		// int sample into a float record: explicit lossless widening
		v, _ := up.Value.Int64()
		next.FloatValue += float64(v)
	default:
		return nil, fmt.Errorf("%w: stat %q stores integers, refusing float upload",
			ErrTypeMismatch, statID)
	}

	if next.Type.Kind() == KindRollingAverage {
		next.Count++
	}

	return &next, nil
}

// newRecord builds the first record for a stat key from its first sample
func newRecord(statID string, up UploadStat) *StatRecord {
	rec := &StatRecord{
		StatID: statID,
		Type:   up.Type,
	}

	if up.Type.Family() == FamilyFloat {
		v, _ := up.Value.Float64()
		rec.FloatValue = v
	} else {
		v, _ := up.Value.Int64()
		rec.IntValue = v
	}

	if up.Type.Kind() == KindRollingAverage {
		rec.Count = 1
	}

	return rec
}
