package streak

import (
	"fmt"
	"sort"
	"time"
)

// DefaultSkewTolerance is how far into the future an activity timestamp may
// lie before ingestion rejects it. Covers ordinary client clock drift.
const DefaultSkewTolerance = 5 * time.Minute

// Normalizer buckets raw activity timestamps into deduplicated, ascending
// calendar days in the user's reference time zone. Bucketing happens at
// ingestion time with the zone in effect at that moment; historical days are
// never renormalized when a user later changes zones.
type Normalizer struct {
	skewTolerance time.Duration
}

func NewNormalizer(skewTolerance time.Duration) *Normalizer {
	if skewTolerance <= 0 {
		skewTolerance = DefaultSkewTolerance
	}
	return &Normalizer{skewTolerance: skewTolerance}
}

// Bucket converts a single timestamp to its local calendar day.
func (n *Normalizer) Bucket(ts time.Time, timezone string, now time.Time) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("bucket %s: %w", timezone, err)
	}
	if ts.After(now.Add(n.skewTolerance)) {
		return time.Time{}, fmt.Errorf("timestamp %s: %w", ts.Format(time.RFC3339), ErrInvalidTimestamp)
	}
	return DateOf(ts, loc), nil
}

// Normalize converts a batch of timestamps into the user's set of active
// days, ascending and without duplicates.
func (n *Normalizer) Normalize(timestamps []time.Time, timezone string, now time.Time) ([]time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", timezone, err)
	}

	seen := make(map[time.Time]struct{}, len(timestamps))
	days := make([]time.Time, 0, len(timestamps))
	for _, ts := range timestamps {
		if ts.After(now.Add(n.skewTolerance)) {
			return nil, fmt.Errorf("timestamp %s: %w", ts.Format(time.RFC3339), ErrInvalidTimestamp)
		}
		day := DateOf(ts, loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}
