package streak

import "errors"

var (
	// ErrInvalidTimestamp rejects activity timestamps that lie in the future
	// beyond the normalizer's clock-skew tolerance.
	ErrInvalidTimestamp = errors.New("activity timestamp is in the future")

	// ErrInvalidTimezone rejects unrecognized IANA zone identifiers.
	ErrInvalidTimezone = errors.New("unrecognized timezone")

	// ErrOutOfOrderActivity signals that an activity day predates the cached
	// last active date. The incremental path must never be applied to such
	// input; callers fall back to a full recomputation over history.
	ErrOutOfOrderActivity = errors.New("activity day predates last active date")
)
