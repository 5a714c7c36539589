package analysis

import "errors"

// Analysis errors are terminal for the song being analyzed; the engine never
// retries. Numeric edge cases (silence, empty pitch sets) are defined to
// produce sentinel values instead of errors.
var (
	// ErrSongTooShort is returned when the sample buffer is shorter than
	// the largest descriptor window.
	ErrSongTooShort = errors.New("song too short for analysis")

	// ErrFeatureCountMismatch is returned when a feature vector does not
	// match its version's fixed length.
	ErrFeatureCountMismatch = errors.New("feature count does not match version")

	// ErrUnknownVersion is returned for a version with no known layout.
	ErrUnknownVersion = errors.New("unknown feature version")

	// ErrVersionMismatch is returned when two analyses with different
	// layouts are compared.
	ErrVersionMismatch = errors.New("analysis versions do not match")
)
