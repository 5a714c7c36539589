package decoder

import "errors"

var (
	// ErrUnsupportedFormat is returned for an extension no decoder claims.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrDecode wraps any failure while reading or decoding a file.
	ErrDecode = errors.New("decoding failed")
)
