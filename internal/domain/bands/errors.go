package bands

import "errors"

// Sentinel kinds for band scoring errors. All of them mean a table is out of
// sync with its caller rather than bad measurement data.
var (
	ErrUnknownMetric  = errors.New("unknown metric kind")
	ErrUnknownMode    = errors.New("unknown analysis mode")
	ErrInvalidProfile = errors.New("invalid band profile")
)
