package guardrail

import "errors"

// Sentinel kinds for guardrail errors.
var (
	ErrUnknownKind = errors.New("unknown clamp kind")
)
