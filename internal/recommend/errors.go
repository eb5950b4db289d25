package recommend

import "errors"

// Sentinel errors distinguishing upstream failure modes. Callers surface
// ErrUpstreamUnavailable as "recommendation temporarily unavailable" and
// ErrUpstreamMalformed separately, so operators can tell model drift from
// outages.
var (
	// ErrUpstreamUnavailable means the external recommendation service timed
	// out, returned a non-success status, or produced an empty response.
	ErrUpstreamUnavailable = errors.New("recommendation service unavailable")

	// ErrUpstreamMalformed means the service responded but the payload could
	// not be parsed into the expected shape after defensive cleanup.
	ErrUpstreamMalformed = errors.New("recommendation response unparseable")
)
