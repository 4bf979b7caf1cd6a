package travel

import (
	"errors"
	"fmt"
)

// ErrUpstreamStatus is returned when the upstream response carries a
// business-level failure flag (status: false).
var ErrUpstreamStatus = errors.New("upstream api signaled failure")

// NormalizationError means a required record could not be mapped onto the
// canonical model. List normalization drops bad records instead; this is
// only raised for single-record detail lookups.
type NormalizationError struct {
	Reason string
	Err    error
}

func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalization failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("normalization failed: %s", e.Reason)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// FlightSearchError is the single error type flight-search callers catch,
// regardless of whether the failure came from transport or normalization.
type FlightSearchError struct {
	Err error
}

func (e *FlightSearchError) Error() string {
	return fmt.Sprintf("flight search failed: %v", e.Err)
}

func (e *FlightSearchError) Unwrap() error { return e.Err }

// LocationSearchError is the umbrella error for location searches.
type LocationSearchError struct {
	Err error
}

func (e *LocationSearchError) Error() string {
	return fmt.Sprintf("location search failed: %v", e.Err)
}

func (e *LocationSearchError) Unwrap() error { return e.Err }
