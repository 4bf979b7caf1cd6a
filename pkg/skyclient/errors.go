package skyclient

import "fmt"

// TransportError covers network failures and non-2xx responses.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("skyclient: api returned status %d", e.Status)
	}
	return fmt.Sprintf("skyclient: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError means the API key was rejected (HTTP 403).
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("skyclient: api key is invalid or expired (status %d)", e.Status)
}

// DecodeError means the response body was not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("skyclient: invalid json response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
