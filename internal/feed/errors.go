package feed

import (
	"errors"
	"fmt"
)

// Fetch failures fall into four kinds. Every kind fails the whole fetch;
// there is no partial acceptance of a payload.
var (
	// ErrUnreachable is a network or connection failure before any response.
	ErrUnreachable = errors.New("upstream unreachable")
	// ErrBadStatus is a non-2xx response from the feed.
	ErrBadStatus = errors.New("upstream returned bad status")
	// ErrBadContentType is a response that is not application/json.
	ErrBadContentType = errors.New("upstream returned invalid content type")
	// ErrBadPayload is a body that does not decode as an array at all.
	ErrBadPayload = errors.New("upstream returned malformed payload")
	// ErrBadShape is an array containing at least one invalid record.
	ErrBadShape = errors.New("upstream returned record with invalid structure")
)

// BadStatusError carries the upstream HTTP status so the relay can mirror it.
// A zero Status means the status is unknown (retries exhausted on 5xx).
type BadStatusError struct {
	Status int
}

func (e *BadStatusError) Error() string {
	if e.Status == 0 {
		return "upstream returned bad status"
	}
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

func (e *BadStatusError) Unwrap() error { return ErrBadStatus }
