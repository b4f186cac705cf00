package domain

import (
	"errors"
	"fmt"
)

// RemoteError carries the status and body of a failed upstream HTTP call.
// Handlers surface it inline for the affected panel instead of failing the
// whole page.
type RemoteError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Service, e.Body)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.StatusCode, e.Body)
}

// EnrichmentError marks a failed language-model call. The cache layer must
// never memoize a result wrapped in one.
type EnrichmentError struct {
	Op  string
	Err error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment %s: %v", e.Op, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// ErrNoInterests is returned when a personalized feed is requested before the
// profile has any interests.
var ErrNoInterests = errors.New("profile has no interests set")

// ErrUserNotFound is returned for an unknown profile email.
var ErrUserNotFound = errors.New("user not found")

// ErrUnknownDataset is returned for an unrecognized dataset source name.
var ErrUnknownDataset = errors.New("unknown dataset source")
