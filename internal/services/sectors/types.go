package sectors

import (
	"fmt"
	"time"
)

// ScrapeUnavailableError means the browser automation backend could not be
// started at all.
type ScrapeUnavailableError struct {
	Err error
}

func (e *ScrapeUnavailableError) Error() string {
	return fmt.Sprintf("scrape backend unavailable: %v", e.Err)
}

func (e *ScrapeUnavailableError) Unwrap() error {
	return e.Err
}

// ScrapeTimeoutError means the container element did not appear within the
// bounded wait.
type ScrapeTimeoutError struct {
	Selector string
	Timeout  time.Duration
}

func (e *ScrapeTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %v waiting for %q", e.Timeout, e.Selector)
}
