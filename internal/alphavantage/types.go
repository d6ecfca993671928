// Package alphavantage provides a client for the Alpha Vantage calendar
// endpoints. This package centralizes all Alpha Vantage API interactions
// for the application.
package alphavantage

import (
	"fmt"
)

// Row is one record of a delimited calendar response, keyed by the header
// row's column names. Columns missing from a row map to the empty string.
type Row map[string]string

// Get returns the named column or "" when absent
func (r Row) Get(column string) string {
	return r[column]
}

// SourceUnavailableError represents a transport or HTTP failure talking to
// the Alpha Vantage API.
type SourceUnavailableError struct {
	StatusCode int
	Endpoint   string
	Err        error
}

func (e *SourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("alphavantage unavailable (endpoint: %s): %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("alphavantage unavailable (status: %d, endpoint: %s)", e.StatusCode, e.Endpoint)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}
