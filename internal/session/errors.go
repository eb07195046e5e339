// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package session

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is wrapped by APIError for HTTP 404.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is wrapped by APIError for HTTP 429.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// APIError is returned for 4xx and 5xx responses other than 401.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap exposes ErrNotFound and ErrRateLimited to errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}

// AuthError reports missing credentials or an HTTP 401.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
