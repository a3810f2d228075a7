package api

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned before any network call when no session
// token is available.
var ErrNotAuthenticated = errors.New("not authenticated")

// StatusError is a non-2xx backend response. Detail carries the backend's
// human-readable message when the body provided one.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// errorBody is the backend's error envelope (FastAPI-style).
type errorBody struct {
	Detail string `json:"detail"`
}
