package upload

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFileSelected is returned by Begin when nothing is staged.
	ErrNoFileSelected = errors.New("no file selected")
	// ErrInFlight is returned by Begin while a previous upload is outstanding.
	ErrInFlight = errors.New("upload already in flight")
)

// RejectedError reports a non-success status from the upload endpoint.
type RejectedError struct {
	StatusCode int
	// Message is the endpoint's "message" field, empty when it sent none.
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upload rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("upload rejected with status %d: %s", e.StatusCode, e.Message)
}

// TransportError reports that the request never produced a usable response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upload transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a success status whose body was not JSON.
type MalformedResponseError struct {
	StatusCode int
	Err        error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed upload response (status %d): %v", e.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
