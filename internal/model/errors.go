package model

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when no modality produced a usable distribution:
// either the request carried no inputs at all, or every supplied modality
// failed analysis. Fatal to the request.
var ErrNoInput = errors.New("no input: provide at least one of text, audio, or image")

// AnalysisError reports that a single modality analyzer could not process its
// input (corrupt file, empty signal). The pipeline recovers by treating the
// modality as absent and proceeding with the rest.
type AnalysisError struct {
	Modality Modality
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s analysis: %v", e.Modality, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// NewAnalysisError wraps an analyzer failure with its modality.
func NewAnalysisError(m Modality, err error) *AnalysisError {
	return &AnalysisError{Modality: m, Err: err}
}

// TransportError reports that a remote analysis backend was unreachable or
// returned an unusable response. The pipeline recovers by falling back to the
// local analyzer for that modality; the request itself does not fail.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s unavailable: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps a backend communication failure.
func NewTransportError(endpoint string, err error) *TransportError {
	return &TransportError{Endpoint: endpoint, Err: err}
}
