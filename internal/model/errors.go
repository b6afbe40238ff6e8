package model

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned when a job identifier is unknown
	ErrJobNotFound = errors.New("job not found")

	// ErrFileNotFound is returned when a requested download file does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidRequest is returned when required request input is missing
	ErrInvalidRequest = errors.New("invalid request")
)

// ExtractionError reports that the extraction service could not resolve a URL,
// either because it is unsupported or unreachable.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("extract %s: failed", e.URL)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
