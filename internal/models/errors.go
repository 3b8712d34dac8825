package models

import "github.com/pkg/errors"

var ErrArtifactNotFound = errors.New("file not found")

type FetchErrorKind string

const (
	FetchNotFound   FetchErrorKind = "not_found"
	FetchPrivate    FetchErrorKind = "private"
	FetchRestricted FetchErrorKind = "restricted"
	FetchExtraction FetchErrorKind = "extraction"
	FetchNoInfo     FetchErrorKind = "no_info"
	FetchNoOutput   FetchErrorKind = "no_output"
	FetchInvalidURL FetchErrorKind = "invalid_url"
)

// FetchError is fatal to a job. Message is shown to the caller as is.
type FetchError struct {
	Kind    FetchErrorKind
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type AudioExtractionError struct {
	JobID string
	Err   error
}

func (e *AudioExtractionError) Error() string {
	return "audio extraction failed for job " + e.JobID + ": " + e.Err.Error()
}

func (e *AudioExtractionError) Unwrap() error {
	return e.Err
}

type TranscriptionError struct {
	Engine string
	Err    error
}

func (e *TranscriptionError) Error() string {
	return e.Err.Error()
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
