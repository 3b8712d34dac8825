package media

import (
	"strings"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/pkg/errors"
)

const (
	msgRestricted = "This video cannot be downloaded. It may be private, region-restricted, or blocked by the platform."
	msgNotFound   = "Video not found. Check that the link is correct."
	msgPrivate    = "This video is private and cannot be downloaded."
)

// ClassifyFetchError maps a downloader failure onto a caller-facing
// FetchError by matching known fragments of the error text. Unknown
// failures keep their original message.
func ClassifyFetchError(err error) *models.FetchError {
	if err == nil {
		return nil
	}
	var fetchErr *models.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}

	text := err.Error()
	switch {
	case strings.Contains(text, "Unable to extract"), strings.Contains(text, "extract webpage"):
		return &models.FetchError{Kind: models.FetchRestricted, Message: msgRestricted, Err: err}
	case strings.Contains(text, "HTTP Error 404"):
		return &models.FetchError{Kind: models.FetchNotFound, Message: msgNotFound, Err: err}
	case strings.Contains(text, "Private video"):
		return &models.FetchError{Kind: models.FetchPrivate, Message: msgPrivate, Err: err}
	default:
		return &models.FetchError{Kind: models.FetchExtraction, Message: text, Err: err}
	}
}
