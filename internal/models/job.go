package models

import "time"

type JobState string

const (
	JobStateStart           JobState = "START"
	JobStateFetching        JobState = "FETCHING"
	JobStateFetched         JobState = "FETCHED"
	JobStateExtractingAudio JobState = "EXTRACTING_AUDIO"
	JobStateTranscribing    JobState = "TRANSCRIBING"
	JobStateDone            JobState = "DONE"
	JobStateError           JobState = "ERROR"
)

func (s JobState) Terminal() bool {
	return s == JobStateDone || s == JobStateError
}

type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformGeneric   Platform = "generic"
)

type ArtifactRole string

const (
	ArtifactVideo ArtifactRole = "video"
	ArtifactAudio ArtifactRole = "audio"
)

type MediaArtifact struct {
	JobID string       `json:"job_id"`
	Role  ArtifactRole `json:"role"`
	Ext   string       `json:"ext"`
	Size  int64        `json:"size"`
	Path  string       `json:"-"`
}

func (a *MediaArtifact) Filename() string {
	if a.Role == ArtifactAudio {
		return a.JobID + "_audio" + a.Ext
	}
	return a.JobID + a.Ext
}

type VideoMetadata struct {
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Duration  float64  `json:"duration"`
	SourceURL string   `json:"url"`
	Platform  Platform `json:"-"`
}

type BatchRequest struct {
	URLs []string `json:"urls" validate:"required,min=1"`
}

type BatchResponse struct {
	Results []JobResult `json:"results"`
}

type JobResult struct {
	Success       bool           `json:"success"`
	VideoID       string         `json:"video_id,omitempty"`
	Title         string         `json:"title,omitempty"`
	Thumbnail     string         `json:"thumbnail,omitempty"`
	Duration      *float64       `json:"duration,omitempty"`
	Filename      string         `json:"filename,omitempty"`
	URL           string         `json:"url"`
	Transcription *Transcription `json:"transcription,omitempty"`
	Error         string         `json:"error,omitempty"`
}

func NewFailedResult(url string, err error) JobResult {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return JobResult{Success: false, URL: url, Error: msg}
}

func NewSuccessResult(video *MediaArtifact, meta *VideoMetadata, transcription Transcription) JobResult {
	duration := meta.Duration
	return JobResult{
		Success:       true,
		VideoID:       video.JobID,
		Title:         meta.Title,
		Thumbnail:     meta.Thumbnail,
		Duration:      &duration,
		Filename:      video.Filename(),
		URL:           meta.SourceURL,
		Transcription: &transcription,
	}
}

// JobEvent is published on every pipeline state transition.
type JobEvent struct {
	JobID     string    `json:"job_id"`
	URL       string    `json:"url"`
	State     JobState  `json:"state"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
