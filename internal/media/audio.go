package media

import (
	"context"
	"strconv"
	"time"

	"github.com/amankumarsingh77/video-transcriber/internal/artifacts"
	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
)

const (
	audioCodec   = "mp3"
	audioBitrate = 192
)

// AudioExtractor runs a second, audio-only download of the source URL.
type AudioExtractor struct {
	cfg     config.FetchConfig
	store   *artifacts.Store
	runner  CommandRunner
	youtube *YouTubeSource
	logger  logger.Logger
}

func NewAudioExtractor(cfg config.FetchConfig, store *artifacts.Store, runner CommandRunner, youtube *YouTubeSource, logger logger.Logger) *AudioExtractor {
	return &AudioExtractor{
		cfg:     cfg,
		store:   store,
		runner:  runner,
		youtube: youtube,
		logger:  logger,
	}
}

// ExtractAudio stores the best audio stream of url as {jobID}_audio.{ext}.
// Every error it returns is a *models.AudioExtractionError.
func (a *AudioExtractor) ExtractAudio(ctx context.Context, jobID, url string, platform models.Platform) (*models.MediaArtifact, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.TimeoutSec)*time.Second)
	defer cancel()

	if platform == models.PlatformYouTube && a.youtube != nil {
		artifact, err := a.youtube.FetchAudio(ctx, url, jobID)
		if err != nil {
			return nil, &models.AudioExtractionError{JobID: jobID, Err: err}
		}
		return artifact, nil
	}

	profile := ProfileFor(platform, a.cfg.Retries)
	args := []string{
		"-f", audioFormat,
		"-x",
		"--audio-format", audioCodec,
		"--audio-quality", strconv.Itoa(audioBitrate) + "K",
		"-o", a.store.OutputTemplate(jobID, models.ArtifactAudio),
		"--no-playlist",
		"--no-progress",
		"--no-simulate",
		"--print", "after_move:filepath",
	}
	args = append(args, profile.args()...)
	args = append(args, url)

	out, err := a.runner.Run(ctx, a.cfg.YtDlpPath, args...)
	if err != nil {
		return nil, &models.AudioExtractionError{JobID: jobID, Err: err}
	}

	_, printed := parseYtdlpOutput(out)
	path := reportedPath(a.store.Dir(), printed)
	if path == "" {
		if path, err = a.store.Discover(jobID, models.ArtifactAudio); err != nil {
			return nil, &models.AudioExtractionError{JobID: jobID, Err: err}
		}
	}

	artifact, err := a.store.Commit(jobID, models.ArtifactAudio, path)
	if err != nil {
		return nil, &models.AudioExtractionError{JobID: jobID, Err: err}
	}
	a.logger.Infof("[JOB %s] audio ready: %s (%d bytes)", jobID, artifact.Filename(), artifact.Size)
	return artifact, nil
}
