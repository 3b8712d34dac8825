package media

import (
	"context"
	"time"

	"github.com/amankumarsingh77/video-transcriber/internal/artifacts"
	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/amankumarsingh77/video-transcriber/pkg/utils"
	"github.com/pkg/errors"
)

type Fetcher struct {
	cfg     config.FetchConfig
	store   *artifacts.Store
	runner  CommandRunner
	youtube *YouTubeSource
	logger  logger.Logger
}

func NewFetcher(cfg config.FetchConfig, store *artifacts.Store, runner CommandRunner, youtube *YouTubeSource, logger logger.Logger) *Fetcher {
	return &Fetcher{
		cfg:     cfg,
		store:   store,
		runner:  runner,
		youtube: youtube,
		logger:  logger,
	}
}

// Fetch downloads the video behind url into the store as {jobID}.{ext}.
// Every error it returns is a *models.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url, jobID string) (*models.MediaArtifact, *models.VideoMetadata, error) {
	if err := utils.ValidateURL(ctx, url); err != nil {
		return nil, nil, &models.FetchError{Kind: models.FetchInvalidURL, Message: "invalid URL: " + url, Err: err}
	}

	platform := DetectPlatform(url)
	f.logger.Infof("[JOB %s] fetching %s (platform %s)", jobID, url, platform)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(f.cfg.TimeoutSec)*time.Second)
	defer cancel()

	if platform == models.PlatformYouTube && f.youtube != nil {
		artifact, meta, err := f.youtube.FetchVideo(ctx, url, jobID)
		if err != nil {
			return nil, nil, ClassifyFetchError(err)
		}
		return artifact, meta, nil
	}

	profile := ProfileFor(platform, f.cfg.Retries)
	args := []string{
		"-f", videoFormat,
		"-o", f.store.OutputTemplate(jobID, models.ArtifactVideo),
		"--no-playlist",
		"--no-progress",
		"--no-simulate",
		"-j",
		"--print", "after_move:filepath",
	}
	args = append(args, profile.args()...)
	args = append(args, url)

	out, err := f.runner.Run(ctx, f.cfg.YtDlpPath, args...)
	if err != nil {
		return nil, nil, ClassifyFetchError(err)
	}

	info, printed := parseYtdlpOutput(out)
	if info == nil {
		return nil, nil, &models.FetchError{
			Kind:    models.FetchNoInfo,
			Message: "could not extract video information",
			Err:     errors.New("yt-dlp returned no info document"),
		}
	}

	path := reportedPath(f.store.Dir(), printed, info.Filename, info.LegacyFilename)
	if path == "" {
		f.logger.Warnf("[JOB %s] downloader did not report the output path, scanning store", jobID)
		if path, err = f.store.Discover(jobID, models.ArtifactVideo); err != nil {
			return nil, nil, noOutput(jobID, err)
		}
	}

	artifact, err := f.store.Commit(jobID, models.ArtifactVideo, path)
	if err != nil {
		return nil, nil, noOutput(jobID, err)
	}

	meta := &models.VideoMetadata{
		Title:     info.Title,
		Thumbnail: info.Thumbnail,
		Duration:  info.Duration,
		SourceURL: url,
		Platform:  platform,
	}
	f.logger.Infof("[JOB %s] fetched %s (%d bytes)", jobID, artifact.Filename(), artifact.Size)
	return artifact, meta, nil
}

func noOutput(jobID string, err error) *models.FetchError {
	return &models.FetchError{
		Kind:    models.FetchNoOutput,
		Message: "downloaded file not found for job " + jobID,
		Err:     err,
	}
}
