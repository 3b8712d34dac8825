package media

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/amankumarsingh77/video-transcriber/internal/artifacts"
	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"
)

// YouTubeSource downloads YouTube media in process instead of going
// through yt-dlp.
type YouTubeSource struct {
	client *youtube.Client
	store  *artifacts.Store
}

func NewYouTubeSource(store *artifacts.Store, httpClient *http.Client) *YouTubeSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &YouTubeSource{
		client: &youtube.Client{HTTPClient: httpClient},
		store:  store,
	}
}

func (y *YouTubeSource) FetchVideo(ctx context.Context, url, jobID string) (*models.MediaArtifact, *models.VideoMetadata, error) {
	video, err := y.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, nil, errors.Wrap(err, "youtube: get video")
	}

	format := bestFormat(video.Formats.WithAudioChannels(), "video/mp4")
	if format == nil {
		format = bestFormat(video.Formats.WithAudioChannels(), "video/")
	}
	if format == nil {
		return nil, nil, &models.FetchError{
			Kind:    models.FetchNoOutput,
			Message: "no downloadable format with audio for " + url,
			Err:     errors.New("youtube: no muxed format"),
		}
	}

	artifact, err := y.download(ctx, video, format, jobID, models.ArtifactVideo)
	if err != nil {
		return nil, nil, err
	}

	meta := &models.VideoMetadata{
		Title:     video.Title,
		Duration:  video.Duration.Seconds(),
		SourceURL: url,
		Platform:  models.PlatformYouTube,
	}
	if n := len(video.Thumbnails); n > 0 {
		meta.Thumbnail = video.Thumbnails[n-1].URL
	}
	return artifact, meta, nil
}

func (y *YouTubeSource) FetchAudio(ctx context.Context, url, jobID string) (*models.MediaArtifact, error) {
	video, err := y.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "youtube: get video")
	}
	format := bestFormat(video.Formats, "audio/mp4")
	if format == nil {
		format = bestFormat(video.Formats, "audio/")
	}
	if format == nil {
		return nil, errors.New("youtube: no audio format available")
	}
	return y.download(ctx, video, format, jobID, models.ArtifactAudio)
}

func (y *YouTubeSource) download(ctx context.Context, video *youtube.Video, format *youtube.Format, jobID string, role models.ArtifactRole) (*models.MediaArtifact, error) {
	stream, _, err := y.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, errors.Wrap(err, "youtube: open stream")
	}
	defer stream.Close()
	return y.save(stream, jobID, role, format.MimeType)
}

// save writes r to the job's provisional path and commits it. A failed
// write leaves nothing behind in the store.
func (y *YouTubeSource) save(r io.Reader, jobID string, role models.ArtifactRole, mimeType string) (*models.MediaArtifact, error) {
	part := y.store.ProvisionalPath(jobID, role, extensionFor(mimeType))
	file, err := os.Create(part)
	if err != nil {
		return nil, errors.Wrap(err, "youtube: create file")
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(part)
		return nil, errors.Wrap(err, "youtube: write stream")
	}
	if err := file.Close(); err != nil {
		os.Remove(part)
		return nil, errors.Wrap(err, "youtube: close file")
	}
	return y.store.Commit(jobID, role, part)
}

// bestFormat picks the highest bitrate format whose mime type starts with
// prefix.
func bestFormat(formats youtube.FormatList, prefix string) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, prefix) {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}

func extensionFor(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/mp4"):
		return ".m4a"
	case strings.HasPrefix(mimeType, "video/mp4"):
		return ".mp4"
	case strings.Contains(mimeType, "webm"):
		return ".webm"
	default:
		return ".bin"
	}
}
