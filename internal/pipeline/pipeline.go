package pipeline

import (
	"context"
	"path"
	"time"

	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/amankumarsingh77/video-transcriber/internal/jobs"
	"github.com/amankumarsingh77/video-transcriber/internal/media"
	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/amankumarsingh77/video-transcriber/pkg/utils"
	"github.com/pkg/errors"
)

const eventTimeout = 2 * time.Second

type Fetcher interface {
	Fetch(ctx context.Context, url, jobID string) (*models.MediaArtifact, *models.VideoMetadata, error)
}

type AudioExtractor interface {
	ExtractAudio(ctx context.Context, jobID, url string, platform models.Platform) (*models.MediaArtifact, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) models.Transcription
}

type ArtifactStore interface {
	RemoveAudio(jobID string) (int, error)
	RemoveJob(jobID string) (int, error)
}

// transitions lists the states each state may move to.
var transitions = map[models.JobState][]models.JobState{
	models.JobStateStart:           {models.JobStateFetching},
	models.JobStateFetching:        {models.JobStateFetched, models.JobStateError},
	models.JobStateFetched:         {models.JobStateExtractingAudio},
	models.JobStateExtractingAudio: {models.JobStateTranscribing, models.JobStateDone},
	models.JobStateTranscribing:    {models.JobStateDone},
}

func allowed(from, to models.JobState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type job struct {
	id            string
	url           string
	state         models.JobState
	video         *models.MediaArtifact
	meta          *models.VideoMetadata
	audio         *models.MediaArtifact
	transcription models.Transcription
	err           error
}

type step func(ctx context.Context, j *job) models.JobState

// Pipeline drives one URL from START to DONE or ERROR.
type Pipeline struct {
	cfg         *config.Config
	fetcher     Fetcher
	extractor   AudioExtractor
	transcriber Transcriber
	store       ArtifactStore
	redisRepo   jobs.RedisRepository
	awsRepo     jobs.AWSRepository
	logger      logger.Logger
	newID       func() string
	now         func() time.Time
	steps       map[models.JobState]step
}

// NewPipeline builds a pipeline. redisRepo and awsRepo may be nil.
func NewPipeline(
	cfg *config.Config,
	fetcher Fetcher,
	extractor AudioExtractor,
	transcriber Transcriber,
	store ArtifactStore,
	redisRepo jobs.RedisRepository,
	awsRepo jobs.AWSRepository,
	logger logger.Logger,
) *Pipeline {
	p := &Pipeline{
		cfg:         cfg,
		fetcher:     fetcher,
		extractor:   extractor,
		transcriber: transcriber,
		store:       store,
		redisRepo:   redisRepo,
		awsRepo:     awsRepo,
		logger:      logger,
		newID:       utils.NewJobID,
		now:         time.Now,
	}
	p.steps = map[models.JobState]step{
		models.JobStateStart:           p.start,
		models.JobStateFetching:        p.fetch,
		models.JobStateFetched:         p.fetched,
		models.JobStateExtractingAudio: p.extractAudio,
		models.JobStateTranscribing:    p.transcribe,
	}
	return p
}

func (p *Pipeline) Run(ctx context.Context, url string) models.JobResult {
	j := &job{id: p.newID(), url: url, state: models.JobStateStart}
	p.publish(ctx, j)

	for !j.state.Terminal() {
		next := p.steps[j.state](ctx, j)
		if !allowed(j.state, next) {
			p.logger.Errorf("[JOB %s] Pipeline.Run - illegal transition %s -> %s", j.id, j.state, next)
			if j.err == nil {
				j.err = errors.Errorf("illegal transition %s -> %s", j.state, next)
			}
			next = models.JobStateError
		}
		j.state = next
		p.publish(ctx, j)
	}
	return p.finish(ctx, j)
}

func (p *Pipeline) start(_ context.Context, j *job) models.JobState {
	p.logger.Infof("[JOB %s] started for %s", j.id, j.url)
	return models.JobStateFetching
}

func (p *Pipeline) fetch(ctx context.Context, j *job) models.JobState {
	video, meta, err := p.fetcher.Fetch(ctx, j.url, j.id)
	if err != nil {
		p.logger.Errorf("[JOB %s] Pipeline.fetch error: %v", j.id, err)
		j.err = err
		return models.JobStateError
	}
	j.video = video
	j.meta = meta
	return models.JobStateFetched
}

func (p *Pipeline) fetched(_ context.Context, j *job) models.JobState {
	p.logger.Infof("[JOB %s] fetched %s (%d bytes)", j.id, j.video.Filename(), j.video.Size)
	return models.JobStateExtractingAudio
}

func (p *Pipeline) extractAudio(ctx context.Context, j *job) models.JobState {
	audio, err := p.extractor.ExtractAudio(ctx, j.id, j.url, media.DetectPlatform(j.url))
	if err != nil {
		p.logger.Warnf("[JOB %s] Pipeline.extractAudio error: %v", j.id, err)
		j.transcription = models.UnavailableTranscription()
		return models.JobStateDone
	}
	j.audio = audio
	return models.JobStateTranscribing
}

func (p *Pipeline) transcribe(ctx context.Context, j *job) models.JobState {
	j.transcription = p.transcriber.Transcribe(ctx, j.audio.Path)
	return models.JobStateDone
}

func (p *Pipeline) finish(ctx context.Context, j *job) models.JobResult {
	if n, err := p.store.RemoveAudio(j.id); err != nil {
		p.logger.Warnf("[JOB %s] Pipeline.finish - RemoveAudio error: %v", j.id, err)
	} else if n > 0 {
		p.logger.Debugf("[JOB %s] removed %d audio files", j.id, n)
	}

	if j.state == models.JobStateError {
		if _, err := p.store.RemoveJob(j.id); err != nil {
			p.logger.Warnf("[JOB %s] Pipeline.finish - RemoveJob error: %v", j.id, err)
		}
		return models.NewFailedResult(j.url, j.err)
	}

	p.mirror(ctx, j)
	p.logger.Infof("[JOB %s] done", j.id)
	return models.NewSuccessResult(j.video, j.meta, j.transcription)
}

// mirror copies the retained video to S3 when a bucket is configured.
func (p *Pipeline) mirror(ctx context.Context, j *job) {
	if p.awsRepo == nil || p.cfg == nil || p.cfg.S3.Bucket == "" {
		return
	}
	key := path.Join(p.cfg.S3.Prefix, j.video.Filename())
	if err := p.awsRepo.PutObject(ctx, p.cfg.S3.Bucket, key, j.video.Path); err != nil {
		p.logger.Warnf("[JOB %s] Pipeline.mirror - PutObject error: %v", j.id, err)
	}
}

func (p *Pipeline) publish(ctx context.Context, j *job) {
	if p.redisRepo == nil || p.cfg == nil || p.cfg.Redis.EventChannel == "" {
		return
	}
	event := &models.JobEvent{
		JobID:     j.id,
		URL:       j.url,
		State:     j.state,
		Timestamp: p.now().UTC(),
	}
	if j.state == models.JobStateError && j.err != nil {
		event.Error = j.err.Error()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventTimeout)
	defer cancel()
	if err := p.redisRepo.PublishEvent(ctx, p.cfg.Redis.EventChannel, event); err != nil {
		p.logger.Debugf("[JOB %s] Pipeline.publish %s error: %v", j.id, j.state, err)
	}
}
