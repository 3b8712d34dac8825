package server

import (
	"net/http"
	"time"

	"github.com/amankumarsingh77/video-transcriber/internal/artifacts"
	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/amankumarsingh77/video-transcriber/internal/jobs"
	"github.com/amankumarsingh77/video-transcriber/internal/jobs/repository"
	"github.com/amankumarsingh77/video-transcriber/internal/jobs/usecase"
	"github.com/amankumarsingh77/video-transcriber/internal/media"
	"github.com/amankumarsingh77/video-transcriber/internal/pipeline"
	"github.com/amankumarsingh77/video-transcriber/internal/transcribe"
	"github.com/amankumarsingh77/video-transcriber/internal/transcribe/local"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
)

const remoteEngineTimeout = 5 * time.Minute

// NewJobsUseCase assembles the processing stack shared by the HTTP server and
// the CLI. The returned func releases the transcription engine.
func NewJobsUseCase(cfg *config.Config, redisClient *redis.Client, s3Client *s3.Client, log logger.Logger) (jobs.UseCase, func(), error) {
	store, err := artifacts.NewStore(cfg.Storage.Dir)
	if err != nil {
		return nil, nil, err
	}

	runner := media.ExecRunner{}
	var youtubeSource *media.YouTubeSource
	if cfg.Fetch.YouTubeNative {
		youtubeSource = media.NewYouTubeSource(store, &http.Client{})
	}
	fetcher := media.NewFetcher(cfg.Fetch, store, runner, youtubeSource, log)
	extractor := media.NewAudioExtractor(cfg.Fetch, store, runner, youtubeSource, log)

	engine, closeEngine := NewEngine(cfg.Transcription)
	var diarizer transcribe.Diarizer
	if cfg.Transcription.Diarization == "silence" {
		diarizer = transcribe.SilenceDiarizer{}
	}
	transcriber := transcribe.NewTranscriber(engine, cfg.Transcription.Language, diarizer, log)

	var redisRepo jobs.RedisRepository
	if redisClient != nil {
		redisRepo = repository.NewJobsRedisRepo(redisClient)
	}
	var awsRepo jobs.AWSRepository
	if s3Client != nil {
		awsRepo = repository.NewAwsRepository(s3Client)
	}

	p := pipeline.NewPipeline(cfg, fetcher, extractor, transcriber, store, redisRepo, awsRepo, log)
	log.Infof("Jobs stack ready: engine=%s storage=%s workers=%d", engine.Name(), store.Dir(), cfg.Worker.WorkerCount)
	return usecase.NewJobsUseCase(cfg, p, store, log), closeEngine, nil
}

// NewEngine selects the transcription engine named by cfg.Engine.
func NewEngine(cfg config.TranscriptionConfig) (transcribe.Engine, func()) {
	httpClient := &http.Client{Timeout: remoteEngineTimeout}
	switch cfg.Engine {
	case "openai":
		return transcribe.NewOpenAIEngine(cfg.OpenAI, httpClient), func() {}
	case "cloudflare":
		return transcribe.NewCloudflareEngine(cfg.Cloudflare, httpClient), func() {}
	default:
		engine := local.New(cfg.Local, cfg.Language)
		return engine, engine.Close
	}
}
