package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/amankumarsingh77/video-transcriber/internal/analysis"
	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/amankumarsingh77/video-transcriber/internal/jobs"
	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/amankumarsingh77/video-transcriber/pkg/logger"
	"github.com/amankumarsingh77/video-transcriber/pkg/utils"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkerCount = 3
	errNoURL           = "no URL provided"
)

type jobsUC struct {
	cfg       *config.Config
	pipeline  jobs.Pipeline
	artifacts jobs.ArtifactRepository
	logger    logger.Logger
	cpuCheck  func(maxCPUUsage float64) (bool, float64)
}

func NewJobsUseCase(
	cfg *config.Config,
	pipeline jobs.Pipeline,
	artifacts jobs.ArtifactRepository,
	log logger.Logger,
) jobs.UseCase {
	return &jobsUC{
		cfg:       cfg,
		pipeline:  pipeline,
		artifacts: artifacts,
		logger:    log,
		cpuCheck:  utils.CheckCPUUsage,
	}
}

// RunBatch runs one pipeline per URL on a bounded pool and returns the
// results in input order. Only an empty request is an error.
func (u *jobsUC) RunBatch(ctx context.Context, input *models.BatchRequest) ([]models.JobResult, error) {
	if input == nil {
		return nil, &models.ValidationError{Message: errNoURL}
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("RunBatch - ValidateStruct error: %v", err)
		return nil, &models.ValidationError{Message: errNoURL}
	}

	workers := u.cfg.Worker.WorkerCount
	if workers < 1 {
		workers = defaultWorkerCount
	}
	u.logger.Infof("RunBatch - processing %d urls with %d workers", len(input.URLs), workers)

	results := make([]models.JobResult, len(input.URLs))
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, url := range input.URLs {
		g.Go(func() error {
			results[i] = u.runJob(ctx, strings.TrimSpace(url))
			results[i].URL = url
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (u *jobsUC) runJob(ctx context.Context, url string) (result models.JobResult) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Errorf("RunBatch - job panic for %s: %v", url, r)
			result = models.NewFailedResult(url, errors.Errorf("internal error: %v", r))
		}
	}()
	u.waitForCPU(ctx)
	return u.pipeline.Run(ctx, url)
}

// waitForCPU holds a job back while host CPU usage is above the configured
// ceiling, for at most Worker.CPUWaitSec. The job starts either way.
func (u *jobsUC) waitForCPU(ctx context.Context) {
	limit := u.cfg.Worker.MaxCPUUsage
	if limit <= 0 || limit >= 100 || u.cpuCheck == nil {
		return
	}
	ok, usage := u.cpuCheck(limit)
	if ok {
		return
	}

	every := time.Duration(u.cfg.Worker.CPUCheckEveryMs) * time.Millisecond
	if every <= 0 {
		every = 500 * time.Millisecond
	}
	deadline := time.NewTimer(time.Duration(u.cfg.Worker.CPUWaitSec) * time.Second)
	defer deadline.Stop()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	u.logger.Infof("CPU usage is high: %f, waiting", usage)
	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			u.logger.Warnf("CPU usage still above %.0f%%, starting job anyway", limit)
			return
		case <-ticker.C:
			if ok, _ := u.cpuCheck(limit); ok {
				return
			}
		}
	}
}

func (u *jobsUC) Locate(ctx context.Context, jobID string) (string, error) {
	path, err := u.artifacts.Locate(jobID)
	if err != nil {
		if !errors.Is(err, models.ErrArtifactNotFound) {
			u.logger.Errorf("Locate - artifacts.Locate error: %v", err)
		}
		return "", err
	}
	return path, nil
}

func (u *jobsUC) PurgeAll(ctx context.Context) (int, error) {
	n, err := u.artifacts.PurgeAll()
	if err != nil {
		u.logger.Errorf("PurgeAll - artifacts.PurgeAll error: %v", err)
		return n, err
	}
	u.logger.Infof("PurgeAll - removed %d files", n)
	return n, nil
}

func (u *jobsUC) Analyze(ctx context.Context, input *models.AnalyzeRequest) (*models.TranscriptAnalysis, error) {
	if input == nil {
		return nil, &models.ValidationError{Message: "no text provided"}
	}
	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("Analyze - ValidateStruct error: %v", err)
		return nil, &models.ValidationError{Message: "no text provided"}
	}
	return analysis.Analyze(input.Text, input.Language), nil
}
