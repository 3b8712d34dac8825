package jobs

import (
	"context"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
)

type UseCase interface {
	RunBatch(ctx context.Context, input *models.BatchRequest) ([]models.JobResult, error)
	Locate(ctx context.Context, jobID string) (string, error)
	PurgeAll(ctx context.Context) (int, error)
	Analyze(ctx context.Context, input *models.AnalyzeRequest) (*models.TranscriptAnalysis, error)
}

// Pipeline processes a single URL. It always returns a result.
type Pipeline interface {
	Run(ctx context.Context, url string) models.JobResult
}

type ArtifactRepository interface {
	Locate(jobID string) (string, error)
	PurgeAll() (int, error)
}
