package jobs

import (
	"context"

	"github.com/amankumarsingh77/video-transcriber/internal/models"
)

type RedisRepository interface {
	PublishEvent(ctx context.Context, channel string, event *models.JobEvent) error
}
