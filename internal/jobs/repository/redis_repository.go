package repository

import (
	"context"
	"encoding/json"

	"github.com/amankumarsingh77/video-transcriber/internal/jobs"
	"github.com/amankumarsingh77/video-transcriber/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

type jobsRedisRepo struct {
	redisClient *redis.Client
}

func NewJobsRedisRepo(redisClient *redis.Client) jobs.RedisRepository {
	return &jobsRedisRepo{
		redisClient: redisClient,
	}
}

func (r *jobsRedisRepo) PublishEvent(ctx context.Context, channel string, event *models.JobEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal job event")
	}
	if err := r.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
		return errors.Wrapf(err, "publish job event to %s", channel)
	}
	return nil
}
