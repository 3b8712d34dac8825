package jobs

import "context"

type AWSRepository interface {
	PutObject(ctx context.Context, bucket, key, path string) error
}
