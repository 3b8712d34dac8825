package repository

import (
	"context"
	"mime"
	"os"
	"path/filepath"

	"github.com/amankumarsingh77/video-transcriber/internal/jobs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// s3API is the part of *s3.Client the repository uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type awsRepository struct {
	client s3API
}

func NewAwsRepository(client s3API) jobs.AWSRepository {
	return &awsRepository{client: client}
}

func (a *awsRepository) PutObject(ctx context.Context, bucket, key, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open artifact")
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return errors.Wrap(err, "stat artifact")
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return errors.Wrapf(err, "upload %s to s3://%s", key, bucket)
	}
	return nil
}
