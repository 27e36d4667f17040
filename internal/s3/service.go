package s3

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/flexprice/saaskpi/internal/config"
	ierr "github.com/flexprice/saaskpi/internal/errors"
	"github.com/flexprice/saaskpi/internal/push"
)

// Sink uploads every pushed table as a CSV object. Objects are overwritten,
// which replaces the table.
type Sink struct {
	client *s3.Client
	config *config.S3Config
}

func NewSink(ctx context.Context, config *config.Configuration) (*Sink, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion(config.S3.Region),
	)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to load aws config").
			Mark(ierr.ErrHTTPClient)
	}

	return &Sink{
		config: &config.S3,
		client: s3.NewFromConfig(awsCfg),
	}, nil
}

func (s *Sink) Name() string {
	return "s3"
}

// Prepare checks that the bucket exists and is reachable.
func (s *Sink) Prepare(ctx context.Context, schema string) error {
	if s.config.Bucket == "" {
		return ierr.NewError("s3 bucket is not configured").
			WithHint("Set s3.bucket or SAASKPI_S3_BUCKET").
			Mark(ierr.ErrValidation)
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.config.Bucket),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to reach bucket").
			WithMessagef("bucket:%s", s.config.Bucket).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}

func (s *Sink) WriteTable(ctx context.Context, schema string, ds *push.Dataset) error {
	obj, err := NewCSVObject(s.config.KeyPrefix, schema, ds)
	if err != nil {
		return ierr.WithError(err).WithHintf("failed to encode table %s", ds.Name).
			Mark(ierr.ErrSystem)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(obj.Key),
		Body:        bytes.NewReader(obj.Data),
		ContentType: aws.String(obj.ContentType),
	})
	if err != nil {
		return ierr.WithError(err).WithHint("failed to upload table").
			WithMessagef("bucket:%s, key:%s", s.config.Bucket, obj.Key).
			Mark(ierr.ErrHTTPClient)
	}
	return nil
}
