package publish

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
)

// PutObjectAPI is the subset of *s3.Client the S3 publisher needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads artifacts to an S3 (or S3-compatible) bucket.
type S3Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Publisher creates a publisher for bucket. Object keys are prefix+artifact name.
func NewS3Publisher(client PutObjectAPI, bucket, prefix string) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, prefix: prefix}
}

// Name implements pipeline.Publisher.
func (p *S3Publisher) Name() string { return "s3" }

// Publish uploads one artifact.
func (p *S3Publisher) Publish(ctx context.Context, a domain.Artifact) error {
	key := objectKey(p.prefix, a.Name)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(a.Body),
		ContentType:  aws.String(a.ContentType),
		CacheControl: aws.String(CacheControl),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", p.bucket, key, err)
	}
	return nil
}
