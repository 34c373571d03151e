package publish

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
)

// GCSPublisher uploads artifacts to a Cloud Storage bucket, overwriting the
// previous run's objects.
type GCSPublisher struct {
	bucket *storage.BucketHandle
	name   string
	prefix string
}

// NewGCSPublisher creates a publisher for bucket. Object names are prefix+artifact name.
func NewGCSPublisher(client *storage.Client, bucket, prefix string) *GCSPublisher {
	return &GCSPublisher{
		bucket: client.Bucket(bucket),
		name:   bucket,
		prefix: prefix,
	}
}

// Name implements pipeline.Publisher.
func (p *GCSPublisher) Name() string { return "gcs" }

// Publish uploads one artifact.
func (p *GCSPublisher) Publish(ctx context.Context, a domain.Artifact) error {
	object := objectKey(p.prefix, a.Name)
	w := p.bucket.Object(object).NewWriter(ctx)
	w.ContentType = a.ContentType
	w.CacheControl = CacheControl
	w.ChunkSize = 0 // artifacts are small; upload in a single request

	if _, err := w.Write(a.Body); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gs://%s/%s: %w", p.name, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gs://%s/%s: %w", p.name, object, err)
	}
	return nil
}
