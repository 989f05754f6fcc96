// Package minio serves entity images.  Image references in the catalog are
// relative paths rooted at /storage/; this package resolves them to presigned
// object URLs, substituting a per-entity-type default image when the source
// field is empty.
package minio

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// Client wraps the object-store connection.
type Client struct {
	mc     *minio.Client
	bucket string
	logger logging.Logger
}

// NewClient connects to the object store and ensures the bucket exists.
func NewClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternalService, "create minio client")
	}

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternalService, "check asset bucket")
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, errors.CodeExternalService, "create asset bucket")
		}
	}

	log.Info("connected to object store",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
	)
	return &Client{mc: mc, bucket: cfg.Bucket, logger: log}, nil
}

// Raw returns the underlying minio client.
func (c *Client) Raw() *minio.Client {
	return c.mc
}

// Bucket returns the configured asset bucket.
func (c *Client) Bucket() string {
	return c.bucket
}
