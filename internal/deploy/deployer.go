// Package deploy publishes the assembled tenant configuration to
// S3-compatible storage. When deployment is not configured (empty bucket),
// the NoopDeployer is used and deploys fail fast with ErrNotConfigured,
// keeping the system in local-only authoring mode.
package deploy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sethvargo/go-retry"

	"github.com/hyperengineering/composer/internal/config"
	"github.com/hyperengineering/composer/internal/types"
)

// ErrNotConfigured is returned when no deployment target is configured.
var ErrNotConfigured = errors.New("deployment target not configured")

// retryBase is the initial backoff between upload attempts.
const retryBase = 500 * time.Millisecond

// Deployer publishes a tenant configuration to the live serving location.
type Deployer interface {
	// Deploy uploads the configuration, backing up the previous version first.
	// Returns the object key the configuration was written to.
	Deploy(ctx context.Context, cfg *types.TenantConfig) (string, error)
}

// s3Client defines the minimal minio.Client operations used by S3Deployer.
// This interface enables testing with mock implementations.
type s3Client interface {
	PutObject(ctx context.Context, bucket, objectName string, reader io.Reader, size int64) error
	ObjectExists(ctx context.Context, bucket, objectName string) (bool, error)
	CopyObject(ctx context.Context, bucket, srcName, dstName string) error
}

// minioClientWrapper wraps *minio.Client to satisfy the s3Client interface.
// This is necessary because minio.Client methods have concrete option types
// that differ from our simplified interface.
type minioClientWrapper struct {
	client *minio.Client
}

func (w *minioClientWrapper) PutObject(ctx context.Context, bucket, objectName string, reader io.Reader, size int64) error {
	_, err := w.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

func (w *minioClientWrapper) ObjectExists(ctx context.Context, bucket, objectName string) (bool, error) {
	_, err := w.client.StatObject(ctx, bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (w *minioClientWrapper) CopyObject(ctx context.Context, bucket, srcName, dstName string) error {
	_, err := w.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: bucket, Object: dstName},
		minio.CopySrcOptions{Bucket: bucket, Object: srcName},
	)
	return err
}

// S3Deployer publishes configurations to S3-compatible storage.
type S3Deployer struct {
	client     s3Client
	bucket     string
	objectKey  string
	maxRetries uint64
}

// Deploy marshals the configuration, backs up the currently deployed
// version (if any), and uploads the new one with retries. Transient
// upload failures are retried with exponential backoff.
func (d *S3Deployer) Deploy(ctx context.Context, cfg *types.TenantConfig) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal tenant config: %w", err)
	}

	if err := d.backupCurrent(ctx); err != nil {
		return "", err
	}

	backoff := retry.WithMaxRetries(d.maxRetries, retry.NewExponential(retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := d.client.PutObject(ctx, d.bucket, d.objectKey, bytes.NewReader(data), int64(len(data))); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("upload tenant config to S3: %w", err)
	}

	return d.objectKey, nil
}

// backupCurrent copies the currently deployed object to a backup key so a
// bad deploy can be rolled back manually. A missing current object is not
// an error; there is nothing to back up on first deploy.
func (d *S3Deployer) backupCurrent(ctx context.Context) error {
	exists, err := d.client.ObjectExists(ctx, d.bucket, d.objectKey)
	if err != nil {
		return fmt.Errorf("check deployed config: %w", err)
	}
	if !exists {
		return nil
	}
	if err := d.client.CopyObject(ctx, d.bucket, d.objectKey, backupKey(d.objectKey)); err != nil {
		return fmt.Errorf("back up deployed config: %w", err)
	}
	return nil
}

// NoopDeployer is used when no deployment target is configured.
type NoopDeployer struct{}

// Deploy returns ErrNotConfigured when deployment is not configured.
func (d *NoopDeployer) Deploy(ctx context.Context, cfg *types.TenantConfig) (string, error) {
	return "", ErrNotConfigured
}

// NewDeployer creates the appropriate Deployer based on configuration.
// Returns NoopDeployer when bucket is empty, S3Deployer otherwise.
func NewDeployer(cfg config.DeployConfig) (Deployer, error) {
	if cfg.Bucket == "" {
		return &NoopDeployer{}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	return &S3Deployer{
		client:     &minioClientWrapper{client: client},
		bucket:     cfg.Bucket,
		objectKey:  cfg.ObjectKey,
		maxRetries: uint64(cfg.MaxRetries),
	}, nil
}

// backupKey returns the backup object key for a deployed configuration.
// Convention: {key}.backup
func backupKey(objectKey string) string {
	return objectKey + ".backup"
}
