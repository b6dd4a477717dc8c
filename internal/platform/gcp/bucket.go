package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"

	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/platform/objectstore"
)

type bucketStore struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucket        string
}

// NewBucketStore returns an objectstore.Store backed by a GCS bucket (or the
// fake-gcs emulator).
func NewBucketStore(ctx context.Context, log *logger.Logger, cfg objectstore.Config) (objectstore.Store, io.Closer, error) {
	if err := objectstore.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("validate object storage config: %w", err)
	}
	if !cfg.IsGCS() {
		return nil, nil, fmt.Errorf("bucket store requires a gcs mode, got %q", cfg.Mode)
	}
	serviceLog := log.With("service", "BucketStore")

	client, err := newStorageClientForMode(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	modeSource := "explicit_or_default"
	if cfg.CompatibilityFallback {
		modeSource = "compatibility_fallback"
	}
	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Mode,
		"mode_source", modeSource,
		"emulator_host", cfg.EmulatorHost,
		"bucket", cfg.Bucket,
	)
	return &bucketStore{log: serviceLog, storageClient: client, bucket: cfg.Bucket}, client, nil
}

func newStorageClientForMode(ctx context.Context, cfg objectstore.Config) (*storage.Client, error) {
	opts, err := storageClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.IsEmulatorMode() {
		endpoint := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
		_ = os.Setenv("STORAGE_EMULATOR_HOST", endpoint)
	}
	return storage.NewClient(ctx, opts...)
}

// ObjectPath is the value recorded as an execution's input source.
func ObjectPath(bucket, key string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, strings.TrimLeft(key, "/"))
}

func (bs *bucketStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	k, err := objectstore.CleanKey(key)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.bucket).Object(k).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return ObjectPath(bs.bucket, k), nil
}

func (bs *bucketStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := objectstore.CleanKey(key)
	if err != nil {
		return nil, err
	}
	// The timeout must outlive this call, so cancel rides on Close.
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)
	r, err := bs.storageClient.Bucket(bs.bucket).Object(k).NewReader(ctx2)
	if err != nil {
		cancel()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, objectstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open GCS reader: %w", err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (bs *bucketStore) Delete(ctx context.Context, key string) error {
	k, err := objectstore.CleanKey(key)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(bs.bucket).Object(k).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", k, bs.bucket, err)
	}
	return nil
}

type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}
