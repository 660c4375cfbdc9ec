package s3

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kurochkinivan/cdr_converter/internal/config"
)

type ObjectStorage interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(
		ctx context.Context,
		bucketName, objectName, filePath string,
		opts minio.PutObjectOptions,
	) (minio.UploadInfo, error)
}

// Uploader copies run artifacts to a bucket under <prefix>/<timestamp>/.
type Uploader struct {
	log     *slog.Logger
	storage ObjectStorage
	bucket  string
	prefix  string
}

func NewClient(cfg config.S3) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return client, nil
}

func NewUploader(log *slog.Logger, storage ObjectStorage, bucket, prefix string) *Uploader {
	return &Uploader{
		log:     log,
		storage: storage,
		bucket:  bucket,
		prefix:  prefix,
	}
}

func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.storage.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", u.bucket, err)
	}

	if exists {
		return nil
	}

	u.log.InfoContext(ctx, "creating bucket", slog.String("bucket", u.bucket))

	if err := u.storage.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", u.bucket, err)
	}

	return nil
}

// Upload returns the object keys in the order of paths.
func (u *Uploader) Upload(ctx context.Context, timestamp string, paths ...string) ([]string, error) {
	keys := make([]string, 0, len(paths))

	for _, p := range paths {
		key := ObjectKey(u.prefix, timestamp, p)

		info, err := u.storage.FPutObject(ctx, u.bucket, key, p, minio.PutObjectOptions{
			ContentType: contentType(p),
		})
		if err != nil {
			return keys, fmt.Errorf("failed to upload %q: %w", p, err)
		}

		u.log.DebugContext(ctx, "artifact uploaded",
			slog.String("bucket", u.bucket),
			slog.String("key", key),
			slog.Int64("size", info.Size),
		)

		keys = append(keys, key)
	}

	return keys, nil
}

func ObjectKey(prefix, timestamp, filePath string) string {
	return path.Join(prefix, timestamp, filepath.Base(filePath))
}

func contentType(filePath string) string {
	switch filepath.Ext(filePath) {
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	case ".log":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
