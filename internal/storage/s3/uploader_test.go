package s3_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kurochkinivan/cdr_converter/internal/config"
	"github.com/kurochkinivan/cdr_converter/internal/storage/s3"
)

type MockObjectStorage struct {
	mock.Mock
}

func NewMockObjectStorage(t *testing.T) *MockObjectStorage {
	m := &MockObjectStorage{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockObjectStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStorage) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockObjectStorage) FPutObject(
	ctx context.Context,
	bucketName, objectName, filePath string,
	opts minio.PutObjectOptions,
) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, filePath, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cdr/20240305_070809/data-20240305_070809.json",
		s3.ObjectKey("cdr", "20240305_070809", "/var/cdr/data-20240305_070809.json"))
	assert.Equal(t, "20240305_070809/files-20240305_070809.log",
		s3.ObjectKey("", "20240305_070809", "files-20240305_070809.log"))
}

func TestUploader_Upload(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	storage := NewMockObjectStorage(t)

	storage.On("FPutObject", mock.Anything, "artifacts", "runs/ts/data-ts.json", "/d/data-ts.json",
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "application/json" })).
		Return(minio.UploadInfo{Size: 10}, nil)
	storage.On("FPutObject", mock.Anything, "artifacts", "runs/ts/files-ts.log", "/d/files-ts.log",
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "text/plain; charset=utf-8" })).
		Return(minio.UploadInfo{Size: 5}, nil)
	storage.On("FPutObject", mock.Anything, "artifacts", "runs/ts/report-ts.pdf", "/d/report-ts.pdf",
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "application/pdf" })).
		Return(minio.UploadInfo{Size: 100}, nil)

	keys, err := s3.NewUploader(log, storage, "artifacts", "runs").
		Upload(context.Background(), "ts", "/d/data-ts.json", "/d/files-ts.log", "/d/report-ts.pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{"runs/ts/data-ts.json", "runs/ts/files-ts.log", "runs/ts/report-ts.pdf"}, keys)
}

func TestUploader_Upload_StopsOnError(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)
	storage := NewMockObjectStorage(t)
	putErr := errors.New("access denied")

	storage.On("FPutObject", mock.Anything, "artifacts", "ts/data-ts.json", "/d/data-ts.json", mock.Anything).
		Return(minio.UploadInfo{}, putErr)

	keys, err := s3.NewUploader(log, storage, "artifacts", "").
		Upload(context.Background(), "ts", "/d/data-ts.json", "/d/files-ts.log")
	require.ErrorIs(t, err, putErr)
	assert.Empty(t, keys)
}

func TestUploader_EnsureBucket(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.DiscardHandler)

	t.Run("exists", func(t *testing.T) {
		t.Parallel()

		storage := NewMockObjectStorage(t)
		storage.On("BucketExists", mock.Anything, "artifacts").Return(true, nil)

		require.NoError(t, s3.NewUploader(log, storage, "artifacts", "").EnsureBucket(context.Background()))
	})

	t.Run("created", func(t *testing.T) {
		t.Parallel()

		storage := NewMockObjectStorage(t)
		storage.On("BucketExists", mock.Anything, "artifacts").Return(false, nil)
		storage.On("MakeBucket", mock.Anything, "artifacts", minio.MakeBucketOptions{}).Return(nil)

		require.NoError(t, s3.NewUploader(log, storage, "artifacts", "").EnsureBucket(context.Background()))
	})
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	t.Parallel()

	_, err := s3.NewClient(config.S3{Endpoint: "http://localhost:9000/path", Bucket: "artifacts"})
	require.Error(t, err)
}
