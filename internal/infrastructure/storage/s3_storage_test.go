package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commerce-ml/data-exporter/internal/domain/export"
	"github.com/commerce-ml/data-exporter/internal/domain/shared"
	infraconfig "github.com/commerce-ml/data-exporter/internal/infrastructure/config"
)

// capturingPutter records PutObject inputs and returns a canned error
type capturingPutter struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (c *capturingPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	c.inputs = append(c.inputs, params)
	if c.err != nil {
		return nil, c.err
	}
	return &s3.PutObjectOutput{}, nil
}

func newTestStore(putter *capturingPutter) *S3TrainingDataStore {
	return &S3TrainingDataStore{client: putter, bucket: "training-data", logger: zap.NewNop()}
}

// withFixedClock pins the package clock for the duration of a test.
func withFixedClock(t *testing.T, fixed time.Time) {
	t.Helper()
	old := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = old })
}

func readBody(t *testing.T, input *s3.PutObjectInput) string {
	t.Helper()
	buf := make([]byte, 1<<20)
	n, _ := input.Body.Read(buf)
	return string(buf[:n])
}

func TestNewS3TrainingDataStore(t *testing.T) {
	t.Run("requires a bucket", func(t *testing.T) {
		_, err := NewS3TrainingDataStore(&infraconfig.StorageConfig{AccessKey: "a", SecretKey: "s"})
		assert.Error(t, err)
	})

	t.Run("requires credentials", func(t *testing.T) {
		_, err := NewS3TrainingDataStore(&infraconfig.StorageConfig{Bucket: "b"})
		assert.Error(t, err)
	})
}

func TestUploadJSON(t *testing.T) {
	fixed := time.Date(2026, time.April, 1, 2, 0, 0, 0, time.UTC)
	withFixedClock(t, fixed)
	ctx := context.Background()

	t.Run("uploads under a timestamped key in the folder", func(t *testing.T) {
		putter := &capturingPutter{}
		store := newTestStore(putter)

		ok, err := store.UploadJSON(ctx, "apriori", [][]string{{"SKU-1", "SKU-2"}})

		require.NoError(t, err)
		assert.True(t, ok)
		require.Len(t, putter.inputs, 1)
		input := putter.inputs[0]
		assert.Equal(t, "training-data", *input.Bucket)
		assert.Equal(t, "apriori/2026-04-01T02:00:00.000Z.json", *input.Key)
		assert.Equal(t, "application/json", *input.ContentType)
		assert.JSONEq(t, `[["SKU-1","SKU-2"]]`, readBody(t, input))
	})

	t.Run("wraps client failures in the upload error", func(t *testing.T) {
		putter := &capturingPutter{err: errors.New("connection reset")}
		store := newTestStore(putter)

		ok, err := store.UploadJSON(ctx, "apriori", map[string]string{})

		assert.False(t, ok)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Failed to upload data to S3")
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("rejects unmarshalable payloads without calling the client", func(t *testing.T) {
		putter := &capturingPutter{}
		store := newTestStore(putter)

		ok, err := store.UploadJSON(ctx, "apriori", make(chan int))

		assert.False(t, ok)
		assert.Error(t, err)
		assert.Empty(t, putter.inputs)
	})
}

func TestUploadCSV(t *testing.T) {
	fixed := time.Date(2026, time.April, 1, 2, 0, 0, 0, time.UTC)
	withFixedClock(t, fixed)
	ctx := context.Background()

	t.Run("encodes rows as comma-separated lines without trailing newline", func(t *testing.T) {
		putter := &capturingPutter{}
		store := newTestStore(putter)
		rows := [][]string{
			{"SalesOrderNumber", "Quantity"},
			{"SO-1", "2"},
			{"SO-2", "1"},
		}

		ok, err := store.UploadCSV(ctx, "customer-segmentation/training-data", rows)

		require.NoError(t, err)
		assert.True(t, ok)
		require.Len(t, putter.inputs, 1)
		input := putter.inputs[0]
		assert.Equal(t, "customer-segmentation/training-data/2026-04-01T02:00:00.000Z.csv", *input.Key)
		assert.Equal(t, "text/csv", *input.ContentType)
		assert.Equal(t, "SalesOrderNumber,Quantity\nSO-1,2\nSO-2,1", readBody(t, input))
	})

	t.Run("wraps client failures in the upload error", func(t *testing.T) {
		putter := &capturingPutter{err: errors.New("access denied")}
		store := newTestStore(putter)

		ok, err := store.UploadCSV(ctx, "customer-segmentation/training-data", [][]string{{"a"}})

		assert.False(t, ok)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, export.ErrCodeUploadFailed, domainErr.Code)
	})
}
