package s3_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	photos3 "dispatch/internal/adapters/out/s3"
	"dispatch/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPutObjectAPI struct {
	mock.Mock
}

func (m *MockPutObjectAPI) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestNewPhotoStorageWithClient_Validation(t *testing.T) {
	_, err := photos3.NewPhotoStorageWithClient(nil, "bucket", "eu-central-1", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = photos3.NewPhotoStorageWithClient(new(MockPutObjectAPI), "", "eu-central-1", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket url", func(t *testing.T) {
		client := new(MockPutObjectAPI)
		client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			body, _ := io.ReadAll(in.Body)
			return aws.ToString(in.Bucket) == "trips" &&
				aws.ToString(in.Key) == "orders/o-1/1.png" &&
				aws.ToString(in.ContentType) == "image/png" &&
				aws.ToInt64(in.ContentLength) == 4 &&
				string(body) == "data"
		})).Return(&s3.PutObjectOutput{}, nil).Once()

		storage, err := photos3.NewPhotoStorageWithClient(client, "trips", "eu-central-1", "")
		require.NoError(t, err)

		url, err := storage.Upload(ctx, "orders/o-1/1.png", "image/png", strings.NewReader("data"), 4)

		require.NoError(t, err)
		assert.Equal(t, "https://trips.s3.eu-central-1.amazonaws.com/orders/o-1/1.png", url)
		client.AssertExpectations(t)
	})

	t.Run("public domain and default content type", func(t *testing.T) {
		client := new(MockPutObjectAPI)
		client.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return aws.ToString(in.ContentType) == "image/jpeg" && in.ContentLength == nil
		})).Return(&s3.PutObjectOutput{}, nil).Once()

		storage, err := photos3.NewPhotoStorageWithClient(client, "trips", "eu-central-1", "cdn.example.com/")
		require.NoError(t, err)

		url, err := storage.Upload(ctx, "a.jpg", "", strings.NewReader("x"), 0)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/a.jpg", url)
	})

	t.Run("client error", func(t *testing.T) {
		client := new(MockPutObjectAPI)
		client.On("PutObject", ctx, mock.Anything).Return(nil, errors.New("access denied")).Once()

		storage, err := photos3.NewPhotoStorageWithClient(client, "trips", "eu-central-1", "")
		require.NoError(t, err)

		_, err = storage.Upload(ctx, "a.jpg", "image/jpeg", strings.NewReader("x"), 1)

		require.ErrorContains(t, err, "access denied")
	})

	t.Run("empty key", func(t *testing.T) {
		storage, err := photos3.NewPhotoStorageWithClient(new(MockPutObjectAPI), "trips", "eu-central-1", "")
		require.NoError(t, err)

		_, err = storage.Upload(ctx, "", "image/jpeg", strings.NewReader("x"), 1)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
