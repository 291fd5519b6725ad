package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fitplate/backend/internal/exercisedb"
)

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func newPexelsServer(t *testing.T, photos string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pexels-key", r.Header.Get("Authorization"))
		assert.Equal(t, "barbell bench press exercise", r.URL.Query().Get("query"))
		body := photos
		if body == "" {
			body = `{"photos": [{"id": 1, "photographer": "Ana", "src": {"large": "` + server.URL + `/photo.jpg"}}]}`
		}
		_, _ = w.Write([]byte(body))
	})
	mux.HandleFunc("/photo.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestImageService(baseURL string, uploader ObjectUploader) *ImageService {
	svc := NewImageService("pexels-key", baseURL, nil, nil)
	if uploader != nil {
		svc.uploader = uploader
		svc.bucket = "fitplate-media"
		svc.publicURL = func(key string) string { return "https://cdn.example.com/" + key }
	}
	return svc
}

func TestImageService_UploadsToS3(t *testing.T) {
	server := newPexelsServer(t, "")

	uploader := new(MockUploader)
	uploader.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "fitplate-media" &&
			aws.ToString(in.Key) == "exercise-images/bench.jpg" &&
			aws.ToString(in.ContentType) == "image/jpeg" &&
			string(body) == "jpeg-bytes"
	})).Return(&s3.PutObjectOutput{}, nil)

	img, err := newTestImageService(server.URL, uploader).ExerciseImage(context.Background(), &benchPress)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/exercise-images/bench.jpg", img.URL)
	assert.Equal(t, ImageSourceS3, img.Source)
	assert.Equal(t, "Ana", img.Photographer)
	uploader.AssertExpectations(t)
}

func TestImageService_UploadFailureKeepsPexelsURL(t *testing.T) {
	server := newPexelsServer(t, "")

	uploader := new(MockUploader)
	uploader.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	img, err := newTestImageService(server.URL, uploader).ExerciseImage(context.Background(), &benchPress)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/photo.jpg", img.URL)
	assert.Equal(t, ImageSourcePexels, img.Source)
}

func TestImageService_NoPhotosFallsBackToGif(t *testing.T) {
	server := newPexelsServer(t, `{"photos": []}`)

	img, err := newTestImageService(server.URL, nil).ExerciseImage(context.Background(), &benchPress)
	require.NoError(t, err)
	assert.Equal(t, benchPress.GifURL, img.URL)
	assert.Equal(t, ImageSourceCatalog, img.Source)
}

func TestImageService_WithoutKey(t *testing.T) {
	svc := NewImageService("", "http://unused.invalid", nil, nil)
	ex := exercisedb.Exercise{ExerciseID: "x", GifURL: "https://static.example.com/x.gif"}

	img, err := svc.ExerciseImage(context.Background(), &ex)
	require.NoError(t, err)
	assert.Equal(t, ex.GifURL, img.URL)
}
