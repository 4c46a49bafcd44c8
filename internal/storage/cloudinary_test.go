package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fathima-sithara/social-service/internal/media"
)

type fakeAPI struct {
	uploadParams  []uploader.UploadParams
	destroyParams []uploader.DestroyParams
	uploadRes     *uploader.UploadResult
	destroyRes    *uploader.DestroyResult
	err           error
}

func (f *fakeAPI) Upload(_ context.Context, _ interface{}, p uploader.UploadParams) (*uploader.UploadResult, error) {
	f.uploadParams = append(f.uploadParams, p)
	if f.err != nil {
		return nil, f.err
	}
	return f.uploadRes, nil
}

func (f *fakeAPI) Destroy(_ context.Context, p uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyParams = append(f.destroyParams, p)
	if f.err != nil {
		return nil, f.err
	}
	return f.destroyRes, nil
}

func TestUploadMapsResult(t *testing.T) {
	api := &fakeAPI{uploadRes: &uploader.UploadResult{
		PublicID:  "videos/clip",
		AssetID:   "a1",
		Version:   1699999999,
		SecureURL: "https://res.cloudinary.com/demo/video/upload/v1699999999/videos/clip.mp4",
		Bytes:     2048,
		Format:    "mp4",
	}}
	s := newCloudinaryStore(api, BreakerConfig{}, zap.NewNop())

	res, err := s.Upload(context.Background(), bytes.NewReader([]byte("x")), media.UploadParams{Category: media.CategoryVideo, Folder: "videos"})
	require.NoError(t, err)
	assert.Equal(t, &media.UploadResult{
		PublicID: "videos/clip",
		AssetID:  "a1",
		Version:  "1699999999",
		URL:      "https://res.cloudinary.com/demo/video/upload/v1699999999/videos/clip.mp4",
		Bytes:    2048,
		Format:   "mp4",
	}, res)
	require.Len(t, api.uploadParams, 1)
	assert.Equal(t, "videos", api.uploadParams[0].Folder)
	assert.Equal(t, "video", api.uploadParams[0].ResourceType)
}

func TestUploadSurfacesProviderError(t *testing.T) {
	res := &uploader.UploadResult{}
	res.Error.Message = "Invalid image file"
	s := newCloudinaryStore(&fakeAPI{uploadRes: res}, BreakerConfig{}, zap.NewNop())

	_, err := s.Upload(context.Background(), bytes.NewReader(nil), media.UploadParams{Category: media.CategoryImage, Folder: "images"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid image file")
}

func TestDestroyPassesCategory(t *testing.T) {
	api := &fakeAPI{destroyRes: &uploader.DestroyResult{Result: "not found"}}
	s := newCloudinaryStore(api, BreakerConfig{}, zap.NewNop())

	res, err := s.Destroy(context.Background(), "documents/report", media.CategoryRaw)
	require.NoError(t, err)
	assert.Equal(t, media.ResultNotFound, res.Result)
	require.Len(t, api.destroyParams, 1)
	assert.Equal(t, "documents/report", api.destroyParams[0].PublicID)
	assert.Equal(t, "raw", api.destroyParams[0].ResourceType)
}

func TestNotFoundDoesNotTripBreaker(t *testing.T) {
	api := &fakeAPI{destroyRes: &uploader.DestroyResult{Result: "not found"}}
	s := newCloudinaryStore(api, BreakerConfig{MaxFailures: 2}, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := s.Destroy(context.Background(), "x", media.CategoryImage)
		require.NoError(t, err)
	}
	assert.Equal(t, gobreaker.StateClosed.String(), s.State()["destroy"])
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	api := &fakeAPI{err: errors.New("dial tcp: connection refused")}
	s := newCloudinaryStore(api, BreakerConfig{MaxFailures: 2, Timeout: time.Minute}, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := s.Destroy(context.Background(), "x", media.CategoryImage)
		require.Error(t, err)
	}
	_, err := s.Destroy(context.Background(), "x", media.CategoryImage)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, api.destroyParams, 2)
	assert.Equal(t, gobreaker.StateOpen.String(), s.State()["destroy"])
	assert.Equal(t, gobreaker.StateClosed.String(), s.State()["upload"])
}

func TestRejectedUploadsDoNotBlockDestroy(t *testing.T) {
	rejected := &uploader.UploadResult{}
	rejected.Error.Message = "Invalid image file"
	api := &fakeAPI{uploadRes: rejected, destroyRes: &uploader.DestroyResult{Result: "ok"}}
	s := newCloudinaryStore(api, BreakerConfig{MaxFailures: 2, Timeout: time.Minute}, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := s.Upload(context.Background(), bytes.NewReader(nil), media.UploadParams{Category: media.CategoryImage, Folder: "images"})
		require.EqualError(t, err, "cloudinary: Invalid image file")
	}
	assert.Len(t, api.uploadParams, 5)
	assert.Equal(t, gobreaker.StateClosed.String(), s.State()["upload"])

	res, err := s.Destroy(context.Background(), "images/a", media.CategoryImage)
	require.NoError(t, err)
	assert.Equal(t, media.ResultOK, res.Result)
	assert.Len(t, api.destroyParams, 1)
}

func TestUploadOutageDoesNotBlockDestroy(t *testing.T) {
	api := &fakeAPI{err: errors.New("dial tcp: connection refused")}
	s := newCloudinaryStore(api, BreakerConfig{MaxFailures: 2, Timeout: time.Minute}, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := s.Upload(context.Background(), bytes.NewReader(nil), media.UploadParams{Category: media.CategoryImage, Folder: "images"})
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen.String(), s.State()["upload"])

	api.err = nil
	api.destroyRes = &uploader.DestroyResult{Result: "ok"}
	_, err := s.Destroy(context.Background(), "images/a", media.CategoryImage)
	require.NoError(t, err)
	assert.Len(t, api.destroyParams, 1)
}

func TestNewCloudinaryStoreRequiresCredentials(t *testing.T) {
	_, err := NewCloudinaryStore("demo", "", "", BreakerConfig{}, nil)
	assert.Error(t, err)
}
