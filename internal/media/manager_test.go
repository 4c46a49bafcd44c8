package media

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(store Store) *Manager {
	return NewManager(DefaultConfig(), store, zap.NewNop())
}

func uploadedResult() *UploadResult {
	return &UploadResult{
		PublicID: "images/abc123",
		AssetID:  "asset-1",
		Version:  "1699999999",
		URL:      "https://res.cloudinary.com/demo/image/upload/v1699999999/images/abc123.png",
		Bytes:    1024,
		Format:   "png",
	}
}

func file(mime string, size int64, story bool) File {
	return File{Data: bytes.NewReader([]byte("data")), MimeType: mime, Size: size, Filename: "f", Story: story}
}

func TestUploadRejectsUnsupportedTypeWithoutNetworkCall(t *testing.T) {
	for _, mt := range []string{"text/plain", "application/zip", "image/tiff", ""} {
		t.Run(mt, func(t *testing.T) {
			store := &stubStore{uploadRes: uploadedResult()}
			m := newTestManager(store)

			ref, err := m.Upload(context.Background(), file(mt, 10, false))
			require.Error(t, err)
			assert.Nil(t, ref)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, UnsupportedType, verr.Kind)
			assert.Contains(t, err.Error(), "Allowed types")
			assert.Empty(t, store.uploads)
		})
	}
}

func TestUploadSizeCeilings(t *testing.T) {
	tests := []struct {
		name    string
		mime    string
		size    int64
		story   bool
		ceiling int64
	}{
		{"story image over", "image/png", 4*MiB + 1, true, 4 * MiB},
		{"story video over", "video/mp4", 4*MiB + 1, true, 4 * MiB},
		{"video over", "video/mp4", 100*MiB + 1, false, 100 * MiB},
		{"image over", "image/png", 10*MiB + 1, false, 10 * MiB},
		{"document over", "application/pdf", 100*MiB + 1, false, 100 * MiB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{uploadRes: uploadedResult()}
			m := newTestManager(store)

			_, err := m.Upload(context.Background(), file(tt.mime, tt.size, tt.story))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, TooLarge, verr.Kind)
			assert.Equal(t, tt.ceiling, verr.Ceiling)
			assert.Empty(t, store.uploads)
		})
	}
}

func TestUploadCeilingIsInclusive(t *testing.T) {
	store := &stubStore{uploadRes: uploadedResult()}
	m := newTestManager(store)

	ref, err := m.Upload(context.Background(), file("image/png", 10*MiB, false))
	require.NoError(t, err)
	assert.Equal(t, SizeClassImage, ref.SizeClass)

	ref, err = m.Upload(context.Background(), file("video/webm", 4*MiB, true))
	require.NoError(t, err)
	assert.Equal(t, SizeClassStory, ref.SizeClass)
}

func TestUploadTooLargeMessageNamesCeiling(t *testing.T) {
	m := newTestManager(&stubStore{})
	_, err := m.Upload(context.Background(), file("image/jpeg", 5*MiB, true))
	require.Error(t, err)
	assert.Equal(t, "file size exceeds the maximum limit of 4MB", err.Error())
}

func TestUploadMapsCategoryAndFolder(t *testing.T) {
	tests := []struct {
		mime     string
		category ResourceCategory
		folder   string
		class    SizeClass
	}{
		{"video/quicktime", CategoryVideo, "videos", SizeClassVideo},
		{"application/pdf", CategoryRaw, "documents", SizeClassVideo},
		{"image/svg+xml", CategoryImage, "images", SizeClassImage},
		{"IMAGE/JPEG; charset=binary", CategoryImage, "images", SizeClassImage},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			store := &stubStore{uploadRes: uploadedResult()}
			m := newTestManager(store)

			ref, err := m.Upload(context.Background(), file(tt.mime, 1024, false))
			require.NoError(t, err)
			require.Len(t, store.uploads, 1)
			assert.Equal(t, UploadParams{Category: tt.category, Folder: tt.folder}, store.uploads[0])
			assert.Equal(t, tt.category, ref.Category)
			assert.Equal(t, tt.class, ref.SizeClass)
		})
	}
}

func TestUploadCopiesStoreIdentifiers(t *testing.T) {
	store := &stubStore{uploadRes: uploadedResult()}
	m := newTestManager(store)

	ref, err := m.Upload(context.Background(), file("image/png", 2048, false))
	require.NoError(t, err)
	assert.Equal(t, Reference{
		URL:       "https://res.cloudinary.com/demo/image/upload/v1699999999/images/abc123.png",
		PublicID:  "images/abc123",
		AssetID:   "asset-1",
		Version:   "1699999999",
		Category:  CategoryImage,
		SizeClass: SizeClassImage,
	}, *ref)
}

func TestUploadWrapsStoreFailure(t *testing.T) {
	cause := errors.New("connection reset")
	store := &stubStore{uploadErr: cause}
	m := newTestManager(store)

	_, err := m.Upload(context.Background(), file("video/mp4", 2048, false))
	var serr *StoreError
	require.True(t, errors.As(err, &serr))
	assert.ErrorIs(t, err, cause)
	assert.Len(t, store.uploads, 1, "upload must not be retried")
}

func TestUploadWithoutDeliveryURLFails(t *testing.T) {
	store := &stubStore{uploadRes: &UploadResult{PublicID: "x"}}
	m := newTestManager(store)

	_, err := m.Upload(context.Background(), file("image/gif", 10, false))
	var serr *StoreError
	require.True(t, errors.As(err, &serr))
}

func TestLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImageCeiling = 2 * MiB
	m := NewManager(cfg, &stubStore{}, nil)

	l := m.Limits()
	assert.Equal(t, 4*MiB, l.Story)
	assert.Equal(t, 2*MiB, l.Image)
	assert.Equal(t, 100*MiB, l.Video)
	assert.Len(t, l.AllowedTypes, len(DefaultAllowedTypes))

	l.AllowedTypes[0] = "mutated"
	assert.Equal(t, "video/mp4", m.Limits().AllowedTypes[0])
}

func TestExternalReference(t *testing.T) {
	m := newTestManager(&stubStore{})

	ref := m.ExternalReference("https://res.cloudinary.com/demo/video/upload/v1/clip.mp4", "")
	assert.Equal(t, "clip", ref.PublicID)
	assert.Equal(t, CategoryVideo, ref.Category)
	assert.Empty(t, ref.AssetID)

	ref = m.ExternalReference("https://cdn.example.com/pic.png", CategoryImage)
	assert.Empty(t, ref.PublicID)
}

type recordingObserver struct {
	uploads   []error
	deletions []bool
}

func (o *recordingObserver) UploadFinished(_ ResourceCategory, err error) {
	o.uploads = append(o.uploads, err)
}

func (o *recordingObserver) DeletionFinished(_ ResourceCategory, ok bool, _ int) {
	o.deletions = append(o.deletions, ok)
}

func TestObserverNotified(t *testing.T) {
	obs := &recordingObserver{}
	store := &stubStore{uploadRes: uploadedResult(), destroyFn: okFor("images/abc123")}
	m := NewManager(DefaultConfig(), store, zap.NewNop(), WithObserver(obs))

	ref, err := m.Upload(context.Background(), file("image/png", 10, false))
	require.NoError(t, err)
	m.Delete(context.Background(), *ref)

	assert.Equal(t, []error{nil}, obs.uploads)
	assert.Equal(t, []bool{true}, obs.deletions)
}
