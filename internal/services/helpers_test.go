package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/fathima-sithara/social-service/internal/media"
)

// fakeStore hands out sequential public ids and keeps uploaded bytes.
// Destroy answers ok for ids it issued and "not found" otherwise, unless
// failDestroy is set.
type fakeStore struct {
	mu          sync.Mutex
	next        int
	live        map[string]bool
	uploaded    map[string][]byte
	destroyed   []string
	failDestroy error
	failUpload  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{live: map[string]bool{}, uploaded: map[string][]byte{}}
}

func (s *fakeStore) Upload(_ context.Context, r io.Reader, p media.UploadParams) (*media.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpload != nil {
		return nil, s.failUpload
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.next++
	id := fmt.Sprintf("%s/obj%d", p.Folder, s.next)
	s.live[id] = true
	s.uploaded[id] = data
	return &media.UploadResult{
		PublicID: id,
		AssetID:  fmt.Sprintf("asset-%d", s.next),
		Version:  "1700000000",
		URL:      fmt.Sprintf("https://res.cloudinary.com/demo/%s/upload/v1700000000/%s.bin", p.Category, id),
		Bytes:    int64(len(data)),
	}, nil
}

func (s *fakeStore) Destroy(_ context.Context, publicID string, _ media.ResourceCategory) (*media.DestroyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = append(s.destroyed, publicID)
	if s.failDestroy != nil {
		return nil, s.failDestroy
	}
	if s.live[publicID] {
		delete(s.live, publicID)
		return &media.DestroyResult{Result: media.ResultOK}, nil
	}
	return &media.DestroyResult{Result: media.ResultNotFound}, nil
}

func (s *fakeStore) isLive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[id]
}

func newManager(store media.Store) *media.Manager {
	return media.NewManager(media.DefaultConfig(), store, zap.NewNop())
}

func upload(mime string, size int64) *media.File {
	return &media.File{Data: bytes.NewReader(make([]byte, 16)), MimeType: mime, Size: size, Filename: "upload"}
}
