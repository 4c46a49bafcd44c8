package media

import (
	"context"
	"io"
	"sync"
)

type destroyCall struct {
	PublicID string
	Category ResourceCategory
}

// stubStore records every call. destroyFn decides destroy results; the
// default answers "not found".
type stubStore struct {
	mu        sync.Mutex
	uploads   []UploadParams
	destroys  []destroyCall
	uploadRes *UploadResult
	uploadErr error
	destroyFn func(publicID string) (*DestroyResult, error)
}

func (s *stubStore) Upload(_ context.Context, r io.Reader, p UploadParams) (*UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, p)
	_, _ = io.Copy(io.Discard, r)
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return s.uploadRes, nil
}

func (s *stubStore) Destroy(_ context.Context, publicID string, c ResourceCategory) (*DestroyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroys = append(s.destroys, destroyCall{PublicID: publicID, Category: c})
	if s.destroyFn != nil {
		return s.destroyFn(publicID)
	}
	return &DestroyResult{Result: ResultNotFound}, nil
}

func (s *stubStore) destroyedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.destroys))
	for _, d := range s.destroys {
		ids = append(ids, d.PublicID)
	}
	return ids
}

// okFor answers ok only for the given ids.
func okFor(ids ...string) func(string) (*DestroyResult, error) {
	set := map[string]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return func(publicID string) (*DestroyResult, error) {
		if set[publicID] {
			return &DestroyResult{Result: ResultOK}, nil
		}
		return &DestroyResult{Result: ResultNotFound}, nil
	}
}
