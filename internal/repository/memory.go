package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fathima-sithara/social-service/internal/media"
	"github.com/fathima-sithara/social-service/internal/models"
	"github.com/fathima-sithara/social-service/internal/utils"
)

// The memory repositories back local development (no mongodb.uri) and tests.
// Documents are copied on the way in and out.

type table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]T
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{rows: map[string]T{}, clone: clone}
}

func (t *table[T]) insert(id string, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = t.clone(v)
}

func (t *table[T]) get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, utils.ErrNotFound
	}
	return t.clone(v), nil
}

func (t *table[T]) replace(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return utils.ErrNotFound
	}
	t.rows[id] = t.clone(v)
	return nil
}

func (t *table[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return utils.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []T
	for _, v := range t.rows {
		if keep(v) {
			out = append(out, t.clone(v))
		}
	}
	return out
}

func cloneRef(r *media.Reference) *media.Reference {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Media = cloneRef(p.Media)
	c.Likes = append([]string{}, p.Likes...)
	c.Shares = append([]string{}, p.Shares...)
	c.Comments = append([]models.Comment{}, p.Comments...)
	return &c
}

func cloneStory(s *models.Story) *models.Story {
	c := *s
	c.Media = cloneRef(s.Media)
	return &c
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.ProfilePicture = cloneRef(u.ProfilePicture)
	c.CoverPhoto = cloneRef(u.CoverPhoto)
	if u.DateOfBirth != nil {
		d := *u.DateOfBirth
		c.DateOfBirth = &d
	}
	return &c
}

type MemoryPostRepo struct{ t *table[*models.Post] }

func NewMemoryPostRepo() *MemoryPostRepo {
	return &MemoryPostRepo{t: newTable(clonePost)}
}

func (r *MemoryPostRepo) Insert(_ context.Context, p *models.Post) error {
	stamp(&p.CreatedAt, &p.UpdatedAt)
	r.t.insert(p.ID, p)
	return nil
}

func (r *MemoryPostRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	return r.t.get(id)
}

func (r *MemoryPostRepo) List(_ context.Context) ([]*models.Post, error) {
	return sortPosts(r.t.filter(func(*models.Post) bool { return true })), nil
}

func (r *MemoryPostRepo) ListByUser(_ context.Context, userID string) ([]*models.Post, error) {
	return sortPosts(r.t.filter(func(p *models.Post) bool { return p.UserID == userID })), nil
}

func (r *MemoryPostRepo) Update(_ context.Context, p *models.Post) error {
	stamp(&p.CreatedAt, &p.UpdatedAt)
	return r.t.replace(p.ID, p)
}

func (r *MemoryPostRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

func sortPosts(ps []*models.Post) []*models.Post {
	sort.Slice(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
	if ps == nil {
		return []*models.Post{}
	}
	return ps
}

type MemoryStoryRepo struct{ t *table[*models.Story] }

func NewMemoryStoryRepo() *MemoryStoryRepo {
	return &MemoryStoryRepo{t: newTable(cloneStory)}
}

func (r *MemoryStoryRepo) Insert(_ context.Context, s *models.Story) error {
	stamp(&s.CreatedAt, &s.UpdatedAt)
	r.t.insert(s.ID, s)
	return nil
}

func (r *MemoryStoryRepo) GetByID(_ context.Context, id string) (*models.Story, error) {
	return r.t.get(id)
}

func (r *MemoryStoryRepo) List(_ context.Context) ([]*models.Story, error) {
	ss := r.t.filter(func(*models.Story) bool { return true })
	sort.Slice(ss, func(i, j int) bool { return ss[i].CreatedAt.After(ss[j].CreatedAt) })
	if ss == nil {
		ss = []*models.Story{}
	}
	return ss, nil
}

func (r *MemoryStoryRepo) FindOlderThan(_ context.Context, cutoff time.Time) ([]*models.Story, error) {
	ss := r.t.filter(func(s *models.Story) bool { return s.CreatedAt.Before(cutoff) })
	sort.Slice(ss, func(i, j int) bool { return ss[i].CreatedAt.Before(ss[j].CreatedAt) })
	return ss, nil
}

func (r *MemoryStoryRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

type MemoryUserRepo struct{ t *table[*models.User] }

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{t: newTable(cloneUser)}
}

func (r *MemoryUserRepo) Insert(_ context.Context, u *models.User) error {
	if _, err := r.t.get(u.ID); err == nil {
		return utils.ErrConflict
	}
	stamp(&u.CreatedAt, &u.UpdatedAt)
	r.t.insert(u.ID, u)
	return nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.t.get(id)
}

func (r *MemoryUserRepo) Update(_ context.Context, u *models.User) error {
	stamp(&u.CreatedAt, &u.UpdatedAt)
	return r.t.replace(u.ID, u)
}

func (r *MemoryUserRepo) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

var (
	_ PostRepository  = (*PostRepo)(nil)
	_ PostRepository  = (*MemoryPostRepo)(nil)
	_ StoryRepository = (*StoryRepo)(nil)
	_ StoryRepository = (*MemoryStoryRepo)(nil)
	_ UserRepository  = (*UserRepo)(nil)
	_ UserRepository  = (*MemoryUserRepo)(nil)
)
