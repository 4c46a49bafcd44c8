package repository

import (
	"context"
	"time"

	"github.com/fathima-sithara/social-service/internal/models"
)

// Lookups return utils.ErrNotFound when no document matches.

type PostRepository interface {
	Insert(ctx context.Context, p *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id string) error
}

type StoryRepository interface {
	Insert(ctx context.Context, s *models.Story) error
	GetByID(ctx context.Context, id string) (*models.Story, error)
	List(ctx context.Context) ([]*models.Story, error)
	// FindOlderThan returns stories created strictly before cutoff, oldest first.
	FindOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Story, error)
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Insert(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

func stamp(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}
