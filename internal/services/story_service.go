package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/social-service/internal/media"
	"github.com/fathima-sithara/social-service/internal/models"
	"github.com/fathima-sithara/social-service/internal/repository"
	"github.com/fathima-sithara/social-service/internal/utils"
)

type StoryService struct {
	repo  repository.StoryRepository
	media MediaLifecycle
	log   *zap.Logger
}

func NewStoryService(repo repository.StoryRepository, m MediaLifecycle, log *zap.Logger) *StoryService {
	return &StoryService{repo: repo, media: m, log: log}
}

// Create uploads f under the story size ceiling and stores the story.
func (s *StoryService) Create(ctx context.Context, userID string, f *media.File) (*models.Story, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: file is required to create a story", utils.ErrInvalidInput)
	}
	upload := *f
	upload.Story = true
	ref, err := s.media.Upload(ctx, upload)
	if err != nil {
		return nil, err
	}
	mediaType := models.MediaTypeImage
	if ref.Category == media.CategoryVideo {
		mediaType = models.MediaTypeVideo
	}
	story := &models.Story{
		ID:        utils.NewID(),
		UserID:    userID,
		Media:     ref,
		MediaType: mediaType,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, story); err != nil {
		releaseMedia(ctx, s.media, s.log, ref, "story", story.ID)
		return nil, err
	}
	return story, nil
}

func (s *StoryService) List(ctx context.Context) ([]*models.Story, error) {
	return s.repo.List(ctx)
}

func (s *StoryService) Delete(ctx context.Context, userID, storyID string) (*DeletionResult, error) {
	story, err := s.repo.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID != userID {
		return nil, fmt.Errorf("%w: you can only delete your own stories", utils.ErrForbidden)
	}
	return s.purge(ctx, story)
}

// purge deletes the story's media and then its document, whatever the
// media outcome. It is shared by explicit deletion and the sweeper.
func (s *StoryService) purge(ctx context.Context, story *models.Story) (*DeletionResult, error) {
	res := &DeletionResult{Media: releaseMedia(ctx, s.media, s.log, story.Media, "story", story.ID)}
	if err := s.repo.Delete(ctx, story.ID); err != nil {
		return res, err
	}
	res.Deleted = true
	return res, nil
}
