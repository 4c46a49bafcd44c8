package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/social-service/internal/media"
	"github.com/fathima-sithara/social-service/internal/models"
	"github.com/fathima-sithara/social-service/internal/repository"
	"github.com/fathima-sithara/social-service/internal/utils"
)

type PostService struct {
	repo  repository.PostRepository
	media MediaLifecycle
	log   *zap.Logger
}

func NewPostService(repo repository.PostRepository, m MediaLifecycle, log *zap.Logger) *PostService {
	return &PostService{repo: repo, media: m, log: log}
}

// Create stores a post, uploading f first when present.
func (s *PostService) Create(ctx context.Context, userID, content string, f *media.File) (*models.Post, error) {
	if content == "" && f == nil {
		return nil, fmt.Errorf("%w: post must contain content or media", utils.ErrInvalidInput)
	}
	post := newPost(userID, content)
	if f != nil {
		upload := *f
		upload.Story = false
		ref, err := s.media.Upload(ctx, upload)
		if err != nil {
			return nil, err
		}
		post.Media = ref
		post.MediaType = models.MediaTypeFor(ref.Category, strings.ToLower(f.MimeType))
	}
	if err := s.repo.Insert(ctx, post); err != nil {
		releaseMedia(ctx, s.media, s.log, post.Media, "post", post.ID)
		return nil, err
	}
	return post, nil
}

// CreateDirect stores a post whose media was uploaded by the client
// straight to the media host. Only the public id can be recovered.
func (s *PostService) CreateDirect(ctx context.Context, userID, content, mediaURL, mediaType string) (*models.Post, error) {
	if content == "" && mediaURL == "" {
		return nil, fmt.Errorf("%w: post must contain content or media", utils.ErrInvalidInput)
	}
	post := newPost(userID, content)
	if mediaURL != "" {
		switch mediaType {
		case "", models.MediaTypeImage, models.MediaTypeVideo, models.MediaTypePDF, models.MediaTypeDocument:
		default:
			return nil, fmt.Errorf("%w: unknown media type %q", utils.ErrInvalidInput, mediaType)
		}
		ref := s.media.ExternalReference(mediaURL, models.CategoryForMediaType(mediaType))
		if mediaType == "" {
			mediaType = models.MediaTypeFor(ref.Category, "")
		}
		post.Media = ref
		post.MediaType = mediaType
		s.log.Info("direct media registered",
			zap.String("post_id", post.ID),
			zap.String("public_id", ref.PublicID),
			zap.String("media_type", mediaType))
	}
	if err := s.repo.Insert(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func newPost(userID, content string) *models.Post {
	return &models.Post{
		ID:        utils.NewID(),
		UserID:    userID,
		Content:   content,
		Likes:     []string{},
		Comments:  []models.Comment{},
		Shares:    []string{},
		CreatedAt: time.Now().UTC(),
	}
}

func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.repo.List(ctx)
}

func (s *PostService) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", utils.ErrInvalidInput)
	}
	return s.repo.ListByUser(ctx, userID)
}

// ToggleLike likes the post, or unlikes it when userID already liked it.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (*models.Post, bool, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, false, err
	}
	liked := !slices.Contains(post.Likes, userID)
	if liked {
		post.Likes = append(post.Likes, userID)
		post.LikeCount++
	} else {
		post.Likes = slices.DeleteFunc(post.Likes, func(id string) bool { return id == userID })
		post.LikeCount = max(0, post.LikeCount-1)
	}
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, false, err
	}
	return post, liked, nil
}

func (s *PostService) AddComment(ctx context.Context, userID, postID, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", utils.ErrInvalidInput)
	}
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.Comments = append(post.Comments, models.Comment{
		ID:        utils.NewID(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	post.CommentCount++
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Share records userID as a sharer once; the share count grows on every call.
func (s *PostService) Share(ctx context.Context, userID, postID string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(post.Shares, userID) {
		post.Shares = append(post.Shares, userID)
	}
	post.ShareCount++
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post's media (best effort) and then the post itself.
func (s *PostService) Delete(ctx context.Context, userID, postID string) (*DeletionResult, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, fmt.Errorf("%w: you can only delete your own posts", utils.ErrForbidden)
	}
	res := &DeletionResult{Media: releaseMedia(ctx, s.media, s.log, post.Media, "post", post.ID)}
	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return res, err
	}
	res.Deleted = true
	return res, nil
}
