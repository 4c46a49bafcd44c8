package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/social-service/internal/media"
	"github.com/fathima-sithara/social-service/internal/models"
	"github.com/fathima-sithara/social-service/internal/repository"
	"github.com/fathima-sithara/social-service/internal/utils"
)

const DefaultAvatarSize = 512

type UserService struct {
	repo       repository.UserRepository
	media      MediaLifecycle
	log        *zap.Logger
	avatarSize int
}

func NewUserService(repo repository.UserRepository, m MediaLifecycle, log *zap.Logger, avatarSize int) *UserService {
	return &UserService{repo: repo, media: m, log: log, avatarSize: avatarSize}
}

// Create stores a user. An empty id is replaced with a generated one; the
// HTTP layer passes the authenticated caller's id.
func (s *UserService) Create(ctx context.Context, id, username, email string) (*models.User, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", utils.ErrInvalidInput)
	}
	if id == "" {
		id = utils.NewID()
	}
	if _, err := s.repo.GetByID(ctx, id); err == nil {
		return nil, fmt.Errorf("%w: user %s already exists", utils.ErrConflict, id)
	}
	u := &models.User{
		ID:        id,
		Username:  username,
		Email:     strings.ToLower(email),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

type ProfileUpdate struct {
	Username    string
	Gender      string
	DateOfBirth *time.Time
	Picture     *media.File
}

// UpdateProfile applies the non-empty fields of upd. A new picture is
// uploaded first and the previous one is destroyed only after the user
// document points at the new one.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, userID string, upd ProfileUpdate) (*models.User, error) {
	u, err := s.owned(ctx, callerID, userID)
	if err != nil {
		return nil, err
	}
	var sw *swap
	if upd.Picture != nil {
		f := *upd.Picture
		f.Story = false
		if _, err := s.media.Validate(f.MimeType, f.Size, false); err != nil {
			return nil, err
		}
		if f, err = squareAvatar(f, s.avatarSize); err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrUploadFailed, err)
		}
		ref, err := s.media.Upload(ctx, f)
		if err != nil {
			return nil, err
		}
		sw = &swap{field: "profile_picture", old: u.ProfilePicture, new: ref}
		u.ProfilePicture = ref
	}
	if upd.Username != "" {
		u.Username = upd.Username
	}
	if upd.Gender != "" {
		u.Gender = upd.Gender
	}
	if upd.DateOfBirth != nil {
		u.DateOfBirth = upd.DateOfBirth
	}
	if err := s.save(ctx, u, sw); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdateCoverPhoto(ctx context.Context, callerID, userID string, f *media.File) (*models.User, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: cover photo file is required", utils.ErrInvalidInput)
	}
	u, err := s.owned(ctx, callerID, userID)
	if err != nil {
		return nil, err
	}
	upload := *f
	upload.Story = false
	ref, err := s.media.Upload(ctx, upload)
	if err != nil {
		return nil, err
	}
	sw := &swap{field: "cover_photo", old: u.CoverPhoto, new: ref}
	u.CoverPhoto = ref
	if err := s.save(ctx, u, sw); err != nil {
		return nil, err
	}
	return u, nil
}

// swap is a picture replacement waiting for the user document to be saved.
type swap struct {
	field    string
	old, new *media.Reference
}

// save persists u and settles sw: on success the old object is destroyed,
// on failure the freshly uploaded one is, so the stored document never
// points at a deleted object.
func (s *UserService) save(ctx context.Context, u *models.User, sw *swap) error {
	err := s.repo.Update(ctx, u)
	if sw == nil {
		return err
	}
	log := s.log.With(zap.String("field", sw.field))
	if err != nil {
		releaseMedia(ctx, s.media, log, sw.new, "user", u.ID)
		return err
	}
	releaseMedia(ctx, s.media, log, sw.old, "user", u.ID)
	return nil
}

type UserDeletionResult struct {
	ProfilePicture *media.DeletionOutcome `json:"profile_picture,omitempty"`
	CoverPhoto     *media.DeletionOutcome `json:"cover_photo,omitempty"`
	Deleted        bool                   `json:"deleted"`
}

func (s *UserService) Delete(ctx context.Context, callerID, userID string) (*UserDeletionResult, error) {
	u, err := s.owned(ctx, callerID, userID)
	if err != nil {
		return nil, err
	}
	res := &UserDeletionResult{
		ProfilePicture: releaseMedia(ctx, s.media, s.log, u.ProfilePicture, "user", u.ID),
		CoverPhoto:     releaseMedia(ctx, s.media, s.log, u.CoverPhoto, "user", u.ID),
	}
	if err := s.repo.Delete(ctx, u.ID); err != nil {
		return res, err
	}
	res.Deleted = true
	return res, nil
}

func (s *UserService) owned(ctx context.Context, callerID, userID string) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", utils.ErrInvalidInput)
	}
	if callerID != userID {
		return nil, fmt.Errorf("%w: you can only modify your own account", utils.ErrForbidden)
	}
	return s.repo.GetByID(ctx, userID)
}
