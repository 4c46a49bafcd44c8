package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fathima-sithara/social-service/internal/media"
)

// MediaLifecycle is the media manager as seen by the entity services.
type MediaLifecycle interface {
	Validate(mimeType string, size int64, story bool) (media.SizeClass, error)
	Upload(ctx context.Context, f media.File) (*media.Reference, error)
	Delete(ctx context.Context, ref media.Reference) media.DeletionOutcome
	ExternalReference(rawURL string, category media.ResourceCategory) *media.Reference
}

// DeletionResult reports the two independent steps of removing an entity:
// best-effort remote media deletion and the local document deletion.
// Media is nil when the entity owned no media.
type DeletionResult struct {
	Media   *media.DeletionOutcome `json:"media,omitempty"`
	Deleted bool                   `json:"deleted"`
}

// releaseMedia deletes the remote object behind ref. A failed deletion is
// logged and reported, never returned as an error.
func releaseMedia(ctx context.Context, m MediaLifecycle, log *zap.Logger, ref *media.Reference, owner, ownerID string) *media.DeletionOutcome {
	if ref.IsZero() {
		return nil
	}
	out := m.Delete(ctx, *ref)
	if !out.OK {
		log.Warn("remote media not deleted",
			zap.String("owner", owner),
			zap.String("owner_id", ownerID),
			zap.String("url", ref.URL),
			zap.Int("attempts", len(out.Attempts)))
	}
	return &out
}
