package media

import (
	"context"
	"io"
)

// ResourceCategory selects which remote API parameters apply to an object.
type ResourceCategory string

const (
	CategoryImage ResourceCategory = "image"
	CategoryVideo ResourceCategory = "video"
	CategoryRaw   ResourceCategory = "raw"
)

// SizeClass records which size ceiling was enforced at upload.
type SizeClass string

const (
	SizeClassImage SizeClass = "image"
	SizeClassVideo SizeClass = "video"
	SizeClassStory SizeClass = "story"
)

// Reference is embedded in the documents that own a remote media object.
// A reference with a URL denotes exactly one remote object, or none once
// it has been deleted.
type Reference struct {
	URL       string           `bson:"url" json:"url"`
	PublicID  string           `bson:"public_id,omitempty" json:"public_id,omitempty"`
	AssetID   string           `bson:"asset_id,omitempty" json:"asset_id,omitempty"`
	Version   string           `bson:"version,omitempty" json:"version,omitempty"`
	Category  ResourceCategory `bson:"resource_category" json:"resource_category"`
	SizeClass SizeClass        `bson:"size_class,omitempty" json:"size_class,omitempty"`
}

func (r *Reference) IsZero() bool {
	return r == nil || (r.URL == "" && r.PublicID == "")
}

// File is an incoming upload. Size is the size declared by the client and
// is checked before any bytes are sent to the store.
type File struct {
	Data     io.Reader
	MimeType string
	Size     int64
	Filename string
	Story    bool
}

type UploadParams struct {
	Category ResourceCategory
	Folder   string
}

type UploadResult struct {
	PublicID string
	AssetID  string
	Version  string
	URL      string
	Bytes    int64
	Format   string
}

// Destroy results reported by the remote host.
const (
	ResultOK       = "ok"
	ResultNotFound = "not found"
)

type DestroyResult struct {
	Result string
}

// Store is the remote media host. Implementations must not retry uploads.
type Store interface {
	Upload(ctx context.Context, r io.Reader, p UploadParams) (*UploadResult, error)
	Destroy(ctx context.Context, publicID string, category ResourceCategory) (*DestroyResult, error)
}

// Observer receives upload and deletion outcomes, e.g. for metrics.
type Observer interface {
	UploadFinished(category ResourceCategory, err error)
	DeletionFinished(category ResourceCategory, ok bool, attempts int)
}

type nopObserver struct{}

func (nopObserver) UploadFinished(ResourceCategory, error) {}
func (nopObserver) DeletionFinished(ResourceCategory, bool, int) {}
