package media

import (
	"strings"
)

const MiB int64 = 1 << 20

// DefaultAllowedTypes are the MIME types accepted for upload.
var DefaultAllowedTypes = []string{
	"video/mp4",
	"video/quicktime",
	"video/webm",
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
	"application/pdf",
}

// Config is the immutable policy handed to NewManager.
type Config struct {
	// Domain is matched against delivery URLs before an identifier is
	// derived from them.
	Domain       string
	StoryCeiling int64
	ImageCeiling int64
	VideoCeiling int64
	AllowedTypes []string
}

func DefaultConfig() Config {
	return Config{
		Domain:       "cloudinary.com",
		StoryCeiling: 4 * MiB,
		ImageCeiling: 10 * MiB,
		VideoCeiling: 100 * MiB,
		AllowedTypes: DefaultAllowedTypes,
	}
}

// Limits is the size/type policy exposed so callers can pre-validate a
// file before transferring its bytes.
type Limits struct {
	Story        int64    `json:"story"`
	Image        int64    `json:"image"`
	Video        int64    `json:"video"`
	AllowedTypes []string `json:"allowed_types"`
}

func normalizeMime(mimeType string) string {
	mt, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// CategoryForMime maps a MIME type to the remote resource category.
func CategoryForMime(mimeType string) ResourceCategory {
	mt := normalizeMime(mimeType)
	switch {
	case strings.HasPrefix(mt, "video/"):
		return CategoryVideo
	case mt == "application/pdf":
		return CategoryRaw
	default:
		return CategoryImage
	}
}

// FolderFor returns the storage folder used for a category.
func FolderFor(c ResourceCategory) string {
	switch c {
	case CategoryVideo:
		return "videos"
	case CategoryRaw:
		return "documents"
	default:
		return "images"
	}
}

// ceiling picks the size limit for an upload. Documents share the video
// ceiling.
func (c Config) ceiling(mimeType string, story bool) (int64, SizeClass) {
	if story {
		return c.StoryCeiling, SizeClassStory
	}
	if CategoryForMime(mimeType) == CategoryImage {
		return c.ImageCeiling, SizeClassImage
	}
	return c.VideoCeiling, SizeClassVideo
}
