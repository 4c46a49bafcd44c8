package models

import (
	"time"

	"github.com/fathima-sithara/social-service/internal/media"
)

// Post media types as stored on the document.
const (
	MediaTypeImage    = "image"
	MediaTypeVideo    = "video"
	MediaTypePDF      = "pdf"
	MediaTypeDocument = "document"
)

type Comment struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Post struct {
	ID           string           `bson:"_id" json:"id"`
	UserID       string           `bson:"user_id" json:"user_id"`
	Content      string           `bson:"content,omitempty" json:"content,omitempty"`
	Media        *media.Reference `bson:"media,omitempty" json:"media,omitempty"`
	MediaType    string           `bson:"media_type,omitempty" json:"media_type,omitempty"`
	Likes        []string         `bson:"likes" json:"likes"`
	LikeCount    int              `bson:"like_count" json:"like_count"`
	Comments     []Comment        `bson:"comments" json:"comments"`
	CommentCount int              `bson:"comment_count" json:"comment_count"`
	Shares       []string         `bson:"shares" json:"shares"`
	ShareCount   int              `bson:"share_count" json:"share_count"`
	CreatedAt    time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `bson:"updated_at" json:"updated_at"`
}

// MediaTypeFor maps a resource category and MIME type to the post media type.
func MediaTypeFor(c media.ResourceCategory, mimeType string) string {
	switch {
	case c == media.CategoryVideo:
		return MediaTypeVideo
	case mimeType == "application/pdf" || c == media.CategoryRaw:
		return MediaTypePDF
	default:
		return MediaTypeImage
	}
}

// CategoryForMediaType is the inverse used when only the stored media type
// is known.
func CategoryForMediaType(mediaType string) media.ResourceCategory {
	switch mediaType {
	case MediaTypeVideo:
		return media.CategoryVideo
	case MediaTypePDF, MediaTypeDocument:
		return media.CategoryRaw
	case MediaTypeImage:
		return media.CategoryImage
	default:
		return ""
	}
}
