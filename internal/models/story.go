package models

import (
	"time"

	"github.com/fathima-sithara/social-service/internal/media"
)

type Story struct {
	ID        string           `bson:"_id" json:"id"`
	UserID    string           `bson:"user_id" json:"user_id"`
	Media     *media.Reference `bson:"media,omitempty" json:"media,omitempty"`
	MediaType string           `bson:"media_type,omitempty" json:"media_type,omitempty"`
	CreatedAt time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time        `bson:"updated_at" json:"updated_at"`
}
