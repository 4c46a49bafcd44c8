package models

import (
	"time"

	"github.com/fathima-sithara/social-service/internal/media"
)

type User struct {
	ID             string           `bson:"_id" json:"id"`
	Username       string           `bson:"username" json:"username"`
	Email          string           `bson:"email" json:"email"`
	Gender         string           `bson:"gender,omitempty" json:"gender,omitempty"`
	DateOfBirth    *time.Time       `bson:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	ProfilePicture *media.Reference `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`
	CoverPhoto     *media.Reference `bson:"cover_photo,omitempty" json:"cover_photo,omitempty"`
	CreatedAt      time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `bson:"updated_at" json:"updated_at"`
}
