package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a synced developer account
type User struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Login           string               `bson:"login" json:"login"`
	Name            string               `bson:"name" json:"name"`
	Bio             string               `bson:"bio" json:"bio"`
	Email           string               `bson:"email" json:"email"`
	AvatarURL       string               `bson:"avatarUrl" json:"avatar_url"`
	TwitterUsername string               `bson:"twitterUsername" json:"twitter_username"`
	WebsiteURL      string               `bson:"websiteUrl" json:"website_url"`
	Github          Github               `bson:"github" json:"github"`
	Repositories    []primitive.ObjectID `bson:"repositories" json:"repositories"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updated_at"`
}

// NewUser creates a User with an empty repository set and a fresh watermark
func NewUser(login string) *User {
	return &User{
		Login:        login,
		Repositories: []primitive.ObjectID{},
		UpdatedAt:    time.Now().UTC(),
	}
}
