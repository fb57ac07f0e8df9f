package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommitComment represents one comment a synced user left on a commit
type CommitComment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	RepositoryID primitive.ObjectID `bson:"repository_id" json:"repository_id"`
	Github       Github             `bson:"github" json:"github"`

	Commit struct {
		Github Github `bson:"github" json:"github"`
	} `bson:"commit" json:"commit"`

	CreatedAt      time.Time  `bson:"createdAt" json:"created_at"`
	PublishedAt    time.Time  `bson:"publishedAt" json:"published_at"`
	UpdatedAt      *time.Time `bson:"updatedAt" json:"updated_at"`
	LastEditedAt   *time.Time `bson:"lastEditedAt" json:"last_edited_at"`
	Position       *int       `bson:"position" json:"position"`
	ReactionsCount int        `bson:"reactionsCount" json:"reactions_count"`
	Body           string     `bson:"body" json:"body"`
}
