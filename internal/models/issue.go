package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Issue represents one issue opened by a synced user
type Issue struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	RepositoryID primitive.ObjectID `bson:"repository_id" json:"repository_id"`
	Github       Github             `bson:"github" json:"github"`

	CreatedAt      time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt      *time.Time `bson:"updatedAt" json:"updated_at"`
	ClosedAt       *time.Time `bson:"closedAt" json:"closed_at"`
	State          string     `bson:"state" json:"state"`
	Title          string     `bson:"title" json:"title"`
	Body           string     `bson:"body" json:"body"`
	ReactionsCount int        `bson:"reactionsCount" json:"reactions_count"`
	Labels         []Label    `bson:"labels" json:"labels"`
	CloserLogin    *string    `bson:"closerLogin" json:"closer_login"`
}
