package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewComment is a comment thread entry embedded in a review document
type ReviewComment struct {
	Login  string `bson:"login" json:"login"`
	Github Github `bson:"github" json:"github"`
	Body   string `bson:"body" json:"body"`
}

// PullRequestReview represents one review submitted by a synced user
type PullRequestReview struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	RepositoryID primitive.ObjectID `bson:"repository_id" json:"repository_id"`
	Github       Github             `bson:"github" json:"github"`

	PullRequest struct {
		Github Github `bson:"github" json:"github"`
	} `bson:"pullRequest" json:"pull_request"`

	CreatedAt    time.Time  `bson:"createdAt" json:"created_at"`
	SubmittedAt  *time.Time `bson:"submittedAt" json:"submitted_at"`
	UpdatedAt    *time.Time `bson:"updatedAt" json:"updated_at"`
	PublishedAt  *time.Time `bson:"publishedAt" json:"published_at"`
	LastEditedAt *time.Time `bson:"lastEditedAt" json:"last_edited_at"`
	State        string     `bson:"state" json:"state"`
	Body         string     `bson:"body" json:"body"`

	Comments      []ReviewComment `bson:"comments" json:"comments"`
	CommentsCount int             `bson:"commentsCount" json:"comments_count"`
}
