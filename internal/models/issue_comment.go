package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssociatedIssue is the issue or pull request an issue comment belongs to
type AssociatedIssue struct {
	Type   string `bson:"type" json:"type"` // "Issue" or "PullRequest"
	Github Github `bson:"github" json:"github"`
}

// IssueComment represents one comment a synced user left on an issue or
// pull request conversation.
type IssueComment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	RepositoryID primitive.ObjectID `bson:"repository_id" json:"repository_id"`
	Github       Github             `bson:"github" json:"github"`

	Issue AssociatedIssue `bson:"issue" json:"issue"`

	CreatedAt      time.Time  `bson:"createdAt" json:"created_at"`
	PublishedAt    time.Time  `bson:"publishedAt" json:"published_at"`
	UpdatedAt      *time.Time `bson:"updatedAt" json:"updated_at"`
	LastEditedAt   *time.Time `bson:"lastEditedAt" json:"last_edited_at"`
	ReactionsCount int        `bson:"reactionsCount" json:"reactions_count"`
	Body           string     `bson:"body" json:"body"`
}
