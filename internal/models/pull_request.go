package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmbeddedCommit is a commit summary embedded in a pull request document
type EmbeddedCommit struct {
	Github       Github `bson:"github" json:"github"`
	Additions    int    `bson:"additions" json:"additions"`
	Deletions    int    `bson:"deletions" json:"deletions"`
	ChangedFiles int    `bson:"changedFiles" json:"changed_files"`
}

// ClosingIssueReference links a pull request to an issue it closes
type ClosingIssueReference struct {
	Github Github `bson:"github" json:"github"`
}

// PullRequest represents one pull request opened by a synced user
type PullRequest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	RepositoryID primitive.ObjectID `bson:"repository_id" json:"repository_id"`
	Github       Github             `bson:"github" json:"github"`

	CreatedAt      time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt      *time.Time `bson:"updatedAt" json:"updated_at"`
	MergedAt       *time.Time `bson:"mergedAt" json:"merged_at"`
	ClosedAt       *time.Time `bson:"closedAt" json:"closed_at"`
	State          string     `bson:"state" json:"state"`
	Title          string     `bson:"title" json:"title"`
	Body           string     `bson:"body" json:"body"`
	ReactionsCount int        `bson:"reactionsCount" json:"reactions_count"`
	Labels         []Label    `bson:"labels" json:"labels"`

	Commits                      []EmbeddedCommit        `bson:"commits" json:"commits"`
	CommitsCount                 int                     `bson:"commitsCount" json:"commits_count"`
	CommentsCount                int                     `bson:"commentsCount" json:"comments_count"`
	ClosingIssuesReferences      []ClosingIssueReference `bson:"closingIssuesReferences" json:"closing_issues_references"`
	ClosingIssuesReferencesCount int                     `bson:"closingIssuesReferencesCount" json:"closing_issues_references_count"`
}
