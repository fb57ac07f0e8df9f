package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommitComment is a comment left on a commit, embedded in the commit document
type EmbeddedCommitComment struct {
	AuthorLogin    string    `bson:"authorLogin" json:"author_login"`
	PublishedAt    time.Time `bson:"publishedAt" json:"published_at"`
	Position       *int      `bson:"position" json:"position"`
	ReactionsCount int       `bson:"reactionsCount" json:"reactions_count"`
	Body           string    `bson:"body" json:"body"`
}

// AssociatedPullRequest links a commit to a pull request that contains it
type AssociatedPullRequest struct {
	Github Github `bson:"github" json:"github"`
}

// Commit represents one commit authored by a synced user
type Commit struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	RepositoryID primitive.ObjectID `bson:"repository_id" json:"repository_id"`
	Github       Github             `bson:"github" json:"github"`

	CommittedDate time.Time  `bson:"committedDate" json:"committed_date"`
	PushedDate    *time.Time `bson:"pushedDate" json:"pushed_date"`
	Additions     int        `bson:"additions" json:"additions"`
	Deletions     int        `bson:"deletions" json:"deletions"`
	ChangedFiles  int        `bson:"changedFiles" json:"changed_files"`
	Message       string     `bson:"message" json:"message"`

	CommentsCount               int                     `bson:"commentsCount" json:"comments_count"`
	Comments                    []EmbeddedCommitComment `bson:"comments" json:"comments"`
	AssociatedPullRequestsCount int                     `bson:"associatedPullRequestsCount" json:"associated_pull_requests_count"`
	AssociatedPullRequests      []AssociatedPullRequest `bson:"associatedPullRequests" json:"associated_pull_requests"`
}
