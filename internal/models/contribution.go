package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Github is the remote identity of a synced document. The id is globally
// unique per contribution kind and serves as the upsert key.
type Github struct {
	ID  string `bson:"id" json:"id"`
	URL string `bson:"url" json:"url"`
}

// Label is a GitHub label attached to an issue or pull request
type Label struct {
	Name        string  `bson:"name" json:"name"`
	Description *string `bson:"description" json:"description"`
}

// Kind identifies one contribution collection
type Kind string

const (
	KindCommit            Kind = "commits"
	KindIssue             Kind = "issues"
	KindPullRequest       Kind = "pullRequests"
	KindPullRequestReview Kind = "pullRequestReviews"
	KindCommitComment     Kind = "userCommitComments"
	KindIssueComment      Kind = "userIssueComments"
)

// ContributionBatch holds one sync run's worth of normalized documents,
// grouped by kind, plus the distinct repositories they touched.
type ContributionBatch struct {
	PullRequests       []*PullRequest
	PullRequestReviews []*PullRequestReview
	Issues             []*Issue
	Commits            []*Commit
	CommitComments     []*CommitComment
	IssueComments      []*IssueComment

	RepositoryIDs []primitive.ObjectID
}

// Size returns the total number of documents in the batch
func (b *ContributionBatch) Size() int {
	return len(b.PullRequests) + len(b.PullRequestReviews) + len(b.Issues) +
		len(b.Commits) + len(b.CommitComments) + len(b.IssueComments)
}
