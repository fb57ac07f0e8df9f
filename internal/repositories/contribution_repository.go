package repositories

import (
	"context"

	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ContributionCollections bundles the six contribution collections so
// cross-collection batch operations can span them in one transaction.
type ContributionCollections struct {
	Commits            *Collection[models.Commit]
	Issues             *Collection[models.Issue]
	PullRequests       *Collection[models.PullRequest]
	PullRequestReviews *Collection[models.PullRequestReview]
	CommitComments     *Collection[models.CommitComment]
	IssueComments      *Collection[models.IssueComment]
}

func NewContributionCollections(db *mongo.Database) *ContributionCollections {
	return &ContributionCollections{
		Commits:            NewCollection[models.Commit](db, database.CollCommits),
		Issues:             NewCollection[models.Issue](db, database.CollIssues),
		PullRequests:       NewCollection[models.PullRequest](db, database.CollPullRequests),
		PullRequestReviews: NewCollection[models.PullRequestReview](db, database.CollPullRequestReviews),
		CommitComments:     NewCollection[models.CommitComment](db, database.CollCommitComments),
		IssueComments:      NewCollection[models.IssueComment](db, database.CollIssueComments),
	}
}

// InsertContributions inserts every document in the batch. Run inside a
// transaction context so the batch becomes visible atomically.
func InsertContributions(ctx context.Context, colls *ContributionCollections, batch *models.ContributionBatch) error {
	if err := colls.PullRequests.InsertMany(ctx, batch.PullRequests); err != nil {
		return err
	}
	if err := colls.PullRequestReviews.InsertMany(ctx, batch.PullRequestReviews); err != nil {
		return err
	}
	if err := colls.Issues.InsertMany(ctx, batch.Issues); err != nil {
		return err
	}
	if err := colls.Commits.InsertMany(ctx, batch.Commits); err != nil {
		return err
	}
	if err := colls.CommitComments.InsertMany(ctx, batch.CommitComments); err != nil {
		return err
	}
	return colls.IssueComments.InsertMany(ctx, batch.IssueComments)
}

// Per-kind upsert keys. Every contribution kind upserts by its remote
// identity so re-syncing an overlapping range overwrites instead of
// duplicating.
func pullRequestKey(d *models.PullRequest) bson.M             { return bson.M{"github.id": d.Github.ID} }
func pullRequestReviewKey(d *models.PullRequestReview) bson.M { return bson.M{"github.id": d.Github.ID} }
func issueKey(d *models.Issue) bson.M                         { return bson.M{"github.id": d.Github.ID} }
func commitKey(d *models.Commit) bson.M                       { return bson.M{"github.id": d.Github.ID} }
func commitCommentKey(d *models.CommitComment) bson.M         { return bson.M{"github.id": d.Github.ID} }
func issueCommentKey(d *models.IssueComment) bson.M           { return bson.M{"github.id": d.Github.ID} }

// UpsertContributions inserts or overwrites every document in the batch,
// keyed by remote identity so re-syncing the same range never duplicates.
func UpsertContributions(ctx context.Context, colls *ContributionCollections, batch *models.ContributionBatch) error {
	if err := colls.PullRequests.UpsertMany(ctx, batch.PullRequests, pullRequestKey); err != nil {
		return err
	}
	if err := colls.PullRequestReviews.UpsertMany(ctx, batch.PullRequestReviews, pullRequestReviewKey); err != nil {
		return err
	}
	if err := colls.Issues.UpsertMany(ctx, batch.Issues, issueKey); err != nil {
		return err
	}
	if err := colls.Commits.UpsertMany(ctx, batch.Commits, commitKey); err != nil {
		return err
	}
	if err := colls.CommitComments.UpsertMany(ctx, batch.CommitComments, commitCommentKey); err != nil {
		return err
	}
	return colls.IssueComments.UpsertMany(ctx, batch.IssueComments, issueCommentKey)
}

// DeleteContributionsByUser removes every contribution document belonging to
// the user across all six collections. Returns the total deleted.
func DeleteContributionsByUser(ctx context.Context, colls *ContributionCollections, userID primitive.ObjectID) (int64, error) {
	filter := bson.M{"user_id": userID}
	var total int64

	for _, delete := range []func() (int64, error){
		func() (int64, error) { return colls.PullRequests.DeleteMany(ctx, filter) },
		func() (int64, error) { return colls.PullRequestReviews.DeleteMany(ctx, filter) },
		func() (int64, error) { return colls.Issues.DeleteMany(ctx, filter) },
		func() (int64, error) { return colls.Commits.DeleteMany(ctx, filter) },
		func() (int64, error) { return colls.CommitComments.DeleteMany(ctx, filter) },
		func() (int64, error) { return colls.IssueComments.DeleteMany(ctx, filter) },
	} {
		count, err := delete()
		if err != nil {
			return total, err
		}
		total += count
	}

	return total, nil
}
