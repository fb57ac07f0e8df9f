package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contribsync/contribsync/internal/githubapi"
	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/pkg/datewindows"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func transientQueryErr() error {
	return &githubapi.RequestError{
		StatusCode: 200,
		Message:    "Something went wrong while executing your query",
	}
}

func newTestContributionService(api *fakeAPI, users *fakeUserStore, repos *fakeRepoStore) *ContributionService {
	return NewContributionService(api, githubapi.NewExecutor(), users, repos)
}

func TestFetchPullRequests(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	dw := datewindows.New(
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	)

	t.Run("normalizes nodes from every window", func(t *testing.T) {
		api := &fakeAPI{
			pullRequests: func(login string, from, to time.Time) ([]githubapi.PullRequestNode, error) {
				node := githubapi.PullRequestNode{
					ID:    "PR_" + from.Format("2006-01"),
					URL:   "https://github.com/alice/widgets/pull/1",
					State: "MERGED",
					Title: "Add widgets",
				}
				node.Repository.NameWithOwner = "alice/widgets"
				return []githubapi.PullRequestNode{node}, nil
			},
		}
		users := &fakeUserStore{}
		repos := &fakeRepoStore{}
		service := newTestContributionService(api, users, repos)

		docs, ids, err := service.FetchPullRequests(ctx, dw, "alice", userID)
		assert.NoError(t, err)
		assert.Len(t, docs, len(dw.Monthly()))
		assert.Len(t, ids, 1)

		for _, doc := range docs {
			assert.Equal(t, userID, doc.UserID)
			assert.Equal(t, ids[0], doc.RepositoryID)
			assert.Equal(t, "MERGED", doc.State)
		}

		// one repository, resolved once and folded into the user document
		assert.Equal(t, 1, repos.insertCalls)
		assert.Equal(t, 1, api.repoInfoCalls)
		assert.Len(t, users.addedRepos, 1)
		assert.Equal(t, ids, users.addedRepos[0])
	})

	t.Run("window fetch failure aborts the kind", func(t *testing.T) {
		api := &fakeAPI{
			pullRequests: func(login string, from, to time.Time) ([]githubapi.PullRequestNode, error) {
				return nil, errors.New("connection reset")
			},
		}
		service := newTestContributionService(api, &fakeUserStore{}, &fakeRepoStore{})

		_, _, err := service.FetchPullRequests(ctx, dw, "alice", userID)
		assert.Error(t, err)
	})
}

func TestFetchCommits(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	dw := datewindows.New(
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
	)

	api := &fakeAPI{
		committedTo: func(login string) ([]string, error) {
			return []string{"alice/widgets", "bob/gadgets"}, nil
		},
		commitHistory: func(owner, name string) ([]githubapi.CommitNode, error) {
			if owner == "alice" {
				return []githubapi.CommitNode{
					{ID: "C_1", Oid: "aaa111"},
					{ID: "C_2", Oid: "bbb222"},
				}, nil
			}
			return nil, nil
		},
	}
	users := &fakeUserStore{}
	repos := &fakeRepoStore{}
	service := newTestContributionService(api, users, repos)

	docs, ids, err := service.FetchCommits(ctx, dw, "alice", userID, "U_alice")
	assert.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "C_1", docs[0].Github.ID)
	assert.Equal(t, "C_2", docs[1].Github.ID)

	// both repositories are resolved even when one has no matching commits
	assert.Len(t, ids, 2)
	assert.Equal(t, 2, repos.insertCalls)
}

func TestFetchIssueComments(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	dw := datewindows.New(
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
	)

	api := &fakeAPI{
		issueComments: func(login string, from, to time.Time) ([]githubapi.IssueCommentNode, error) {
			node := githubapi.IssueCommentNode{ID: "IC_1", URL: "https://github.com/alice/widgets/issues/3#issuecomment-1"}
			node.Repository.NameWithOwner = "alice/widgets"
			node.Issue = &githubapi.NodeRef{ID: "I_3", URL: "https://github.com/alice/widgets/issues/3"}
			return []githubapi.IssueCommentNode{node}, nil
		},
	}
	service := newTestContributionService(api, &fakeUserStore{}, &fakeRepoStore{})

	docs, ids, err := service.FetchIssueComments(ctx, dw, "alice", userID)
	assert.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Len(t, ids, 1)
	assert.Equal(t, "IC_1", docs[0].Github.ID)
	assert.Equal(t, "Issue", docs[0].Issue.Type)
	assert.Equal(t, "I_3", docs[0].Issue.Github.ID)
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	dw := datewindows.New(
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
	)

	t.Run("pull request failure never aborts the run", func(t *testing.T) {
		api := &fakeAPI{
			pullRequests: func(login string, from, to time.Time) ([]githubapi.PullRequestNode, error) {
				return nil, errors.New("boom")
			},
			issues: func(login string, from, to time.Time) ([]githubapi.IssueNode, error) {
				node := githubapi.IssueNode{ID: "I_1"}
				node.Repository.NameWithOwner = "alice/widgets"
				return []githubapi.IssueNode{node}, nil
			},
		}
		service := newTestContributionService(api, &fakeUserStore{}, &fakeRepoStore{})

		batch, err := service.Fetch(ctx, dw, "alice", userID, "U_alice")
		assert.NoError(t, err)
		assert.Empty(t, batch.PullRequests)
		assert.Len(t, batch.Issues, len(dw.Monthly()))
	})

	t.Run("fatal failure in another kind aborts the run", func(t *testing.T) {
		api := &fakeAPI{
			reviews: func(login string, from, to time.Time) ([]githubapi.ReviewNode, error) {
				return nil, errors.New("boom")
			},
		}
		service := newTestContributionService(api, &fakeUserStore{}, &fakeRepoStore{})

		_, err := service.Fetch(ctx, dw, "alice", userID, "U_alice")
		assert.Error(t, err)
	})

	t.Run("repository ids merge without duplicates", func(t *testing.T) {
		api := &fakeAPI{
			issues: func(login string, from, to time.Time) ([]githubapi.IssueNode, error) {
				node := githubapi.IssueNode{ID: "I_1"}
				node.Repository.NameWithOwner = "alice/widgets"
				return []githubapi.IssueNode{node}, nil
			},
			issueComments: func(login string, from, to time.Time) ([]githubapi.IssueCommentNode, error) {
				node := githubapi.IssueCommentNode{ID: "IC_1"}
				node.Repository.NameWithOwner = "alice/widgets"
				return []githubapi.IssueCommentNode{node}, nil
			},
		}
		service := newTestContributionService(api, &fakeUserStore{}, &fakeRepoStore{})

		batch, err := service.Fetch(ctx, dw, "alice", userID, "U_alice")
		assert.NoError(t, err)
		assert.Len(t, batch.RepositoryIDs, 1)
	})
}

func TestAbsorbTransient(t *testing.T) {
	service := newTestContributionService(&fakeAPI{}, &fakeUserStore{}, &fakeRepoStore{})

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, service.absorbTransient(models.KindIssue, "alice", nil))
	})

	t.Run("transient query error is absorbed", func(t *testing.T) {
		assert.NoError(t, service.absorbTransient(models.KindIssue, "alice", transientQueryErr()))
	})

	t.Run("anything else propagates", func(t *testing.T) {
		err := errors.New("boom")
		assert.Equal(t, err, service.absorbTransient(models.KindIssue, "alice", err))
	})
}
