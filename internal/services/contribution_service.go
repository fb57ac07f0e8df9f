package services

import (
	"context"
	"time"

	"github.com/contribsync/contribsync/internal/githubapi"
	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/pkg/datewindows"
	"github.com/contribsync/contribsync/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// GitHubAPI is the remote surface the sync services consume,
// implemented by githubapi.Client.
type GitHubAPI interface {
	FetchUserInfo(ctx context.Context, login string) (*githubapi.UserInfo, error)
	FetchRepositoryInfo(ctx context.Context, owner, name string) (*githubapi.RepositoryInfo, error)
	FetchRepositoriesContributedTo(ctx context.Context, login string, windows []datewindows.Window) ([]string, error)
	FetchRepositoriesCommittedTo(ctx context.Context, login string, windows []datewindows.Window) ([]string, error)
	FetchCommitHistory(ctx context.Context, owner, name, authorID string, from, to time.Time) ([]githubapi.CommitNode, error)
	FetchPullRequestContributions(ctx context.Context, login string, from, to time.Time) ([]githubapi.PullRequestNode, error)
	FetchIssueContributions(ctx context.Context, login string, from, to time.Time) ([]githubapi.IssueNode, error)
	FetchReviewContributions(ctx context.Context, login string, from, to time.Time) ([]githubapi.ReviewNode, error)
	FetchCommitComments(ctx context.Context, login string, from, to time.Time) ([]githubapi.CommitCommentNode, error)
	FetchIssueComments(ctx context.Context, login string, from, to time.Time) ([]githubapi.IssueCommentNode, error)
}

// contributionUserStore is the slice of UserRepository the fetch pass needs
type contributionUserStore interface {
	AddRepositories(ctx context.Context, userID primitive.ObjectID, repoIDs []primitive.ObjectID) error
}

// ContributionService fetches a user's contributions kind by kind and
// normalizes them into store documents. Each kind resolves repositories
// through its own memo and folds the distinct set into the user document.
type ContributionService struct {
	api   GitHubAPI
	exec  *githubapi.Executor
	users contributionUserStore
	repos repositoryStore
}

func NewContributionService(api GitHubAPI, exec *githubapi.Executor, users contributionUserStore, repos repositoryStore) *ContributionService {
	return &ContributionService{
		api:   api,
		exec:  exec,
		users: users,
		repos: repos,
	}
}

// Fetch collects every contribution kind for the given range. Pull request
// fetch failures never abort a run; the other kinds absorb only exhausted
// transient query errors and propagate everything else.
func (s *ContributionService) Fetch(ctx context.Context, dw *datewindows.DateWindows, login string, userID primitive.ObjectID, authorGithubID string) (*models.ContributionBatch, error) {
	batch := &models.ContributionBatch{}
	seen := make(map[primitive.ObjectID]struct{})

	prs, ids, err := s.FetchPullRequests(ctx, dw, login, userID)
	if err != nil {
		s.logKindSkipped(models.KindPullRequest, login, err)
	}
	batch.PullRequests = prs
	batch.RepositoryIDs = mergeRepositoryIDs(seen, batch.RepositoryIDs, ids)

	reviews, ids, err := s.FetchPullRequestReviews(ctx, dw, login, userID)
	if err := s.absorbTransient(models.KindPullRequestReview, login, err); err != nil {
		return nil, err
	}
	batch.PullRequestReviews = reviews
	batch.RepositoryIDs = mergeRepositoryIDs(seen, batch.RepositoryIDs, ids)

	issues, ids, err := s.FetchIssues(ctx, dw, login, userID)
	if err := s.absorbTransient(models.KindIssue, login, err); err != nil {
		return nil, err
	}
	batch.Issues = issues
	batch.RepositoryIDs = mergeRepositoryIDs(seen, batch.RepositoryIDs, ids)

	commits, ids, err := s.FetchCommits(ctx, dw, login, userID, authorGithubID)
	if err := s.absorbTransient(models.KindCommit, login, err); err != nil {
		return nil, err
	}
	batch.Commits = commits
	batch.RepositoryIDs = mergeRepositoryIDs(seen, batch.RepositoryIDs, ids)

	commitComments, ids, err := s.FetchCommitComments(ctx, dw, login, userID)
	if err := s.absorbTransient(models.KindCommitComment, login, err); err != nil {
		return nil, err
	}
	batch.CommitComments = commitComments
	batch.RepositoryIDs = mergeRepositoryIDs(seen, batch.RepositoryIDs, ids)

	issueComments, ids, err := s.FetchIssueComments(ctx, dw, login, userID)
	if err := s.absorbTransient(models.KindIssueComment, login, err); err != nil {
		return nil, err
	}
	batch.IssueComments = issueComments
	batch.RepositoryIDs = mergeRepositoryIDs(seen, batch.RepositoryIDs, ids)

	return batch, nil
}

// FetchPullRequests fans the monthly windows out concurrently, then resolves
// repositories and normalizes the nodes sequentially.
func (s *ContributionService) FetchPullRequests(ctx context.Context, dw *datewindows.DateWindows, login string, userID primitive.ObjectID) ([]*models.PullRequest, []primitive.ObjectID, error) {
	windows := dw.Monthly()
	pages := make([][]githubapi.PullRequestNode, len(windows))

	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			return s.exec.Execute(gctx, func() error {
				nodes, err := s.api.FetchPullRequestContributions(gctx, login, w.Start, w.End)
				if err != nil {
					return err
				}
				pages[i] = nodes
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	resolver := s.newResolver()
	var docs []*models.PullRequest
	for _, nodes := range pages {
		for i := range nodes {
			node := &nodes[i]
			repoID, err := resolver.Resolve(ctx, node.Repository.NameWithOwner)
			if err != nil {
				return nil, nil, err
			}
			docs = append(docs, pullRequestModel(userID, repoID, node))
		}
	}

	ids := resolver.IDs()
	if err := s.users.AddRepositories(ctx, userID, ids); err != nil {
		return nil, nil, err
	}
	return docs, ids, nil
}

// FetchPullRequestReviews collects the user's reviews across the monthly windows
func (s *ContributionService) FetchPullRequestReviews(ctx context.Context, dw *datewindows.DateWindows, login string, userID primitive.ObjectID) ([]*models.PullRequestReview, []primitive.ObjectID, error) {
	windows := dw.Monthly()
	pages := make([][]githubapi.ReviewNode, len(windows))

	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			return s.exec.Execute(gctx, func() error {
				nodes, err := s.api.FetchReviewContributions(gctx, login, w.Start, w.End)
				if err != nil {
					return err
				}
				pages[i] = nodes
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	resolver := s.newResolver()
	var docs []*models.PullRequestReview
	for _, nodes := range pages {
		for i := range nodes {
			node := &nodes[i]
			repoID, err := resolver.Resolve(ctx, node.Repository.NameWithOwner)
			if err != nil {
				return nil, nil, err
			}
			docs = append(docs, reviewModel(userID, repoID, node))
		}
	}

	ids := resolver.IDs()
	if err := s.users.AddRepositories(ctx, userID, ids); err != nil {
		return nil, nil, err
	}
	return docs, ids, nil
}

// FetchIssues collects the issues the user opened across the monthly windows
func (s *ContributionService) FetchIssues(ctx context.Context, dw *datewindows.DateWindows, login string, userID primitive.ObjectID) ([]*models.Issue, []primitive.ObjectID, error) {
	windows := dw.Monthly()
	pages := make([][]githubapi.IssueNode, len(windows))

	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			return s.exec.Execute(gctx, func() error {
				nodes, err := s.api.FetchIssueContributions(gctx, login, w.Start, w.End)
				if err != nil {
					return err
				}
				pages[i] = nodes
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	resolver := s.newResolver()
	var docs []*models.Issue
	for _, nodes := range pages {
		for i := range nodes {
			node := &nodes[i]
			repoID, err := resolver.Resolve(ctx, node.Repository.NameWithOwner)
			if err != nil {
				return nil, nil, err
			}
			docs = append(docs, issueModel(userID, repoID, node))
		}
	}

	ids := resolver.IDs()
	if err := s.users.AddRepositories(ctx, userID, ids); err != nil {
		return nil, nil, err
	}
	return docs, ids, nil
}

// FetchCommits finds the repositories the user committed to in range, then
// walks each default branch history for commits authored by them.
func (s *ContributionService) FetchCommits(ctx context.Context, dw *datewindows.DateWindows, login string, userID primitive.ObjectID, authorGithubID string) ([]*models.Commit, []primitive.ObjectID, error) {
	var names []string
	err := s.exec.Execute(ctx, func() error {
		var err error
		names, err = s.api.FetchRepositoriesCommittedTo(ctx, login, dw.Monthly())
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	from, to := dw.FromDate(), dw.ToDate()
	perRepo := make([][]githubapi.CommitNode, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, nameWithOwner := range names {
		i := i
		owner, name := models.SplitFullName(nameWithOwner)
		g.Go(func() error {
			return s.exec.Execute(gctx, func() error {
				commits, err := s.api.FetchCommitHistory(gctx, owner, name, authorGithubID, from, to)
				if err != nil {
					return err
				}
				perRepo[i] = commits
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	resolver := s.newResolver()
	var docs []*models.Commit
	for i, nameWithOwner := range names {
		repoID, err := resolver.Resolve(ctx, nameWithOwner)
		if err != nil {
			return nil, nil, err
		}
		for j := range perRepo[i] {
			docs = append(docs, commitModel(userID, repoID, &perRepo[i][j]))
		}
	}

	ids := resolver.IDs()
	if err := s.users.AddRepositories(ctx, userID, ids); err != nil {
		return nil, nil, err
	}
	return docs, ids, nil
}

// FetchCommitComments collects commit comments published within the full range
func (s *ContributionService) FetchCommitComments(ctx context.Context, dw *datewindows.DateWindows, login string, userID primitive.ObjectID) ([]*models.CommitComment, []primitive.ObjectID, error) {
	var nodes []githubapi.CommitCommentNode
	err := s.exec.Execute(ctx, func() error {
		var err error
		nodes, err = s.api.FetchCommitComments(ctx, login, dw.FromDate(), dw.ToDate())
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	resolver := s.newResolver()
	var docs []*models.CommitComment
	for i := range nodes {
		node := &nodes[i]
		repoID, err := resolver.Resolve(ctx, node.Repository.NameWithOwner)
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, commitCommentModel(userID, repoID, node))
	}

	ids := resolver.IDs()
	if err := s.users.AddRepositories(ctx, userID, ids); err != nil {
		return nil, nil, err
	}
	return docs, ids, nil
}

// FetchIssueComments collects issue comments published within the full range
func (s *ContributionService) FetchIssueComments(ctx context.Context, dw *datewindows.DateWindows, login string, userID primitive.ObjectID) ([]*models.IssueComment, []primitive.ObjectID, error) {
	var nodes []githubapi.IssueCommentNode
	err := s.exec.Execute(ctx, func() error {
		var err error
		nodes, err = s.api.FetchIssueComments(ctx, login, dw.FromDate(), dw.ToDate())
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	resolver := s.newResolver()
	var docs []*models.IssueComment
	for i := range nodes {
		node := &nodes[i]
		repoID, err := resolver.Resolve(ctx, node.Repository.NameWithOwner)
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, issueCommentModel(userID, repoID, node))
	}

	ids := resolver.IDs()
	if err := s.users.AddRepositories(ctx, userID, ids); err != nil {
		return nil, nil, err
	}
	return docs, ids, nil
}

// newResolver builds a fresh per-kind resolver whose remote fetches run
// through the throttling executor.
func (s *ContributionService) newResolver() *RepositoryResolver {
	return NewRepositoryResolver(s.repos, &throttledRepositoryFetcher{api: s.api, exec: s.exec})
}

// absorbTransient swallows exhausted transient query errors so one flaky
// kind does not abort the whole run. Anything else propagates.
func (s *ContributionService) absorbTransient(kind models.Kind, login string, err error) error {
	if err == nil {
		return nil
	}
	if !githubapi.IsTransientQuery(err) {
		return err
	}
	s.logKindSkipped(kind, login, err)
	return nil
}

func (s *ContributionService) logKindSkipped(kind models.Kind, login string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"kind":  string(kind),
		"login": login,
	}).Error("Contribution kind fetch failed, skipping it for this run")
}

func mergeRepositoryIDs(seen map[primitive.ObjectID]struct{}, merged, ids []primitive.ObjectID) []primitive.ObjectID {
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged
}

// throttledRepositoryFetcher routes resolver metadata fetches through the executor
type throttledRepositoryFetcher struct {
	api  GitHubAPI
	exec *githubapi.Executor
}

func (t *throttledRepositoryFetcher) FetchRepositoryInfo(ctx context.Context, owner, name string) (*githubapi.RepositoryInfo, error) {
	var info *githubapi.RepositoryInfo
	err := t.exec.Execute(ctx, func() error {
		var err error
		info, err = t.api.FetchRepositoryInfo(ctx, owner, name)
		return err
	})
	return info, err
}
