package githubapi

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/contribsync/contribsync/pkg/datewindows"
)

// timeFormat matches the DateTime serialization the API expects
const timeFormat = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

type userInfoPayload struct {
	User *UserInfo `json:"user"`
}

// FetchUserInfo retrieves profile fields for a login
func (c *Client) FetchUserInfo(ctx context.Context, login string) (*UserInfo, error) {
	var payload userInfoPayload
	if err := c.Query(ctx, userInfoQuery, map[string]interface{}{"login": login}, &payload); err != nil {
		return nil, err
	}
	if payload.User == nil {
		return nil, fmt.Errorf("user %q not found", login)
	}
	return payload.User, nil
}

type repositoryInfoPayload struct {
	Repository *RepositoryInfo `json:"repository"`
}

// FetchRepositoryInfo retrieves metadata for a single repository
func (c *Client) FetchRepositoryInfo(ctx context.Context, owner, name string) (*RepositoryInfo, error) {
	var payload repositoryInfoPayload
	vars := map[string]interface{}{"owner": owner, "name": name}
	if err := c.Query(ctx, repositoryInfoQuery, vars, &payload); err != nil {
		return nil, err
	}
	if payload.Repository == nil {
		return nil, fmt.Errorf("repository %s/%s not found", owner, name)
	}
	return payload.Repository, nil
}

type repoBucket struct {
	Repository RepositoryRef `json:"repository"`
}

type contributedToPayload struct {
	User struct {
		ContributionsCollection struct {
			IssueContributionsByRepository             []repoBucket `json:"issueContributionsByRepository"`
			CommitContributionsByRepository            []repoBucket `json:"commitContributionsByRepository"`
			PullRequestContributionsByRepository       []repoBucket `json:"pullRequestContributionsByRepository"`
			PullRequestReviewContributionsByRepository []repoBucket `json:"pullRequestReviewContributionsByRepository"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// FetchRepositoriesContributedTo returns the deduplicated nameWithOwner set
// of every repository the user touched in any of the given windows,
// across all four contribution kinds the API buckets by repository.
func (c *Client) FetchRepositoriesContributedTo(ctx context.Context, login string, windows []datewindows.Window) ([]string, error) {
	seen := make(map[string]struct{})
	for _, w := range windows {
		var payload contributedToPayload
		vars := map[string]interface{}{
			"login":    login,
			"fromDate": formatTime(w.Start),
			"toDate":   formatTime(w.End),
		}
		if err := c.Query(ctx, repositoriesContributedToQuery, vars, &payload); err != nil {
			return nil, err
		}
		cc := payload.User.ContributionsCollection
		for _, buckets := range [][]repoBucket{
			cc.IssueContributionsByRepository,
			cc.CommitContributionsByRepository,
			cc.PullRequestContributionsByRepository,
			cc.PullRequestReviewContributionsByRepository,
		} {
			for _, b := range buckets {
				seen[b.Repository.NameWithOwner] = struct{}{}
			}
		}
	}
	return sortedKeys(seen), nil
}

type committedToPayload struct {
	User struct {
		ContributionsCollection struct {
			CommitContributionsByRepository []repoBucket `json:"commitContributionsByRepository"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// FetchRepositoriesCommittedTo returns the deduplicated nameWithOwner set of
// repositories the user committed to in any of the given windows.
func (c *Client) FetchRepositoriesCommittedTo(ctx context.Context, login string, windows []datewindows.Window) ([]string, error) {
	seen := make(map[string]struct{})
	for _, w := range windows {
		var payload committedToPayload
		vars := map[string]interface{}{
			"login":    login,
			"fromDate": formatTime(w.Start),
			"toDate":   formatTime(w.End),
		}
		if err := c.Query(ctx, repositoriesCommittedToQuery, vars, &payload); err != nil {
			return nil, err
		}
		for _, b := range payload.User.ContributionsCollection.CommitContributionsByRepository {
			seen[b.Repository.NameWithOwner] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type commitHistoryPayload struct {
	Repository struct {
		DefaultBranchRef *struct {
			Target struct {
				History struct {
					TotalCount int          `json:"totalCount"`
					PageInfo   PageInfo     `json:"pageInfo"`
					Nodes      []CommitNode `json:"nodes"`
				} `json:"history"`
			} `json:"target"`
		} `json:"defaultBranchRef"`
	} `json:"repository"`
}

// FetchCommitHistory walks the default-branch history of one repository for
// commits authored by authorId within [from, to]. Repositories without a
// default branch yield no commits.
func (c *Client) FetchCommitHistory(ctx context.Context, owner, name, authorID string, from, to time.Time) ([]CommitNode, error) {
	var commits []CommitNode
	var cursor string

	for {
		vars := map[string]interface{}{
			"owner":    owner,
			"name":     name,
			"authorId": authorID,
			"fromDate": formatTime(from),
			"toDate":   formatTime(to),
			"pageSize": c.pageSize,
		}
		if cursor != "" {
			vars["cursor"] = cursor
		}

		var payload commitHistoryPayload
		if err := c.Query(ctx, commitHistoryQuery, vars, &payload); err != nil {
			return nil, err
		}
		if payload.Repository.DefaultBranchRef == nil {
			return commits, nil
		}

		history := payload.Repository.DefaultBranchRef.Target.History
		commits = append(commits, history.Nodes...)

		if !history.PageInfo.HasNextPage {
			return commits, nil
		}
		cursor = history.PageInfo.EndCursor
	}
}

type pullRequestContributionsPayload struct {
	User struct {
		ContributionsCollection struct {
			PullRequestContributions struct {
				TotalCount int      `json:"totalCount"`
				PageInfo   PageInfo `json:"pageInfo"`
				Nodes      []struct {
					PullRequest PullRequestNode `json:"pullRequest"`
				} `json:"nodes"`
			} `json:"pullRequestContributions"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// FetchPullRequestContributions collects every pull request the user opened
// within the window, following forward pagination to exhaustion.
func (c *Client) FetchPullRequestContributions(ctx context.Context, login string, from, to time.Time) ([]PullRequestNode, error) {
	var prs []PullRequestNode
	var cursor string

	for {
		vars := contributionVars(login, from, to, cursor)

		var payload pullRequestContributionsPayload
		if err := c.Query(ctx, pullRequestContributionsQuery, vars, &payload); err != nil {
			return nil, err
		}

		conn := payload.User.ContributionsCollection.PullRequestContributions
		for _, node := range conn.Nodes {
			prs = append(prs, node.PullRequest)
		}

		if !conn.PageInfo.HasNextPage {
			return prs, nil
		}
		cursor = conn.PageInfo.EndCursor
	}
}

type issueContributionsPayload struct {
	User struct {
		ContributionsCollection struct {
			IssueContributions struct {
				TotalCount int      `json:"totalCount"`
				PageInfo   PageInfo `json:"pageInfo"`
				Nodes      []struct {
					Issue IssueNode `json:"issue"`
				} `json:"nodes"`
			} `json:"issueContributions"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// FetchIssueContributions collects every issue the user opened within the window
func (c *Client) FetchIssueContributions(ctx context.Context, login string, from, to time.Time) ([]IssueNode, error) {
	var issues []IssueNode
	var cursor string

	for {
		vars := contributionVars(login, from, to, cursor)

		var payload issueContributionsPayload
		if err := c.Query(ctx, issueContributionsQuery, vars, &payload); err != nil {
			return nil, err
		}

		conn := payload.User.ContributionsCollection.IssueContributions
		for _, node := range conn.Nodes {
			issues = append(issues, node.Issue)
		}

		if !conn.PageInfo.HasNextPage {
			return issues, nil
		}
		cursor = conn.PageInfo.EndCursor
	}
}

type reviewContributionsPayload struct {
	User struct {
		ContributionsCollection struct {
			PullRequestReviewContributions struct {
				TotalCount int      `json:"totalCount"`
				PageInfo   PageInfo `json:"pageInfo"`
				Nodes      []struct {
					PullRequestReview ReviewNode `json:"pullRequestReview"`
				} `json:"nodes"`
			} `json:"pullRequestReviewContributions"`
		} `json:"contributionsCollection"`
	} `json:"user"`
}

// FetchReviewContributions collects every pull request review the user
// submitted within the window.
func (c *Client) FetchReviewContributions(ctx context.Context, login string, from, to time.Time) ([]ReviewNode, error) {
	var reviews []ReviewNode
	var cursor string

	for {
		vars := contributionVars(login, from, to, cursor)

		var payload reviewContributionsPayload
		if err := c.Query(ctx, pullRequestReviewContributionsQuery, vars, &payload); err != nil {
			return nil, err
		}

		conn := payload.User.ContributionsCollection.PullRequestReviewContributions
		for _, node := range conn.Nodes {
			reviews = append(reviews, node.PullRequestReview)
		}

		if !conn.PageInfo.HasNextPage {
			return reviews, nil
		}
		cursor = conn.PageInfo.EndCursor
	}
}

func contributionVars(login string, from, to time.Time, cursor string) map[string]interface{} {
	vars := map[string]interface{}{
		"login":    login,
		"fromDate": formatTime(from),
		"toDate":   formatTime(to),
	}
	if cursor != "" {
		vars["cursor"] = cursor
	}
	return vars
}

type commitCommentsPayload struct {
	User struct {
		CommitComments struct {
			TotalCount int                 `json:"totalCount"`
			PageInfo   PageInfo            `json:"pageInfo"`
			Nodes      []CommitCommentNode `json:"nodes"`
		} `json:"commitComments"`
	} `json:"user"`
}

// FetchCommitComments pages the user's commit comment feed backward from the
// newest entry. The feed cannot be range-scoped server-side, so the walk
// stops once the newest node on a page predates from, and the collected
// nodes are filtered to [from, to] inclusive.
func (c *Client) FetchCommitComments(ctx context.Context, login string, from, to time.Time) ([]CommitCommentNode, error) {
	var comments []CommitCommentNode
	var cursor string

	for {
		vars := map[string]interface{}{"login": login}
		if cursor != "" {
			vars["cursor"] = cursor
		}

		var payload commitCommentsPayload
		if err := c.Query(ctx, commitCommentsQuery, vars, &payload); err != nil {
			return nil, err
		}

		conn := payload.User.CommitComments
		comments = append(comments, conn.Nodes...)

		if len(conn.Nodes) > 0 && from.After(conn.Nodes[0].PublishedAt) {
			break
		}
		if !conn.PageInfo.HasPreviousPage {
			break
		}
		cursor = conn.PageInfo.StartCursor
	}

	filtered := comments[:0]
	for _, cc := range comments {
		if inRange(cc.PublishedAt, from, to) {
			filtered = append(filtered, cc)
		}
	}
	return filtered, nil
}

type issueCommentsPayload struct {
	User struct {
		IssueComments struct {
			TotalCount int                `json:"totalCount"`
			PageInfo   PageInfo           `json:"pageInfo"`
			Nodes      []IssueCommentNode `json:"nodes"`
		} `json:"issueComments"`
	} `json:"user"`
}

// FetchIssueComments pages the user's issue comment feed backward with the
// same early-stop and range filter as FetchCommitComments.
func (c *Client) FetchIssueComments(ctx context.Context, login string, from, to time.Time) ([]IssueCommentNode, error) {
	var comments []IssueCommentNode
	var cursor string

	for {
		vars := map[string]interface{}{"login": login}
		if cursor != "" {
			vars["cursor"] = cursor
		}

		var payload issueCommentsPayload
		if err := c.Query(ctx, issueCommentsQuery, vars, &payload); err != nil {
			return nil, err
		}

		conn := payload.User.IssueComments
		comments = append(comments, conn.Nodes...)

		if len(conn.Nodes) > 0 && from.After(conn.Nodes[0].PublishedAt) {
			break
		}
		if !conn.PageInfo.HasPreviousPage {
			break
		}
		cursor = conn.PageInfo.StartCursor
	}

	filtered := comments[:0]
	for _, ic := range comments {
		if inRange(ic.PublishedAt, from, to) {
			filtered = append(filtered, ic)
		}
	}
	return filtered, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
