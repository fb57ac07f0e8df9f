package services

import (
	"github.com/contribsync/contribsync/internal/githubapi"
	"github.com/contribsync/contribsync/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mappers normalize raw API nodes into store documents. Remote identifiers
// land under github.{id,url} so every kind shares the same upsert key.

func userModel(login string, info *githubapi.UserInfo) *models.User {
	user := models.NewUser(login)
	user.Name = info.Name
	user.Bio = info.Bio
	user.Email = info.Email
	user.AvatarURL = info.AvatarURL
	user.TwitterUsername = info.TwitterUsername
	user.WebsiteURL = info.WebsiteURL
	user.Github = models.Github{ID: info.ID, URL: info.URL}
	return user
}

func repositoryModel(info *githubapi.RepositoryInfo) *models.Repository {
	languages := make([]models.Language, 0, len(info.Languages.Edges))
	for _, edge := range info.Languages.Edges {
		var percentage float64
		if info.Languages.TotalSize > 0 {
			percentage = float64(edge.Size) / float64(info.Languages.TotalSize)
		}
		languages = append(languages, models.Language{
			Name:       edge.Node.Name,
			Size:       edge.Size,
			Percentage: percentage,
		})
	}

	topics := make([]models.Topic, 0, len(info.RepositoryTopics.Nodes))
	for _, node := range info.RepositoryTopics.Nodes {
		topics = append(topics, models.Topic{Name: node.Topic.Name})
	}

	var primaryLanguage string
	if info.PrimaryLanguage != nil {
		primaryLanguage = info.PrimaryLanguage.Name
	}

	return &models.Repository{
		Owner:           info.Owner.Login,
		Name:            info.Name,
		Github:          models.Github{ID: info.ID, URL: info.URL},
		Labels:          labelModels(info.Labels.Nodes),
		LabelsCount:     info.Labels.TotalCount,
		PrimaryLanguage: primaryLanguage,
		Languages:       languages,
		LanguagesCount:  info.Languages.TotalCount,
		LanguagesSize:   info.Languages.TotalSize,
		Topics:          topics,
		TopicsCount:     info.RepositoryTopics.TotalCount,
		ForkCount:       info.ForkCount,
		StargazerCount:  info.StargazerCount,
		WatchersCount:   info.Watchers.TotalCount,
	}
}

func pullRequestModel(userID, repositoryID primitive.ObjectID, pr *githubapi.PullRequestNode) *models.PullRequest {
	commits := make([]models.EmbeddedCommit, 0, len(pr.Commits.Nodes))
	for _, node := range pr.Commits.Nodes {
		commits = append(commits, models.EmbeddedCommit{
			Github:       models.Github{ID: node.Commit.ID, URL: node.Commit.CommitURL},
			Additions:    node.Commit.Additions,
			Deletions:    node.Commit.Deletions,
			ChangedFiles: node.Commit.ChangedFiles,
		})
	}

	references := make([]models.ClosingIssueReference, 0, len(pr.ClosingIssuesReferences.Nodes))
	for _, node := range pr.ClosingIssuesReferences.Nodes {
		references = append(references, models.ClosingIssueReference{
			Github: models.Github{ID: node.ID, URL: node.URL},
		})
	}

	return &models.PullRequest{
		UserID:       userID,
		RepositoryID: repositoryID,
		Github:       models.Github{ID: pr.ID, URL: pr.URL},

		CreatedAt:      pr.CreatedAt,
		UpdatedAt:      pr.UpdatedAt,
		MergedAt:       pr.MergedAt,
		ClosedAt:       pr.ClosedAt,
		State:          pr.State,
		Title:          pr.Title,
		Body:           pr.Body,
		ReactionsCount: pr.Reactions.TotalCount,
		Labels:         labelModels(pr.Labels.Nodes),

		Commits:                      commits,
		CommitsCount:                 pr.Commits.TotalCount,
		CommentsCount:                pr.Comments.TotalCount,
		ClosingIssuesReferences:      references,
		ClosingIssuesReferencesCount: pr.ClosingIssuesReferences.TotalCount,
	}
}

func reviewModel(userID, repositoryID primitive.ObjectID, review *githubapi.ReviewNode) *models.PullRequestReview {
	comments := make([]models.ReviewComment, 0, len(review.Comments.Nodes))
	for _, node := range review.Comments.Nodes {
		comments = append(comments, models.ReviewComment{
			Login:  node.Author.Login,
			Github: models.Github{ID: node.ID, URL: node.URL},
			Body:   node.Body,
		})
	}

	doc := &models.PullRequestReview{
		UserID:       userID,
		RepositoryID: repositoryID,
		Github:       models.Github{ID: review.ID, URL: review.URL},

		CreatedAt:    review.CreatedAt,
		SubmittedAt:  review.SubmittedAt,
		UpdatedAt:    review.UpdatedAt,
		PublishedAt:  review.PublishedAt,
		LastEditedAt: review.LastEditedAt,
		State:        review.State,
		Body:         review.Body,

		Comments:      comments,
		CommentsCount: review.Comments.TotalCount,
	}
	doc.PullRequest.Github = models.Github{ID: review.PullRequest.ID, URL: review.PullRequest.URL}
	return doc
}

func issueModel(userID, repositoryID primitive.ObjectID, issue *githubapi.IssueNode) *models.Issue {
	var closer *string
	if len(issue.TimelineItems.Nodes) > 0 && issue.TimelineItems.Nodes[0].Actor != nil {
		login := issue.TimelineItems.Nodes[0].Actor.Login
		closer = &login
	}

	return &models.Issue{
		UserID:       userID,
		RepositoryID: repositoryID,
		Github:       models.Github{ID: issue.ID, URL: issue.URL},

		CreatedAt:      issue.CreatedAt,
		UpdatedAt:      issue.UpdatedAt,
		ClosedAt:       issue.ClosedAt,
		State:          issue.State,
		Title:          issue.Title,
		Body:           issue.Body,
		ReactionsCount: issue.Reactions.TotalCount,
		Labels:         labelModels(issue.Labels.Nodes),
		CloserLogin:    closer,
	}
}

func commitModel(userID, repositoryID primitive.ObjectID, commit *githubapi.CommitNode) *models.Commit {
	comments := make([]models.EmbeddedCommitComment, 0, len(commit.Comments.Nodes))
	for _, node := range commit.Comments.Nodes {
		var authorLogin string
		if node.Author != nil {
			authorLogin = node.Author.Login
		}
		comments = append(comments, models.EmbeddedCommitComment{
			AuthorLogin:    authorLogin,
			PublishedAt:    node.PublishedAt,
			Position:       node.Position,
			ReactionsCount: node.Reactions.TotalCount,
			Body:           node.Body,
		})
	}

	pullRequests := make([]models.AssociatedPullRequest, 0, len(commit.AssociatedPullRequests.Nodes))
	for _, node := range commit.AssociatedPullRequests.Nodes {
		pullRequests = append(pullRequests, models.AssociatedPullRequest{
			Github: models.Github{ID: node.ID, URL: node.URL},
		})
	}

	return &models.Commit{
		UserID:       userID,
		RepositoryID: repositoryID,
		Github:       models.Github{ID: commit.ID, URL: commit.CommitURL},

		CommittedDate: commit.CommittedDate,
		PushedDate:    commit.PushedDate,
		Additions:     commit.Additions,
		Deletions:     commit.Deletions,
		ChangedFiles:  commit.ChangedFiles,
		Message:       commit.Message,

		CommentsCount:               len(comments),
		Comments:                    comments,
		AssociatedPullRequestsCount: len(pullRequests),
		AssociatedPullRequests:      pullRequests,
	}
}

func commitCommentModel(userID, repositoryID primitive.ObjectID, comment *githubapi.CommitCommentNode) *models.CommitComment {
	doc := &models.CommitComment{
		UserID:       userID,
		RepositoryID: repositoryID,
		Github:       models.Github{ID: comment.ID, URL: comment.URL},

		CreatedAt:      comment.CreatedAt,
		PublishedAt:    comment.PublishedAt,
		UpdatedAt:      comment.UpdatedAt,
		LastEditedAt:   comment.LastEditedAt,
		Position:       comment.Position,
		ReactionsCount: comment.Reactions.TotalCount,
		Body:           comment.Body,
	}
	doc.Commit.Github = models.Github{ID: comment.Commit.ID, URL: comment.Commit.CommitURL}
	return doc
}

func issueCommentModel(userID, repositoryID primitive.ObjectID, comment *githubapi.IssueCommentNode) *models.IssueComment {
	issue := models.AssociatedIssue{Type: "Issue"}
	if comment.PullRequest != nil {
		issue.Type = "PullRequest"
	}
	if comment.Issue != nil {
		issue.Github = models.Github{ID: comment.Issue.ID, URL: comment.Issue.URL}
	}

	return &models.IssueComment{
		UserID:       userID,
		RepositoryID: repositoryID,
		Github:       models.Github{ID: comment.ID, URL: comment.URL},

		Issue: issue,

		CreatedAt:      comment.CreatedAt,
		PublishedAt:    comment.PublishedAt,
		UpdatedAt:      comment.UpdatedAt,
		LastEditedAt:   comment.LastEditedAt,
		ReactionsCount: comment.Reactions.TotalCount,
		Body:           comment.Body,
	}
}

func labelModels(nodes []githubapi.LabelNode) []models.Label {
	labels := make([]models.Label, 0, len(nodes))
	for _, node := range nodes {
		labels = append(labels, models.Label{Name: node.Name, Description: node.Description})
	}
	return labels
}
