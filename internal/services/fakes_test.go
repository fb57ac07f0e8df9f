package services

import (
	"context"
	"time"

	"github.com/contribsync/contribsync/internal/githubapi"
	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/pkg/datewindows"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeAPI implements GitHubAPI with overridable behaviors and call counters
type fakeAPI struct {
	userInfo       func(login string) (*githubapi.UserInfo, error)
	repoInfo       func(owner, name string) (*githubapi.RepositoryInfo, error)
	contributedTo  func(login string) ([]string, error)
	committedTo    func(login string) ([]string, error)
	commitHistory  func(owner, name string) ([]githubapi.CommitNode, error)
	pullRequests   func(login string, from, to time.Time) ([]githubapi.PullRequestNode, error)
	issues         func(login string, from, to time.Time) ([]githubapi.IssueNode, error)
	reviews        func(login string, from, to time.Time) ([]githubapi.ReviewNode, error)
	commitComments func(login string, from, to time.Time) ([]githubapi.CommitCommentNode, error)
	issueComments  func(login string, from, to time.Time) ([]githubapi.IssueCommentNode, error)

	repoInfoCalls int
}

func (f *fakeAPI) FetchUserInfo(ctx context.Context, login string) (*githubapi.UserInfo, error) {
	if f.userInfo != nil {
		return f.userInfo(login)
	}
	return &githubapi.UserInfo{ID: "U_" + login, URL: "https://github.com/" + login}, nil
}

func (f *fakeAPI) FetchRepositoryInfo(ctx context.Context, owner, name string) (*githubapi.RepositoryInfo, error) {
	f.repoInfoCalls++
	if f.repoInfo != nil {
		return f.repoInfo(owner, name)
	}
	info := &githubapi.RepositoryInfo{
		Name: name,
		ID:   "R_" + owner + "_" + name,
		URL:  "https://github.com/" + owner + "/" + name,
	}
	info.Owner.Login = owner
	return info, nil
}

func (f *fakeAPI) FetchRepositoriesContributedTo(ctx context.Context, login string, windows []datewindows.Window) ([]string, error) {
	if f.contributedTo != nil {
		return f.contributedTo(login)
	}
	return nil, nil
}

func (f *fakeAPI) FetchRepositoriesCommittedTo(ctx context.Context, login string, windows []datewindows.Window) ([]string, error) {
	if f.committedTo != nil {
		return f.committedTo(login)
	}
	return nil, nil
}

func (f *fakeAPI) FetchCommitHistory(ctx context.Context, owner, name, authorID string, from, to time.Time) ([]githubapi.CommitNode, error) {
	if f.commitHistory != nil {
		return f.commitHistory(owner, name)
	}
	return nil, nil
}

func (f *fakeAPI) FetchPullRequestContributions(ctx context.Context, login string, from, to time.Time) ([]githubapi.PullRequestNode, error) {
	if f.pullRequests != nil {
		return f.pullRequests(login, from, to)
	}
	return nil, nil
}

func (f *fakeAPI) FetchIssueContributions(ctx context.Context, login string, from, to time.Time) ([]githubapi.IssueNode, error) {
	if f.issues != nil {
		return f.issues(login, from, to)
	}
	return nil, nil
}

func (f *fakeAPI) FetchReviewContributions(ctx context.Context, login string, from, to time.Time) ([]githubapi.ReviewNode, error) {
	if f.reviews != nil {
		return f.reviews(login, from, to)
	}
	return nil, nil
}

func (f *fakeAPI) FetchCommitComments(ctx context.Context, login string, from, to time.Time) ([]githubapi.CommitCommentNode, error) {
	if f.commitComments != nil {
		return f.commitComments(login, from, to)
	}
	return nil, nil
}

func (f *fakeAPI) FetchIssueComments(ctx context.Context, login string, from, to time.Time) ([]githubapi.IssueCommentNode, error) {
	if f.issueComments != nil {
		return f.issueComments(login, from, to)
	}
	return nil, nil
}

// fakeRepoStore implements repositoryStore plus the bootstrap bulk operations
type fakeRepoStore struct {
	ids        map[string]primitive.ObjectID
	getResults []primitive.ObjectID
	insertErr  error

	getCalls    int
	insertCalls int
	upserted    []*models.Repository
}

func (s *fakeRepoStore) GetIDByOwnerName(ctx context.Context, owner, name string) (primitive.ObjectID, error) {
	s.getCalls++
	if len(s.getResults) > 0 {
		id := s.getResults[0]
		s.getResults = s.getResults[1:]
		return id, nil
	}
	if id, ok := s.ids[owner+"/"+name]; ok {
		return id, nil
	}
	return primitive.NilObjectID, nil
}

func (s *fakeRepoStore) InsertOne(ctx context.Context, repo *models.Repository) (primitive.ObjectID, error) {
	s.insertCalls++
	if s.insertErr != nil {
		err := s.insertErr
		s.insertErr = nil
		return primitive.NilObjectID, err
	}
	id := primitive.NewObjectID()
	if s.ids == nil {
		s.ids = make(map[string]primitive.ObjectID)
	}
	s.ids[repo.FullName()] = id
	return id, nil
}

func (s *fakeRepoStore) UpsertAll(ctx context.Context, repos []*models.Repository) error {
	s.upserted = append(s.upserted, repos...)
	for _, repo := range repos {
		if s.ids == nil {
			s.ids = make(map[string]primitive.ObjectID)
		}
		if _, ok := s.ids[repo.FullName()]; !ok {
			s.ids[repo.FullName()] = primitive.NewObjectID()
		}
	}
	return nil
}

func (s *fakeRepoStore) FindIDs(ctx context.Context, repos []*models.Repository) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(repos))
	for _, repo := range repos {
		if id, ok := s.ids[repo.FullName()]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// fakeUserStore implements both user store slices the services consume
type fakeUserStore struct {
	users map[string]*models.User

	inserted   []*models.User
	addedRepos [][]primitive.ObjectID
	watermarks map[primitive.ObjectID]time.Time
	insertErr  error
}

func (s *fakeUserStore) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return s.users[login], nil
}

func (s *fakeUserStore) GetIDByLogin(ctx context.Context, login string) (primitive.ObjectID, error) {
	if user, ok := s.users[login]; ok {
		return user.ID, nil
	}
	return primitive.NilObjectID, nil
}

func (s *fakeUserStore) InsertOne(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	if s.insertErr != nil {
		return primitive.NilObjectID, s.insertErr
	}
	user.ID = primitive.NewObjectID()
	if s.users == nil {
		s.users = make(map[string]*models.User)
	}
	s.users[user.Login] = user
	s.inserted = append(s.inserted, user)
	return user.ID, nil
}

func (s *fakeUserStore) AddRepositories(ctx context.Context, userID primitive.ObjectID, repoIDs []primitive.ObjectID) error {
	if len(repoIDs) > 0 {
		s.addedRepos = append(s.addedRepos, repoIDs)
	}
	return nil
}

func (s *fakeUserStore) SetUpdatedAt(ctx context.Context, userID primitive.ObjectID, t time.Time) error {
	if s.watermarks == nil {
		s.watermarks = make(map[primitive.ObjectID]time.Time)
	}
	s.watermarks[userID] = t
	return nil
}

// fakeWriter implements contributionWriter
type fakeWriter struct {
	inserted  []*models.ContributionBatch
	upserted  []*models.ContributionBatch
	deleted   []primitive.ObjectID
	insertErr error
	upsertErr error
}

func (w *fakeWriter) InsertBatch(ctx context.Context, batch *models.ContributionBatch) error {
	if w.insertErr != nil {
		return w.insertErr
	}
	w.inserted = append(w.inserted, batch)
	return nil
}

func (w *fakeWriter) UpsertBatch(ctx context.Context, batch *models.ContributionBatch) error {
	if w.upsertErr != nil {
		return w.upsertErr
	}
	w.upserted = append(w.upserted, batch)
	return nil
}

func (w *fakeWriter) DeleteUserData(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	w.deleted = append(w.deleted, userID)
	return 42, nil
}

// fakeInstallationStore implements installationStore
type fakeInstallationStore struct {
	upserted []*models.Installation
	statuses map[string]models.InstallationStatus
}

func (s *fakeInstallationStore) Upsert(ctx context.Context, installation *models.Installation) error {
	s.upserted = append(s.upserted, installation)
	return nil
}

func (s *fakeInstallationStore) SetStatus(ctx context.Context, login string, status models.InstallationStatus) error {
	if s.statuses == nil {
		s.statuses = make(map[string]models.InstallationStatus)
	}
	s.statuses[login] = status
	return nil
}

// fakeFetcher implements contributionFetcher, recording the ranges it was
// asked to cover.
type fakeFetcher struct {
	batches []*models.ContributionBatch
	ranges  [][2]time.Time
	err     error
}

func (f *fakeFetcher) Fetch(ctx context.Context, dw *datewindows.DateWindows, login string, userID primitive.ObjectID, authorGithubID string) (*models.ContributionBatch, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.ranges = append(f.ranges, [2]time.Time{dw.FromDate(), dw.ToDate()})
	if len(f.batches) > 0 {
		batch := f.batches[0]
		f.batches = f.batches[1:]
		return batch, nil
	}
	return &models.ContributionBatch{}, nil
}
