package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contribsync/contribsync/internal/githubapi"
	"github.com/contribsync/contribsync/internal/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type installationFixture struct {
	service       *InstallationService
	api           *fakeAPI
	users         *fakeUserStore
	repos         *fakeRepoStore
	installations *fakeInstallationStore
	fetcher       *fakeFetcher
	writer        *fakeWriter
}

func newInstallationFixture() *installationFixture {
	f := &installationFixture{
		api:           &fakeAPI{},
		users:         &fakeUserStore{},
		repos:         &fakeRepoStore{},
		installations: &fakeInstallationStore{},
		fetcher:       &fakeFetcher{},
		writer:        &fakeWriter{},
	}
	f.service = NewInstallationService(
		f.api, githubapi.NewExecutor(), f.fetcher,
		f.users, f.repos, f.installations, f.writer, 6,
	)
	return f
}

func storedUser(login string, updatedAt time.Time) *models.User {
	user := models.NewUser(login)
	user.ID = primitive.NewObjectID()
	user.Github = models.Github{ID: "U_" + login}
	user.UpdatedAt = updatedAt
	return user
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("bootstraps a new user", func(t *testing.T) {
		f := newInstallationFixture()
		f.api.contributedTo = func(login string) ([]string, error) {
			return []string{"alice/widgets", "bob/gadgets"}, nil
		}
		f.fetcher.batches = []*models.ContributionBatch{
			{PullRequests: []*models.PullRequest{{Github: models.Github{ID: "PR_1"}}}},
		}

		err := f.service.CreateUser(ctx, "alice")
		assert.NoError(t, err)

		assert.Len(t, f.users.inserted, 1)
		assert.Equal(t, "alice", f.users.inserted[0].Login)
		assert.Equal(t, "U_alice", f.users.inserted[0].Github.ID)

		// contributed-to repositories are pre-inserted and folded into the user
		assert.Len(t, f.repos.upserted, 2)
		assert.Len(t, f.users.addedRepos, 1)
		assert.Len(t, f.users.addedRepos[0], 2)

		assert.Len(t, f.writer.inserted, 1)
		assert.Len(t, f.writer.inserted[0].PullRequests, 1)
		assert.Empty(t, f.writer.deleted)
	})

	t.Run("existing login is a no-op", func(t *testing.T) {
		f := newInstallationFixture()
		f.users.users = map[string]*models.User{
			"alice": storedUser("alice", time.Now()),
		}
		userInfoCalls := 0
		f.api.userInfo = func(login string) (*githubapi.UserInfo, error) {
			userInfoCalls++
			return nil, errors.New("should not be called")
		}

		err := f.service.CreateUser(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, 0, userInfoCalls)
		assert.Empty(t, f.writer.inserted)
	})

	t.Run("write failure rolls the user back", func(t *testing.T) {
		f := newInstallationFixture()
		f.writer.insertErr = errors.New("write failed")

		err := f.service.CreateUser(ctx, "alice")
		assert.Error(t, err)
		assert.ErrorContains(t, err, "write failed")

		// the partially inserted user is compensated away
		assert.Len(t, f.writer.deleted, 1)
		assert.Equal(t, f.users.inserted[0].ID, f.writer.deleted[0])
	})

	t.Run("fetch failure rolls the user back", func(t *testing.T) {
		f := newInstallationFixture()
		f.fetcher.err = errors.New("fetch failed")

		err := f.service.CreateUser(ctx, "alice")
		assert.Error(t, err)
		assert.Len(t, f.writer.deleted, 1)
		assert.Empty(t, f.writer.inserted)
	})

	t.Run("user info failure inserts nothing", func(t *testing.T) {
		f := newInstallationFixture()
		f.api.userInfo = func(login string) (*githubapi.UserInfo, error) {
			return nil, errors.New("boom")
		}

		err := f.service.CreateUser(ctx, "alice")
		assert.Error(t, err)
		assert.Empty(t, f.users.inserted)
		assert.Empty(t, f.writer.deleted)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC)

	t.Run("unknown login is a no-op", func(t *testing.T) {
		f := newInstallationFixture()

		err := f.service.UpdateUser(ctx, "ghost")
		assert.NoError(t, err)
		assert.Empty(t, f.fetcher.ranges)
		assert.Empty(t, f.writer.upserted)
	})

	t.Run("re-syncs the watermark day then catches up", func(t *testing.T) {
		f := newInstallationFixture()
		f.service.now = func() time.Time { return now }
		watermark := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
		user := storedUser("alice", watermark)
		f.users.users = map[string]*models.User{"alice": user}

		err := f.service.UpdateUser(ctx, "alice")
		assert.NoError(t, err)

		assert.Len(t, f.fetcher.ranges, 2)
		// first pass covers exactly the watermark day
		assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), f.fetcher.ranges[0][0])
		assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC).Day(), f.fetcher.ranges[0][1].Day())
		// second pass starts the day after and runs up to now
		assert.Equal(t, time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC), f.fetcher.ranges[1][0])
		assert.Equal(t, now.Day(), f.fetcher.ranges[1][1].Day())

		assert.Len(t, f.writer.upserted, 2)
		assert.Equal(t, now, f.users.watermarks[user.ID])
	})

	t.Run("watermark from today skips the catch-up pass", func(t *testing.T) {
		f := newInstallationFixture()
		f.service.now = func() time.Time { return now }
		user := storedUser("alice", now.Add(-2*time.Hour))
		f.users.users = map[string]*models.User{"alice": user}

		err := f.service.UpdateUser(ctx, "alice")
		assert.NoError(t, err)

		assert.Len(t, f.fetcher.ranges, 1)
		assert.Len(t, f.writer.upserted, 1)
		// a fully successful run still advances the watermark
		assert.Equal(t, now, f.users.watermarks[user.ID])
	})

	t.Run("fetch failure leaves the watermark untouched", func(t *testing.T) {
		f := newInstallationFixture()
		f.service.now = func() time.Time { return now }
		user := storedUser("alice", now.AddDate(0, 0, -10))
		f.users.users = map[string]*models.User{"alice": user}
		f.fetcher.err = errors.New("boom")

		err := f.service.UpdateUser(ctx, "alice")
		assert.Error(t, err)
		assert.Empty(t, f.users.watermarks)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the stored user's data", func(t *testing.T) {
		f := newInstallationFixture()
		user := storedUser("alice", time.Now())
		f.users.users = map[string]*models.User{"alice": user}

		err := f.service.DeleteUser(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{user.ID}, f.writer.deleted)
	})

	t.Run("unknown login is a no-op", func(t *testing.T) {
		f := newInstallationFixture()

		err := f.service.DeleteUser(ctx, "ghost")
		assert.NoError(t, err)
		assert.Empty(t, f.writer.deleted)
	})
}

func TestHandleEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("created records the installation and bootstraps", func(t *testing.T) {
		f := newInstallationFixture()

		err := f.service.HandleEvent(ctx, "created", "alice", 101)
		assert.NoError(t, err)

		assert.Len(t, f.installations.upserted, 1)
		assert.Equal(t, "alice", f.installations.upserted[0].Login)
		assert.Equal(t, int64(101), f.installations.upserted[0].InstallationID)
		assert.Equal(t, models.InstallationActive, f.installations.upserted[0].Status)
		assert.Len(t, f.users.inserted, 1)
	})

	t.Run("deleted removes the user", func(t *testing.T) {
		f := newInstallationFixture()
		user := storedUser("alice", time.Now())
		f.users.users = map[string]*models.User{"alice": user}

		err := f.service.HandleEvent(ctx, "deleted", "alice", 101)
		assert.NoError(t, err)
		assert.Equal(t, models.InstallationDeleted, f.installations.statuses["alice"])
		assert.Len(t, f.writer.deleted, 1)
	})

	t.Run("suspend only flips the status", func(t *testing.T) {
		f := newInstallationFixture()
		user := storedUser("alice", time.Now())
		f.users.users = map[string]*models.User{"alice": user}

		err := f.service.HandleEvent(ctx, "suspend", "alice", 101)
		assert.NoError(t, err)
		assert.Equal(t, models.InstallationSuspended, f.installations.statuses["alice"])
		assert.Empty(t, f.writer.deleted)
		assert.Empty(t, f.fetcher.ranges)
	})

	t.Run("unsuspend reactivates and catches up", func(t *testing.T) {
		f := newInstallationFixture()
		user := storedUser("alice", time.Now().AddDate(0, 0, -3))
		f.users.users = map[string]*models.User{"alice": user}

		err := f.service.HandleEvent(ctx, "unsuspend", "alice", 101)
		assert.NoError(t, err)
		assert.Equal(t, models.InstallationActive, f.installations.statuses["alice"])
		assert.NotEmpty(t, f.fetcher.ranges)
	})

	t.Run("unknown action is ignored", func(t *testing.T) {
		f := newInstallationFixture()

		err := f.service.HandleEvent(ctx, "new_permissions_accepted", "alice", 101)
		assert.NoError(t, err)
		assert.Empty(t, f.installations.upserted)
		assert.Empty(t, f.users.inserted)
	})
}
