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
	"go.mongodb.org/mongo-driver/mongo"
)

// installationUserStore is the slice of UserRepository the lifecycle needs
type installationUserStore interface {
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetIDByLogin(ctx context.Context, login string) (primitive.ObjectID, error)
	InsertOne(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	AddRepositories(ctx context.Context, userID primitive.ObjectID, repoIDs []primitive.ObjectID) error
	SetUpdatedAt(ctx context.Context, userID primitive.ObjectID, t time.Time) error
}

// repositoryBatchStore covers the bulk operations the bootstrap pre-insert uses
type repositoryBatchStore interface {
	UpsertAll(ctx context.Context, repos []*models.Repository) error
	FindIDs(ctx context.Context, repos []*models.Repository) ([]primitive.ObjectID, error)
}

// installationStore tracks installation lifecycle records
type installationStore interface {
	Upsert(ctx context.Context, installation *models.Installation) error
	SetStatus(ctx context.Context, login string, status models.InstallationStatus) error
}

// contributionFetcher produces one range's worth of normalized contributions
type contributionFetcher interface {
	Fetch(ctx context.Context, dw *datewindows.DateWindows, login string, userID primitive.ObjectID, authorGithubID string) (*models.ContributionBatch, error)
}

// contributionWriter applies batches and cascading deletes transactionally
type contributionWriter interface {
	InsertBatch(ctx context.Context, batch *models.ContributionBatch) error
	UpsertBatch(ctx context.Context, batch *models.ContributionBatch) error
	DeleteUserData(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// EventHandler reacts to one installation lifecycle action
type EventHandler func(ctx context.Context, login string, installationID int64) error

// InstallationService owns the user lifecycle: bootstrap on install,
// incremental updates, cascading delete on uninstall, and the status
// bookkeeping for suspend cycles. All operations are idempotent so
// duplicate webhook deliveries are harmless.
type InstallationService struct {
	api           GitHubAPI
	exec          *githubapi.Executor
	contributions contributionFetcher
	users         installationUserStore
	repos         repositoryBatchStore
	installations installationStore
	writer        contributionWriter

	lookbackMonths int
	now            func() time.Time

	handlers map[string]EventHandler
}

func NewInstallationService(
	api GitHubAPI,
	exec *githubapi.Executor,
	contributions contributionFetcher,
	users installationUserStore,
	repos repositoryBatchStore,
	installations installationStore,
	writer contributionWriter,
	lookbackMonths int,
) *InstallationService {
	s := &InstallationService{
		api:            api,
		exec:           exec,
		contributions:  contributions,
		users:          users,
		repos:          repos,
		installations:  installations,
		writer:         writer,
		lookbackMonths: lookbackMonths,
		now:            time.Now,
	}

	s.handlers = map[string]EventHandler{
		"created":   s.OnInstall,
		"deleted":   s.OnUninstall,
		"suspend":   s.OnSuspend,
		"unsuspend": s.OnUnsuspend,
	}

	return s
}

// HandleEvent dispatches one installation action; unknown actions are ignored
func (s *InstallationService) HandleEvent(ctx context.Context, action, login string, installationID int64) error {
	handler, ok := s.handlers[action]
	if !ok {
		logger.WithFields(logrus.Fields{
			"action": action,
			"login":  login,
		}).Debug("Ignoring unhandled installation action")
		return nil
	}
	return handler(ctx, login, installationID)
}

// OnInstall records the installation and bootstraps the user
func (s *InstallationService) OnInstall(ctx context.Context, login string, installationID int64) error {
	if err := s.installations.Upsert(ctx, models.NewInstallation(login, installationID)); err != nil {
		return err
	}
	return s.CreateUser(ctx, login)
}

// OnUninstall marks the installation deleted and removes the user's data
func (s *InstallationService) OnUninstall(ctx context.Context, login string, installationID int64) error {
	if err := s.installations.SetStatus(ctx, login, models.InstallationDeleted); err != nil {
		return err
	}
	return s.DeleteUser(ctx, login)
}

// OnSuspend pauses the user without touching any synced data
func (s *InstallationService) OnSuspend(ctx context.Context, login string, installationID int64) error {
	return s.installations.SetStatus(ctx, login, models.InstallationSuspended)
}

// OnUnsuspend reactivates the user and catches up on missed contributions
func (s *InstallationService) OnUnsuspend(ctx context.Context, login string, installationID int64) error {
	if err := s.installations.SetStatus(ctx, login, models.InstallationActive); err != nil {
		return err
	}
	return s.UpdateUser(ctx, login)
}

// CreateUser bootstraps a user with their full lookback of contributions.
// Already-stored logins are a logged no-op. Failures partway through roll
// the partially inserted user back before surfacing.
func (s *InstallationService) CreateUser(ctx context.Context, login string) error {
	dw := datewindows.NewLookback(s.now(), 0, s.lookbackMonths, 0)

	existingID, err := s.users.GetIDByLogin(ctx, login)
	if err != nil {
		return err
	}
	if !existingID.IsZero() {
		logger.WithField("login", login).Warn("Creating new user: user already exists")
		return nil
	}

	var info *githubapi.UserInfo
	err = s.exec.Execute(ctx, func() error {
		var err error
		info, err = s.api.FetchUserInfo(ctx, login)
		return err
	})
	if err != nil {
		return err
	}
	user := userModel(login, info)

	userID, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.WithField("login", login).Warn("Creating new user: user already exists")
			return nil
		}
		return err
	}

	repoIDs, err := s.insertRepositoriesContributedTo(ctx, dw, login)
	if err != nil {
		return s.rollbackCreate(ctx, login, "Bootstrap failed inserting repositories", err)
	}
	if err := s.users.AddRepositories(ctx, userID, repoIDs); err != nil {
		return s.rollbackCreate(ctx, login, "Bootstrap failed updating user repositories", err)
	}

	batch, err := s.contributions.Fetch(ctx, dw, login, userID, user.Github.ID)
	if err != nil {
		return s.rollbackCreate(ctx, login, "Bootstrap failed fetching contributions", err)
	}

	if err := s.writer.InsertBatch(ctx, batch); err != nil {
		return s.rollbackCreate(ctx, login, "Bootstrap failed writing contributions", err)
	}

	logger.WithFields(logrus.Fields{
		"login":         login,
		"contributions": batch.Size(),
	}).Info("User successfully installed")
	return nil
}

// rollbackCreate compensates a failed bootstrap by deleting everything the
// partial run inserted, then surfaces the original error.
func (s *InstallationService) rollbackCreate(ctx context.Context, login, msg string, cause error) error {
	logger.WithError(cause).WithField("login", login).Error(msg)
	if err := s.DeleteUser(ctx, login); err != nil {
		logger.WithError(err).WithField("login", login).Error("Rollback of partial bootstrap failed")
	}
	return cause
}

// UpdateUser re-syncs the day of the user's watermark, then fetches the
// range from the day after up to now. The watermark only advances after a
// fully successful run, so a failed update is retried from the same point.
func (s *InstallationService) UpdateUser(ctx context.Context, login string) error {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return err
	}
	if user == nil {
		logger.WithField("login", login).Error("Cannot update user: not found in store")
		return nil
	}

	// Re-fetch the watermark day itself; anything written that day may
	// have changed after the previous sync captured it.
	dw := datewindows.New(user.UpdatedAt, user.UpdatedAt)
	batch, err := s.contributions.Fetch(ctx, dw, login, user.ID, user.Github.ID)
	if err != nil {
		return err
	}
	if err := s.writer.UpsertBatch(ctx, batch); err != nil {
		return err
	}

	dw.IncrementFromDate(0, 0, 1)
	now := s.now()
	dw.SetToDate(now)

	if len(dw.Monthly()) > 0 {
		batch, err = s.contributions.Fetch(ctx, dw, login, user.ID, user.Github.ID)
		if err != nil {
			return err
		}
		if err := s.writer.UpsertBatch(ctx, batch); err != nil {
			return err
		}
	}

	if err := s.users.SetUpdatedAt(ctx, user.ID, now); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"login": login,
		"since": user.UpdatedAt.Format(time.RFC3339),
	}).Info("User contributions updated")
	return nil
}

// DeleteUser removes the user and every contribution document they own.
// Unknown logins are a logged no-op so uninstall events can be replayed.
func (s *InstallationService) DeleteUser(ctx context.Context, login string) error {
	userID, err := s.users.GetIDByLogin(ctx, login)
	if err != nil {
		return err
	}
	if userID.IsZero() {
		logger.WithField("login", login).Warn("Deleting user: login not found, nothing to do")
		return nil
	}

	count, err := s.writer.DeleteUserData(ctx, userID)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"login":   login,
		"deleted": count,
	}).Warn("User successfully deleted")
	return nil
}

// insertRepositoriesContributedTo pre-inserts every repository the user
// touched during the lookback and returns their store ids.
func (s *InstallationService) insertRepositoriesContributedTo(ctx context.Context, dw *datewindows.DateWindows, login string) ([]primitive.ObjectID, error) {
	var names []string
	err := s.exec.Execute(ctx, func() error {
		var err error
		names, err = s.api.FetchRepositoriesContributedTo(ctx, login, dw.Monthly())
		return err
	})
	if err != nil {
		return nil, err
	}

	fetcher := &throttledRepositoryFetcher{api: s.api, exec: s.exec}
	repos := make([]*models.Repository, 0, len(names))
	for _, nameWithOwner := range names {
		owner, name := models.SplitFullName(nameWithOwner)
		info, err := fetcher.FetchRepositoryInfo(ctx, owner, name)
		if err != nil {
			return nil, err
		}
		repos = append(repos, repositoryModel(info))
	}

	if err := s.repos.UpsertAll(ctx, repos); err != nil {
		return nil, err
	}
	return s.repos.FindIDs(ctx, repos)
}
