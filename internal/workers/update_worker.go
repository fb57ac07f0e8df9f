package workers

import (
	"context"
	"time"

	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/pkg/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// userUpdater re-syncs one user's contributions
type userUpdater interface {
	UpdateUser(ctx context.Context, login string) error
}

// staleUserLister finds users whose sync watermark is older than a cutoff
type staleUserLister interface {
	ListStale(ctx context.Context, cutoff time.Time) ([]*models.User, error)
}

// installationLister reports which logins currently hold an active installation
type installationLister interface {
	ListActive(ctx context.Context) ([]*models.Installation, error)
}

// UpdateWorker periodically re-syncs users whose watermark has gone stale.
// Background passes only cover logins with an active installation; suspended
// and uninstalled users wait until their lifecycle reactivates them. One pass
// updates all eligible users concurrently; per-user failures are logged and
// never abort the pass.
type UpdateWorker struct {
	updater       userUpdater
	users         staleUserLister
	installations installationLister
	interval      time.Duration
	staleAfter    time.Duration

	stopChan chan struct{}
	running  bool
}

func NewUpdateWorker(updater userUpdater, users staleUserLister, installations installationLister, interval, staleAfter time.Duration) *UpdateWorker {
	return &UpdateWorker{
		updater:       updater,
		users:         users,
		installations: installations,
		interval:      interval,
		staleAfter:    staleAfter,
		stopChan:      make(chan struct{}),
	}
}

// Start runs update passes until the context is cancelled or Stop is called
func (w *UpdateWorker) Start(ctx context.Context) error {
	w.running = true
	logger.WithField("interval", w.interval.String()).Info("Update worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Update worker stopping due to context cancellation")
			return ctx.Err()
		case <-w.stopChan:
			logger.Info("Update worker stopping")
			return nil
		case <-ticker.C:
			w.runPass(ctx)
		}
	}
}

// Stop gracefully stops the worker
func (w *UpdateWorker) Stop() {
	if w.running {
		w.running = false
		close(w.stopChan)
	}
}

func (w *UpdateWorker) runPass(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.staleAfter)

	users, err := w.users.ListStale(ctx, cutoff)
	if err != nil {
		logger.WithError(err).Error("Update worker failed to list stale users")
		return
	}
	if len(users) == 0 {
		logger.Debug("Update worker found no stale users")
		return
	}

	installations, err := w.installations.ListActive(ctx)
	if err != nil {
		logger.WithError(err).Error("Update worker failed to list active installations")
		return
	}
	active := make(map[string]struct{}, len(installations))
	for _, installation := range installations {
		active[installation.Login] = struct{}{}
	}

	eligible := users[:0]
	for _, user := range users {
		if _, ok := active[user.Login]; ok {
			eligible = append(eligible, user)
			continue
		}
		logger.WithField("login", user.Login).Debug("Skipping stale user without active installation")
	}
	if len(eligible) == 0 {
		logger.Debug("Update worker found no stale users with active installations")
		return
	}

	logger.WithFields(logrus.Fields{
		"users":  len(eligible),
		"cutoff": cutoff.Format(time.RFC3339),
	}).Info("Update worker pass starting")

	g, gctx := errgroup.WithContext(ctx)
	for _, user := range eligible {
		login := user.Login
		g.Go(func() error {
			if err := w.updater.UpdateUser(gctx, login); err != nil {
				logger.WithError(err).WithField("login", login).Error("Update worker failed to update user")
			}
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("Update worker pass finished")
}
