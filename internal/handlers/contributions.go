package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/internal/services"
	"github.com/contribsync/contribsync/pkg/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// staleUserLister finds users whose sync watermark is older than a cutoff
type staleUserLister interface {
	ListStale(ctx context.Context, cutoff time.Time) ([]*models.User, error)
}

type ContributionsHandler struct {
	installationService *services.InstallationService
	users               staleUserLister
}

func NewContributionsHandler(installationService *services.InstallationService, users staleUserLister) *ContributionsHandler {
	return &ContributionsHandler{
		installationService: installationService,
		users:               users,
	}
}

// Bootstrap syncs a user's full lookback of contributions
func (h *ContributionsHandler) Bootstrap(c *gin.Context) {
	login := c.Param("login")

	if err := h.installationService.CreateUser(c.Request.Context(), login); err != nil {
		logger.WithError(err).WithField("login", login).Error("Bootstrap failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "bootstrap failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"login": login})
}

// Update syncs one user's contributions since their watermark
func (h *ContributionsHandler) Update(c *gin.Context) {
	login := c.Param("login")

	if err := h.installationService.UpdateUser(c.Request.Context(), login); err != nil {
		logger.WithError(err).WithField("login", login).Error("Update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"login": login})
}

// Delete removes a user and all their synced contributions
func (h *ContributionsHandler) Delete(c *gin.Context) {
	login := c.Param("login")

	if err := h.installationService.DeleteUser(c.Request.Context(), login); err != nil {
		logger.WithError(err).WithField("login", login).Error("Delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"login": login})
}

type updateStaleRequest struct {
	UpdatedAtTimestamp int64 `json:"updated_at_timestamp" binding:"required"`
}

// UpdateStale re-syncs every user whose watermark predates the given
// millisecond timestamp. Users run concurrently; per-user failures are
// logged and the rest continue.
func (h *ContributionsHandler) UpdateStale(c *gin.Context) {
	var req updateStaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "updated_at_timestamp is required"})
		return
	}

	cutoff := time.UnixMilli(req.UpdatedAtTimestamp).UTC()

	users, err := h.users.ListStale(c.Request.Context(), cutoff)
	if err != nil {
		logger.WithError(err).Error("Failed to list stale users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	g, ctx := errgroup.WithContext(c.Request.Context())
	for _, user := range users {
		login := user.Login
		g.Go(func() error {
			if err := h.installationService.UpdateUser(ctx, login); err != nil {
				logger.WithError(err).WithField("login", login).Error("Stale user update failed")
			}
			return nil
		})
	}
	_ = g.Wait()

	c.JSON(http.StatusOK, gin.H{"updated": len(users)})
}
