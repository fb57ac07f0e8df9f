package handlers

import (
	"context"
	"net/http"

	"github.com/contribsync/contribsync/internal/services"
	"github.com/contribsync/contribsync/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
)

// WebhookHandler receives installation lifecycle events. Signature-checked
// payloads are acknowledged immediately; the lifecycle work runs in the
// background because a bootstrap can outlive any webhook delivery timeout.
type WebhookHandler struct {
	installationService *services.InstallationService
	secret              []byte
}

func NewWebhookHandler(installationService *services.InstallationService, secret string) *WebhookHandler {
	return &WebhookHandler{
		installationService: installationService,
		secret:              []byte(secret),
	}
}

// Handle validates and dispatches one webhook delivery
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := github.ValidatePayload(c.Request, h.secret)
	if err != nil {
		logger.WithError(err).Warn("Webhook signature validation failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(c.Request), payload)
	if err != nil {
		logger.WithError(err).Warn("Webhook payload parse failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	switch event := event.(type) {
	case *github.InstallationEvent:
		h.dispatchInstallation(event)
	default:
		logger.WithField("type", github.WebHookType(c.Request)).Debug("Ignoring unhandled webhook event")
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (h *WebhookHandler) dispatchInstallation(event *github.InstallationEvent) {
	action := event.GetAction()
	login := event.GetInstallation().GetAccount().GetLogin()
	installationID := event.GetInstallation().GetID()

	logger.WithFields(logrus.Fields{
		"action": action,
		"login":  login,
	}).Info("Installation event received")

	go func() {
		if err := h.installationService.HandleEvent(context.Background(), action, login, installationID); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"action": action,
				"login":  login,
			}).Error("Installation event handling failed")
		}
	}()
}
