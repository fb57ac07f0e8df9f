package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InstallationStatus tracks the lifecycle state of an app installation
type InstallationStatus string

const (
	InstallationActive    InstallationStatus = "active"
	InstallationSuspended InstallationStatus = "suspended"
	InstallationDeleted   InstallationStatus = "deleted"
)

// Installation records one app installation per login. Status transitions
// happen only through lifecycle events, never through sync logic.
type Installation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Login          string             `bson:"login" json:"login"`
	InstallationID int64              `bson:"installationId" json:"installation_id"`
	Status         InstallationStatus `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updated_at"`
}

// NewInstallation creates an active installation record
func NewInstallation(login string, installationID int64) *Installation {
	now := time.Now().UTC()
	return &Installation{
		Login:          login,
		InstallationID: installationID,
		Status:         InstallationActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
