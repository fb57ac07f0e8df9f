package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type InstallationRepository struct {
	*Collection[models.Installation]
}

func NewInstallationRepository(db *mongo.Database) *InstallationRepository {
	return &InstallationRepository{
		Collection: NewCollection[models.Installation](db, database.CollInstallations),
	}
}

// GetByLogin retrieves the installation record for a login, nil when absent
func (r *InstallationRepository) GetByLogin(ctx context.Context, login string) (*models.Installation, error) {
	installation, err := r.FindOne(ctx, bson.M{"login": login})
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get installation for %s: %w", login, err)
	}
	return installation, nil
}

// Upsert stores the installation record keyed by login
func (r *InstallationRepository) Upsert(ctx context.Context, installation *models.Installation) error {
	return r.UpsertMany(ctx, []*models.Installation{installation}, func(i *models.Installation) bson.M {
		return bson.M{"login": i.Login}
	})
}

// SetStatus flips the lifecycle status without touching any synced data
func (r *InstallationRepository) SetStatus(ctx context.Context, login string, status models.InstallationStatus) error {
	return r.UpdateOne(ctx,
		bson.M{"login": login},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
	)
}

// ListActive returns all active installations
func (r *InstallationRepository) ListActive(ctx context.Context) ([]*models.Installation, error) {
	return r.Find(ctx, bson.M{"status": models.InstallationActive})
}
