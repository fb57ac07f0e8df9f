package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	*Collection[models.User]
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		Collection: NewCollection[models.User](db, database.CollUsers),
	}
}

// GetByLogin retrieves a user by login, nil when absent
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	user, err := r.FindOne(ctx, bson.M{"login": login})
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", login, err)
	}
	return user, nil
}

// GetIDByLogin returns the user's store id, NilObjectID when absent
func (r *UserRepository) GetIDByLogin(ctx context.Context, login string) (primitive.ObjectID, error) {
	user, err := r.GetByLogin(ctx, login)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if user == nil {
		return primitive.NilObjectID, nil
	}
	return user.ID, nil
}

// AddRepositories merges repository references into the user's deduplicated
// set. Sync only ever adds references, never removes them.
func (r *UserRepository) AddRepositories(ctx context.Context, userID primitive.ObjectID, repoIDs []primitive.ObjectID) error {
	if len(repoIDs) == 0 {
		return nil
	}
	return r.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"repositories": bson.M{"$each": repoIDs}}},
	)
}

// SetUpdatedAt advances the user's sync watermark
func (r *UserRepository) SetUpdatedAt(ctx context.Context, userID primitive.ObjectID, t time.Time) error {
	return r.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"updatedAt": t}},
	)
}

// DeleteByID removes the user document
func (r *UserRepository) DeleteByID(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.DeleteMany(ctx, bson.M{"_id": userID})
	return err
}

// ListStale returns users whose watermark is older than cutoff
func (r *UserRepository) ListStale(ctx context.Context, cutoff time.Time) ([]*models.User, error) {
	return r.Find(ctx, bson.M{"updatedAt": bson.M{"$lt": cutoff}})
}
