package repositories

import (
	"context"
	"fmt"

	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type RepositoryRepository struct {
	*Collection[models.Repository]
}

func NewRepositoryRepository(db *mongo.Database) *RepositoryRepository {
	return &RepositoryRepository{
		Collection: NewCollection[models.Repository](db, database.CollRepositories),
	}
}

// GetIDByOwnerName returns the store id for (owner, name), NilObjectID when
// the repository is not stored yet.
func (r *RepositoryRepository) GetIDByOwnerName(ctx context.Context, owner, name string) (primitive.ObjectID, error) {
	repo, err := r.FindOne(ctx, bson.M{"owner": owner, "name": name})
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, nil
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}
	return repo.ID, nil
}

// Upsert inserts or overwrites the repository keyed by (owner, name)
func (r *RepositoryRepository) Upsert(ctx context.Context, repo *models.Repository) error {
	return r.UpsertMany(ctx, []*models.Repository{repo}, repositoryKey)
}

// UpsertAll inserts or overwrites a batch of repositories
func (r *RepositoryRepository) UpsertAll(ctx context.Context, repos []*models.Repository) error {
	return r.UpsertMany(ctx, repos, repositoryKey)
}

// FindIDs returns the store ids of the given repositories
func (r *RepositoryRepository) FindIDs(ctx context.Context, repos []*models.Repository) ([]primitive.ObjectID, error) {
	if len(repos) == 0 {
		return nil, nil
	}

	filters := make([]bson.M, len(repos))
	for i, repo := range repos {
		filters[i] = bson.M{"owner": repo.Owner, "name": repo.Name}
	}

	found, err := r.Find(ctx, bson.M{"$or": filters})
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(found))
	for i, repo := range found {
		ids[i] = repo.ID
	}
	return ids, nil
}

func repositoryKey(repo *models.Repository) bson.M {
	return bson.M{"owner": repo.Owner, "name": repo.Name}
}
