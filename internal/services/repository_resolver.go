package services

import (
	"context"

	"github.com/contribsync/contribsync/internal/githubapi"
	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// repositoryStore is the slice of RepositoryRepository the resolver needs
type repositoryStore interface {
	GetIDByOwnerName(ctx context.Context, owner, name string) (primitive.ObjectID, error)
	InsertOne(ctx context.Context, repo *models.Repository) (primitive.ObjectID, error)
}

// repositoryFetcher retrieves repository metadata from the remote API
type repositoryFetcher interface {
	FetchRepositoryInfo(ctx context.Context, owner, name string) (*githubapi.RepositoryInfo, error)
}

// RepositoryResolver maps nameWithOwner strings to store ids, inserting
// repositories seen for the first time. The memo lives for one fetch pass,
// so each distinct repository costs at most one lookup per pass.
type RepositoryResolver struct {
	store  repositoryStore
	remote repositoryFetcher
	cache  map[string]primitive.ObjectID
}

func NewRepositoryResolver(store repositoryStore, remote repositoryFetcher) *RepositoryResolver {
	return &RepositoryResolver{
		store:  store,
		remote: remote,
		cache:  make(map[string]primitive.ObjectID),
	}
}

// Resolve returns the store id for nameWithOwner, fetching and inserting
// the repository when it is not stored yet. A concurrent insert of the
// same repository loses the unique-index race and re-reads the winner's id.
func (r *RepositoryResolver) Resolve(ctx context.Context, nameWithOwner string) (primitive.ObjectID, error) {
	if id, ok := r.cache[nameWithOwner]; ok {
		return id, nil
	}

	owner, name := models.SplitFullName(nameWithOwner)

	id, err := r.store.GetIDByOwnerName(ctx, owner, name)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if id.IsZero() {
		logger.WithFields(logrus.Fields{
			"owner": owner,
			"name":  name,
		}).Debug("Repository not stored yet, fetching metadata")

		info, err := r.remote.FetchRepositoryInfo(ctx, owner, name)
		if err != nil {
			return primitive.NilObjectID, err
		}

		id, err = r.store.InsertOne(ctx, repositoryModel(info))
		if err != nil {
			if !mongo.IsDuplicateKeyError(err) {
				return primitive.NilObjectID, err
			}
			id, err = r.store.GetIDByOwnerName(ctx, owner, name)
			if err != nil {
				return primitive.NilObjectID, err
			}
		}
	}

	r.cache[nameWithOwner] = id
	return id, nil
}

// IDs returns the distinct repository ids resolved so far
func (r *RepositoryResolver) IDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(r.cache))
	for _, id := range r.cache {
		ids = append(ids, id)
	}
	return ids
}
