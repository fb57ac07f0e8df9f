package services

import (
	"context"

	"github.com/contribsync/contribsync/internal/models"
	"github.com/contribsync/contribsync/internal/repositories"
	"github.com/contribsync/contribsync/pkg/database"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userDeleter removes the user document inside the cascading delete
type userDeleter interface {
	DeleteByID(ctx context.Context, userID primitive.ObjectID) error
}

// TransactionalWriter applies a whole batch across the contribution
// collections inside one retried transaction, so a sync run becomes
// visible atomically or not at all.
type TransactionalWriter struct {
	colls *repositories.ContributionCollections
	users userDeleter
	txn   database.TransactionRunner
}

func NewTransactionalWriter(colls *repositories.ContributionCollections, users userDeleter, txn database.TransactionRunner) *TransactionalWriter {
	return &TransactionalWriter{
		colls: colls,
		users: users,
		txn:   txn,
	}
}

// InsertBatch writes a bootstrap batch with plain inserts
func (w *TransactionalWriter) InsertBatch(ctx context.Context, batch *models.ContributionBatch) error {
	return w.txn.RunInTransaction(ctx, func(ctx context.Context) error {
		return repositories.InsertContributions(ctx, w.colls, batch)
	})
}

// UpsertBatch writes an incremental batch keyed by remote identity, so
// overlapping ranges overwrite instead of duplicating.
func (w *TransactionalWriter) UpsertBatch(ctx context.Context, batch *models.ContributionBatch) error {
	return w.txn.RunInTransaction(ctx, func(ctx context.Context) error {
		return repositories.UpsertContributions(ctx, w.colls, batch)
	})
}

// DeleteUserData removes every contribution document and the user document
// itself in one transaction, returning the contribution count removed.
func (w *TransactionalWriter) DeleteUserData(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	var total int64
	err := w.txn.RunInTransaction(ctx, func(ctx context.Context) error {
		count, err := repositories.DeleteContributionsByUser(ctx, w.colls, userID)
		if err != nil {
			return err
		}
		total = count
		return w.users.DeleteByID(ctx, userID)
	})
	return total, err
}
