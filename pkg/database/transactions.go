package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/contribsync/contribsync/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMaxRetries bounds both the whole-transaction replay loop and the
// commit reconfirmation loop.
const DefaultMaxRetries = 10

// Mongo error labels that drive the two retry loops
const (
	transientTransactionErrorLabel = "TransientTransactionError"
	unknownCommitResultLabel       = "UnknownTransactionCommitResult"
)

// Session is the slice of mongo.Session the retry loops need. Declared
// locally so tests can run against fakes.
type Session interface {
	StartTransaction(opts ...*options.TransactionOptions) error
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
}

type labeledError interface {
	HasErrorLabel(label string) bool
}

func hasErrorLabel(err error, label string) bool {
	var le labeledError
	if errors.As(err, &le) {
		return le.HasErrorLabel(label)
	}
	return false
}

// RunTransactionWithRetry applies fn inside a transaction on sess. A unit of
// work or commit that fails with a transient transaction error aborts and
// replays the entire unit of work, up to maxRetries attempts. An ambiguous
// commit acknowledgment retries only the commit (see commitWithRetry) since
// replaying writes on top of a committed transaction would double-apply them.
// On terminal failure the transaction is aborted before the error surfaces.
func RunTransactionWithRetry(ctx context.Context, sess Session, fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		if err := sess.StartTransaction(); err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}

		err := fn()
		if err == nil {
			err = commitWithRetry(ctx, sess, maxRetries)
			if err == nil {
				return nil
			}
		}

		if abortErr := sess.AbortTransaction(ctx); abortErr != nil {
			logger.WithError(abortErr).Warn("Failed to abort transaction")
		}

		if hasErrorLabel(err, transientTransactionErrorLabel) {
			logger.WithError(err).Debug("Transient transaction error, retrying unit of work")
			continue
		}

		return err
	}

	return fmt.Errorf("transaction did not commit after %d attempts", maxRetries)
}

// commitWithRetry retries only the commit call while the server reports an
// unknown commit result.
func commitWithRetry(ctx context.Context, sess Session, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := sess.CommitTransaction(ctx)
		if err == nil {
			logger.Debug("Transaction committed")
			return nil
		}

		if hasErrorLabel(err, unknownCommitResultLabel) {
			logger.WithError(err).Warn("Unknown commit result, retrying commit")
			continue
		}

		return err
	}

	return fmt.Errorf("commit did not succeed after %d attempts", maxRetries)
}

// TransactionRunner runs a unit of work spanning multiple collections inside
// one atomic transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TxnRunner is the mongo-backed TransactionRunner. Each call acquires its own
// session so concurrent sync runs never interleave writes in one transaction.
type TxnRunner struct {
	client *mongo.Client
}

// NewTxnRunner creates a TxnRunner on the shared client
func NewTxnRunner(client *mongo.Client) *TxnRunner {
	return &TxnRunner{client: client}
}

// RunInTransaction starts a session and applies fn with the retry discipline
// of RunTransactionWithRetry. The context handed to fn carries the session;
// all store calls made with it join the transaction.
func (r *TxnRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer sess.EndSession(ctx)

	return RunTransactionWithRetry(ctx, sess, func() error {
		return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
			return fn(sc)
		})
	}, DefaultMaxRetries)
}
