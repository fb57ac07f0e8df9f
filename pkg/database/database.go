package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	CollUsers              = "users"
	CollRepositories       = "repositories"
	CollInstallations      = "installations"
	CollCommits            = "commits"
	CollIssues             = "issues"
	CollPullRequests       = "pullRequests"
	CollPullRequestReviews = "pullRequestReviews"
	CollCommitComments     = "userCommitComments"
	CollIssueComments      = "userIssueComments"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Init initializes the MongoDB connection and ensures indexes
func Init(uri, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	// Test the connection
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	Client = client
	DB = client.Database(name)

	if err := ensureIndexes(ctx); err != nil {
		return err
	}

	log.Println("Database connected successfully")
	return nil
}

// Close closes the database connection
func Close() error {
	if Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return Client.Disconnect(ctx)
	}
	return nil
}

// ensureIndexes creates the unique indexes duplicate-insert races rely on
func ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		CollUsers: {
			{Keys: bson.D{{Key: "login", Value: 1}}, Options: unique},
		},
		CollRepositories: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "name", Value: 1}}, Options: unique},
		},
		CollInstallations: {
			{Keys: bson.D{{Key: "login", Value: 1}}, Options: unique},
		},
	}

	// every contribution collection upserts by remote id and deletes by user
	for _, coll := range []string{
		CollCommits, CollIssues, CollPullRequests,
		CollPullRequestReviews, CollCommitComments, CollIssueComments,
	} {
		indexes[coll] = []mongo.IndexModel{
			{Keys: bson.D{{Key: "github.id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		}
	}

	for coll, models := range indexes {
		if _, err := DB.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}

	return nil
}
