package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Language is one language used in a repository with its share of the codebase
type Language struct {
	Name       string  `bson:"name" json:"name"`
	Size       int     `bson:"size" json:"size"`
	Percentage float64 `bson:"percentage" json:"percentage"`
}

// Topic is a repository topic
type Topic struct {
	Name string `bson:"name" json:"name"`
}

// Repository represents a GitHub repository referenced by contributions.
// Identified by the unique (owner, name) pair; metadata is fetched once on
// first reference and the document is never deleted by sync.
type Repository struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner           string             `bson:"owner" json:"owner"`
	Name            string             `bson:"name" json:"name"`
	Github          Github             `bson:"github" json:"github"`
	Labels          []Label            `bson:"labels" json:"labels"`
	LabelsCount     int                `bson:"labelsCount" json:"labels_count"`
	PrimaryLanguage string             `bson:"primaryLanguage" json:"primary_language"`
	Languages       []Language         `bson:"languages" json:"languages"`
	LanguagesCount  int                `bson:"languagesCount" json:"languages_count"`
	LanguagesSize   int                `bson:"languagesSize" json:"languages_size"`
	Topics          []Topic            `bson:"topics" json:"topics"`
	TopicsCount     int                `bson:"topicsCount" json:"topics_count"`
	ForkCount       int                `bson:"forkCount" json:"fork_count"`
	StargazerCount  int                `bson:"stargazerCount" json:"stargazer_count"`
	WatchersCount   int                `bson:"watchersCount" json:"watchers_count"`
}

// FullName returns the owner/name pair
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// SplitFullName splits "owner/name" into its parts
func SplitFullName(nameWithOwner string) (owner, name string) {
	for i := 0; i < len(nameWithOwner); i++ {
		if nameWithOwner[i] == '/' {
			return nameWithOwner[:i], nameWithOwner[i+1:]
		}
	}
	return nameWithOwner, ""
}
