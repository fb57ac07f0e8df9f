package githubapi

import (
	"time"
)

// Payload structs mirroring the GraphQL query shapes in queries.go

// PageInfo carries both pagination directions; forward walks use
// endCursor/hasNextPage, backward walks use startCursor/hasPreviousPage.
type PageInfo struct {
	EndCursor       string `json:"endCursor"`
	HasNextPage     bool   `json:"hasNextPage"`
	StartCursor     string `json:"startCursor"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
}

type CountRef struct {
	TotalCount int `json:"totalCount"`
}

type RepositoryRef struct {
	NameWithOwner string `json:"nameWithOwner"`
}

type ActorRef struct {
	Login string `json:"login"`
}

// NodeRef is a remote identity pair as returned by the API
type NodeRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type LabelNode struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type UserInfo struct {
	Name            string `json:"name"`
	Bio             string `json:"bio"`
	ID              string `json:"id"`
	URL             string `json:"url"`
	Email           string `json:"email"`
	AvatarURL       string `json:"avatarUrl"`
	TwitterUsername string `json:"twitterUsername"`
	WebsiteURL      string `json:"websiteUrl"`
}

type RepositoryInfo struct {
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	Name   string `json:"name"`
	ID     string `json:"id"`
	URL    string `json:"url"`
	Labels struct {
		TotalCount int         `json:"totalCount"`
		Nodes      []LabelNode `json:"nodes"`
	} `json:"labels"`
	Languages struct {
		Edges []struct {
			Size int `json:"size"`
			Node struct {
				Name string `json:"name"`
			} `json:"node"`
		} `json:"edges"`
		TotalCount int `json:"totalCount"`
		TotalSize  int `json:"totalSize"`
	} `json:"languages"`
	RepositoryTopics struct {
		TotalCount int `json:"totalCount"`
		Nodes      []struct {
			Topic struct {
				Name string `json:"name"`
			} `json:"topic"`
		} `json:"nodes"`
	} `json:"repositoryTopics"`
	PrimaryLanguage *struct {
		Name string `json:"name"`
	} `json:"primaryLanguage"`
	StargazerCount int      `json:"stargazerCount"`
	ForkCount      int      `json:"forkCount"`
	Watchers       CountRef `json:"watchers"`
}

type PullRequestNode struct {
	Repository RepositoryRef `json:"repository"`
	ID         string        `json:"id"`
	URL        string        `json:"url"`
	CreatedAt  time.Time     `json:"createdAt"`
	MergedAt   *time.Time    `json:"mergedAt"`
	ClosedAt   *time.Time    `json:"closedAt"`
	UpdatedAt  *time.Time    `json:"updatedAt"`
	State      string        `json:"state"`
	Reactions  CountRef      `json:"reactions"`
	Labels     struct {
		TotalCount int         `json:"totalCount"`
		Nodes      []LabelNode `json:"nodes"`
	} `json:"labels"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Commits struct {
		TotalCount int `json:"totalCount"`
		Nodes      []struct {
			Commit struct {
				ID           string `json:"id"`
				CommitURL    string `json:"commitUrl"`
				Additions    int    `json:"additions"`
				Deletions    int    `json:"deletions"`
				ChangedFiles int    `json:"changedFiles"`
			} `json:"commit"`
		} `json:"nodes"`
	} `json:"commits"`
	Comments                CountRef `json:"comments"`
	ClosingIssuesReferences struct {
		TotalCount int       `json:"totalCount"`
		Nodes      []NodeRef `json:"nodes"`
	} `json:"closingIssuesReferences"`
}

type IssueNode struct {
	Repository    RepositoryRef `json:"repository"`
	ID            string        `json:"id"`
	URL           string        `json:"url"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     *time.Time    `json:"updatedAt"`
	ClosedAt      *time.Time    `json:"closedAt"`
	State         string        `json:"state"`
	Title         string        `json:"title"`
	Body          string        `json:"body"`
	TimelineItems struct {
		Nodes []struct {
			Actor *ActorRef `json:"actor"`
		} `json:"nodes"`
	} `json:"timelineItems"`
	Reactions CountRef `json:"reactions"`
	Labels    struct {
		TotalCount int         `json:"totalCount"`
		Nodes      []LabelNode `json:"nodes"`
	} `json:"labels"`
}

type ReviewNode struct {
	Repository   RepositoryRef `json:"repository"`
	PullRequest  NodeRef       `json:"pullRequest"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    *time.Time    `json:"updatedAt"`
	PublishedAt  *time.Time    `json:"publishedAt"`
	SubmittedAt  *time.Time    `json:"submittedAt"`
	LastEditedAt *time.Time    `json:"lastEditedAt"`
	ID           string        `json:"id"`
	URL          string        `json:"url"`
	State        string        `json:"state"`
	Body         string        `json:"body"`
	Comments     struct {
		TotalCount int `json:"totalCount"`
		Nodes      []struct {
			Author ActorRef `json:"author"`
			ID     string   `json:"id"`
			URL    string   `json:"url"`
			Body   string   `json:"body"`
		} `json:"nodes"`
	} `json:"comments"`
}

type CommitNode struct {
	ID            string     `json:"id"`
	Oid           string     `json:"oid"`
	CommitURL     string     `json:"commitUrl"`
	CommittedDate time.Time  `json:"committedDate"`
	PushedDate    *time.Time `json:"pushedDate"`
	ChangedFiles  int        `json:"changedFiles"`
	Additions     int        `json:"additions"`
	Deletions     int        `json:"deletions"`
	Message       string     `json:"message"`
	Comments      struct {
		TotalCount int `json:"totalCount"`
		Nodes      []struct {
			Author      *ActorRef `json:"author"`
			PublishedAt time.Time `json:"publishedAt"`
			Position    *int      `json:"position"`
			Reactions   CountRef  `json:"reactions"`
			Body        string    `json:"body"`
		} `json:"nodes"`
	} `json:"comments"`
	AssociatedPullRequests struct {
		TotalCount int       `json:"totalCount"`
		Nodes      []NodeRef `json:"nodes"`
	} `json:"associatedPullRequests"`
}

type CommitCommentNode struct {
	ID           string        `json:"id"`
	URL          string        `json:"url"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    *time.Time    `json:"updatedAt"`
	PublishedAt  time.Time     `json:"publishedAt"`
	LastEditedAt *time.Time    `json:"lastEditedAt"`
	Position     *int          `json:"position"`
	Repository   RepositoryRef `json:"repository"`
	Commit       struct {
		ID        string `json:"id"`
		CommitURL string `json:"commitUrl"`
	} `json:"commit"`
	Body      string   `json:"body"`
	Reactions CountRef `json:"reactions"`
}

type IssueCommentNode struct {
	ID           string        `json:"id"`
	URL          string        `json:"url"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    *time.Time    `json:"updatedAt"`
	PublishedAt  time.Time     `json:"publishedAt"`
	LastEditedAt *time.Time    `json:"lastEditedAt"`
	Repository   RepositoryRef `json:"repository"`
	Issue        *NodeRef      `json:"issue"`
	PullRequest  *NodeRef      `json:"pullRequest"`
	Body         string        `json:"body"`
	Reactions    CountRef      `json:"reactions"`
}
