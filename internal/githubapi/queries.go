package githubapi

// GraphQL documents for the contribution sync queries. Range-scoped
// contribution lists paginate forward; the two comment feeds have no date
// filter upstream and paginate backward from the newest entry instead.

const userInfoQuery = `
query userInfo($login: String!) {
  user(login: $login) {
    name
    bio
    id
    url
    email
    avatarUrl
    twitterUsername
    websiteUrl
  }
}`

const repositoryInfoQuery = `
query repositoryInfo($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    owner {
      login
    }
    name
    id
    url
    labels(first: 100) {
      totalCount
      nodes {
        name
        description
      }
    }
    languages(first: 50) {
      edges {
        size
        node {
          name
        }
      }
      totalCount
      totalSize
    }
    repositoryTopics(first: 50) {
      totalCount
      nodes {
        topic {
          name
        }
      }
    }
    primaryLanguage {
      name
    }
    stargazerCount
    forkCount
    watchers {
      totalCount
    }
  }
}`

const repositoriesContributedToQuery = `
query repositoriesContributedTo($login: String!, $fromDate: DateTime, $toDate: DateTime) {
  user(login: $login) {
    contributionsCollection(from: $fromDate, to: $toDate) {
      issueContributionsByRepository(maxRepositories: 100) {
        repository {
          nameWithOwner
        }
      }
      commitContributionsByRepository(maxRepositories: 100) {
        repository {
          nameWithOwner
        }
      }
      pullRequestContributionsByRepository(maxRepositories: 100) {
        repository {
          nameWithOwner
        }
      }
      pullRequestReviewContributionsByRepository(maxRepositories: 100) {
        repository {
          nameWithOwner
        }
      }
    }
  }
}`

const repositoriesCommittedToQuery = `
query repositoriesCommittedTo($login: String!, $fromDate: DateTime, $toDate: DateTime) {
  user(login: $login) {
    contributionsCollection(from: $fromDate, to: $toDate) {
      commitContributionsByRepository(maxRepositories: 100) {
        repository {
          nameWithOwner
        }
      }
    }
  }
}`

const commitHistoryQuery = `
query userCommitHistory($owner: String!, $name: String!, $authorId: ID!, $fromDate: GitTimestamp, $toDate: GitTimestamp, $pageSize: Int!, $cursor: String) {
  repository(owner: $owner, name: $name) {
    defaultBranchRef {
      target {
        ... on Commit {
          history(author: { id: $authorId }, since: $fromDate, until: $toDate, first: $pageSize, after: $cursor) {
            totalCount
            pageInfo {
              endCursor
              hasNextPage
            }
            nodes {
              id
              oid
              commitUrl
              committedDate
              pushedDate
              changedFiles
              additions
              deletions
              message
              comments(first: 10) {
                totalCount
                nodes {
                  author {
                    login
                  }
                  publishedAt
                  position
                  reactions {
                    totalCount
                  }
                  body
                }
              }
              associatedPullRequests(first: 10) {
                totalCount
                nodes {
                  id
                  url
                }
              }
            }
          }
        }
      }
    }
  }
}`

const pullRequestContributionsQuery = `
query prContributions($login: String!, $fromDate: DateTime, $toDate: DateTime, $cursor: String) {
  user(login: $login) {
    contributionsCollection(from: $fromDate, to: $toDate) {
      pullRequestContributions(first: 40, after: $cursor) {
        totalCount
        pageInfo {
          endCursor
          hasNextPage
        }
        nodes {
          pullRequest {
            repository {
              nameWithOwner
            }
            id
            url
            createdAt
            mergedAt
            closedAt
            updatedAt
            state
            reactions {
              totalCount
            }
            labels(first: 10) {
              totalCount
              nodes {
                name
                description
              }
            }
            title
            body
            commits(first: 10) {
              totalCount
              nodes {
                commit {
                  id
                  commitUrl
                  additions
                  deletions
                  changedFiles
                }
              }
            }
            comments {
              totalCount
            }
            closingIssuesReferences(first: 10) {
              totalCount
              nodes {
                id
                url
              }
            }
          }
        }
      }
    }
  }
}`

const issueContributionsQuery = `
query issueContributions($login: String!, $fromDate: DateTime, $toDate: DateTime, $cursor: String) {
  user(login: $login) {
    contributionsCollection(from: $fromDate, to: $toDate) {
      issueContributions(first: 100, after: $cursor) {
        totalCount
        pageInfo {
          endCursor
          hasNextPage
        }
        nodes {
          issue {
            repository {
              nameWithOwner
            }
            id
            url
            createdAt
            updatedAt
            closedAt
            state
            title
            body
            timelineItems(first: 100, itemTypes: [CLOSED_EVENT]) {
              nodes {
                ... on ClosedEvent {
                  actor {
                    login
                  }
                }
              }
            }
            reactions {
              totalCount
            }
            labels(first: 10) {
              totalCount
              nodes {
                name
                description
              }
            }
          }
        }
      }
    }
  }
}`

const pullRequestReviewContributionsQuery = `
query prReviewContributions($login: String!, $fromDate: DateTime, $toDate: DateTime, $cursor: String) {
  user(login: $login) {
    contributionsCollection(from: $fromDate, to: $toDate) {
      pullRequestReviewContributions(first: 100, after: $cursor) {
        totalCount
        pageInfo {
          endCursor
          hasNextPage
        }
        nodes {
          pullRequestReview {
            repository {
              nameWithOwner
            }
            pullRequest {
              id
              url
            }
            createdAt
            updatedAt
            publishedAt
            submittedAt
            lastEditedAt
            id
            url
            state
            body
            comments(first: 50) {
              totalCount
              nodes {
                author {
                  login
                }
                id
                url
                body
              }
            }
          }
        }
      }
    }
  }
}`

const commitCommentsQuery = `
query userCommitComments($login: String!, $cursor: String) {
  user(login: $login) {
    commitComments(last: 100, before: $cursor) {
      totalCount
      pageInfo {
        startCursor
        hasPreviousPage
      }
      nodes {
        id
        url
        createdAt
        updatedAt
        publishedAt
        lastEditedAt
        position
        repository {
          nameWithOwner
        }
        commit {
          id
          commitUrl
        }
        body
        reactions {
          totalCount
        }
      }
    }
  }
}`

const issueCommentsQuery = `
query userIssueComments($login: String!, $cursor: String) {
  user(login: $login) {
    issueComments(last: 100, before: $cursor) {
      totalCount
      pageInfo {
        startCursor
        hasPreviousPage
      }
      nodes {
        id
        url
        createdAt
        updatedAt
        publishedAt
        lastEditedAt
        repository {
          nameWithOwner
        }
        issue {
          id
          url
        }
        pullRequest {
          id
          url
        }
        body
        reactions {
          totalCount
        }
      }
    }
  }
}`
