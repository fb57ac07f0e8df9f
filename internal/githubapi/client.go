package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultGraphQLURL is GitHub's GraphQL endpoint
const DefaultGraphQLURL = "https://api.github.com/graphql"

// proactiveRate paces requests below the hourly budget (~4300/hr) so the
// reactive throttling in Executor rarely has to fire.
const proactiveRate = 1.2

// Client posts GraphQL queries to GitHub with token auth and client-side
// pacing. Failures surface as *RequestError for classification.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
}

// NewClient creates a GitHub GraphQL client with the provided token
func NewClient(token, graphqlURL string, pageSize int) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	if graphqlURL == "" {
		graphqlURL = DefaultGraphQLURL
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	return &Client{
		url:        graphqlURL,
		httpClient: tc,
		limiter:    rate.NewLimiter(rate.Limit(proactiveRate), 1),
		pageSize:   pageSize,
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Query executes one GraphQL query and decodes the data payload into out.
// Non-2xx responses and GraphQL-level errors both become *RequestError
// carrying status, headers and the errors array.
func (c *Client) Query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read graphql response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Message:    string(respBody),
		}
	}

	var gqlResp graphqlResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return fmt.Errorf("failed to decode graphql response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Errors:     gqlResp.Errors,
		}
	}

	if out != nil {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return fmt.Errorf("failed to decode graphql data: %w", err)
		}
	}

	return nil
}
