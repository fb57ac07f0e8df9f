package githubapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorClass buckets remote-API failures by how the executor must react
type ErrorClass int

const (
	// UnclassifiedFatal aborts the current fetch immediately
	UnclassifiedFatal ErrorClass = iota
	// RateLimitPrimary waits for the server-supplied Retry-After seconds
	RateLimitPrimary
	// RateLimitSecondary waits until the reported reset epoch
	RateLimitSecondary
	// TransientQueryError waits a fixed short interval before retrying
	TransientQueryError
	// Forbidden aborts immediately, no retry
	Forbidden
)

func (c ErrorClass) String() string {
	switch c {
	case RateLimitPrimary:
		return "rate_limit_primary"
	case RateLimitSecondary:
		return "rate_limit_secondary"
	case TransientQueryError:
		return "transient_query_error"
	case Forbidden:
		return "forbidden"
	default:
		return "unclassified_fatal"
	}
}

// GraphQLError is one entry of a GraphQL response errors array
type GraphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RequestError carries everything classification needs: HTTP status,
// response headers and the GraphQL errors array. It is independent of any
// client library's error hierarchy.
type RequestError struct {
	StatusCode int
	Headers    http.Header
	Errors     []GraphQLError
	Message    string
}

func (e *RequestError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("github request failed (status %d): %s", e.StatusCode, e.Errors[0].Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("github request failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github request failed (status %d)", e.StatusCode)
}

// RetryAfter returns the server-supplied wait from the Retry-After header
func (e *RequestError) RetryAfter() time.Duration {
	seconds, err := strconv.Atoi(e.Headers.Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// ResetDelay returns how long until the rate limit reset epoch, per the
// X-RateLimit-Reset header.
func (e *RequestError) ResetDelay(now time.Time) time.Duration {
	epoch, err := strconv.ParseInt(e.Headers.Get("X-RateLimit-Reset"), 10, 64)
	if err != nil {
		return 0
	}
	delay := time.Unix(epoch, 0).Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}

func (e *RequestError) messageContains(pattern string) bool {
	if strings.Contains(e.Message, pattern) {
		return true
	}
	for _, gqlErr := range e.Errors {
		if strings.Contains(gqlErr.Message, pattern) {
			return true
		}
	}
	return false
}

func (e *RequestError) hasErrorType(errType string) bool {
	for _, gqlErr := range e.Errors {
		if gqlErr.Type == errType {
			return true
		}
	}
	return false
}
