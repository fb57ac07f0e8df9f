package githubapi

import (
	"errors"
)

// transientQueryMessage is the upstream anomaly GitHub's GraphQL endpoint
// returns when a query fails internally; retrying shortly usually succeeds.
const transientQueryMessage = "Something went wrong while executing your query"

// Classify maps a remote-API failure onto its ErrorClass using only the
// response status, headers and message patterns. Anything that is not a
// RequestError is fatal by definition.
func Classify(err error) ErrorClass {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return UnclassifiedFatal
	}

	switch {
	case reqErr.StatusCode == 403 && reqErr.RetryAfter() > 0:
		return RateLimitPrimary
	case reqErr.StatusCode == 403 && reqErr.Headers.Get("X-RateLimit-Remaining") == "0":
		return RateLimitSecondary
	case reqErr.hasErrorType("FORBIDDEN"):
		return Forbidden
	case reqErr.messageContains(transientQueryMessage):
		return TransientQueryError
	default:
		return UnclassifiedFatal
	}
}

// IsTransientQuery reports whether err is the absorbed upstream anomaly a
// contribution kind may swallow without aborting sibling kinds.
func IsTransientQuery(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.messageContains(transientQueryMessage)
}
