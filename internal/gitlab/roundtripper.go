package gitlab

import (
	"context"
	"net/http"
)

// privateTokenHeader is the header GitLab reads personal access tokens from
const privateTokenHeader = "PRIVATE-TOKEN"

type tokenContextKey struct{}

// withToken attaches token to ctx for privateTokenRoundTripper to pick up
func withToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}

// privateTokenRoundTripper is an HTTP RoundTripper that adds the GitLab
// PRIVATE-TOKEN header carried in the request context
type privateTokenRoundTripper struct {
	transport http.RoundTripper
}

// newPrivateTokenRoundTripper wraps base, falling back to http.DefaultTransport
func newPrivateTokenRoundTripper(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &privateTokenRoundTripper{transport: base}
}

// RoundTrip implements the http.RoundTripper interface
func (rt *privateTokenRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	token := tokenFromContext(req.Context())
	if token == "" {
		return rt.transport.RoundTrip(req)
	}

	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set(privateTokenHeader, token)

	return rt.transport.RoundTrip(clonedReq)
}
