package gitlab

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/credential"
)

const testBaseURL = "https://git.example.com"

// recordingTransport counts requests and answers with a canned response
type recordingTransport struct {
	mu       sync.Mutex
	requests []*http.Request
	status   int
	body     string
	err      error
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	rt.requests = append(rt.requests, req)
	rt.mu.Unlock()

	if rt.err != nil {
		return nil, rt.err
	}
	return &http.Response{
		StatusCode: rt.status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(rt.body)),
		Request:    req,
	}, nil
}

func (rt *recordingTransport) calls() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.requests)
}

func noEnv(string) (string, bool) { return "", false }

func newTestFetcher(rt http.RoundTripper, session *credential.Session) *Fetcher {
	return NewFetcher(Config{
		BaseURL:   testBaseURL,
		ProjectID: "175",
		Ref:       "test",
		Transport: rt,
		Resolver:  credential.NewResolver(session, credential.WithLookupEnv(noEnv)),
	})
}

var buttonMapping = catalog.NewMapping(catalog.KindSource, map[string]string{
	"FQButton": "pkg/button/index.tsx",
})

const buttonURL = testBaseURL + "/api/v4/projects/175/repository/files/pkg%2Fbutton%2Findex.tsx/raw?ref=test"

func TestFetch_Success(t *testing.T) {
	rt := &recordingTransport{status: http.StatusOK, body: "export default Button"}
	f := newTestFetcher(rt, nil)

	file, err := f.Fetch(context.Background(), "FQButton", buttonMapping, "tok")
	require.NoError(t, err)
	assert.Equal(t, "export default Button", file.Content)
	assert.Equal(t, http.StatusOK, file.Status)
	assert.Equal(t, buttonURL, file.URL)

	require.Equal(t, 1, rt.calls(), "expected exactly one request")
	req := rt.requests[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, buttonURL, req.URL.String())
	assert.Equal(t, "tok", req.Header.Get("PRIVATE-TOKEN"))
}

func TestFetch_StatusClassification(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		expectedKind ErrorKind
	}{
		{name: "401 is auth failure", status: http.StatusUnauthorized, expectedKind: AuthFailed},
		{name: "403 is auth failure", status: http.StatusForbidden, expectedKind: AuthFailed},
		{name: "404 is not found", status: http.StatusNotFound, expectedKind: NotFound},
		{name: "500 is http error", status: http.StatusInternalServerError, expectedKind: HTTPError},
		{name: "429 is http error", status: http.StatusTooManyRequests, expectedKind: HTTPError},
		{name: "304 is http error", status: http.StatusNotModified, expectedKind: HTTPError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &recordingTransport{status: tt.status, body: "nope"}
			f := newTestFetcher(rt, nil)

			file, err := f.Fetch(context.Background(), "FQButton", buttonMapping, "tok")
			require.Nil(t, file)

			fetchErr, ok := AsError(err)
			require.True(t, ok, "expected *Error, got %T: %v", err, err)
			assert.Equal(t, tt.expectedKind, fetchErr.Kind)
			assert.Equal(t, tt.status, fetchErr.Status)
			assert.Equal(t, buttonURL, fetchErr.URL)
			assert.Equal(t, 1, rt.calls(), "expected exactly one request (no retries)")
		})
	}
}

func TestFetch_UnmappedComponentSendsNothing(t *testing.T) {
	rt := &recordingTransport{status: http.StatusOK}
	f := newTestFetcher(rt, nil)

	for _, id := range []string{"FQUnknown", "", "fqbutton"} {
		_, err := f.Fetch(context.Background(), id, buttonMapping, "tok")
		assert.Equal(t, UnmappedComponent, KindOf(err), "component %q", id)
		if fetchErr, ok := AsError(err); ok {
			assert.Empty(t, fetchErr.URL, "component %q should carry no URL", id)
		}
	}

	assert.Zero(t, rt.calls(), "expected no HTTP requests")
}

func TestFetch_MissingCredentialSendsNothing(t *testing.T) {
	rt := &recordingTransport{status: http.StatusOK}
	f := newTestFetcher(rt, credential.NewSession())

	_, err := f.Fetch(context.Background(), "FQButton", buttonMapping, "")
	fetchErr, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, MissingCredential, fetchErr.Kind)
	assert.Equal(t, buttonURL, fetchErr.URL, "expected URL in diagnostics")
	assert.Zero(t, rt.calls(), "expected no HTTP requests")
}

func TestFetch_UsesSessionToken(t *testing.T) {
	rt := &recordingTransport{status: http.StatusOK, body: "ok"}
	session := credential.NewSession()
	session.Set("session-token")
	f := newTestFetcher(rt, session)

	_, err := f.Fetch(context.Background(), "FQButton", buttonMapping, "")
	require.NoError(t, err)
	assert.Equal(t, "session-token", rt.requests[0].Header.Get("PRIVATE-TOKEN"))
}

func TestFetch_NetworkError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	rt := &recordingTransport{err: cause}
	f := newTestFetcher(rt, nil)

	_, err := f.Fetch(context.Background(), "FQButton", buttonMapping, "tok")
	fetchErr, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, NetworkError, fetchErr.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, buttonURL, fetchErr.URL)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetch_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f := NewFetcher(Config{
		BaseURL:  server.URL,
		Resolver: credential.NewResolver(nil, credential.WithLookupEnv(noEnv)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "FQButton", buttonMapping, "tok")
	require.Equal(t, NetworkError, KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_AgainstHTTPTestServer(t *testing.T) {
	var gotToken, gotPath, gotRef string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("PRIVATE-TOKEN")
		gotPath = r.URL.EscapedPath()
		gotRef = r.URL.Query().Get("ref")
		_, _ = w.Write([]byte("# Button 按钮"))
	}))
	defer server.Close()

	mapping := catalog.NewMapping(catalog.KindDemo, map[string]string{
		"FQButton": "packages/fq-weapp-ui-doc/docs/components/basic/Button 按钮.mdx",
	})
	f := NewFetcher(Config{
		BaseURL:   server.URL + "/",
		ProjectID: "175",
		Ref:       "release/1.x",
		Resolver:  credential.NewResolver(nil, credential.WithLookupEnv(noEnv)),
	})

	file, err := f.Fetch(context.Background(), "FQButton", mapping, "glpat-test")
	require.NoError(t, err)
	assert.Equal(t, "# Button 按钮", file.Content)
	assert.Equal(t, "glpat-test", gotToken)
	assert.Equal(t, "release/1.x", gotRef)
	assert.Equal(t,
		"/api/v4/projects/175/repository/files/packages%2Ffq-weapp-ui-doc%2Fdocs%2Fcomponents%2Fbasic%2FButton%20%E6%8C%89%E9%92%AE.mdx/raw",
		gotPath)
}

func TestNewFetcher_Defaults(t *testing.T) {
	f := NewFetcher(Config{})
	assert.Equal(t, DefaultBaseURL+"/api/v4/projects/175/repository/files/a%2Fb.ts/raw?ref=test", f.FileURL("a/b.ts"))
	assert.Equal(t, DefaultRef, f.Ref())
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      *Error
		contains string
	}{
		{&Error{Kind: UnmappedComponent, Component: "FQX"}, "FQX has no mapped path"},
		{&Error{Kind: MissingCredential, Component: "FQX"}, "missing GitLab personal access token"},
		{&Error{Kind: AuthFailed, Component: "FQX", Status: 403}, "HTTP 403"},
		{&Error{Kind: NotFound, Component: "FQX", Status: 404}, "check mapping, branch, or path"},
		{&Error{Kind: HTTPError, Component: "FQX", Status: 502}, "HTTP 502"},
		{&Error{Kind: NetworkError, Component: "FQX", Err: errors.New("boom")}, "boom"},
	}
	for _, tt := range tests {
		assert.Contains(t, tt.err.Error(), tt.contains, "kind %v", tt.err.Kind)
	}

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")), "expected KindUnknown for foreign errors")
}
