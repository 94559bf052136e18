package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/credential"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/discovery"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/gitlab"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/logging"
)

const testGitLabURL = "https://git.example.com"

// mockGitLab serves raw files from memory and records every request
type mockGitLab struct {
	mu       sync.Mutex
	files    map[string]string
	status   int
	requests []*http.Request
}

func newMockGitLab(files map[string]string) *mockGitLab {
	return &mockGitLab{files: files}
}

func (m *mockGitLab) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	status := m.status
	m.mu.Unlock()

	respond := func(code int, body string) (*http.Response, error) {
		return &http.Response{
			StatusCode: code,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}

	if status != 0 {
		return respond(status, "")
	}

	escaped := req.URL.EscapedPath()
	_, rest, ok := strings.Cut(escaped, "/repository/files/")
	if !ok {
		return respond(http.StatusNotFound, "")
	}
	rest = strings.TrimSuffix(rest, "/raw")
	path, err := url.PathUnescape(rest)
	if err != nil {
		return respond(http.StatusBadRequest, "")
	}

	content, ok := m.files[path]
	if !ok {
		return respond(http.StatusNotFound, `{"message":"404 File Not Found"}`)
	}
	return respond(http.StatusOK, content)
}

func (m *mockGitLab) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockGitLab) lastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ""
	}
	return m.requests[len(m.requests)-1].Header.Get("PRIVATE-TOKEN")
}

// testEnv bundles a service wired to a mock GitLab
type testEnv struct {
	gitlab  *mockGitLab
	session *credential.Session
	env     map[string]string
	service *Service
	logs    *bytes.Buffer
	logger  *logging.Logger
}

var testOverrides = catalog.Overrides{
	catalog.KindDemo:   {"FQButton": "docs/basic/Button 按钮.mdx"},
	catalog.KindSource: {"FQButton": "packages/ui/src/button/index.tsx"},
}

var testFiles = map[string]string{
	"docs/basic/Button 按钮.mdx":        "# Button\n\n<FQButton type=\"primary\" />",
	"packages/ui/src/button/index.tsx": "export default Button",
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	te := &testEnv{
		gitlab:  newMockGitLab(testFiles),
		session: credential.NewSession(),
		env:     map[string]string{},
		logs:    &bytes.Buffer{},
	}
	te.logger = logging.NewLoggerWithWriter(true, false, true, te.logs)

	resolver := credential.NewResolver(te.session, credential.WithLookupEnv(func(key string) (string, bool) {
		v, ok := te.env[key]
		return v, ok
	}))

	te.service = NewService(ServiceConfig{
		Store: catalog.NewStore(testOverrides),
		Fetcher: gitlab.NewFetcher(gitlab.Config{
			BaseURL:   testGitLabURL,
			ProjectID: "175",
			Ref:       "test",
			Transport: te.gitlab,
			Resolver:  resolver,
			Logger:    te.logger,
		}),
		Enumerator: discovery.NewDefaultEnumerator(discovery.Options{
			ProjectDir: t.TempDir(),
			Logger:     te.logger,
		}),
		Resolver: resolver,
		Logger:   te.logger,
	})
	return te
}

// connect starts an MCP server for the env and returns a connected client
func (te *testEnv) connect(t *testing.T) (*MCPServer, *Client) {
	t.Helper()

	ms, err := NewMCPServer(te.service, transportStdio, te.logger, "test")
	require.NoError(t, err, "failed to create MCP server")

	client, err := NewInProcessClient(ms, te.logger, "test")
	require.NoError(t, err, "failed to create client")
	require.NoError(t, client.Connect(context.Background()), "failed to connect")
	t.Cleanup(func() { _ = client.Close() })

	return ms, client
}

// resultText joins the text content of a tool result
func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}
