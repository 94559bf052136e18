// Package gitlab retrieves component files from a GitLab repository through
// the raw-file endpoint of the REST API.
package gitlab

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/credential"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/logging"
)

// Defaults for the component library repository
const (
	DefaultBaseURL   = "https://git.ifengqun.com"
	DefaultProjectID = "175"
	DefaultRef       = "test"
)

// PathResolver maps a component identifier to a repository path.
// *catalog.Mapping satisfies it.
type PathResolver interface {
	Resolve(componentID string) (string, bool)
}

// File is the success outcome of a fetch
type File struct {
	Content string
	Status  int
	URL     string
}

// Config configures a Fetcher
type Config struct {
	// BaseURL is the GitLab host, e.g. https://git.example.com
	BaseURL string

	// ProjectID is the numeric ID or URL-encoded path of the project
	ProjectID string

	// Ref is the branch, tag or commit files are read from
	Ref string

	// Transport is the underlying HTTP transport (default: http.DefaultTransport)
	Transport http.RoundTripper

	// Resolver supplies the access token
	Resolver *credential.Resolver

	// Logger receives debug output; may be nil
	Logger *logging.Logger
}

// Fetcher retrieves raw files for components
type Fetcher struct {
	baseURL   string
	projectID string
	ref       string
	client    *http.Client
	resolver  *credential.Resolver
	logger    *logging.Logger
}

// NewFetcher creates a fetcher; empty coordinates fall back to the defaults
func NewFetcher(cfg Config) *Fetcher {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = DefaultProjectID
	}
	ref := cfg.Ref
	if ref == "" {
		ref = DefaultRef
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = credential.NewResolver(nil)
	}

	return &Fetcher{
		baseURL:   baseURL,
		projectID: projectID,
		ref:       ref,
		client: &http.Client{
			Transport: newPrivateTokenRoundTripper(cfg.Transport),
		},
		resolver: resolver,
		logger:   cfg.Logger,
	}
}

// Ref returns the ref files are read from
func (f *Fetcher) Ref() string {
	return f.ref
}

// FileURL builds the raw-file URL for a repository path
func (f *Fetcher) FileURL(path string) string {
	return fmt.Sprintf("%s/api/v4/projects/%s/repository/files/%s/raw?ref=%s",
		f.baseURL,
		url.PathEscape(f.projectID),
		url.PathEscape(path),
		url.QueryEscape(f.ref),
	)
}

// Fetch resolves componentID through mapping and downloads the file. The
// token is resolved with explicit as the per-call value.
//
// On failure the returned error is always a *Error. No request is sent when
// the component is unmapped or no token is available.
func (f *Fetcher) Fetch(ctx context.Context, componentID string, mapping PathResolver, explicit string) (*File, error) {
	path, ok := mapping.Resolve(componentID)
	if !ok {
		return nil, &Error{Kind: UnmappedComponent, Component: componentID}
	}

	fileURL := f.FileURL(path)

	token, source, ok := f.resolver.Resolve(explicit)
	if !ok {
		return nil, &Error{Kind: MissingCredential, Component: componentID, URL: fileURL}
	}

	req, err := http.NewRequestWithContext(withToken(ctx, token), http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, &Error{Kind: NetworkError, Component: componentID, URL: fileURL, Err: err}
	}

	f.logger.Debug("GET %s (component=%s, token source=%s)", fileURL, componentID, source)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: NetworkError, Component: componentID, URL: fileURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		f.logger.Debug("GET %s returned %d", fileURL, resp.StatusCode)
		return nil, &Error{
			Kind:      classifyStatus(resp.StatusCode),
			Component: componentID,
			Status:    resp.StatusCode,
			URL:       fileURL,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:      NetworkError,
			Component: componentID,
			Status:    resp.StatusCode,
			URL:       fileURL,
			Err:       fmt.Errorf("reading response body: %w", err),
		}
	}

	return &File{
		Content: string(body),
		Status:  resp.StatusCode,
		URL:     fileURL,
	}, nil
}

func classifyStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return AuthFailed
	case http.StatusNotFound:
		return NotFound
	default:
		return HTTPError
	}
}
