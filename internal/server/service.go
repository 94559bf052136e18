package server

import (
	"context"
	"errors"
	"strings"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/credential"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/discovery"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/gitlab"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/logging"
)

// Failure is an operation error whose message is a complete, user-readable
// diagnostic. Err is the underlying cause when there is one.
type Failure struct {
	Message string
	Err     error
}

// Error implements the error interface
func (f *Failure) Error() string {
	return f.Message
}

// Unwrap returns the underlying cause
func (f *Failure) Unwrap() error {
	return f.Err
}

// Service implements the component operations shared by the MCP tools, the
// MCP resources and the REPL
type Service struct {
	store      *catalog.Store
	fetcher    *gitlab.Fetcher
	enumerator *discovery.Enumerator
	resolver   *credential.Resolver
	logger     *logging.Logger
}

// ServiceConfig holds the collaborators of a Service. Fetcher must be built
// with the same Resolver so that set-gitlab-token affects fetches.
type ServiceConfig struct {
	Store      *catalog.Store
	Fetcher    *gitlab.Fetcher
	Enumerator *discovery.Enumerator
	Resolver   *credential.Resolver
	Logger     *logging.Logger
}

// NewService creates a Service. Missing collaborators get defaults: the
// built-in mappings, a fresh session, the default GitLab coordinates and
// the default discovery chain.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Store == nil {
		cfg.Store = catalog.NewStore(nil)
	}
	if cfg.Resolver == nil {
		cfg.Resolver = credential.NewResolver(credential.NewSession())
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = gitlab.NewFetcher(gitlab.Config{Resolver: cfg.Resolver, Logger: cfg.Logger})
	}
	if cfg.Enumerator == nil {
		cfg.Enumerator = discovery.NewDefaultEnumerator(discovery.Options{Logger: cfg.Logger})
	}
	for _, kind := range []catalog.ArtifactKind{catalog.KindDemo, catalog.KindSource} {
		if m, err := cfg.Store.Mapping(kind); err == nil {
			cfg.Logger.Debug("%s mappings: %d components", m.Kind(), m.Len())
		}
	}

	return &Service{
		store:      cfg.Store,
		fetcher:    cfg.Fetcher,
		enumerator: cfg.Enumerator,
		resolver:   cfg.Resolver,
		logger:     cfg.Logger,
	}
}

// Packages returns the supported component packages
func (s *Service) Packages() []catalog.Package {
	return catalog.Packages()
}

// Components returns every component that has a demo or source mapping
func (s *Service) Components() []string {
	return s.store.Components()
}

// ListComponents enumerates the components of packageID, optionally narrowed
// by a glob filter, and renders them as Markdown
func (s *Service) ListComponents(ctx context.Context, packageID, filter string) (string, error) {
	packageID = strings.TrimSpace(packageID)

	result, err := s.enumerator.Enumerate(ctx, packageID)
	if err != nil {
		if errors.Is(err, discovery.ErrUnknownPackage) {
			return "", &Failure{Message: formatUnknownPackage(packageID), Err: err}
		}
		return "", &Failure{Message: formatListError(packageID, err), Err: err}
	}

	pkg, _ := catalog.LookupPackage(packageID)
	if len(result.Components) == 0 {
		return "", &Failure{Message: formatNoComponents(pkg, result)}
	}

	matched, err := discovery.Filter(result.Components, filter)
	if err != nil {
		return "", &Failure{Message: "❌ " + err.Error(), Err: err}
	}
	if len(matched) == 0 {
		return "", &Failure{Message: formatNoMatches(pkg, filter, len(result.Components))}
	}

	return formatComponentList(pkg, result, matched, filter), nil
}

// GetArtifact fetches the demo or source file of componentID. token, when
// non-blank, takes precedence over the session and environment credentials
// for this call only.
func (s *Service) GetArtifact(ctx context.Context, kind catalog.ArtifactKind, componentID, token string) (string, error) {
	componentID = strings.TrimSpace(componentID)

	mapping, err := s.store.Mapping(kind)
	if err != nil {
		return "", &Failure{Message: "❌ " + err.Error(), Err: err}
	}

	file, err := s.fetcher.Fetch(ctx, componentID, mapping, token)
	if err != nil {
		fetchErr, ok := gitlab.AsError(err)
		if !ok {
			return "", &Failure{Message: "❌ " + err.Error(), Err: err}
		}
		s.logger.Debug("fetching %s for %s failed: %s", mapping.Kind(), componentID, gitlab.KindOf(err))
		return "", &Failure{
			Message: formatFetchFailure(kind, fetchErr, s.resolver.EnvVar(), s.fetcher.Ref()),
			Err:     err,
		}
	}

	return file.Content, nil
}

// SetToken stores token as the session credential. A blank token leaves the
// session untouched and reports whether one is set.
func (s *Service) SetToken(token string) string {
	session := s.resolver.Session()
	if session.Set(token) {
		s.logger.Debug("session token updated")
		return "✅ GitLab token stored for this session."
	}
	if session.IsSet() {
		return "Current session token is set."
	}
	return "No session token set. You can set one via set-gitlab-token or pass token to get-component-demo."
}
