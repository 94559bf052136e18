// Package credential resolves the GitLab access token used for remote file
// retrieval.
//
// A token comes from one of three places, first present wins:
//
//  1. an explicit value passed with a single tool call
//  2. the session value stored by a prior set-gitlab-token call
//  3. the environment variable, read at call time
//
// The session value lives in a Session created once per server lifetime and
// injected into every component that needs it. Tokens are never persisted and
// never logged.
package credential

import (
	"os"
	"strings"
	"sync"
)

// DefaultEnvVar is the environment variable consulted as the last resort
const DefaultEnvVar = "GITLAB_PERSONAL_ACCESS_TOKEN"

// Source identifies where a resolved token came from
type Source int

const (
	// SourceNone means no token could be resolved
	SourceNone Source = iota
	// SourceExplicit is a per-call argument
	SourceExplicit
	// SourceSession is the value stored via set-gitlab-token
	SourceSession
	// SourceEnvironment is the environment variable
	SourceEnvironment
)

// String implements fmt.Stringer
func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceSession:
		return "session"
	case SourceEnvironment:
		return "environment"
	default:
		return "none"
	}
}

// Session holds the session-scoped token. Concurrent Set calls are last
// write wins; a fetch already in flight keeps the token it resolved.
type Session struct {
	mu    sync.RWMutex
	token string
}

// NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// Set stores token for the remaining process lifetime, replacing any previous
// value. Surrounding whitespace is trimmed; a blank token is ignored and
// reported as false, as is any call on a nil session.
func (s *Session) Set(token string) bool {
	token = strings.TrimSpace(token)
	if s == nil || token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return true
}

// Token returns the session token, if any
func (s *Session) Token() (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// IsSet reports whether a session token is stored
func (s *Session) IsSet() bool {
	_, ok := s.Token()
	return ok
}

// Resolver picks the best available token
type Resolver struct {
	session *Session
	envVar  string
	lookup  func(string) (string, bool)
}

// Option configures a Resolver
type Option func(*Resolver)

// WithEnvVar changes the environment variable consulted last
func WithEnvVar(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.envVar = name
		}
	}
}

// WithLookupEnv replaces os.LookupEnv, mainly for tests
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(r *Resolver) {
		if lookup != nil {
			r.lookup = lookup
		}
	}
}

// NewResolver creates a resolver bound to a session. A nil session behaves as
// one that was never set.
func NewResolver(session *Session, opts ...Option) *Resolver {
	r := &Resolver{
		session: session,
		envVar:  DefaultEnvVar,
		lookup:  os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnvVar returns the name of the environment variable consulted last
func (r *Resolver) EnvVar() string {
	return r.envVar
}

// Session returns the session the resolver reads from
func (r *Resolver) Session() *Session {
	return r.session
}

// Resolve returns the first present token, in priority order explicit,
// session, environment. Blank values count as absent. The environment is read
// on every call.
func (r *Resolver) Resolve(explicit string) (string, Source, bool) {
	if token := strings.TrimSpace(explicit); token != "" {
		return token, SourceExplicit, true
	}
	if token, ok := r.session.Token(); ok {
		return token, SourceSession, true
	}
	if value, ok := r.lookup(r.envVar); ok {
		if token := strings.TrimSpace(value); token != "" {
			return token, SourceEnvironment, true
		}
	}
	return "", SourceNone, false
}
