package discovery

import (
	"context"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
)

// DefaultsProvider returns the hand-maintained component list of a package
type DefaultsProvider func(packageID string) []string

// StaticStrategy answers from a built-in list
type StaticStrategy struct {
	provider DefaultsProvider
}

// NewStaticStrategy creates the strategy; a nil provider uses
// catalog.DefaultComponents
func NewStaticStrategy(provider DefaultsProvider) *StaticStrategy {
	if provider == nil {
		provider = catalog.DefaultComponents
	}
	return &StaticStrategy{provider: provider}
}

// Name implements Strategy
func (s *StaticStrategy) Name() string {
	return "static-default"
}

// Discover implements Strategy
func (s *StaticStrategy) Discover(_ context.Context, pkg catalog.Package) (*Result, error) {
	components := s.provider(pkg.ID)
	if len(components) == 0 {
		return nil, nil
	}
	return &Result{
		Components:  components,
		Source:      StaticDefault,
		Description: "built-in default list (may be outdated)",
	}, nil
}
