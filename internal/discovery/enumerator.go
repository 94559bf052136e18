// Package discovery works out which components a UI package exposes.
//
// Strategies are tried in order and the first non-empty answer wins. A
// strategy that fails or finds nothing is skipped; it never aborts the chain.
package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/logging"
)

// ErrUnknownPackage is returned for package IDs outside the catalog
var ErrUnknownPackage = errors.New("unknown component package")

// Source tags which strategy produced a Result
type Source int

const (
	// NoneFound means every strategy came back empty
	NoneFound Source = iota
	// InstalledPackage means the list was read from node_modules
	InstalledPackage
	// StaticDefault means the built-in list was used
	StaticDefault
)

// String implements fmt.Stringer
func (s Source) String() string {
	switch s {
	case InstalledPackage:
		return "installed-package"
	case StaticDefault:
		return "static-default"
	default:
		return "none"
	}
}

// Result is the outcome of enumerating one package
type Result struct {
	Components []string
	Source     Source
	// Description is human-readable and only meant for display
	Description string
	Version     string
	PackageDir  string
}

// Strategy is one way of listing a package's components. Returning a nil
// Result (or one without components) means "no answer".
type Strategy interface {
	Name() string
	Discover(ctx context.Context, pkg catalog.Package) (*Result, error)
}

// Enumerator runs a strategy chain
type Enumerator struct {
	strategies []Strategy
	logger     *logging.Logger
}

// NewEnumerator creates an enumerator that tries strategies in the given order
func NewEnumerator(logger *logging.Logger, strategies ...Strategy) *Enumerator {
	return &Enumerator{
		strategies: strategies,
		logger:     logger,
	}
}

// Options configures the default strategy chain
type Options struct {
	// ProjectDir is where the node_modules lookup starts (default: working directory)
	ProjectDir string
	// Prefix is the component naming prefix (default: FQ)
	Prefix string
	Logger *logging.Logger
}

// NewDefaultEnumerator builds the installed-package then static-default chain
func NewDefaultEnumerator(opts Options) *Enumerator {
	return NewEnumerator(opts.Logger,
		NewInstalledPackageStrategy(opts.ProjectDir, opts.Prefix),
		NewStaticStrategy(nil),
	)
}

// Enumerate lists the components of packageID
func (e *Enumerator) Enumerate(ctx context.Context, packageID string) (Result, error) {
	pkg, ok := catalog.LookupPackage(packageID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownPackage, packageID)
	}

	for _, strategy := range e.strategies {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		result, err := strategy.Discover(ctx, pkg)
		if err != nil {
			e.logger.Debug("discovery strategy %s failed for %s: %v", strategy.Name(), pkg.ID, err)
			continue
		}
		if result == nil || len(result.Components) == 0 {
			e.logger.Debug("discovery strategy %s found nothing for %s", strategy.Name(), pkg.ID)
			continue
		}

		e.logger.Debug("discovery strategy %s found %d components for %s", strategy.Name(), len(result.Components), pkg.ID)
		return *result, nil
	}

	return Result{
		Source:      NoneFound,
		Description: "no components found",
	}, nil
}
