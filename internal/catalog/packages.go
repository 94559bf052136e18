package catalog

import (
	"maps"
	"slices"
)

// Package identifiers accepted by list-components
const (
	PackageBase = "fq-weapp-ui"
	PackagePro  = "fq-weapp-ui-pro"
)

// Package describes one installable component package
type Package struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	DistributionName string `json:"distributionName"`
}

var packages = map[string]Package{
	PackageBase: {
		ID:               PackageBase,
		DisplayName:      "@fq/fq-weapp-ui (base components)",
		DistributionName: "@fq/fq-weapp-ui",
	},
	PackagePro: {
		ID:               PackagePro,
		DisplayName:      "@fq/fq-weapp-ui-pro (pro components)",
		DistributionName: "@fq/fq-weapp-ui-pro",
	},
}

// LookupPackage returns the descriptor for a package identifier
func LookupPackage(id string) (Package, bool) {
	p, ok := packages[id]
	return p, ok
}

// Packages returns all known packages ordered by identifier
func Packages() []Package {
	ids := slices.Sorted(maps.Keys(packages))
	out := make([]Package, 0, len(ids))
	for _, id := range ids {
		out = append(out, packages[id])
	}
	return out
}

// PackageIDs returns all known package identifiers in lexical order
func PackageIDs() []string {
	return slices.Sorted(maps.Keys(packages))
}

// DefaultComponents returns a copy of the hand-maintained component list for a
// package. It is the last-resort discovery source and may lag behind releases.
func DefaultComponents(packageID string) []string {
	return slices.Clone(defaultComponents[packageID])
}
