package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
)

// DefaultPrefix is the naming convention shared by exported components
const DefaultPrefix = "FQ"

var errPackageNotInstalled = errors.New("package not installed")

// packageManifest holds the package.json fields the scanner reads
type packageManifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Typings string `json:"typings"`
	Types   string `json:"types"`
	Main    string `json:"main"`
}

// InstalledPackageStrategy scans the type definitions (or main entry) of an
// installed npm package for exported component names.
//
// It is a regex heuristic, not a parser: an unusual build output can
// legitimately yield nothing, in which case the chain moves on.
type InstalledPackageStrategy struct {
	projectDir string
	prefix     string

	declareRe  *regexp.Regexp
	reexportRe *regexp.Regexp
	commonJSRe *regexp.Regexp
}

// NewInstalledPackageStrategy creates the strategy. Empty arguments select
// the working directory and DefaultPrefix.
func NewInstalledPackageStrategy(projectDir, prefix string) *InstalledPackageStrategy {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	p := regexp.QuoteMeta(prefix)

	return &InstalledPackageStrategy{
		projectDir: projectDir,
		prefix:     prefix,
		declareRe:  regexp.MustCompile(`export\s+declare\s+(?:const|function|class)\s+(` + p + `\w+)`),
		reexportRe: regexp.MustCompile(`export\s+\{\s*default\s+as\s+(` + p + `\w+)`),
		commonJSRe: regexp.MustCompile(`(?:exports\.|module\.exports\.)(` + p + `\w+)\s*=`),
	}
}

// Name implements Strategy
func (s *InstalledPackageStrategy) Name() string {
	return "installed-package"
}

// Discover implements Strategy
func (s *InstalledPackageStrategy) Discover(ctx context.Context, pkg catalog.Package) (*Result, error) {
	manifestPath, err := s.locate(pkg.DistributionName)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", manifestPath, err)
	}

	packageDir := filepath.Dir(manifestPath)
	result := func(components []string) *Result {
		description := fmt.Sprintf("installed npm package %s in %s", pkg.DistributionName, packageDir)
		if manifest.Version != "" {
			description += fmt.Sprintf(" (version %s)", manifest.Version)
		}
		return &Result{
			Components:  components,
			Source:      InstalledPackage,
			Description: description,
			Version:     manifest.Version,
			PackageDir:  packageDir,
		}
	}

	for _, candidate := range typeDefinitionCandidates(manifest) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, ok := readIfExists(filepath.Join(packageDir, filepath.FromSlash(candidate)))
		if !ok {
			continue
		}
		components := scan(s.declareRe, content)
		if len(components) == 0 {
			components = scan(s.reexportRe, content)
		}
		if len(components) > 0 {
			return result(components), nil
		}
	}

	main := manifest.Main
	if main == "" {
		main = "lib/index.js"
	}
	if content, ok := readIfExists(filepath.Join(packageDir, filepath.FromSlash(main))); ok {
		if components := scan(s.commonJSRe, content); len(components) > 0 {
			return result(components), nil
		}
	}

	return nil, nil
}

// locate walks up from the project directory looking for
// node_modules/<distribution>/package.json
func (s *InstalledPackageStrategy) locate(distribution string) (string, error) {
	dir := s.projectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving project directory: %w", err)
	}

	rel := filepath.Join("node_modules", filepath.FromSlash(distribution), "package.json")
	for {
		candidate := filepath.Join(dir, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", errPackageNotInstalled, distribution)
		}
		dir = parent
	}
}

// typeDefinitionCandidates lists .d.ts files in lookup order
func typeDefinitionCandidates(m packageManifest) []string {
	first := m.Typings
	if first == "" {
		first = m.Types
	}
	if first == "" {
		first = "es/index.d.ts"
	}
	return []string{first, "lib/index.d.ts", "dist/index.d.ts", "index.d.ts"}
}

// readIfExists reads a regular file; missing or unreadable files count as absent
func readIfExists(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// scan returns the sorted, de-duplicated first capture group of every match
func scan(re *regexp.Regexp, content string) []string {
	matches := re.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	slices.Sort(names)
	return slices.Compact(names)
}
