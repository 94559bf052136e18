package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
)

// writeFile creates path (and its parents) under root
func writeFile(t *testing.T, root, path, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// countingProvider records how often the static list was consulted
type countingProvider struct {
	calls int
	lists map[string][]string
}

func (p *countingProvider) provide(packageID string) []string {
	p.calls++
	return p.lists[packageID]
}

func newCountingProvider() *countingProvider {
	return &countingProvider{lists: map[string][]string{
		catalog.PackageBase: {"FQDefaultA", "FQDefaultB"},
		catalog.PackagePro:  {"FQDefaultPro"},
	}}
}

type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }

func (failingStrategy) Discover(context.Context, catalog.Package) (*Result, error) {
	return nil, errors.New("boom")
}

func TestEnumerate_InstalledPackageShortCircuits(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, "node_modules/@fq/fq-weapp-ui/package.json",
		`{"name":"@fq/fq-weapp-ui","version":"2.3.1","typings":"es/index.d.ts"}`)
	writeFile(t, project, "node_modules/@fq/fq-weapp-ui/es/index.d.ts", `
export declare const FQButton: React.FC<ButtonProps>;
export declare function FQModal(props: ModalProps): JSX.Element;
export declare class FQForm extends React.Component {}
export declare const FQButton: React.FC<ButtonProps>;
export declare const helper: number;
`)

	provider := newCountingProvider()
	e := NewEnumerator(nil,
		NewInstalledPackageStrategy(project, ""),
		NewStaticStrategy(provider.provide),
	)

	result, err := e.Enumerate(context.Background(), catalog.PackageBase)
	require.NoError(t, err)

	assert.Equal(t, []string{"FQButton", "FQForm", "FQModal"}, result.Components)
	assert.Equal(t, InstalledPackage, result.Source)
	assert.Equal(t, "2.3.1", result.Version)
	assert.Equal(t, filepath.Join(project, "node_modules", "@fq", "fq-weapp-ui"), result.PackageDir)
	assert.Contains(t, result.Description, "version 2.3.1")
	assert.Equal(t, 0, provider.calls, "static list must not be consulted")
}

func TestEnumerate_FallsBackToStaticDefault(t *testing.T) {
	project := t.TempDir()
	writeFile(t, project, "node_modules/@fq/fq-weapp-ui-pro/package.json",
		`{"name":"@fq/fq-weapp-ui-pro","version":"1.0.0"}`)
	// every candidate exists but exports nothing recognisable
	for _, f := range []string{"es/index.d.ts", "lib/index.d.ts", "dist/index.d.ts", "index.d.ts"} {
		writeFile(t, project, "node_modules/@fq/fq-weapp-ui-pro/"+f, "export declare const version: string;\n")
	}
	writeFile(t, project, "node_modules/@fq/fq-weapp-ui-pro/lib/index.js", "module.exports = {};\n")

	provider := newCountingProvider()
	e := NewEnumerator(nil,
		NewInstalledPackageStrategy(project, ""),
		NewStaticStrategy(provider.provide),
	)

	result, err := e.Enumerate(context.Background(), catalog.PackagePro)
	require.NoError(t, err)

	assert.Equal(t, []string{"FQDefaultPro"}, result.Components)
	assert.Equal(t, StaticDefault, result.Source)
	assert.Empty(t, result.Version)
	assert.Equal(t, 1, provider.calls)
}

func TestEnumerate_NotInstalledUsesBuiltInList(t *testing.T) {
	e := NewDefaultEnumerator(Options{ProjectDir: t.TempDir()})

	result, err := e.Enumerate(context.Background(), catalog.PackagePro)
	require.NoError(t, err)

	assert.Equal(t, catalog.DefaultComponents(catalog.PackagePro), result.Components)
	assert.Equal(t, StaticDefault, result.Source)
}

func TestEnumerate_FailingStrategyIsSkipped(t *testing.T) {
	provider := newCountingProvider()
	e := NewEnumerator(nil, failingStrategy{}, NewStaticStrategy(provider.provide))

	result, err := e.Enumerate(context.Background(), catalog.PackageBase)
	require.NoError(t, err)
	assert.Equal(t, StaticDefault, result.Source)
	assert.Equal(t, []string{"FQDefaultA", "FQDefaultB"}, result.Components)
}

func TestEnumerate_NoneFound(t *testing.T) {
	e := NewEnumerator(nil, failingStrategy{}, NewStaticStrategy(func(string) []string { return nil }))

	result, err := e.Enumerate(context.Background(), catalog.PackageBase)
	require.NoError(t, err)
	assert.Equal(t, NoneFound, result.Source)
	assert.Empty(t, result.Components)
	assert.Equal(t, "no components found", result.Description)
}

func TestEnumerate_UnknownPackage(t *testing.T) {
	provider := newCountingProvider()
	e := NewEnumerator(nil, NewStaticStrategy(provider.provide))

	_, err := e.Enumerate(context.Background(), "antd")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPackage)
	assert.Contains(t, err.Error(), "antd")
	assert.Equal(t, 0, provider.calls)
}

func TestEnumerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEnumerator(nil, NewStaticStrategy(nil))
	_, err := e.Enumerate(ctx, catalog.PackageBase)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "installed-package", InstalledPackage.String())
	assert.Equal(t, "static-default", StaticDefault.String())
	assert.Equal(t, "none", NoneFound.String())
}
