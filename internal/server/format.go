package server

import (
	"fmt"
	"strings"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/discovery"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/gitlab"
)

// toolForKind names the tool that retrieves an artifact kind
func toolForKind(kind catalog.ArtifactKind) string {
	if kind == catalog.KindSource {
		return toolGetComponentSource
	}
	return toolGetComponentDemo
}

func formatUnknownPackage(packageID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ Unknown component package: %s\n\nSupported packages:\n", packageID)
	for _, pkg := range catalog.Packages() {
		fmt.Fprintf(&b, "- %s: %s\n", pkg.ID, pkg.DisplayName)
	}
	b.WriteString("\n💡 Make sure the package is installed in your project.")
	return b.String()
}

func formatListError(packageID string, err error) string {
	return fmt.Sprintf("❌ Failed to list components of %s: %v", packageID, err)
}

func formatNoComponents(pkg catalog.Package, result discovery.Result) string {
	return fmt.Sprintf("❌ No components found in %s\n\n**Source**: %s\n\n💡 Suggestions:\n"+
		"- Make sure %s is installed\n"+
		"- Check that the package is present in node_modules",
		pkg.DisplayName, result.Description, pkg.DistributionName)
}

func formatNoMatches(pkg catalog.Package, filter string, total int) string {
	return fmt.Sprintf("❌ None of the %d components in %s match %q", total, pkg.DisplayName, filter)
}

// formatComponentList renders a successful listing. The closing hint depends
// on where the list came from.
func formatComponentList(pkg catalog.Package, result discovery.Result, components []string, filter string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s components\n\n", pkg.DisplayName)
	fmt.Fprintf(&b, "**Source**: %s\n", result.Description)
	fmt.Fprintf(&b, "**Count**: %d\n", len(components))
	if result.Version != "" {
		fmt.Fprintf(&b, "**Version**: %s\n", result.Version)
	}
	if strings.TrimSpace(filter) != "" {
		fmt.Fprintf(&b, "**Filter**: %s (%d of %d)\n", filter, len(components), len(result.Components))
	}

	b.WriteString("\n**Components**:\n")
	for _, c := range components {
		fmt.Fprintf(&b, "  - %s\n", c)
	}

	switch result.Source {
	case discovery.InstalledPackage:
		b.WriteString("\n✅ This list reflects the version installed in your project")
		if result.PackageDir != "" {
			fmt.Fprintf(&b, " (%s)", result.PackageDir)
		}
		b.WriteString(".")
	case discovery.StaticDefault:
		fmt.Fprintf(&b, "\n⚠️  Using the built-in default list; install %s for an up-to-date list.", pkg.DistributionName)
	}

	return strings.TrimRight(b.String(), "\n")
}

// failureReason describes a fetch error in one line
func failureReason(kind catalog.ArtifactKind, err *gitlab.Error) string {
	switch err.Kind {
	case gitlab.UnmappedComponent:
		return fmt.Sprintf("component %s has no %s mapping", err.Component, kind)
	case gitlab.AuthFailed:
		return "authentication failed (token invalid or insufficient scope)"
	case gitlab.NotFound:
		return "file not found (check mapping, branch, or path)"
	case gitlab.HTTPError:
		return fmt.Sprintf("HTTP %d", err.Status)
	case gitlab.NetworkError:
		return fmt.Sprintf("network error: %v", err.Err)
	default:
		return err.Error()
	}
}

// formatFetchFailure renders a failed artifact fetch. A missing credential
// gets the three ways of supplying one; everything else gets the reason and
// troubleshooting hints.
func formatFetchFailure(kind catalog.ArtifactKind, err *gitlab.Error, envVar, ref string) string {
	tool := toolForKind(kind)

	if err.Kind == gitlab.MissingCredential {
		return fmt.Sprintf("❌ Missing GitLab token.\nComponent: %s\nURL: %s\n\n"+
			"Supply one in any of these ways:\n"+
			"1. Set the environment variable: export %s=your_token\n"+
			"2. Call %s with the token first\n"+
			"3. Pass the token argument to %s directly\n\n"+
			"Examples:\n"+
			"- %s: {\"token\": \"glpat-xxxxx\"}\n"+
			"- %s: {\"componentName\": \"%s\", \"token\": \"glpat-xxxxx\"}",
			err.Component, err.URL,
			envVar,
			toolSetGitLabToken,
			tool,
			toolSetGitLabToken,
			tool, err.Component,
		)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "❌ Failed to fetch %s\nComponent: %s\nReason: %s", kind, err.Component, failureReason(kind, err))
	if err.URL != "" {
		fmt.Fprintf(&b, "\nURL: %s", err.URL)
	}
	if err.Status != 0 {
		fmt.Fprintf(&b, "\nStatus: %d", err.Status)
	}
	b.WriteString("\n\nTroubleshooting:\n")
	fmt.Fprintf(&b, "- Check that %s has a %s mapping (%s shows available components)\n", err.Component, kind, toolListComponents)
	fmt.Fprintf(&b, "- Check that the branch ref is correct (current: %s)\n", ref)
	b.WriteString("- On 401/403, check that the token is valid and has read_repository scope")
	return b.String()
}
