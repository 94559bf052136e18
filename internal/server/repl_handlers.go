package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
)

// displayToolResult prints a tool result, in red when it is an error
func (r *REPL) displayToolResult(result *mcp.CallToolResult) {
	for _, content := range result.Content {
		textContent, ok := mcp.AsTextContent(content)
		if !ok {
			continue
		}
		if result.IsError {
			r.failure.Fprintln(r.out, textContent.Text)
		} else {
			fmt.Fprintln(r.out, textContent.Text)
		}
	}
}

// callTool runs a tool through the client and prints the outcome
func (r *REPL) callTool(ctx context.Context, name string, args map[string]interface{}) error {
	result, err := r.client.CallTool(ctx, name, args)
	if err != nil {
		return fmt.Errorf("tool execution failed: %w", err)
	}
	r.displayToolResult(result)
	return nil
}

// handlePackages reads the packages resource
func (r *REPL) handlePackages(ctx context.Context) error {
	result, err := r.client.GetResource(ctx, resourcePackagesURI)
	if err != nil {
		return fmt.Errorf("resource retrieval failed: %w", err)
	}

	for _, content := range result.Contents {
		textContent, ok := mcp.AsTextResourceContents(content)
		if !ok {
			continue
		}
		var packages []catalog.Package
		if err := json.Unmarshal([]byte(textContent.Text), &packages); err != nil {
			fmt.Fprintln(r.out, textContent.Text)
			continue
		}

		r.heading.Fprintf(r.out, "Component packages (%d):\n", len(packages))
		for i, pkg := range packages {
			fmt.Fprintf(r.out, "  %d. %-20s - %s\n", i+1, pkg.ID, pkg.DisplayName)
		}
	}
	return nil
}

// listTools displays the tools the server exposes
func (r *REPL) listTools() error {
	tools := r.client.Tools()
	if len(tools) == 0 {
		fmt.Fprintln(r.out, "No tools available.")
		return nil
	}

	r.heading.Fprintf(r.out, "Available tools (%d):\n", len(tools))
	for i, tool := range tools {
		fmt.Fprintf(r.out, "  %d. %-30s - %s\n", i+1, tool.Name, tool.Description)
	}
	return nil
}

// listResources displays the resources and resource templates
func (r *REPL) listResources() error {
	resources, templates := r.client.Resources()
	if len(resources) == 0 && len(templates) == 0 {
		fmt.Fprintln(r.out, "No resources available.")
		return nil
	}

	r.heading.Fprintf(r.out, "Available resources (%d):\n", len(resources))
	for i, res := range resources {
		fmt.Fprintf(r.out, "  %d. %-30s - %s\n", i+1, res.URI, res.Description)
	}
	if len(templates) > 0 {
		r.heading.Fprintf(r.out, "Resource templates (%d):\n", len(templates))
		for i, tmpl := range templates {
			uri := tmpl.Name
			if tmpl.URITemplate != nil {
				uri = tmpl.URITemplate.Raw()
			}
			fmt.Fprintf(r.out, "  %d. %-30s - %s\n", i+1, uri, tmpl.Description)
		}
	}
	return nil
}

// describeTool prints the input schema of a tool
func (r *REPL) describeTool(name string) error {
	for _, tool := range r.client.Tools() {
		if tool.Name != name {
			continue
		}
		r.heading.Fprintf(r.out, "Tool: %s\n", tool.Name)
		fmt.Fprintf(r.out, "Description: %s\n", tool.Description)
		fmt.Fprintln(r.out, "Input schema:")
		fmt.Fprintln(r.out, PrettyJSON(tool.InputSchema))
		return nil
	}
	return fmt.Errorf("tool not found: %s", name)
}

// handleList runs list-components
func (r *REPL) handleList(ctx context.Context, packageID, filter string) error {
	args := map[string]interface{}{"name": packageID}
	if filter != "" {
		args["filter"] = filter
	}
	return r.callTool(ctx, toolListComponents, args)
}

// handleArtifact runs get-component-demo or get-component-source-code.
// parts is the command line: <command> <component> [token]
func (r *REPL) handleArtifact(ctx context.Context, tool string, parts []string) error {
	args := map[string]interface{}{"componentName": parts[1]}
	if len(parts) > 2 {
		args["token"] = parts[2]
	}
	r.muted.Fprintf(r.out, "Fetching %s...\n", parts[1])
	return r.callTool(ctx, tool, args)
}

// handleToken runs set-gitlab-token
func (r *REPL) handleToken(ctx context.Context, parts []string) error {
	args := map[string]interface{}{}
	if len(parts) > 1 {
		args["token"] = parts[1]
	}

	result, err := r.client.CallTool(ctx, toolSetGitLabToken, args)
	if err != nil {
		return fmt.Errorf("tool execution failed: %w", err)
	}
	if len(parts) > 1 && !result.IsError {
		for _, content := range result.Content {
			if textContent, ok := mcp.AsTextContent(content); ok {
				r.success.Fprintln(r.out, textContent.Text)
			}
		}
		return nil
	}
	r.displayToolResult(result)
	return nil
}
