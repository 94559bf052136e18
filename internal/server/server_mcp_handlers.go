package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
)

// traced wraps a tool handler with a per-call trace id and trace logging
func (m *MCPServer) traced(tool string, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := m.logger.With("trace_id", uuid.NewString())
		logger.ToolRequest(tool, request.GetArguments())

		result, err := handler(ctx, request)
		if err != nil {
			logger.Error("tool %s failed: %v", tool, err)
			return result, err
		}

		logger.ToolResponse(tool, result.IsError, resultSize(result))
		return result, nil
	}
}

// resultSize counts the text bytes of a tool result
func resultSize(result *mcp.CallToolResult) int {
	size := 0
	for _, content := range result.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			size += len(text.Text)
		}
	}
	return size
}

// handleListComponents handles the list-components tool request
func (m *MCPServer) handleListComponents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing or invalid 'name' argument"), nil
	}

	text, err := m.service.ListComponents(ctx, name, request.GetString("filter", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

// handleGetComponentDemo handles the get-component-demo tool request
func (m *MCPServer) handleGetComponentDemo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.handleGetArtifact(ctx, catalog.KindDemo, request)
}

// handleGetComponentSource handles the get-component-source-code tool request
func (m *MCPServer) handleGetComponentSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return m.handleGetArtifact(ctx, catalog.KindSource, request)
}

func (m *MCPServer) handleGetArtifact(ctx context.Context, kind catalog.ArtifactKind, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	componentName, err := request.RequireString("componentName")
	if err != nil {
		return mcp.NewToolResultError("missing or invalid 'componentName' argument"), nil
	}

	content, err := m.service.GetArtifact(ctx, kind, componentName, request.GetString("token", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

// handleSetGitLabToken handles the set-gitlab-token tool request
func (m *MCPServer) handleSetGitLabToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(m.service.SetToken(request.GetString("token", ""))), nil
}

// handlePackagesResource serves fq-ui://packages
func (m *MCPServer) handlePackagesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(m.service.Packages(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal packages: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: mimeJSON,
			Text:     string(data),
		},
	}, nil
}

// handleComponentsResource serves fq-ui://components/{package}
func (m *MCPServer) handleComponentsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	packageID, err := resourceParam(request.Params.URI, resourceComponentsPrefix)
	if err != nil {
		return nil, err
	}

	text, err := m.service.ListComponents(ctx, packageID, "")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: mimeMarkdown,
			Text:     text,
		},
	}, nil
}

// handleDemoResource serves fq-ui://demo/{component}
func (m *MCPServer) handleDemoResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return m.readArtifactResource(ctx, catalog.KindDemo, resourceDemoPrefix, request)
}

// handleSourceResource serves fq-ui://source/{component}
func (m *MCPServer) handleSourceResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return m.readArtifactResource(ctx, catalog.KindSource, resourceSourcePrefix, request)
}

func (m *MCPServer) readArtifactResource(ctx context.Context, kind catalog.ArtifactKind, prefix string, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	componentID, err := resourceParam(request.Params.URI, prefix)
	if err != nil {
		return nil, err
	}

	content, err := m.service.GetArtifact(ctx, kind, componentID, "")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: mimePlainText,
			Text:     content,
		},
	}, nil
}

// resourceParam extracts the single path parameter following prefix
func resourceParam(uri, prefix string) (string, error) {
	param, ok := strings.CutPrefix(uri, prefix)
	if !ok || param == "" || strings.Contains(param, "/") {
		return "", fmt.Errorf("invalid resource URI %q: expected %s<name>", uri, prefix)
	}
	return param, nil
}
