package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/logging"
)

// Client talks to an MCPServer in the same process. The REPL uses it so that
// interactive commands go through the same tool handlers as remote clients.
type Client struct {
	logger             *logging.Logger
	client             *mcpclient.Client
	version            string
	toolCache          []mcp.Tool
	resourceCache      []mcp.Resource
	templateCache      []mcp.ResourceTemplate
	mu                 sync.RWMutex
	serverCapabilities *mcp.ServerCapabilities
}

// NewInProcessClient creates a client bound to ms
func NewInProcessClient(ms *MCPServer, logger *logging.Logger, version string) (*Client, error) {
	c, err := mcpclient.NewInProcessClient(ms.mcpServer)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-process client: %w", err)
	}
	return &Client{
		logger:  logger,
		client:  c,
		version: version,
	}, nil
}

// Connect starts the client, performs the handshake and caches the tool and
// resource lists
func (c *Client) Connect(ctx context.Context) error {
	if err := c.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start client: %w", err)
	}
	if err := c.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	if c.ServerSupportsTools() {
		if err := c.listTools(ctx); err != nil {
			return fmt.Errorf("initial tool listing failed: %w", err)
		}
	}
	if c.ServerSupportsResources() {
		if err := c.listResources(ctx); err != nil {
			return fmt.Errorf("initial resource listing failed: %w", err)
		}
	}
	return nil
}

// Close releases the client
func (c *Client) Close() error {
	return c.client.Close()
}

// initialize performs the MCP protocol handshake
func (c *Client) initialize(ctx context.Context) error {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    serverName + "-repl",
		Version: c.version,
	}

	result, err := c.client.Initialize(ctx, req)
	if err != nil {
		c.logger.Error("Initialize failed: %v", err)
		return err
	}
	c.logger.Debug("connected to %s %s", result.ServerInfo.Name, result.ServerInfo.Version)

	c.mu.Lock()
	c.serverCapabilities = &result.Capabilities
	c.mu.Unlock()

	return nil
}

// listTools refreshes the tool cache
func (c *Client) listTools(ctx context.Context) error {
	result, err := c.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		c.logger.Error("ListTools failed: %v", err)
		return err
	}

	c.mu.Lock()
	c.toolCache = result.Tools
	c.mu.Unlock()
	return nil
}

// listResources refreshes the resource and resource template caches
func (c *Client) listResources(ctx context.Context) error {
	resources, err := c.client.ListResources(ctx, mcp.ListResourcesRequest{})
	if err != nil {
		c.logger.Error("ListResources failed: %v", err)
		return err
	}
	templates, err := c.client.ListResourceTemplates(ctx, mcp.ListResourceTemplatesRequest{})
	if err != nil {
		c.logger.Error("ListResourceTemplates failed: %v", err)
		return err
	}

	c.mu.Lock()
	c.resourceCache = resources.Resources
	c.templateCache = templates.ResourceTemplates
	c.mu.Unlock()
	return nil
}

// Tools returns the cached tool list
func (c *Client) Tools() []mcp.Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.toolCache
}

// Resources returns the cached resources and resource templates
func (c *Client) Resources() ([]mcp.Resource, []mcp.ResourceTemplate) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resourceCache, c.templateCache
}

// CallTool executes a tool with the given arguments
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}

	result, err := c.client.CallTool(ctx, req)
	if err != nil {
		c.logger.Error("CallTool failed: %v", err)
		return nil, err
	}
	return result, nil
}

// GetResource retrieves a resource by URI
func (c *Client) GetResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	req := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}

	result, err := c.client.ReadResource(ctx, req)
	if err != nil {
		c.logger.Debug("ReadResource %s failed: %v", uri, err)
		return nil, err
	}
	return result, nil
}

// ServerSupportsTools reports whether the server announced tools
func (c *Client) ServerSupportsTools() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverCapabilities != nil && c.serverCapabilities.Tools != nil
}

// ServerSupportsResources reports whether the server announced resources
func (c *Client) ServerSupportsResources() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverCapabilities != nil && c.serverCapabilities.Resources != nil
}

// PrettyJSON pretty-prints JSON for display
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}
