package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/logging"
)

const instructions = `This server exposes the fq-weapp-ui component libraries.
Use list-components to discover components of "fq-weapp-ui" (base) or "fq-weapp-ui-pro" (pro).
Use get-component-demo for usage examples and get-component-source-code for the implementation.
Fetching files needs a GitLab personal access token: set GITLAB_PERSONAL_ACCESS_TOKEN, call set-gitlab-token once, or pass token per call.`

// MCPServer exposes the component operations as MCP tools and resources
type MCPServer struct {
	service         *Service
	logger          *logging.Logger
	mcpServer       *mcpserver.MCPServer
	serverTransport string
}

// NewMCPServer creates a new MCP server backed by service
func NewMCPServer(service *Service, serverTransport string, logger *logging.Logger, version string) (*MCPServer, error) {
	switch serverTransport {
	case transportStdio, transportHTTP:
	default:
		return nil, fmt.Errorf("unsupported server transport: %s", serverTransport)
	}

	mcpServer := mcpserver.NewMCPServer(
		serverName,
		version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithInstructions(instructions),
	)

	ms := &MCPServer{
		service:         service,
		logger:          logger,
		mcpServer:       mcpServer,
		serverTransport: serverTransport,
	}

	ms.registerTools()
	ms.registerResources()

	return ms, nil
}

// Start serves MCP over stdio or streamable-http until the transport stops
// or ctx is cancelled
func (m *MCPServer) Start(ctx context.Context, listenAddr string) error {
	switch m.serverTransport {
	case transportStdio:
		return mcpserver.ServeStdio(m.mcpServer)
	case transportHTTP:
		httpServer := mcpserver.NewStreamableHTTPServer(
			m.mcpServer,
			mcpserver.WithEndpointPath(streamablePath),
		)

		go func() {
			<-ctx.Done()
			_ = httpServer.Shutdown(context.Background())
		}()

		m.logger.Info("Serving MCP over streamable-http on %s%s", listenAddr, streamablePath)
		if err := httpServer.Start(listenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported server transport: %s", m.serverTransport)
	}
}

// registerTools registers all MCP tools
func (m *MCPServer) registerTools() {
	listComponentsTool := mcp.NewTool(toolListComponents,
		mcp.WithDescription("List the components of a UI component package"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Component package: fq-weapp-ui (base) or fq-weapp-ui-pro (pro)"),
		),
		mcp.WithString("filter",
			mcp.Description("Optional glob or substring to narrow the list, e.g. FQ*Card"),
		),
	)
	m.mcpServer.AddTool(listComponentsTool, m.traced(toolListComponents, m.handleListComponents))

	getDemoTool := mcp.NewTool(toolGetComponentDemo,
		mcp.WithDescription("Get the demo (usage example) of a component"),
		mcp.WithString("componentName",
			mcp.Required(),
			mcp.Description("Component name, e.g. FQButton"),
		),
		mcp.WithString("token",
			mcp.Description("Optional GitLab personal access token for this call only"),
		),
	)
	m.mcpServer.AddTool(getDemoTool, m.traced(toolGetComponentDemo, m.handleGetComponentDemo))

	getSourceTool := mcp.NewTool(toolGetComponentSource,
		mcp.WithDescription("Get the source code of a component"),
		mcp.WithString("componentName",
			mcp.Required(),
			mcp.Description("Component name, e.g. FQButton"),
		),
		mcp.WithString("token",
			mcp.Description("Optional GitLab personal access token for this call only"),
		),
	)
	m.mcpServer.AddTool(getSourceTool, m.traced(toolGetComponentSource, m.handleGetComponentSource))

	setTokenTool := mcp.NewTool(toolSetGitLabToken,
		mcp.WithDescription("Set the GitLab personal access token for this session; omit token to check whether one is set"),
		mcp.WithString("token",
			mcp.Description("GitLab personal access token; omit to only query"),
		),
	)
	m.mcpServer.AddTool(setTokenTool, m.traced(toolSetGitLabToken, m.handleSetGitLabToken))
}

// registerResources registers the package listing and per-component resources
func (m *MCPServer) registerResources() {
	packages := mcp.NewResource(resourcePackagesURI, "Component packages",
		mcp.WithResourceDescription("Supported component packages"),
		mcp.WithMIMEType(mimeJSON),
	)
	m.mcpServer.AddResource(packages, m.handlePackagesResource)

	components := mcp.NewResourceTemplate(resourceComponentsPrefix+"{package}", "Package components",
		mcp.WithTemplateDescription("Component list of a package"),
		mcp.WithTemplateMIMEType(mimeMarkdown),
	)
	m.mcpServer.AddResourceTemplate(components, m.handleComponentsResource)

	demo := mcp.NewResourceTemplate(resourceDemoPrefix+"{component}", "Component demo",
		mcp.WithTemplateDescription("Demo of a component, using the session or environment token"),
		mcp.WithTemplateMIMEType(mimePlainText),
	)
	m.mcpServer.AddResourceTemplate(demo, m.handleDemoResource)

	source := mcp.NewResourceTemplate(resourceSourcePrefix+"{component}", "Component source",
		mcp.WithTemplateDescription("Source code of a component, using the session or environment token"),
		mcp.WithTemplateMIMEType(mimePlainText),
	)
	m.mcpServer.AddResourceTemplate(source, m.handleSourceResource)
}
