package server

// Tool names exposed over MCP
const (
	toolListComponents     = "list-components"
	toolGetComponentDemo   = "get-component-demo"
	toolGetComponentSource = "get-component-source-code"
	toolSetGitLabToken     = "set-gitlab-token"
)

// Resource URIs
const (
	resourceScheme           = "fq-ui://"
	resourcePackagesURI      = resourceScheme + "packages"
	resourceComponentsPrefix = resourceScheme + "components/"
	resourceDemoPrefix       = resourceScheme + "demo/"
	resourceSourcePrefix     = resourceScheme + "source/"
)

// Server identity and endpoint
const (
	serverName     = "fq-weapp-ui-mcp"
	streamablePath = "/mcp"
	mimeMarkdown   = "text/markdown"
	mimeJSON       = "application/json"
	mimePlainText  = "text/plain"
	transportStdio = "stdio"
	transportHTTP  = "streamable-http"
)
