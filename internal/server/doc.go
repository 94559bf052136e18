// Package server exposes the fq-weapp-ui component libraries over the Model
// Context Protocol.
//
// # Key Components
//
//   - Service: the component operations (list, demo, source, token) with
//     user-readable diagnostics for every failure
//   - MCPServer: registers the operations as MCP tools and fq-ui:// resources
//     and serves them over stdio or streamable-http
//   - Client: an in-process MCP client bound to an MCPServer
//   - REPL: an interactive shell that drives the tools through Client
//
// Tool argument names (name, filter, componentName, token) are part of the
// wire contract with existing MCP clients.
package server
