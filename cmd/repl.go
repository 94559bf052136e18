package cmd

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/config"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/server"
)

func newREPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Explore the component tools interactively",
		Long: heredoc.Doc(`
			The repl command starts an interactive shell over the same tools the MCP
			server exposes. Commands run in-process through an MCP client, so what you
			see is what an assistant would get.

			Commands:
			- packages                      list supported packages
			- list <package> [filter]       list components, optionally glob-filtered
			- demo <component> [token]      show a component demo
			- source <component> [token]    show a component's source code
			- token [value]                 set or inspect the session token
			- tools, resources, describe    inspect the MCP surface

			Lines that carry a token are kept out of the history file.
		`),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runREPL,
	}
}

func runREPL(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger := newLogger()
	setupSignalHandler(cancel, logger)

	service := buildService(cfg, logger)

	// the server is only driven in-process here, never started on a transport
	mcpServer, err := server.NewMCPServer(service, config.TransportStdio, logger, version)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	client, err := server.NewInProcessClient(mcpServer, logger, version)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect client: %w", err)
	}

	repl := server.NewREPL(client, service, logger)
	if err := repl.Run(ctx); err != nil {
		return fmt.Errorf("REPL error: %w", err)
	}
	return nil
}
