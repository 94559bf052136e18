package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/config"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/credential"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/discovery"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/gitlab"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/logging"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/server"
)

var (
	version         string
	configPath      string
	serverTransport string
	listenAddr      string
	gitlabURL       string
	projectID       string
	ref             string
	projectDir      string
	verbose         bool
	noColor         bool
	trace           bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "MCP server for the fq-weapp-ui component libraries",
	Long: heredoc.Doc(`
		fq-weapp-ui-mcp lets AI assistants work with the fq-weapp-ui component
		libraries over the Model Context Protocol.

		It exposes four tools:
		- list-components: components of fq-weapp-ui or fq-weapp-ui-pro, read from
		  the package installed in your project or from a built-in list
		- get-component-demo: the documentation page with demo snippets
		- get-component-source-code: the component's entry source file
		- set-gitlab-token: store a GitLab token for the rest of the session

		Demos and sources are read from the component library repository on GitLab
		and need a personal access token with read_repository scope. Supply it via
		GITLAB_PERSONAL_ACCESS_TOKEN, set-gitlab-token, or the token argument of
		each call. Tokens are never written to disk or logs.

		By default the server speaks MCP over stdio. Use --server-transport
		streamable-http to serve on --listen-addr at /mcp instead.

		Settings are read from $XDG_CONFIG_HOME/fq-weapp-ui-mcp/config.yaml when it
		exists, then from FQUI_* environment variables, then from flags.
	`),
	Example: heredoc.Doc(`
		# Serve over stdio for an MCP client
		$ fq-weapp-ui-mcp

		# Serve over HTTP against a feature branch
		$ fq-weapp-ui-mcp --server-transport streamable-http --ref feature/new-button

		# Explore the tools interactively
		$ fq-weapp-ui-mcp repl
	`),
	SilenceUsage: true,
	RunE:         runServer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version for the application
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Configuration file (default: $XDG_CONFIG_HOME/fq-weapp-ui-mcp/config.yaml)")
	flags.StringVar(&gitlabURL, "gitlab-url", "", "GitLab base URL")
	flags.StringVar(&projectID, "project-id", "", "GitLab project holding the component library")
	flags.StringVar(&ref, "ref", "", "Branch, tag or commit to read files from")
	flags.StringVar(&projectDir, "project-dir", "", "Project whose node_modules is inspected (default: working directory)")
	flags.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&trace, "trace", false, "Log every tool call with a trace id (tokens are redacted)")

	rootCmd.Flags().StringVar(&serverTransport, "server-transport", "", "Transport for the MCP server (stdio, streamable-http)")
	rootCmd.Flags().StringVar(&listenAddr, "listen-addr", "", "Listen address for streamable-http server (path is fixed to /mcp)")

	// Add subcommands
	rootCmd.AddCommand(newREPLCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}

// loadConfig merges the configuration file, the environment and the flags
// that were set on cmd
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(nil)

	flagOverrides := []struct {
		name   string
		value  string
		target *string
	}{
		{"gitlab-url", gitlabURL, &cfg.GitLab.BaseURL},
		{"project-id", projectID, &cfg.GitLab.ProjectID},
		{"ref", ref, &cfg.GitLab.Ref},
		{"project-dir", projectDir, &cfg.Discovery.ProjectDir},
		{"server-transport", serverTransport, &cfg.Server.Transport},
		{"listen-addr", listenAddr, &cfg.Server.ListenAddr},
	}
	for _, o := range flagOverrides {
		if f := cmd.Flags().Lookup(o.name); f != nil && f.Changed {
			*o.target = strings.TrimSpace(o.value)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger creates the stderr logger; stdout belongs to the stdio transport
func newLogger() *logging.Logger {
	if noColor {
		color.NoColor = true
	}
	return logging.NewLogger(verbose, !noColor, trace)
}

// buildService wires the catalog, credentials, fetcher and discovery chain
func buildService(cfg *config.Config, logger *logging.Logger) *server.Service {
	resolver := credential.NewResolver(credential.NewSession(), credential.WithEnvVar(cfg.GitLab.TokenEnv))

	return server.NewService(server.ServiceConfig{
		Store: catalog.NewStore(cfg.Overrides()),
		Fetcher: gitlab.NewFetcher(gitlab.Config{
			BaseURL:   cfg.GitLab.BaseURL,
			ProjectID: cfg.GitLab.ProjectID,
			Ref:       cfg.GitLab.Ref,
			Resolver:  resolver,
			Logger:    logger,
		}),
		Enumerator: discovery.NewDefaultEnumerator(discovery.Options{
			ProjectDir: cfg.Discovery.ProjectDir,
			Prefix:     cfg.Discovery.ComponentPrefix,
			Logger:     logger,
		}),
		Resolver: resolver,
		Logger:   logger,
	})
}

// setupSignalHandler sets up graceful shutdown on interrupt signals
func setupSignalHandler(cancel context.CancelFunc, logger *logging.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	logger := newLogger()
	setupSignalHandler(cancel, logger)

	service := buildService(cfg, logger)
	mcpServer, err := server.NewMCPServer(service, cfg.Server.Transport, logger, version)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	addr := cfg.Server.ListenAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	logger.Info("Starting %s %s (transport: %s, project: %s@%s)",
		config.AppName, version, cfg.Server.Transport, cfg.GitLab.ProjectID, cfg.GitLab.Ref)
	logger.InfoVerbose("Reading files from %s", cfg.GitLab.BaseURL)

	if err := mcpServer.Start(ctx, addr); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
