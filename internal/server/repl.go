package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/logging"
)

// errExit is a sentinel error used to signal REPL exit
var errExit = errors.New("exit")

// REPL is an interactive shell over the component tools
type REPL struct {
	client          *Client
	service         *Service
	logger          *logging.Logger
	out             io.Writer
	rl              *readline.Instance
	commandHandlers map[string]commandHandler

	heading *color.Color
	success *color.Color
	failure *color.Color
	muted   *color.Color
}

// NewREPL creates a new REPL instance. Commands run through client; service
// supplies completion candidates.
func NewREPL(client *Client, service *Service, logger *logging.Logger) *REPL {
	r := &REPL{
		client:  client,
		service: service,
		logger:  logger,
		out:     os.Stdout,
		heading: color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		muted:   color.New(color.Faint),
	}
	r.commandHandlers = r.buildCommandHandlers()
	return r
}

// SetOutput redirects command output
func (r *REPL) SetOutput(w io.Writer) {
	r.out = w
}

// Run starts the REPL
func (r *REPL) Run(ctx context.Context) error {
	historyFile := filepath.Join(os.TempDir(), ".fq_weapp_ui_history")

	config := &readline.Config{
		Prompt:          "fq-ui> ",
		HistoryFile:     historyFile,
		AutoComplete:    r.createCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,

		// lines carrying tokens must not reach the history file
		DisableAutoSaveHistory: true,
	}

	rl, err := readline.NewEx(config)
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer func() { _ = rl.Close() }()
	r.rl = rl
	r.out = rl.Stdout()

	r.logger.Info("REPL started. Type 'help' for available commands. Use TAB for completion.")
	fmt.Fprintln(r.out)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("REPL shutting down...")
			return nil
		default:
		}

		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				continue
			}
		} else if err == io.EOF {
			r.logger.Info("Goodbye!")
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if !carriesToken(input) {
			_ = rl.SaveHistory(input)
		}

		if err := r.executeCommand(ctx, input); err != nil {
			if errors.Is(err, errExit) {
				r.logger.Info("Goodbye!")
				return nil
			}
			r.failure.Fprintf(r.out, "Error: %v\n", err)
		}

		fmt.Fprintln(r.out)
	}
}

// carriesToken reports whether a command line includes a credential
func carriesToken(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}
	switch strings.ToLower(parts[0]) {
	case "token":
		return len(parts) > 1
	case "demo", "source":
		return len(parts) > 2
	}
	return false
}

// buildPcItems converts a slice of strings to readline completer items
func buildPcItems(names []string) []readline.PrefixCompleterInterface {
	items := make([]readline.PrefixCompleterInterface, len(names))
	for i, name := range names {
		items[i] = readline.PcItem(name)
	}
	return items
}

// createCompleter creates the tab completion configuration
func (r *REPL) createCompleter() *readline.PrefixCompleter {
	componentItems := buildPcItems(r.service.Components())
	toolNames := []string{toolListComponents, toolGetComponentDemo, toolGetComponentSource, toolSetGitLabToken}

	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("?"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
		readline.PcItem("packages"),
		readline.PcItem("tools"),
		readline.PcItem("resources"),
		readline.PcItem("describe", buildPcItems(toolNames)...),
		readline.PcItem("token"),
		readline.PcItem("list", buildPcItems(catalog.PackageIDs())...),
		readline.PcItem("demo", componentItems...),
		readline.PcItem("source", componentItems...),
	)
}

// filterInput filters input characters for readline
func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// commandHandler defines a REPL command with its handler and argument requirements
type commandHandler struct {
	minArgs int
	usage   string
	handler func(ctx context.Context, parts []string) error
}

// buildCommandHandlers creates the map of command handlers
func (r *REPL) buildCommandHandlers() map[string]commandHandler {
	return map[string]commandHandler{
		"help": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.showHelp()
		}},
		"?": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.showHelp()
		}},
		"exit": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return errExit
		}},
		"quit": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return errExit
		}},
		"packages": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.handlePackages(ctx)
		}},
		"tools": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.listTools()
		}},
		"resources": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.listResources()
		}},
		"describe": {
			minArgs: 2,
			usage:   "usage: describe <tool>",
			handler: func(ctx context.Context, parts []string) error {
				return r.describeTool(parts[1])
			},
		},
		"list": {
			minArgs: 2,
			usage:   "usage: list <package> [filter]",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleList(ctx, parts[1], strings.Join(parts[2:], " "))
			},
		},
		"demo": {
			minArgs: 2,
			usage:   "usage: demo <component> [token]",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleArtifact(ctx, toolGetComponentDemo, parts)
			},
		},
		"source": {
			minArgs: 2,
			usage:   "usage: source <component> [token]",
			handler: func(ctx context.Context, parts []string) error {
				return r.handleArtifact(ctx, toolGetComponentSource, parts)
			},
		},
		"token": {minArgs: 1, handler: func(ctx context.Context, parts []string) error {
			return r.handleToken(ctx, parts)
		}},
	}
}

// executeCommand parses and executes a command
func (r *REPL) executeCommand(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	command := strings.ToLower(parts[0])

	handler, exists := r.commandHandlers[command]
	if !exists {
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", command)
	}

	if len(parts) < handler.minArgs {
		return errors.New(handler.usage)
	}

	return handler.handler(ctx, parts)
}

// showHelp displays available commands
func (r *REPL) showHelp() error {
	r.heading.Fprintln(r.out, "Available commands:")
	fmt.Fprintln(r.out, "  help, ?                      - Show this help message")
	fmt.Fprintln(r.out, "  packages                     - List supported component packages")
	fmt.Fprintln(r.out, "  list <package> [filter]      - List components of a package")
	fmt.Fprintln(r.out, "  demo <component> [token]     - Show the demo of a component")
	fmt.Fprintln(r.out, "  source <component> [token]   - Show the source code of a component")
	fmt.Fprintln(r.out, "  token [value]                - Set the session GitLab token, or show whether one is set")
	fmt.Fprintln(r.out, "  tools                        - List the MCP tools behind these commands")
	fmt.Fprintln(r.out, "  resources                    - List the fq-ui:// resources")
	fmt.Fprintln(r.out, "  describe <tool>              - Show the input schema of a tool")
	fmt.Fprintln(r.out, "  exit, quit                   - Exit the REPL")
	fmt.Fprintln(r.out)
	r.heading.Fprintln(r.out, "Keyboard shortcuts:")
	fmt.Fprintln(r.out, "  TAB                          - Auto-complete commands and arguments")
	fmt.Fprintln(r.out, "  ↑/↓ (arrow keys)             - Navigate command history")
	fmt.Fprintln(r.out, "  Ctrl+R                       - Search command history")
	fmt.Fprintln(r.out, "  Ctrl+C                       - Cancel current line")
	fmt.Fprintln(r.out, "  Ctrl+D                       - Exit REPL")
	fmt.Fprintln(r.out)
	r.heading.Fprintln(r.out, "Examples:")
	fmt.Fprintln(r.out, "  list fq-weapp-ui-pro")
	fmt.Fprintln(r.out, "  list fq-weapp-ui FQ*Input*")
	fmt.Fprintln(r.out, "  demo FQButton")
	r.muted.Fprintln(r.out, "Commands that include a token are not saved to history.")
	return nil
}
