// snibbets searches a folder of Markdown snippet files and prints the code
// blocks inside them.
//
// Usage:
//
//	snibbets [flags] QUERY...
//	snibbets --watch [flags] QUERY...
//	snibbets --list | --mcp | --schema [KIND] | --version
//
// Every positional argument belongs to the query, so a search for "list"
// is still a search.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"snibbets/internal/app"
	"snibbets/internal/config"
	"snibbets/internal/format"
	"snibbets/internal/logging"
	"snibbets/internal/menu"
)

var logger *slog.Logger

// errEmptyQuery exits with status 1 after usage has been printed.
var errEmptyQuery = errors.New("no search query")

var flags struct {
	quiet   bool
	output  string
	source  string
	backend string
	verbose bool

	list   bool
	watch  bool
	mcp    bool
	schema bool
}

var rootCmd = &cobra.Command{
	Use:   "snibbets [flags] QUERY...",
	Short: "Search snippet files and print their code blocks",
	Long: `Snibbets finds Markdown snippet files whose name (or, failing that, content)
matches QUERY, then prints the code blocks under their headers.

Spaces in QUERY match any run of characters, so "todo list" finds
"todo-list.md". With several matches a numbered menu asks which file
and which snippet to print; --quiet takes the first file and prints all
of its snippets.

Modes (instead of a plain search):
  --list           list the snippet files in the folder
  --watch QUERY    print QUERY again whenever the folder changes
  --mcp            serve snippet search as MCP tools on stdio
  --schema [KIND]  print the JSON Schema of an output format

Environment Variables:
  SNIBBETS_PATH        Snippet folder [default: ~/Dropbox/notes/snippets]
  SNIBBETS_BACKEND     scan, grep or spotlight [default: scan]
  SNIBBETS_OUTPUT      raw, json or launchbar [default: raw]
  SNIBBETS_CONFIG      Config file [default: ~/.config/snibbets/config.toml]
  SNIBBETS_LOG_LEVEL   Log level (debug, info, warn, error) [default: warn]
  SNIBBETS_LOG_FORMAT  Log format (text, json) [default: text]`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("snibbets {{.Version}}\n")

	f := rootCmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "output format (raw, json, launchbar|lb)")
	f.StringVarP(&flags.source, "source", "s", "", "snippets folder to search")
	f.StringVar(&flags.backend, "backend", "", "search backend (scan, grep, spotlight)")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "log search details to stderr")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "skip menus and print every snippet of the first match")

	f.BoolVarP(&flags.list, "list", "l", false, "list the snippet files in the folder")
	f.BoolVarP(&flags.watch, "watch", "w", false, "search again whenever the snippet folder changes")
	f.BoolVar(&flags.mcp, "mcp", false, "serve snippet search as MCP tools on stdin and stdout")
	f.BoolVar(&flags.schema, "schema", false, "print the JSON Schema of an output format (KIND: "+strings.Join(format.SchemaKinds(), ", ")+")")
	rootCmd.MarkFlagsMutuallyExclusive("list", "watch", "mcp", "schema")
}

func main() {
	err := rootCmd.Execute()
	switch {
	case err == nil, errors.Is(err, menu.ErrCancelled):
		return
	case errors.Is(err, errEmptyQuery):
		os.Exit(1)
	default:
		if logger == nil {
			logger = logging.Default("snibbets")
		}
		logger.Error("snibbets failed", "error", err)
		os.Exit(1)
	}
}

// setup configures logging before the command runs.
func setup(cmd *cobra.Command, args []string) error {
	logger = logging.New(logging.FromEnv("snibbets").Verbose(flags.verbose))
	return nil
}

// loadConfig resolves the configuration and applies command-line flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if flags.output != "" {
		output, err := config.ParseOutput(flags.output)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Output = output
	}
	if flags.backend != "" {
		backend, err := config.ParseBackend(flags.backend)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Backend = backend
	}
	if flags.source != "" {
		source, err := config.ExpandPath(flags.source)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Source = decodeFolder(source)
	}

	logger.Debug("configuration loaded", "config", cfg.String())
	return cfg, nil
}

// runRoot picks the mode named by a flag, defaulting to a search.
func runRoot(cmd *cobra.Command, args []string) error {
	switch {
	case flags.list:
		return runList(cmd, args)
	case flags.watch:
		return runWatch(cmd, args)
	case flags.mcp:
		return runMCP(cmd, args)
	case flags.schema:
		return runSchema(cmd, args)
	default:
		return runSearch(cmd, args)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	query := readQuery(args, cfg.Output.Integration(), os.Stdin)
	if query == "" {
		return emptyQuery(cmd)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	if flags.quiet {
		a.Interactive = false
	}
	if a.Interactive {
		exitOnInterrupt()
	}

	return a.Search(cmd.Context(), query)
}

// emptyQuery prints the notice and usage on stdout.
func emptyQuery(cmd *cobra.Command) error {
	fmt.Fprintln(os.Stdout, "No search query")
	cmd.SetOut(os.Stdout)
	cmd.Usage()
	return errEmptyQuery
}

// readQuery joins args into the query. Launcher integrations may pipe the
// query on stdin instead, which then takes precedence. The result is
// percent-decoded, keeping the raw text when it is not valid encoding.
func readQuery(args []string, integration bool, stdin *os.File) string {
	query := strings.Join(args, " ")

	if integration && hasPipedInput(stdin) {
		data, err := io.ReadAll(stdin)
		if err == nil && strings.TrimSpace(string(data)) != "" {
			query = string(data)
		}
	}

	return strings.TrimSpace(decodeQuery(query))
}

// hasPipedInput reports whether f is a pipe or a non-empty file rather
// than a terminal.
func hasPipedInput(f *os.File) bool {
	if f == nil || term.IsTerminal(int(f.Fd())) {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	mode := info.Mode()
	return mode&os.ModeNamedPipe != 0 || (mode.IsRegular() && info.Size() > 0)
}

func decodeQuery(query string) string {
	decoded, err := url.QueryUnescape(query)
	if err != nil {
		return query
	}
	return decoded
}

// decodeFolder undoes the URI encoding launchers apply to the folder
// argument, when the encoded path does not exist and the decoded one does.
func decodeFolder(folder string) string {
	if _, err := os.Stat(folder); err == nil {
		return folder
	}
	decoded, err := url.PathUnescape(folder)
	if err != nil || decoded == folder {
		return folder
	}
	if _, err := os.Stat(decoded); err == nil {
		return decoded
	}
	return folder
}

// exitOnInterrupt treats Ctrl-C at a menu prompt like a declined choice.
func exitOnInterrupt() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}()
}
