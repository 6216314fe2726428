// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pgfuncdoc

// pgfuncdoc builds, serves and browses PostgreSQL function documentation.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"cdr.dev/slog"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/browser"

	"github.com/woozymasta/pgfuncdoc"
	"github.com/woozymasta/pgfuncdoc/internal/browse"
	"github.com/woozymasta/pgfuncdoc/internal/config"
	"github.com/woozymasta/pgfuncdoc/internal/logging"
	"github.com/woozymasta/pgfuncdoc/internal/server"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/pgfuncdoc"
	_buildTime string
)

// errCheckFailed is returned by check --strict when diagnostics were reported.
var errCheckFailed = errors.New("catalog check reported problems")

// cliOptions describes pgfuncdoc CLI flags and subcommands.
type cliOptions struct {
	Global globalFlags `group:"Global"`

	Version  versionCommand  `command:"version" description:"Print version information"`
	Build    buildCommand    `command:"build" description:"Render the function page to a file or stdout"`
	Serve    serveCommand    `command:"serve" description:"Serve the function page over HTTP"`
	Browse   browseCommand   `command:"browse" description:"Browse functions in the terminal"`
	List     listCommand     `command:"list" description:"List catalog functions as a table"`
	Check    checkCommand    `command:"check" description:"Validate the function catalog"`
	Template templateCommand `command:"template" description:"Print a built-in page template"`
}

// globalFlags groups flags shared by every command.
type globalFlags struct {
	ConfigPath  string `short:"c" long:"config" description:"Config file path (default: pgfuncdoc.yaml in working directory)"`
	CatalogPath string `short:"C" long:"catalog" description:"Function catalog file (.json, .yaml, .yml); bundled catalog when omitted"`
	ContentPath string `long:"content" description:"Static content YAML overlaid on bundled rules, connection and example blocks"`
	Verbose     bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

// pageFlags groups page rendering flags.
type pageFlags struct {
	Title         string        `short:"T" long:"title" description:"Page title"`
	Style         string        `short:"s" long:"style" description:"Chroma style for highlighted blocks (for example: github, monokai)"`
	TemplatePath  string        `long:"template-file" description:"Path to custom page template (.gotmpl)"`
	ExampleFormat string        `long:"example-format" description:"Example returns presentation" choice:"json" choice:"yaml"`
	NoLineNumbers bool          `long:"no-line-numbers" description:"Hide line numbers in the example queries block"`
	CopyReset     time.Duration `long:"copy-reset" description:"How long the copy confirmation stays visible (for example: 1500ms)"`
}

// overrides returns explicitly set page flags keyed like config keys.
func (f pageFlags) overrides(out map[string]any) {
	setString(out, "title", f.Title)
	setString(out, "style", f.Style)
	setString(out, "template", f.TemplatePath)
	setString(out, "example_format", f.ExampleFormat)
	if f.NoLineNumbers {
		out["line_numbers"] = false
	}
	if f.CopyReset != 0 {
		out["copy_reset"] = f.CopyReset.String()
	}
}

// buildCommand renders the page.
type buildCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	Format    string    `short:"f" long:"format" description:"Output format" choice:"html" choice:"markdown" choice:"md"`
	PageFlags pageFlags `group:"Page Render"`
}

// Execute runs build subcommand.
func (command *buildCommand) Execute(_ []string) error {
	overrides := map[string]any{}
	setString(overrides, "format", command.Format)
	command.PageFlags.overrides(overrides)

	return command.runner.runBuild(overrides, command.Args.Output)
}

// serveCommand runs the page server.
type serveCommand struct {
	runner *cliRunner

	Addr      string    `short:"a" long:"addr" description:"Listen address (default: 127.0.0.1:8080)"`
	Watch     bool      `short:"w" long:"watch" description:"Rebuild and live reload on catalog, content, template or config change"`
	Open      bool      `short:"o" long:"open" description:"Open the page in the system browser"`
	PageFlags pageFlags `group:"Page Render"`
}

// Execute runs serve subcommand.
func (command *serveCommand) Execute(_ []string) error {
	overrides := map[string]any{}
	setString(overrides, "addr", command.Addr)
	if command.Watch {
		overrides["watch"] = true
	}
	if command.Open {
		overrides["open"] = true
	}
	command.PageFlags.overrides(overrides)

	return command.runner.runServe(overrides)
}

// browseCommand runs the terminal browser.
type browseCommand struct {
	runner *cliRunner

	CopyReset time.Duration `long:"copy-reset" description:"How long the copy confirmation stays visible"`
}

// Execute runs browse subcommand.
func (command *browseCommand) Execute(_ []string) error {
	overrides := map[string]any{}
	if command.CopyReset != 0 {
		overrides["copy_reset"] = command.CopyReset.String()
	}

	return command.runner.runBrowse(overrides)
}

// listCommand prints catalog summary.
type listCommand struct {
	runner *cliRunner

	Format string `short:"f" long:"format" description:"Table format" choice:"table" choice:"markdown" choice:"csv" default:"table"`
}

// Execute runs list subcommand.
func (command *listCommand) Execute(_ []string) error {
	return command.runner.runList(command.Format)
}

// checkCommand validates the catalog.
type checkCommand struct {
	runner *cliRunner

	Strict bool `long:"strict" description:"Exit with error when any diagnostic is reported"`
}

// Execute runs check subcommand.
func (command *checkCommand) Execute(_ []string) error {
	return command.runner.runCheck(command.Strict)
}

// templateCommand exports a built-in page template.
type templateCommand struct {
	runner *cliRunner
	Args   struct {
		Output string `positional-arg-name:"output" description:"Output template file path (optional; stdout when omitted)"`
	} `positional-args:"yes"`

	TemplateName string `short:"t" long:"template" description:"Built-in template" choice:"html" choice:"markdown" default:"html"`
}

// Execute runs template subcommand.
func (command *templateCommand) Execute(_ []string) error {
	return command.runner.runTemplate(command.TemplateName, command.Args.Output)
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	command.runner.printVersionInfo()
	return nil
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
	global      *globalFlags
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "pgfuncdoc"
	}

	programName = filepath.Base(programName)
	runner := cliRunner{
		programName: programName,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		global:      &globalFlags{},
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// loadConfig merges config layers with global and command flag overrides.
func (runner *cliRunner) loadConfig(overrides map[string]any) (*config.Config, error) {
	setString(overrides, "catalog", runner.global.CatalogPath)
	setString(overrides, "content", runner.global.ContentPath)
	if runner.global.Verbose {
		overrides["verbose"] = true
	}

	cfg, err := config.Load(config.LoadOptions{
		File:      runner.global.ConfigPath,
		Overrides: overrides,
	})
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// context returns a context carrying the stderr logger.
func (runner *cliRunner) context(cfg *config.Config) context.Context {
	return logging.With(context.Background(), logging.New(runner.stderr, cfg.Verbose))
}

// loadInputs reads catalog and content selected by cfg.
func loadInputs(cfg *config.Config) (*pgfuncdoc.Catalog, pgfuncdoc.Content, error) {
	catalog := pgfuncdoc.DefaultCatalog()
	if path := strings.TrimSpace(cfg.Catalog); path != "" {
		var err error
		catalog, err = pgfuncdoc.LoadCatalogFile(path)
		if err != nil {
			return nil, pgfuncdoc.Content{}, fmt.Errorf("load catalog %q: %w", path, err)
		}
	}

	content := pgfuncdoc.DefaultContent()
	if path := strings.TrimSpace(cfg.Content); path != "" {
		var err error
		content, err = pgfuncdoc.LoadContentFile(path)
		if err != nil {
			return nil, pgfuncdoc.Content{}, fmt.Errorf("load content %q: %w", path, err)
		}
	}

	return catalog, content, nil
}

// renderPage loads inputs and renders the page with cfg.
func renderPage(ctx context.Context, cfg *config.Config, liveReloadPath string) (*pgfuncdoc.Catalog, string, error) {
	catalog, content, err := loadInputs(cfg)
	if err != nil {
		return nil, "", err
	}

	opt := cfg.RenderOptions()
	opt.Content = &content
	opt.Logger = logging.From(ctx)
	opt.LiveReloadPath = liveReloadPath

	if path := strings.TrimSpace(cfg.Template); path != "" {
		customTemplate, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read template file %q: %w", path, err)
		}

		opt.TemplateText = string(customTemplate)
	}

	rendered, err := pgfuncdoc.RenderContext(ctx, catalog, opt)
	if err != nil {
		return nil, "", fmt.Errorf("render page: %w", err)
	}

	return catalog, rendered, nil
}

// runBuild renders the page and writes it to stdout or file.
func (runner *cliRunner) runBuild(overrides map[string]any, outputPath string) error {
	cfg, err := runner.loadConfig(overrides)
	if err != nil {
		return err
	}

	ctx := runner.context(cfg)
	defer logging.Sync(ctx)

	catalog, rendered, err := renderPage(ctx, cfg, "")
	if err != nil {
		return err
	}

	if strings.TrimSpace(outputPath) == "" {
		if _, err := io.WriteString(runner.stdout, rendered); err != nil {
			return fmt.Errorf("write page to stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(outputPath, []byte(rendered), 0o600); err != nil {
		return fmt.Errorf("write page file %q: %w", outputPath, err)
	}

	logging.Info(ctx, "page written", slog.F("path", outputPath), slog.F("functions", catalog.Len()))
	return nil
}

// runServe serves the page until interrupted.
func (runner *cliRunner) runServe(overrides map[string]any) error {
	overrides["format"] = string(pgfuncdoc.FormatHTML)
	cfg, err := runner.loadConfig(overrides)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(runner.context(cfg), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logging.Sync(ctx)

	var watch []string
	liveReloadPath := ""
	if cfg.Watch {
		watch = cfg.WatchedFiles()
		if len(watch) == 0 {
			logging.Warn(ctx, "watch enabled but no catalog, content, template or config file is set")
		} else {
			liveReloadPath = server.ReloadPath
		}
	}

	srv := server.New(server.Options{
		Addr:   cfg.Addr,
		Watch:  watch,
		Logger: logging.From(ctx),
		Build: func(ctx context.Context) (server.Page, error) {
			current, err := runner.loadConfig(maps.Clone(overrides))
			if err != nil {
				return server.Page{}, err
			}

			catalog, rendered, err := renderPage(ctx, current, liveReloadPath)
			if err != nil {
				return server.Page{}, err
			}

			return server.Page{HTML: rendered, Catalog: catalog}, nil
		},
		OnListen: func(url string) {
			if !cfg.Open {
				return
			}

			browser.Stdout = runner.stderr
			browser.Stderr = runner.stderr
			if err := browser.OpenURL(url); err != nil {
				logging.Warn(ctx, "open browser", slog.Error(err))
			}
		},
	})

	return srv.Serve(ctx)
}

// runBrowse starts the terminal browser.
func (runner *cliRunner) runBrowse(overrides map[string]any) error {
	cfg, err := runner.loadConfig(overrides)
	if err != nil {
		return err
	}

	catalog, content, err := loadInputs(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(runner.context(cfg), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return browse.Run(ctx, browse.Options{
		Catalog:        catalog,
		Content:        content,
		CopyResetDelay: cfg.CopyReset,
		Input:          runner.stdin,
		Output:         runner.stdout,
		Logger:         logging.From(ctx),
	})
}

// runList prints catalog summary table.
func (runner *cliRunner) runList(format string) error {
	cfg, err := runner.loadConfig(map[string]any{})
	if err != nil {
		return err
	}

	catalog, _, err := loadInputs(cfg)
	if err != nil {
		return err
	}

	return writeFunctionTable(runner.stdout, catalog, format)
}

// runCheck loads the catalog and prints diagnostics.
func (runner *cliRunner) runCheck(strict bool) error {
	cfg, err := runner.loadConfig(map[string]any{})
	if err != nil {
		return err
	}

	catalog, _, err := loadInputs(cfg)
	if err != nil {
		return err
	}

	diagnostics := catalog.Check()
	for _, diagnostic := range diagnostics {
		_, _ = fmt.Fprintf(runner.stdout, "warning: %s\n", diagnostic)
	}

	_, _ = fmt.Fprintf(runner.stdout, "%d functions, %d warnings\n", catalog.Len(), len(diagnostics))
	if strict && len(diagnostics) > 0 {
		return errCheckFailed
	}

	return nil
}

// runTemplate writes selected built-in template to stdout or file.
func (runner *cliRunner) runTemplate(templateName, outputPath string) error {
	tpl, err := pgfuncdoc.BuiltinTemplate(templateName)
	if err != nil {
		return fmt.Errorf("load built-in template %q: %w", templateName, err)
	}

	if strings.TrimSpace(outputPath) == "" {
		if _, err := io.WriteString(runner.stdout, tpl); err != nil {
			return fmt.Errorf("write template to stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(outputPath, []byte(tpl), 0o600); err != nil {
		return fmt.Errorf("write template file %q: %w", outputPath, err)
	}

	return nil
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	runner.global = &options.Global
	options.Version.runner = runner
	options.Build.runner = runner
	options.Serve.runner = runner
	options.Browse.runner = runner
	options.List.runner = runner
	options.Check.runner = runner
	options.Template.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}

	return nil
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"build": strings.TrimSpace(fmt.Sprintf(`
Render the function page.
Uses the bundled catalog unless --catalog or the config file names one.
Writes to file argument or stdout.

Examples:
> $ %s build > index.html
> $ %s build -f markdown --catalog functions.yaml FUNCTIONS.md
`, programName, programName)),
		"serve": strings.TrimSpace(fmt.Sprintf(`
Serve the page on --addr with /catalog.json and /healthz.
With --watch the page is rebuilt when catalog, content, template or config
files change, and open pages reload themselves.

Examples:
> $ %s serve --open
> $ %s serve -w --catalog functions.json --addr :8080
`, programName, programName)),
		"browse": strings.TrimSpace(fmt.Sprintf(`
Browse function sections in the terminal.
Keys: j/k move, enter toggles code, c copies example queries, q quits.

Examples:
> $ %s browse
> $ %s browse --catalog functions.yaml
`, programName, programName)),
		"list": strings.TrimSpace(fmt.Sprintf(`
Print one row per catalog function with its parameters and optional blocks.

Examples:
> $ %s list
> $ %s list -f markdown > FUNCTIONS.md
`, programName, programName)),
		"check": strings.TrimSpace(fmt.Sprintf(`
Load the catalog and report records that render with fallbacks, such as
example returns that are not valid JSON. Load errors always fail.

Examples:
> $ %s check --catalog functions.json
> $ %s check --strict
`, programName, programName)),
		"template": strings.TrimSpace(fmt.Sprintf(`
Print built-in page template text (`+"`html` or `markdown`"+`).
Use it as a starting point for --template-file.

Examples:
> $ %s template > page.html.gotmpl
> $ %s template -t markdown templates/page.md.gotmpl
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

func (runner *cliRunner) printVersionInfo() {
	_, _ = fmt.Fprintf(runner.stdout, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)
}

// setString stores value under key when it is not blank.
func setString(out map[string]any, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		out[key] = value
	}
}
