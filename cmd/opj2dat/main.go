// Command opj2dat extracts the data of legacy Origin project files.
//
// The default command writes every spreadsheet of a project to
// <input>.<n>.dat. Subcommands summarise the project, dump its primary
// records, or export its tables to an .xlsx workbook.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/yamitzky/opj-go/opj"
)

var version = "dev"

// usageError marks failures caused by the command line itself. They exit 2.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...interface{}) error {
	return usageError{fmt.Errorf(format, args...)}
}

// config holds the values that can be preset in a TOML file given by
// --config. Flags given on the command line win over the file.
type config struct {
	Delimiter      string `toml:"delimiter"`
	LineTerminator string `toml:"lineterminator"`
	Quoting        string `toml:"quoting"`
	Header         *bool  `toml:"header"`
	Formatted      bool   `toml:"formatted"`
	Workbooks      bool   `toml:"workbooks"`
	Outdir         string `toml:"outdir"`
	Encoding       string `toml:"encoding"`
	Strict         bool   `toml:"strict"`
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	encoding   string
	verbose    int
	strict     bool
	cfg        config
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "opj2dat: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			return 2
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	dat := &datOptions{}
	root := &cobra.Command{
		Use:   "opj2dat [flags] FILE...",
		Short: "Extract spreadsheets from Origin project files",
		Long: `opj2dat decodes Origin project files (versions 4.1 to 7.5) and writes
each spreadsheet to <input>.<n>.dat. Use "-" to read a project from stdin;
its tables are then written to stdout.`,
		Version:       version,
		Args:          minArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dat.resolve(cmd, g.cfg); err != nil {
				return err
			}
			return runDat(cmd, g, dat, args)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "TOML file with default option values")
	pf.StringVarP(&g.encoding, "encoding", "e", "", "codepage of 8-bit strings (default windows-1252)")
	pf.CountVarP(&g.verbose, "verbose", "v", "log diagnostics to stderr (repeat for trace output)")
	pf.BoolVar(&g.strict, "strict", false, "fail when a project is only partially decoded")

	dat.register(root)

	root.AddCommand(newInspectCmd(g))
	root.AddCommand(newRecordsCmd(g))
	root.AddCommand(newXLSXCmd(g))
	return root
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("%s requires at least %d file argument(s)", cmd.Name(), n)
		}
		return nil
	}
}

// load reads the --config file and folds it into the persistent flags that
// were not set explicitly.
func (g *globals) load(cmd *cobra.Command) error {
	if g.configPath != "" {
		if _, err := toml.DecodeFile(g.configPath, &g.cfg); err != nil {
			return fmt.Errorf("read config %s: %w", g.configPath, err)
		}
	}
	flags := cmd.Flags()
	if !flags.Changed("encoding") && g.cfg.Encoding != "" {
		g.encoding = g.cfg.Encoding
	}
	if !flags.Changed("strict") && g.cfg.Strict {
		g.strict = true
	}
	return nil
}

func (g *globals) options(stderr io.Writer, filename string) *opj.Options {
	opts := &opj.Options{
		Logfile:          io.Discard,
		Filename:         filename,
		EncodingOverride: g.encoding,
	}
	if g.verbose > 0 {
		level := slog.LevelWarn
		if g.verbose > 1 {
			level = slog.LevelDebug
			opts.Logfile = stderr
			opts.Verbosity = g.verbose - 1
		}
		opts.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	}
	return opts
}

// readInput returns the raw project bytes named by path, decompressing
// gzip and zstd input. "-" reads stdin.
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path != "-" {
		return opj.Load(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, err
	}
	return opj.Unwrap(data)
}

// open decodes the project at path and applies the status policy: fatal
// decodes always fail, partial ones fail only under --strict and are
// otherwise reported on stderr.
func (g *globals) open(cmd *cobra.Command, path string, stdin io.Reader) (*opj.Document, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	stderr := cmd.ErrOrStderr()
	doc, status := opj.Decode(data, g.options(stderr, path))
	switch status {
	case opj.StatusFatal:
		return nil, fmt.Errorf("%s: %s", path, firstDiagnostic(doc))
	case opj.StatusPartial:
		if g.strict {
			return nil, fmt.Errorf("%s: partially decoded: %s", path, firstDiagnostic(doc))
		}
		fmt.Fprintf(stderr, "opj2dat: warning: %s partially decoded (%d diagnostics)\n", path, len(doc.Diagnostics()))
	}
	return doc, nil
}

func firstDiagnostic(doc *opj.Document) string {
	for _, d := range doc.Diagnostics() {
		if d.Severity >= opj.SeverityError {
			return d.String()
		}
	}
	if diags := doc.Diagnostics(); len(diags) > 0 {
		return diags[0].String()
	}
	return "not a project file"
}
