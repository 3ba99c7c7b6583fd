// Package cli holds rumm's reusable command entry-point logic:
// cmd/rumm's main.go is a thin wrapper that just forwards os.Args and os.Exit's
// the returned code, so the logic below is itself testable without a
// subprocess.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/rumm/internal/config"
	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/driver"
	"github.com/funvibe/rumm/internal/parser"
	"github.com/funvibe/rumm/internal/rpc"
	"github.com/funvibe/rumm/internal/trace"
)

const usage = `usage:
  rumm <script.rmm>              run a script's proof obligations
  rumm serve --addr <addr>       start a Prover gRPC service
  rumm prove --remote <addr> <script.rmm>   run a script against a remote Prover
`

// Run is the CLI's whole behavior, given argv (without the program
// name) and the streams to write to. It returns the process exit code
// rather than calling os.Exit itself, so tests can call it directly.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	switch args[0] {
	case "serve":
		return runServe(args[1:], stdout, stderr)
	case "prove":
		return runProve(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	case "-v", "--version", "version":
		fmt.Fprintf(stdout, "rumm %s\n", config.Version)
		return 0
	default:
		return runScript(args[0], stdout, stderr)
	}
}

// colorize wraps s in an ANSI color code only when w is a terminal.
func colorize(w io.Writer, code, s string) string {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return s
	}
	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", code, s)
}

// runScript is the default `rumm <script.rmm>` invocation: load the project config sitting next to the script (if any),
// parse and transitively load the script, run every proof obligation,
// print one status line per obligation, and write a trace HTML file for
// every failure into the configured trace directory.
func runScript(path string, stdout, stderr io.Writer) int {
	dir := filepath.Dir(path)
	cfg, err := config.LoadProjectConfig(filepath.Join(dir, "rumm.yaml"))
	if err != nil {
		fmt.Fprintf(stderr, "rumm: loading rumm.yaml: %s\n", err)
		return 1
	}

	db, closeDB, err := openDatabase(dir, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "rumm: %s\n", err)
		return 1
	}
	defer closeDB()

	searchPaths := make([]string, 0, len(cfg.ScriptPaths))
	for _, sp := range cfg.ScriptPaths {
		if !filepath.IsAbs(sp) {
			sp = filepath.Join(dir, sp)
		}
		searchPaths = append(searchPaths, sp)
	}
	loader := parser.NewLoader(db).WithSearchPaths(searchPaths...)
	script, err := loader.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "rumm: %s\n", err)
		return 1
	}

	d := driver.New(db)
	d.Trace = true
	results := d.Run(script)

	traceDir := cfg.TraceDir
	if traceDir != "" && !filepath.IsAbs(traceDir) {
		traceDir = filepath.Join(dir, traceDir)
	}

	exitCode := 0
	for _, r := range results {
		line := r.Line()
		if r.Status == driver.StatusOK {
			fmt.Fprintln(stdout, colorize(stdout, "32", line))
			continue
		}
		if r.Skipped() {
			fmt.Fprintln(stdout, colorize(stdout, "33", line))
		} else {
			fmt.Fprintln(stdout, colorize(stdout, "31", line))
			exitCode = 1
		}
		if r.Trace != nil && traceDir != "" {
			if err := writeTraceFile(traceDir, string(r.Label), r.Trace); err != nil {
				fmt.Fprintf(stderr, "rumm: writing trace for %s: %s\n", r.Label, err)
			}
		}
	}
	return exitCode
}

func writeTraceFile(dir, theorem string, root *trace.Frame) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, theorem+".html"))
	if err != nil {
		return err
	}
	defer f.Close()
	return trace.ExportHTML(root, f)
}

// openDatabase opens cfg's configured statement database, resolving a
// relative cfg.Database path against dir (the directory rumm.yaml itself
// was loaded from) so a project's database path is never accidentally
// reinterpreted relative to wherever rumm happens to be invoked from.
func openDatabase(dir string, cfg config.ProjectConfig) (database.Database, func(), error) {
	if cfg.Database == "" || cfg.Database == ":memory:" {
		return database.NewInMemoryStore(), func() {}, nil
	}
	dbPath := cfg.Database
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(dir, dbPath)
	}
	store, err := database.OpenSQLiteStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening statement database %q: %w", dbPath, err)
	}
	return store, func() { store.Close() }, nil
}

// runServe handles `rumm serve --addr <addr>`.
func runServe(args []string, stdout, stderr io.Writer) int {
	addr := flagValue(args, "--addr", ":7732")
	cfg, err := config.LoadProjectConfig("rumm.yaml")
	if err != nil {
		fmt.Fprintf(stderr, "rumm: loading rumm.yaml: %s\n", err)
		return 1
	}
	db, closeDB, err := openDatabase(".", cfg)
	if err != nil {
		fmt.Fprintf(stderr, "rumm: %s\n", err)
		return 1
	}
	defer closeDB()

	srv, err := rpc.NewServer(db)
	if err != nil {
		fmt.Fprintf(stderr, "rumm: starting server: %s\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "rumm: serving Prover on %s\n", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(stderr, "rumm: %s\n", err)
		return 1
	}
	return 0
}

// runProve handles `rumm prove --remote <addr> <script.rmm>`: read the
// script body, send it to a remote Prover, print the obligations'
// status lines it returns.
func runProve(args []string, stdout, stderr io.Writer) int {
	remote := flagValue(args, "--remote", "")
	var scriptPath string
	for _, a := range args {
		if !strings.HasPrefix(a, "-") && a != remote {
			scriptPath = a
		}
	}
	if remote == "" || scriptPath == "" {
		fmt.Fprint(stderr, usage)
		return 2
	}

	body, err := os.ReadFile(scriptPath)
	if err != nil {
		fmt.Fprintf(stderr, "rumm: %s\n", err)
		return 1
	}

	client, err := rpc.Dial(remote)
	if err != nil {
		fmt.Fprintf(stderr, "rumm: dialing %s: %s\n", remote, err)
		return 1
	}
	defer client.Close()

	resp, err := client.Prove(string(body), filepath.Base(scriptPath))
	if err != nil {
		fmt.Fprintf(stderr, "rumm: %s\n", err)
		return 1
	}
	exitCode := 0
	for _, line := range resp {
		fmt.Fprintln(stdout, line)
		if !strings.HasSuffix(line, " ok") {
			exitCode = 1
		}
	}
	return exitCode
}

// flagValue returns the value following name in args, or def if name is
// absent.
func flagValue(args []string, name, def string) string {
	for i, a := range args {
		if a == name && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, name+"=") {
			return strings.TrimPrefix(a, name+"=")
		}
	}
	return def
}
