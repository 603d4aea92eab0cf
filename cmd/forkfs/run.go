package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/SUPERCILEX/forkfs/internal/forkfs"
)

const exeName = "forkfs"

// Run is the top-level entry point, isolated from global state (stdin/
// stdout/stderr/env/os.Args) so it can be exercised by tests. Returns the
// process exit code.
func Run(stdin io.Reader, stdout, stderr io.Writer, args []string, env map[string]string) int {
	if len(args) < 2 {
		printUsage(stdout)

		return 0
	}

	switch args[1] {
	case "-h", "--help":
		printUsage(stdout)

		return 0
	case "-v", "--version":
		fprintln(stdout, formatVersion())

		return 0
	case "run":
		return runCmd(args[2:], stdin, stdout, stderr, env)
	case "sessions":
		return sessionsCmd(args[2:], stdout, stderr, env)
	default:
		fprintError(stderr, fmt.Errorf("unknown command %q", args[1]))
		printUsage(stderr)

		return 64
	}
}

func runCmd(args []string, stdin io.Reader, stdout, stderr io.Writer, env map[string]string) int {
	flags := flag.NewFlagSet("run", flag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.Usage = func() {}
	flags.SetOutput(io.Discard)

	session := flags.StringP("session", "s", "", "Sandbox name to use (default: \"default\" or config default)")
	stayRoot := flags.Bool("stay-root", false, "Do not downgrade privilege before exec'ing the command")
	configPath := flags.String("config", "", "Use specified config file")
	debug := flags.BoolP("debug", "d", false, "Print sandbox lifecycle diagnostics to stderr")
	debugLogPath := flags.String("debug-log", "", "Write sandbox lifecycle diagnostics to this file instead of stderr")

	if err := flags.Parse(args); err != nil {
		fprintError(stderr, err)

		return 64
	}

	command := flags.Args()
	if len(command) == 0 {
		fprintError(stderr, fmt.Errorf("missing command"))
		fprintln(stderr, "Usage: forkfs run [--session <name>] [--stay-root] -- <command> [args...]")

		return 64
	}

	cfg, err := loadConfig(env, *configPath, forkfs.Config{DefaultSession: ""})
	if err != nil {
		fprintError(stderr, err)

		return 78
	}

	sessionName := *session
	if sessionName == "" {
		sessionName = cfg.DefaultSession
	}

	if err := validateSessionName(sessionName); err != nil {
		fprintError(stderr, err)

		return 64
	}

	var dbg *DebugLogger
	if *debug || *debugLogPath != "" {
		out, closer, err := resolveDebugOutput(*debugLogPath, stderr)
		if err != nil {
			fprintError(stderr, fmt.Errorf("opening debug log %q: %w", *debugLogPath, err))

			return 74
		}
		if closer != nil {
			defer closer.Close()
		}

		dbg = NewDebugLogger(out)
		dbg.Section("run")
		dbg.Step("resolved session", "name", sessionName, "stayRoot", *stayRoot)
	}

	store, err := forkfs.NewStore()
	if err != nil {
		fprintError(stderr, err)

		return forkfs.ExitCode(err)
	}

	if dbg.Enabled() {
		dbg.Step("resolved store", "root", store.Root)
	}

	_ = stdin // forwarded implicitly: Exec inherits the process's stdio.

	err = forkfs.RunSandbox(forkfs.RunInput{
		Store:    store,
		Session:  sessionName,
		Command:  command,
		StayRoot: *stayRoot,
		Config:   cfg,
	})
	if err != nil {
		fprintError(stderr, err)

		return forkfs.ExitCode(err)
	}

	// Unreachable on success: RunSandbox's final step replaces the process
	// image via exec. Reaching here at all means exec claimed success
	// without actually replacing the process, which can't happen on Linux.
	return 0
}

// resolveDebugOutput picks the io.Writer debug diagnostics should go to: the
// named file if debugLogPath is set (opened for append so repeated runs
// against the same sandbox accumulate one trail), otherwise fallback. The
// returned io.Closer is non-nil only when the caller owns a file that needs
// closing.
func resolveDebugOutput(debugLogPath string, fallback io.Writer) (io.Writer, io.Closer, error) {
	if debugLogPath == "" {
		return fallback, nil, nil
	}

	f, err := os.OpenFile(debugLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	return f, f, nil
}

func validateSessionName(name string) error {
	if name == "" {
		return fmt.Errorf("session name must not be empty")
	}

	if strings.ContainsRune(name, filepath.Separator) || name == "." || name == ".." {
		return fmt.Errorf("session name %q must not contain path separators", name)
	}

	return nil
}

const usageHelp = `forkfs - ephemeral, persistent, per-name sandboxes of the host filesystem

Usage: forkfs [command] [flags]

Commands:
  run [flags] -- <command> [args...]   Run a command inside a sandbox
  sessions list                        List sandboxes
  sessions stop (<name>...|--all)      Unmount sandboxes
  sessions delete (<name>...|--all)    Unmount and remove sandboxes

Global flags:
  -h, --help       Show help
  -v, --version    Show version and exit

Run flags:
  -s, --session <name>   Sandbox name to use (default: "default")
      --stay-root        Do not downgrade privilege before exec'ing the command
      --config <file>    Use specified config file
  -d, --debug             Print sandbox lifecycle diagnostics to stderr
      --debug-log <path> Write sandbox lifecycle diagnostics to this file instead of stderr

Examples:
  forkfs run -- bash
  forkfs run --session scratch -- sh -c 'echo hi > /tmp/x'
  forkfs sessions list
  forkfs sessions stop --all`

func printUsage(out io.Writer) {
	fprintln(out, usageHelp)
}

func fprintln(out io.Writer, a ...any) {
	_, _ = fmt.Fprintln(out, a...)
}

func fprintError(out io.Writer, err error) {
	if isTerminal(out) {
		fprintln(out, "\033[31mforkfs: error:\033[0m", err)
	} else {
		fprintln(out, "forkfs: error:", err)
	}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}

	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}

func formatVersion() string {
	if version == "source" {
		return fmt.Sprintf("forkfs (built from source, %s)", date)
	}

	return fmt.Sprintf("forkfs %s (%s, %s)", version, commit, date)
}
