package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/SUPERCILEX/forkfs/internal/forkfs"
)

func sessionsCmd(args []string, stdout, stderr io.Writer, env map[string]string) int {
	_ = env

	if len(args) == 0 {
		fprintError(stderr, fmt.Errorf("missing sessions subcommand"))
		fprintln(stderr, "Usage: forkfs sessions (list|stop|delete) ...")

		return 64
	}

	store, err := forkfs.NewStore()
	if err != nil {
		fprintError(stderr, err)

		return forkfs.ExitCode(err)
	}

	switch args[0] {
	case "list":
		return sessionsList(store, args[1:], stdout, stderr)
	case "stop":
		return sessionsTarget(store, args[1:], stderr, "stop", forkfs.Stop)
	case "delete":
		return sessionsTarget(store, args[1:], stderr, "delete", forkfs.Delete)
	default:
		fprintError(stderr, fmt.Errorf("unknown sessions subcommand %q", args[0]))

		return 64
	}
}

func sessionsList(store *forkfs.Store, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("sessions list", flag.ContinueOnError)
	flags.Usage = func() {}
	flags.SetOutput(io.Discard)

	if err := flags.Parse(args); err != nil {
		fprintError(stderr, err)

		return 64
	}

	entries, err := forkfs.List(store)
	if err != nil {
		fprintError(stderr, err)

		return forkfs.ExitCode(err)
	}

	if len(entries) == 0 {
		return 0
	}

	for i, e := range entries {
		if i > 0 {
			fmt.Fprint(stdout, ", ")
		}

		if e.Active {
			fmt.Fprintf(stdout, "[%s]", e.Name)
		} else {
			fmt.Fprint(stdout, e.Name)
		}
	}

	fprintln(stdout)

	return 0
}

// sessionsTarget drives both "stop" and "delete", which share an identical
// --all/names target resolution and only differ in the forkfs operation
// applied to that target.
func sessionsTarget(
	store *forkfs.Store,
	args []string,
	stderr io.Writer,
	name string,
	op func(*forkfs.Store, forkfs.Target) error,
) int {
	flags := flag.NewFlagSet("sessions "+name, flag.ContinueOnError)
	flags.Usage = func() {}
	flags.SetOutput(io.Discard)

	all := flags.Bool("all", false, "Apply to every sandbox")

	if err := flags.Parse(args); err != nil {
		fprintError(stderr, err)

		return 64
	}

	names := flags.Args()

	if *all && len(names) > 0 {
		fprintError(stderr, fmt.Errorf("--all cannot be combined with explicit names"))

		return 64
	}

	if !*all && len(names) == 0 {
		fprintError(stderr, fmt.Errorf("specify one or more sandbox names, or --all"))

		return 64
	}

	var target forkfs.Target
	if *all {
		target = forkfs.AllTarget()
	} else {
		for _, n := range names {
			if err := validateSessionName(n); err != nil {
				fprintError(stderr, err)

				return 64
			}
		}

		target = forkfs.NamesTarget(names)
	}

	if err := op(store, target); err != nil {
		fprintError(stderr, err)

		return forkfs.ExitCode(err)
	}

	return 0
}
