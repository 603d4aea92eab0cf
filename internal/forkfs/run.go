//go:build linux

package forkfs

import "fmt"

// RunInput bundles what RunSandbox needs from the CLI layer.
type RunInput struct {
	Store    *Store
	Session  string
	Command  []string
	StayRoot bool
	Config   Config
}

// RunSandbox implements the full run control flow: privilege gate → resolve
// sandbox dir → create/reuse mounts → chroot+cwd → exec. On success it never
// returns (the process image has been replaced); on failure it returns an
// error classified per §7.
func RunSandbox(in RunInput) error {
	if err := CheckPrivileges(in.Config); err != nil {
		return err
	}

	if in.Session == "" {
		return invalidArgErr(fmt.Errorf("empty session name"), "resolving session")
	}

	dir := in.Store.Dir(in.Session)

	if err := MaybeCreate(dir, in.Config.ExtraPseudoMounts); err != nil {
		return err
	}

	if err := Enter(dir); err != nil {
		return err
	}

	return Exec(in.Command, in.StayRoot)
}
