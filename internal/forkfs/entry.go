//go:build linux

package forkfs

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// Enter chroots into dir/merged and restores the process's pre-chroot
// working directory inside the new root. The cwd must be captured before
// the chroot call: chroot does not itself change cwd, but leaving it
// pointing outside the new root is pathological, so it's re-established
// inside the sandboxed view immediately after.
func Enter(dir string) error {
	merged := filepath.Join(dir, layerMerged)

	cwd, err := os.Getwd()
	if err != nil {
		return ioErr(err, "getting current directory")
	}

	if err := unix.Chroot(merged); err != nil {
		return ioErr(err, fmt.Sprintf("changing root to %q", merged))
	}

	if err := unix.Chdir(cwd); err != nil {
		return ioErr(err, fmt.Sprintf("restoring working directory %q inside %q", cwd, merged))
	}

	return nil
}

// downgradeUID resolves the UID the exec'd command should run as when the
// caller does not want to stay root: the real (pre-escalation) UID if it's
// non-root (setuid/file-capability execution), or the SUDO_UID the
// elevation tool recorded, or 0 if neither tells us anything better.
func downgradeUID() (uint32, bool) {
	if uid := os.Getuid(); uid != 0 {
		return uint32(uid), true
	}

	if raw := strings.TrimSpace(os.Getenv("SUDO_UID")); raw != "" {
		if uid, err := strconv.ParseUint(raw, 10, 32); err == nil {
			return uint32(uid), true
		}
	}

	return 0, false
}

// Exec replaces the current process image with command, after having
// already chrooted via Enter. stayRoot suppresses the UID downgrade
// described in downgradeUID. It never returns on success. An empty command
// is a KindInvalidArgument error; any other failure is a KindIO error
// decorated with the command name or the attempted command line.
func Exec(command []string, stayRoot bool) error {
	if len(command) == 0 {
		return invalidArgErr(fmt.Errorf("empty command"), "preparing exec")
	}

	path, err := exec.LookPath(command[0])
	if err != nil {
		return ioErr(err, fmt.Sprintf("resolving %q in PATH", command[0]))
	}

	if !stayRoot {
		if uid, ok := downgradeUID(); ok {
			if err := setUID(uid); err != nil {
				return ioErr(err, fmt.Sprintf("downgrading to uid %d", uid))
			}
		}
	}

	err = syscall.Exec(path, command, os.Environ())

	return ioErr(err, fmt.Sprintf("executing %q", strings.Join(command, " ")))
}

func setUID(uid uint32) error {
	return unix.Setresuid(int(uid), int(uid), int(uid))
}
