//go:build linux

package forkfs

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// CheckPrivileges implements the privilege gate from the design: if we're
// already root, proceed; otherwise try to become root on this thread
// (covers setuid binaries and file-capability execution); if that's denied,
// fall back to checking the effective capability set; if neither holds,
// fail with KindSetupRequired carrying actionable onboarding instructions.
//
// The thread-level UID change, if it happens, is permanent for the lifetime
// of the process: the process either proceeds as root for its whole
// remaining lifetime (it's about to chroot and exec) or exits, so there is
// no matching "downgrade the thread back" step here.
func CheckPrivileges(cfg Config) error {
	if os.Geteuid() == 0 {
		return nil
	}

	runtime.LockOSThread()

	err := unix.Setresuid(0, 0, 0)
	if err == nil {
		return nil
	}

	if !errors.Is(err, unix.EPERM) {
		return ioErr(err, "becoming root")
	}

	caps, err := effectiveCapabilities()
	if err != nil {
		return err
	}

	if hasCapabilities(caps, resolveRequiredCapabilities(cfg.RequiredCapabilities)) {
		return nil
	}

	return setupRequiredErr(setupMessage())
}

func setupMessage() string {
	exe, err := os.Readlink("/proc/self/exe")
	if err != nil {
		exe = "<path-to-forkfs>"
	}

	capList := "cap_chown,cap_dac_override,cap_sys_chroot,cap_sys_admin,cap_fowner,cap_setfcap,cap_mknod,cap_lease,cap_setpcap"

	return fmt.Sprintf(`Welcome to ForkFS!

Under the hood, ForkFS is implemented as a wrapper around OverlayFS. As a
consequence, elevated privileges are required and can be granted in one of
three ways (ordered by recommendation):

- $ sudo setcap %s+ep %s

  This grants forkfs precisely the capabilities it needs. cap_fowner
  onwards are required for OverlayFS to service arbitrary programs inside
  the sandbox (chown, xattrs, mknod, etc.).

- $ sudo chown root %s; sudo chmod u+s %s

  This transfers ownership of the forkfs binary to root and sets the setuid
  bit so it always executes as its owner.

- $ sudo -E forkfs ...

  This simply invokes forkfs as root. This option is problematic because
  sudo alters the environment, so PATH lookups and sandbox names keyed off
  $HOME/$XDG_CACHE_HOME can differ between invocations run with and without
  -E.

PS: if you've already seen this message, you probably upgraded to a new
version of forkfs and need to rerun this setup.`, capList, exe, exe, exe)
}
