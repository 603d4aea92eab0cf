//go:build linux

package forkfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// pseudoMounts is the fixed, ordered list of pseudo/runtime directories
// recursively bind-mounted into every sandbox after the union mount is
// established. Order matters for both assembly and (reversed) teardown.
var pseudoMounts = []string{"proc", "dev", "run", "tmp"}

// Assemble creates the union mount for dir (lowerdir=/, upperdir=dir/diff,
// workdir=dir/work, mounted at dir/merged) and then recursively bind-mounts
// each pseudo directory into the merged view with downstream-only
// propagation, so mount events inside the sandbox never leak to the host.
//
// Assemble assumes EnsureLayers(dir) has already succeeded; it does not
// create diff/work/merged itself.
func Assemble(dir string, extraPseudoMounts []string) error {
	merged := filepath.Join(dir, layerMerged)

	opts := fmt.Sprintf("lowerdir=/,upperdir=%s,workdir=%s", filepath.Join(dir, layerDiff), filepath.Join(dir, layerWork))

	if strings.IndexByte(opts, 0) >= 0 {
		return invalidArgErr(fmt.Errorf("path contains a NUL byte"), fmt.Sprintf("building overlay options for %q", dir))
	}

	if err := unix.Mount("overlay", merged, "overlay", 0, opts); err != nil {
		return ioErr(err, fmt.Sprintf("mounting overlay at %q", merged))
	}

	for _, name := range append(append([]string{}, pseudoMounts...), extraPseudoMounts...) {
		if err := bindPseudoMount(merged, name); err != nil {
			return err
		}
	}

	return nil
}

func bindPseudoMount(merged, name string) error {
	target := filepath.Join(merged, name)
	source := filepath.Join("/", name)

	if err := unix.Mount(source, target, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return ioErr(err, fmt.Sprintf("bind-mounting %q onto %q", source, target))
	}

	// Downstream-only propagation: the sandbox receives host mount events
	// but does not propagate its own back to the host. Without this, a
	// mount performed inside the sandbox's /proc would appear on the host.
	if err := unix.Mount("", target, "", unix.MS_SLAVE|unix.MS_REC, ""); err != nil {
		return ioErr(err, fmt.Sprintf("setting propagation on %q", target))
	}

	return nil
}

// Teardown unmounts everything Assemble mounted, in reverse order: the
// pseudo-filesystem binds (lazily, since they have no on-disk state and
// live file descriptors under them shouldn't block teardown), then the
// union mount itself (hard unmount, since it must flush the
// copy-on-write view and a busy failure there is the caller's problem to
// resolve, not ours to paper over).
//
// Teardown only unmounts entries that are actually mounted; a sandbox left
// half-assembled by a prior crash is torn down as far as it got and no
// further, which is always safe to retry.
func Teardown(dir string, extraPseudoMounts []string) error {
	merged := filepath.Join(dir, layerMerged)

	all := append(append([]string{}, pseudoMounts...), extraPseudoMounts...)
	for i := len(all) - 1; i >= 0; i-- {
		target := filepath.Join(merged, all[i])

		if err := unix.Unmount(target, unix.MNT_DETACH); err != nil {
			if os.IsNotExist(err) || err == unix.EINVAL {
				// Not mounted (never got this far, or already torn down).
				continue
			}

			return ioErr(err, fmt.Sprintf("detaching %q", target))
		}
	}

	if err := unix.Unmount(merged, 0); err != nil {
		if err == unix.EINVAL {
			// merged itself was never mounted.
			return nil
		}

		return ioErr(err, fmt.Sprintf("unmounting %q", merged))
	}

	return nil
}

// MaybeCreate ensures dir's layer directories and mounts exist, reusing them
// if the sandbox is already active. It is the entry point the run operation
// uses before chrooting in.
func MaybeCreate(dir string, extraPseudoMounts []string) error {
	active, err := IsActive(dir, false)
	if err != nil {
		return err
	}

	if active {
		return nil
	}

	if err := EnsureLayers(dir); err != nil {
		return err
	}

	return Assemble(dir, extraPseudoMounts)
}
