//go:build linux

package forkfs

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// IsActive answers: is <dir>/merged a distinct mount from dir? It never
// touches /proc/self/mountinfo; mount-IDs returned by statx are a stable,
// purely-local identification of kernel mount entries; equality means the
// two paths share a mount, inequality means merged has one of its own.
//
// mustExist controls how a missing merged directory is reported: when false
// (the common "is this sandbox running" query), it is reported as inactive;
// when true (operations that require the sandbox to already exist), it is
// reported as KindSessionNotFound.
func IsActive(dir string, mustExist bool) (bool, error) {
	merged := filepath.Join(dir, layerMerged)

	mergedMountID, err := mountID(merged)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return false, sessionNotFoundErr(fmt.Sprintf("sandbox %q", dir))
			}

			return false, nil
		}

		return false, ioErr(err, fmt.Sprintf("statting %q", merged))
	}

	dirMountID, err := mountID(dir)
	if err != nil {
		return false, ioErr(err, fmt.Sprintf("statting %q", dir))
	}

	return mergedMountID != dirMountID, nil
}

// mountID resolves the kernel mount-ID of path via statx. It returns a
// plain *os.PathError (unwrapped) for not-found so callers can use
// os.IsNotExist without reaching into forkfs's own error Kind machinery.
func mountID(path string) (uint64, error) {
	var stat unix.Statx_t

	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BASIC_STATS|unix.STATX_MNT_ID, &stat)
	if err != nil {
		return 0, &os.PathError{Op: "statx", Path: path, Err: err}
	}

	// Mnt_id is populated whenever the running kernel supports it (5.8+).
	// STATX_MNT_ID_UNIQUE is not requested, so this is the classic mount ID,
	// which is enough to tell two live mounts apart.
	return stat.Mnt_id, nil
}
