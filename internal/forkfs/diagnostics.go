//go:build linux

package forkfs

import (
	"fmt"

	"github.com/moby/sys/mountinfo"
)

// MountsUnder returns every /proc/self/mountinfo entry whose mountpoint is
// dir or a descendant of it, in the order the mount table lists them, so
// callers don't have to hand-parse /proc/self/mountinfo themselves.
func MountsUnder(dir string) ([]*mountinfo.Info, error) {
	mounts, err := mountinfo.GetMounts(mountinfo.PrefixFilter(dir))
	if err != nil {
		return nil, ioErr(err, fmt.Sprintf("reading mount table under %q", dir))
	}

	return mounts, nil
}
