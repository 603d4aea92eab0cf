//go:build linux

package forkfs

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// capability is a Linux capability bit, numbered per capability.h. Only the
// ones the mount assembler and entry/exec code care about are named.
type capability uint

const (
	capChown       capability = 0
	capDacOverride capability = 1
	capFowner      capability = 3
	capMknod       capability = 27
	capSysChroot   capability = 18
	capSysAdmin    capability = 21
	capSetfcap     capability = 31
	capLease       capability = 28
	capSetpcap     capability = 8
)

// requiredCapabilities is the minimum set the privilege gate demands before
// it lets a non-root, non-escalatable process proceed.
var requiredCapabilities = []capability{capChown, capDacOverride, capSysChroot, capSysAdmin}

// recommendedCapabilities is the fuller set documented in the setup message;
// realistic workloads that chown, mknod, or set xattrs inside the sandbox
// need these in addition to requiredCapabilities.
var recommendedCapabilities = []capability{
	capChown, capDacOverride, capSysChroot, capSysAdmin,
	capFowner, capSetfcap, capMknod, capLease, capSetpcap,
}

// effectiveCapabilities reads the calling process's effective capability set
// from /proc/self/status, the same source the rest of the ecosystem uses for
// this (no libcap binding is warranted for a single bitmask read).
func effectiveCapabilities() (uint64, error) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, ioErr(err, "opening /proc/self/status")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		field, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(field) != "CapEff" {
			continue
		}

		raw := strings.TrimSpace(value)

		caps, err := strconv.ParseUint(raw, 16, 64)
		if err != nil {
			return 0, ioErr(err, fmt.Sprintf("parsing CapEff %q", raw))
		}

		return caps, nil
	}

	if err := scanner.Err(); err != nil {
		return 0, ioErr(err, "reading /proc/self/status")
	}

	return 0, ioErr(fmt.Errorf("CapEff field not found"), "reading /proc/self/status")
}

// hasCapabilities reports whether caps contains every capability in want.
func hasCapabilities(caps uint64, want []capability) bool {
	for _, c := range want {
		if caps&(1<<uint(c)) == 0 {
			return false
		}
	}

	return true
}

// capabilityByName maps the lowercase, "cap_"-less names accepted in
// Config.RequiredCapabilities to their capability bit.
var capabilityByName = map[string]capability{
	"chown":        capChown,
	"dac_override": capDacOverride,
	"fowner":       capFowner,
	"mknod":        capMknod,
	"sys_chroot":   capSysChroot,
	"sys_admin":    capSysAdmin,
	"setfcap":      capSetfcap,
	"lease":        capLease,
	"setpcap":      capSetpcap,
}

// resolveRequiredCapabilities turns a Config's RequiredCapabilities override
// into a capability list, falling back to requiredCapabilities when the
// config doesn't override the set. Unknown names are ignored rather than
// rejected, since this only ever loosens or tightens an already-conservative
// default and a typo here shouldn't turn into a hard startup failure.
func resolveRequiredCapabilities(names []string) []capability {
	if len(names) == 0 {
		return requiredCapabilities
	}

	caps := make([]capability, 0, len(names))

	for _, name := range names {
		if c, ok := capabilityByName[name]; ok {
			caps = append(caps, c)
		}
	}

	return caps
}
