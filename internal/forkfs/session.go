//go:build linux

package forkfs

import (
	"fmt"
	"os"
	"sort"
)

// Target selects which sandboxes a session operation applies to: either
// every sandbox under the cache root, or an explicit, caller-provided list
// of names.
type Target struct {
	All   bool
	Names []string
}

// AllTarget is the "operate on every sandbox" target.
func AllTarget() Target { return Target{All: true} }

// NamesTarget is the "operate on exactly these sandboxes" target.
func NamesTarget(names []string) Target { return Target{Names: names} }

// ListEntry is one sandbox as reported by List: its name and whether it is
// currently active. List returns entries sorted by name so repeated calls
// against unchanged state produce identical output.
type ListEntry struct {
	Name   string
	Active bool
}

// List enumerates every sandbox under the cache root and probes each one's
// activity. An absent cache root is reported as no entries, not an error.
func List(store *Store) ([]ListEntry, error) {
	names, err := store.Names()
	if err != nil {
		return nil, err
	}

	sort.Strings(names)

	entries := make([]ListEntry, 0, len(names))

	for _, name := range names {
		active, err := IsActive(store.Dir(name), false)
		if err != nil {
			return nil, err
		}

		entries = append(entries, ListEntry{Name: name, Active: active})
	}

	return entries, nil
}

// Stop unmounts every sandbox selected by target. Stopping an inactive
// sandbox is a no-op; stopping a name that doesn't exist under
// Target{Names: ...} surfaces KindSessionNotFound.
func Stop(store *Store, target Target) error {
	return forEachTarget(store, target, true, func(dir string) error {
		active, err := IsActive(dir, !target.All)
		if err != nil {
			return err
		}

		if !active {
			return nil
		}

		return Teardown(dir, nil)
	})
}

// Delete stops (if needed) and then recursively removes the sandbox
// directory for every name selected by target. A missing sandbox under
// Target{Names: ...} surfaces KindSessionNotFound, same as Stop.
func Delete(store *Store, target Target) error {
	return forEachTarget(store, target, false, func(dir string) error {
		active, err := IsActive(dir, !target.All)
		if err != nil {
			return err
		}

		if active {
			if err := Teardown(dir, nil); err != nil {
				return err
			}
		}

		if err := os.RemoveAll(dir); err != nil {
			return ioErr(err, fmt.Sprintf("deleting %q", dir))
		}

		return nil
	})
}

// forEachTarget resolves target to a concrete directory list and applies f
// to each sequentially (see SPEC_FULL.md §5/§9: bulk operations are
// deliberately sequential, not parallel). The unnamed bool parameter is
// ignored; the must-exist behavior is decided by each f via target.All.
func forEachTarget(store *Store, target Target, _ bool, f func(dir string) error) error {
	names := target.Names

	if target.All {
		var err error

		names, err = store.Names()
		if err != nil {
			return err
		}
	}

	buf := newPathBuf(store.Root)

	for _, name := range names {
		dir, scope := buf.enter(name)
		err := f(dir)
		scope.leave()

		if err != nil {
			return err
		}
	}

	return nil
}
