package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestSessionsListEmptyPrintsNothing(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var stdout bytes.Buffer

	code := sessionsCmd([]string{"list"}, &stdout, &bytes.Buffer{}, nil)

	if code != 0 {
		t.Errorf("sessionsCmd(list) = %d, want 0", code)
	}

	if stdout.String() != "" {
		t.Errorf("sessionsCmd(list) stdout = %q, want empty", stdout.String())
	}
}

func TestSessionsStopRequiresNamesOrAll(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var stderr bytes.Buffer

	code := sessionsCmd([]string{"stop"}, &bytes.Buffer{}, &stderr, nil)

	if code != 64 {
		t.Errorf("sessionsCmd(stop) = %d, want 64", code)
	}

	if !strings.Contains(stderr.String(), "--all") {
		t.Errorf("sessionsCmd(stop) stderr = %q, want it to mention --all", stderr.String())
	}
}

func TestSessionsStopRejectsAllWithNames(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var stderr bytes.Buffer

	code := sessionsCmd([]string{"stop", "--all", "extra-name"}, &bytes.Buffer{}, &stderr, nil)

	if code != 64 {
		t.Errorf("sessionsCmd(stop --all extra-name) = %d, want 64", code)
	}
}

func TestSessionsDeleteUnknownNameIsNotFound(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var stderr bytes.Buffer

	code := sessionsCmd([]string{"delete", "ghost"}, &bytes.Buffer{}, &stderr, nil)

	if code == 0 {
		t.Error("sessionsCmd(delete ghost) = 0, want a nonzero exit for a missing sandbox")
	}
}

func TestSessionsUnknownSubcommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var stderr bytes.Buffer

	code := sessionsCmd([]string{"frobnicate"}, &bytes.Buffer{}, &stderr, nil)

	if code != 64 {
		t.Errorf("sessionsCmd(frobnicate) = %d, want 64", code)
	}
}
