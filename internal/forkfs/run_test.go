//go:build linux

package forkfs

import "testing"

func TestRunSandboxRejectsEmptySession(t *testing.T) {
	requireRoot(t)

	store := &Store{Root: t.TempDir()}

	err := RunSandbox(RunInput{Store: store, Session: "", Command: []string{"true"}})
	if err == nil {
		t.Fatal("RunSandbox() error = nil, want KindInvalidArgument for an empty session")
	}

	if got := ErrorKind(err); got != KindInvalidArgument {
		t.Errorf("ErrorKind() = %v, want %v", got, KindInvalidArgument)
	}
}
