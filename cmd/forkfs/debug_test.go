package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugLoggerDisabledByDefault(t *testing.T) {
	d := NewDebugLogger(nil)

	if d.Enabled() {
		t.Error("Enabled() = true, want false for a nil writer")
	}

	// None of these should panic even though logging is disabled.
	d.Section("run")
	d.Logf("unreachable %d", 1)
	d.Step("unreachable")
}

func TestDebugLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer

	d := NewDebugLogger(&buf)
	if !d.Enabled() {
		t.Fatal("Enabled() = false, want true")
	}

	d.Step("resolved session", "name", "default")

	out := buf.String()
	if !strings.Contains(out, "resolved session") || !strings.Contains(out, "name=default") {
		t.Errorf("Step() output = %q, want it to contain the message and fields", out)
	}
}

func TestDebugLoggerSection(t *testing.T) {
	var buf bytes.Buffer

	d := NewDebugLogger(&buf)
	d.Section("privilege gate")

	if !strings.Contains(buf.String(), "=== privilege gate ===") {
		t.Errorf("Section() output = %q, want the bracketed header", buf.String())
	}
}
