//go:build linux

package forkfs

import "testing"

func TestSetupMessageMentionsAllThreeRemedies(t *testing.T) {
	msg := setupMessage()

	for _, want := range []string{"setcap", "chmod u+s", "sudo -E"} {
		if !containsSubstring(msg, want) {
			t.Errorf("setupMessage() missing remedy %q:\n%s", want, msg)
		}
	}
}

func containsSubstring(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}

	return false
}

func TestCheckPrivilegesAsRootSucceeds(t *testing.T) {
	requireRoot(t)

	if err := CheckPrivileges(DefaultConfig()); err != nil {
		t.Errorf("CheckPrivileges() as root error = %v, want nil", err)
	}
}
