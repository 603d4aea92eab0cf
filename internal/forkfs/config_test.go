package forkfs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	got := DefaultConfig()
	want := Config{DefaultSession: "default"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DefaultConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigMerge(t *testing.T) {
	cases := []struct {
		name     string
		base     Config
		override Config
		want     Config
	}{
		{
			name:     "empty override keeps base",
			base:     Config{DefaultSession: "default"},
			override: Config{},
			want:     Config{DefaultSession: "default"},
		},
		{
			name:     "override replaces default session",
			base:     Config{DefaultSession: "default"},
			override: Config{DefaultSession: "work"},
			want:     Config{DefaultSession: "work"},
		},
		{
			name:     "override replaces extra pseudo mounts wholesale",
			base:     Config{ExtraPseudoMounts: []string{"sys"}},
			override: Config{ExtraPseudoMounts: []string{"a", "b"}},
			want:     Config{ExtraPseudoMounts: []string{"a", "b"}},
		},
		{
			name:     "empty override list does not clear base list",
			base:     Config{ExtraPseudoMounts: []string{"sys"}},
			override: Config{},
			want:     Config{ExtraPseudoMounts: []string{"sys"}},
		},
		{
			name:     "required capabilities override",
			base:     Config{RequiredCapabilities: []string{"chown"}},
			override: Config{RequiredCapabilities: []string{"sys_admin"}},
			want:     Config{RequiredCapabilities: []string{"sys_admin"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.base.Merge(tc.override)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
