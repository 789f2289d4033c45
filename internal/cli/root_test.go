package cli

import (
	"strings"
	"testing"
)

func TestRootCommandStructure(t *testing.T) {
	root := newRootCmd()

	if root.Use != "mosaic" {
		t.Errorf("Use = %q, want mosaic", root.Use)
	}

	want := map[string]bool{
		"render":     false,
		"explore":    false,
		"prefs":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		name := strings.Fields(cmd.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCommandVerboseFlag(t *testing.T) {
	root := newRootCmd()
	if root.PersistentFlags().Lookup("verbose") == nil {
		t.Error("missing persistent --verbose flag")
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("v1.2.3", "abc123", "2026-01-01")
	defer SetVersion("", "", "")

	root := newRootCmd()
	if root.Version != "v1.2.3" {
		t.Errorf("Version = %q, want v1.2.3", root.Version)
	}
}
