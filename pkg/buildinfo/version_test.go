package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func reset(t *testing.T) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
	Version, Commit, Date = "dev", "none", "unknown"
}

func TestFillFrom(t *testing.T) {
	reset(t)
	fillFrom(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})
	if Version != "v0.3.0" || Commit != "0123456789abcdef" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("fillFrom() = %q %q %q", Version, Commit, Date)
	}
	if got := Template(); !strings.Contains(got, "v0.3.0 (0123456789ab, built 2026-01-02T03:04:05Z)") {
		t.Errorf("Template() = %q", got)
	}
}

func TestFillFromKeepsLdflags(t *testing.T) {
	reset(t)
	Version, Commit = "v1.0.0", "abc"
	fillFrom(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "zzz"}},
	})
	if Version != "v1.0.0" || Commit != "abc" {
		t.Errorf("fillFrom() overwrote ldflags values: %q %q", Version, Commit)
	}
}

func TestString(t *testing.T) {
	reset(t)
	if got, want := String(), "version: dev\ncommit: none\nbuilt: unknown"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
