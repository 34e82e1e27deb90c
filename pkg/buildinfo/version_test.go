package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func restore(t *testing.T) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFill(t *testing.T) {
	restore(t)
	Version, Commit, Date = devVersion, noCommit, noDate

	fill(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	})
	if Version != "v0.4.1" || Commit != "abc123" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("got %s %s %s", Version, Commit, Date)
	}
}

func TestFillKeepsStampedValues(t *testing.T) {
	restore(t)
	Version, Commit, Date = "v1.0.0", "release", "today"

	fill(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.4.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})
	if Version != "v1.0.0" || Commit != "release" {
		t.Errorf("ldflags values overwritten: %s %s", Version, Commit)
	}
}

func TestFillIgnoresDevelVersion(t *testing.T) {
	restore(t)
	Version = devVersion
	fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != devVersion {
		t.Errorf("Version = %q", Version)
	}
}

func TestTemplate(t *testing.T) {
	restore(t)
	Version, Commit, Date = "v2.0.0", "deadbeef", "now"
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version v2.0.0\n") {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); got != "version: v2.0.0\ncommit: deadbeef\nbuilt: now" {
		t.Errorf("String() = %q", got)
	}
}
