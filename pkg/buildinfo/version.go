// Package buildinfo reports the version of the running binary.
//
// Release builds stamp the values with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/drawkit/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/drawkit/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/drawkit/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Without ldflags, values are taken from the module and VCS information the
// Go toolchain embeds (go install, go build inside a checkout).
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Defaults for an unstamped development build.
const (
	devVersion = "dev"
	noCommit   = "none"
	noDate     = "unknown"
)

var (
	// Version is the semantic version, e.g. "v1.2.3". Documents record it
	// as their app version and the CLI scopes cache keys by it.
	Version = devVersion

	// Commit is the git commit SHA.
	Commit = noCommit

	// Date is the build timestamp in RFC 3339.
	Date = noDate
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fill(info)
	}
}

// fill replaces unstamped values with embedded build information.
func fill(info *debug.BuildInfo) {
	if Version == devVersion && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == noCommit {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == noDate {
				Date = s.Value
			}
		}
	}
}

// String returns the build information on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} version " + Version + "\ncommit: " + Commit + "\nbuilt: " + Date + "\n"
}
