// Package buildinfo reports the version of the running geosvg binary.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/geosvg/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/geosvg/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/geosvg/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with "go install" fall back to the module version and VCS
// settings embedded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version, e.g. "v0.3.0".
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFrom(bi)
	}
}

// fillFrom replaces values still at their defaults with those embedded in bi.
func fillFrom(bi *debug.BuildInfo) {
	if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, shortCommit(), Date)
}

func shortCommit() string {
	if len(Commit) > 12 {
		return Commit[:12]
	}
	return Commit
}
