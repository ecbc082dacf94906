// Package version holds build metadata set via ldflags:
// go build -ldflags "-X git.home.luguber.info/inful/docrunner/internal/version.Version=v1.0.0".
package version

import (
	"fmt"
	"runtime/debug"
)

// Version contains the application version information.
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version. Without ldflags the
// module version and VCS revision recorded by the Go toolchain are used.
func String() string {
	v, commit := Version, GitCommit
	if info, ok := debug.ReadBuildInfo(); ok {
		if v == "unknown" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
		if commit == "unknown" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 8 {
					commit = s.Value[:8]
				}
			}
		}
	}
	return fmt.Sprintf("docrunner %s (commit %s, built %s)", v, commit, BuildTime)
}
