// Package buildinfo reports which orca build is running.
//
// Release builds stamp the variables with the linker:
//
//	go build -ldflags "-X github.com/matzehuels/orca/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/orca/pkg/buildinfo.Commit=$(git rev-parse HEAD)"
//
// Unstamped builds fall back to the VCS settings the go tool embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fill(info)
}

// fill copies module and VCS data from info into any variable the linker
// left at its default.
func fill(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String is the multi-line form printed by `orca --version`.
func String() string {
	return fmt.Sprintf("orca %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is String as a cobra version template.
func Template() string {
	return String() + "\n"
}
