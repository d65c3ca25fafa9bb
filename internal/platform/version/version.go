package version

import (
	"runtime"
	"runtime/debug"
)

// Name identifies the service in build info and logs.
const Name = "taskmaster"

// Build information, injected via ldflags at build time:
//
//	-X github.com/pscheid92/taskmaster/internal/platform/version.Version=v1.2.3
var (
	// Version is the git tag or semantic version
	Version = "dev"
	// Commit is the git commit SHA
	Commit = "unknown"
	// BuildTime is the ISO 8601 build timestamp
	BuildTime = "unknown"
)

// Info holds complete build information
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the current build information. When no commit was injected,
// the VCS revision recorded by the go toolchain is used if available.
func Get() Info {
	commit := Commit
	if commit == "unknown" {
		if rev, ok := vcsRevision(); ok {
			commit = rev
		}
	}

	return Info{
		Name:      Name,
		Version:   Version,
		Commit:    commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

func vcsRevision() (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value, true
		}
	}
	return "", false
}
