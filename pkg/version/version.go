// Package version reports build information for the tilestyle binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = getRevision(readBuildSettings())
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

// GetVersion returns the release version, or the VCS revision for
// development builds.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	return Revision
}

// Info returns a one-line summary of the build, as printed by --version.
func Info() string {
	info := fmt.Sprintf("%s (%s, %s/%s)", GetVersion(), GoVersion, GoOS, GoArch)
	if BuildDate != "" {
		info += " built " + BuildDate
	}

	return info
}

func readBuildSettings() map[string]string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	settings := make(map[string]string, len(buildInfo.Settings))
	for _, s := range buildInfo.Settings {
		settings[s.Key] = s.Value
	}

	return settings
}

func getRevision(settings map[string]string) string {
	rev, ok := settings["vcs.revision"]
	if !ok || rev == "" {
		return "unknown"
	}

	if len(rev) > 7 {
		rev = rev[:7]
	}

	if settings["vcs.modified"] == "true" {
		return rev + "-dirty"
	}

	return rev
}
