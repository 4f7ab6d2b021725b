// Package version holds build metadata for the CLI and the account client.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags; FromBuildInfo fills them for "go install" builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// appIDLimit is the longest application id azcore accepts in User-Agent.
const appIDLimit = 24

// FromBuildInfo fills unset metadata from the module build info. It is a
// no-op when Version was set at link time.
func FromBuildInfo() {
	if Version != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			Commit = s.Value
			if len(Commit) > 7 {
				Commit = Commit[:7]
			}
		case "vcs.time":
			Date = s.Value
		}
	}
}

// Info returns the line printed by "bigbang version".
func Info() string {
	return fmt.Sprintf("bigbang %s (commit: %s, built: %s) %s",
		Version, Commit, Date, runtime.Version())
}

// Short returns the bare version, used as the pipeline module version.
func Short() string {
	return Version
}

// UserAgent returns the application id sent with every account request,
// truncated to what azcore accepts.
func UserAgent() string {
	ua := "bigbang/" + Version
	if len(ua) > appIDLimit {
		ua = ua[:appIDLimit]
	}
	return ua
}
