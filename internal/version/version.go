package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags. When unset, the VCS stamp embedded by the Go
// toolchain is used instead.
var (
	Commit    = ""
	BuildTime = ""
)

// String returns the version line printed by folio --version.
func String() string {
	commit, built, suffix := Commit, BuildTime, ""
	if commit == "" || built == "" {
		c, t, dirty := vcsStamp()
		if commit == "" {
			commit = c
			if dirty {
				suffix = "+dirty"
			}
		}
		if built == "" {
			built = t
		}
	}
	return fmt.Sprintf("folio dev (commit: %s%s, built: %s)", short(orUnknown(commit)), suffix, orUnknown(built))
}

func vcsStamp() (commit, at string, dirty bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", false
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			at = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	return commit, at, dirty
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
