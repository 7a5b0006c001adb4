// Package version reports the BreathCheck release and the commit it was built
// from.
package version

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var release string

// Get returns the release number from the embedded VERSION file.
func Get() string {
	return strings.TrimSpace(release)
}

// Revision returns the short VCS revision stamped by the go tool, with a
// "-dirty" suffix for modified trees. It is empty for builds without VCS info.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return revisionFrom(info.Settings)
}

func revisionFrom(settings []debug.BuildSetting) string {
	var rev string
	var dirty bool
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}

// String formats the release with its revision when one is known.
func String() string {
	return format(Get(), Revision())
}

func format(release, rev string) string {
	if rev == "" {
		return release
	}
	return release + " (" + rev + ")"
}
