// Package richbridge bridges a declarative host to a live rich-text editor
// running as a Bubble Tea component. See the bridge, editor, buffer, delta
// and format packages.
package richbridge

import (
	_ "embed"
	"regexp"
	"runtime/debug"
	"strings"
)

var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?$`)

//go:embed VERSION
var embeddedVersion string

const modulePath = "github.com/iw2rmb/richbridge"

// Version returns the SemVer of the running build, without the leading v.
// A binary built from a tagged module reports its tag; everything else
// reports the VERSION file.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if v, ok := taggedVersion(info); ok {
			return v
		}
	}
	return strings.TrimSpace(embeddedVersion)
}

func taggedVersion(info *debug.BuildInfo) (string, bool) {
	mods := append([]*debug.Module{&info.Main}, info.Deps...)
	for _, m := range mods {
		if m == nil || m.Path != modulePath {
			continue
		}
		v := strings.TrimPrefix(m.Version, "v")
		// Pseudo-versions carry a timestamp and commit.
		if IsSemver(v) && strings.Count(v, "-") < 2 {
			return v, true
		}
	}
	return "", false
}

// Tag returns Version in git tag form.
func Tag() string {
	return "v" + Version()
}

// IsSemver reports whether v matches SemVer 2.0.0.
func IsSemver(v string) bool {
	return semverRE.MatchString(strings.TrimSpace(v))
}
