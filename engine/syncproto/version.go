// Package syncproto implements the fault-database sync protocol: semver
// version ordering, record checksums, delta calculation, the server-side
// check/download service, and the client state machine that keeps a local
// cache current.
package syncproto

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ZeroVersion is the sentinel a client reports when it has never synced.
const ZeroVersion = "0.0.0"

// InitialVersion is the first published database version.
const InitialVersion = "1.0.0"

// parseVersion parses tolerantly: "v" prefixes and short forms ("1.2") are
// accepted, anything unparseable degrades to 0.0.0 so a corrupt client
// version triggers a full sync instead of an error.
func parseVersion(s string) *semver.Version {
	if s == "" {
		s = ZeroVersion
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return semver.New(0, 0, 0, "", "")
	}
	return v
}

// CompareVersions returns -1, 0, or 1 ordering a against b numerically,
// so "1.10.0" sorts after "1.9.0".
func CompareVersions(a, b string) int {
	return parseVersion(a).Compare(parseVersion(b))
}

// IsNewerVersion reports whether candidate is strictly newer than current.
func IsNewerVersion(candidate, current string) bool {
	return CompareVersions(candidate, current) > 0
}

// IncrementVersion bumps a version. part is "major", "minor", or "patch";
// anything else counts as patch.
func IncrementVersion(version, part string) string {
	v := parseVersion(version)
	var next semver.Version
	switch part {
	case "major":
		next = v.IncMajor()
	case "minor":
		next = v.IncMinor()
	default:
		next = v.IncPatch()
	}
	return fmt.Sprintf("%d.%d.%d", next.Major(), next.Minor(), next.Patch())
}
