// Package versioncheck notifies the user when a newer cirius release has
// been announced. The latest version is taken from the environment (set by
// the release wrapper); nothing here ever touches the network or fails the
// running command.
package versioncheck

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/mod/semver"
)

// LatestEnv is the environment variable announcing the latest release.
const LatestEnv = "CIRIUS_LATEST_VERSION"

// CheckAndNotify prints a one-line notice to w when the announced latest
// version is newer than current. Unset or malformed versions are ignored.
func CheckAndNotify(w io.Writer, current string) {
	latest := os.Getenv(LatestEnv)
	if latest == "" || current == "" {
		return
	}

	cv, lv := canonical(current), canonical(latest)
	if !semver.IsValid(cv) || !semver.IsValid(lv) {
		return
	}

	if semver.Compare(lv, cv) > 0 {
		fmt.Fprintf(w, "A newer cirius release is available: %s (running %s)\n", latest, current)
	}
}

// canonical adds the "v" prefix semver.Compare requires.
func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
