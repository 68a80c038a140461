// Package version reports which toastq build is running.
package version

import "runtime/debug"

// Version is the release of toastq. Overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. Overridden at build time using ldflags;
// when left unset the VCS stamp of the binary is used.
var Commit = "unknown"

const shortCommit = 7

var readBuildInfo = debug.ReadBuildInfo

// String returns the version including the short commit hash if known.
func String() string {
	commit, dirty := Commit, false
	if commit == "unknown" || commit == "" {
		commit, dirty = vcsRevision()
	}
	if commit == "" {
		return Version
	}
	if len(commit) > shortCommit {
		commit = commit[:shortCommit]
	}
	if dirty {
		commit += "-dirty"
	}
	return Version + "+" + commit
}

func vcsRevision() (revision string, dirty bool) {
	info, ok := readBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	return revision, dirty && revision != ""
}
