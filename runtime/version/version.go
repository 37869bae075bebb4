// Package version reports the build version of the speech adapters and tools.
// Version variables can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/lostredb/yandex-ai/runtime/version.version=1.0.0"
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

const (
	// devVersion is the default version when not set via ldflags
	devVersion = "dev"
	// shortCommitLen is the length of the short commit hash
	shortCommitLen = 7
	// vcsRevisionKey is the build info key for git commit
	vcsRevisionKey = "vcs.revision"
	// vcsModifiedKey is the build info key for dirty state
	vcsModifiedKey = "vcs.modified"
)

// Build-time variables - can be overridden with -ldflags
var (
	version   = devVersion
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the current version string.
// Falls back to build info from go modules if version is "dev".
func GetVersion() string {
	if version != devVersion {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return devVersion
}

// buildSetting returns the value of a VCS build setting, if recorded.
func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

// commit returns the ldflags commit or the short VCS revision.
func commit() string {
	if gitCommit != "" {
		return gitCommit
	}
	rev := buildSetting(vcsRevisionKey)
	return rev[:min(shortCommitLen, len(rev))]
}

// GetVersionInfo returns "<program> version X" plus commit and build date lines.
func GetVersionInfo(program string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s version %s", program, GetVersion())
	if c := commit(); c != "" {
		fmt.Fprintf(&b, "\ncommit: %s", c)
	}
	if buildDate != "" {
		fmt.Fprintf(&b, "\nbuilt: %s", buildDate)
	}

	return b.String()
}

// GetBuildInfo returns version details as slog key/value pairs.
func GetBuildInfo() []any {
	attrs := []any{"version", GetVersion()}

	if c := commit(); c != "" {
		attrs = append(attrs, "commit", c)
	}
	if gitCommit == "" && buildSetting(vcsModifiedKey) == "true" {
		attrs = append(attrs, "dirty", true)
	}
	if buildDate != "" {
		attrs = append(attrs, "built", buildDate)
	}

	return attrs
}
