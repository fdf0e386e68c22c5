// Package version provides the build identity of the relay.
//
//nolint:revive
package version

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Overridden with -ldflags "-X github.com/yagapon/oshirase/internal/version.Version=...".
var (
	Version    = "dev"
	CommitHash = ""
	BuildTime  = ""
)

// Info is the resolved build identity.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
}

var (
	once     sync.Once
	resolved Info
)

// Get resolves the build identity once, filling blanks from the embedded
// VCS settings.
func Get() Info {
	once.Do(func() {
		resolved = Info{Version: Version, Commit: CommitHash, BuildTime: BuildTime}
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		resolved.GoVersion = info.GoVersion
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if resolved.Commit == "" {
					resolved.Commit = s.Value
				}
			case "vcs.time":
				if resolved.BuildTime == "" {
					resolved.BuildTime = s.Value
				}
			}
		}
	})
	return resolved
}

// ShortCommit is the first seven characters of the commit.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// String renders "v1.2.3 (abcdef0)" or just the version.
func (i Info) String() string {
	if c := i.ShortCommit(); c != "" {
		return fmt.Sprintf("%s (%s)", i.Version, c)
	}
	return i.Version
}

// Attrs returns the identity as log attributes.
func (i Info) Attrs() []any {
	return []any{
		slog.String("version", i.Version),
		slog.String("commit", i.ShortCommit()),
		slog.String("build_time", i.BuildTime),
		slog.String("go", i.GoVersion),
	}
}

// UserAgent is sent on outbound HTTP requests.
func UserAgent() string {
	return "oshirase/" + Get().Version
}

// GetInfo returns Get().String().
func GetInfo() string {
	return Get().String()
}
