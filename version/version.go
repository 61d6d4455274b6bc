// Package version provides build version information embedding.
//
// Version, git commit, and build time are set at compile time via
// -ldflags:
//
//	go build -ldflags "-X github.com/Gaelhpalmer/diarized-stt/version.Version=1.0.0"
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info represents version information.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns version information, filling gaps from the embedded
// build info when ldflags were not set.
func Get() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = setting.Value
					if len(info.GitCommit) > 7 {
						info.GitCommit = info.GitCommit[:7]
					}
				}
			case "vcs.time":
				if info.BuildTime == "" {
					if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
						info.BuildTime = t.Format(time.RFC3339)
					}
				}
			}
		}
	}
	return info
}

// String renders the version as a single human-readable line.
func (i *Info) String() string {
	s := i.Version
	if i.GitCommit != "" {
		s = fmt.Sprintf("%s (%s)", s, i.GitCommit)
	}
	if i.BuildTime != "" {
		s = fmt.Sprintf("%s built %s", s, i.BuildTime)
	}
	return s
}
