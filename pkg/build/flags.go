// SPDX-License-Identifier: MIT
//
// Package build provides the build information embedded into the binary at
// link time: application name, build timestamp, Git commit hash and semantic
// version. Development builds without linker flags report the defaults.
package build

import "fmt"

// Description is the one-line summary shown by the CLI.
const Description = "Inspect and control Windows audio endpoints and sessions"

// Info holds build-time information injected during compilation, e.g.
//
//	go build -ldflags "-X audioctl/pkg/build.buildName=audioctl -X audioctl/pkg/build.buildVersion=0.1.0 ..."
type Info struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// String renders a one-line version banner.
func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", i.Name, i.Version, i.Commit, i.Time)
}

// Package-level variables for build information. These are populated by -ldflags
// during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &Info{
		Name:    "audioctl",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
)

// Initialize validates and copies build information from ldflags variables
// into the build info. Returns an error if any flag is missing; the defaults
// stay in place in that case.
func Initialize() error {
	if buildName == "" {
		return fmt.Errorf("BuildName is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion

	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *Info {
	return buildFlags
}
