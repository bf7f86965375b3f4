// SPDX-License-Identifier: MIT
package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withLinkerVars swaps in the given -ldflags values and a fresh default Info
// for the duration of one test.
func withLinkerVars(t *testing.T, name, time, commit, version string) {
	t.Helper()
	saved := [4]string{buildName, buildTime, buildCommit, buildVersion}
	savedFlags := buildFlags
	t.Cleanup(func() {
		buildName, buildTime, buildCommit, buildVersion = saved[0], saved[1], saved[2], saved[3]
		buildFlags = savedFlags
	})

	buildName, buildTime, buildCommit, buildVersion = name, time, commit, version
	buildFlags = &Info{Name: "audioctl", Time: "unknown", Commit: "unknown", Version: "dev"}
}

func TestGetBuildFlags_Defaults(t *testing.T) {
	withLinkerVars(t, "", "", "", "")

	assert.Equal(t, "audioctl", GetBuildFlags().Name)
	assert.Equal(t, "audioctl dev (commit unknown, built unknown)", GetBuildFlags().String())
}

func TestInitialize_PopulatesInfo(t *testing.T) {
	withLinkerVars(t, "audioctl", "2025-04-13", "abcdef123", "v1.0.0")

	require.NoError(t, Initialize())
	assert.Equal(t, Info{Name: "audioctl", Time: "2025-04-13", Commit: "abcdef123", Version: "v1.0.0"}, *GetBuildFlags())
}

func TestInitialize_FailureKeepsDefaults(t *testing.T) {
	withLinkerVars(t, "audioctl", "2025-04-13", "", "v1.0.0")

	err := Initialize()
	require.EqualError(t, err, "BuildCommit is required")
	assert.Equal(t, "dev", GetBuildFlags().Version)
	assert.Equal(t, "audioctl", GetBuildFlags().Name)
}

func TestInfoString(t *testing.T) {
	info := Info{Name: "audioctl", Time: "2025-04-13", Commit: "abcdef123", Version: "v1.0.0"}
	assert.Equal(t, "audioctl v1.0.0 (commit abcdef123, built 2025-04-13)", info.String())
}
