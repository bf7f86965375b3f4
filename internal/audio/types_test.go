package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFlow_String(t *testing.T) {
	assert.Equal(t, "eRender", FlowRender.String())
	assert.Equal(t, "eCapture", FlowCapture.String())
	assert.Equal(t, "eAll", FlowAll.String())
	assert.Equal(t, "EDataFlow_enum_count", flowEnumCount.String())
	assert.Equal(t, "DataFlow(9)", DataFlow(9).String())
}

func TestParseDataFlow(t *testing.T) {
	tests := map[string]DataFlow{
		"render":    FlowRender,
		"Playback":  FlowRender,
		"eRender":   FlowRender,
		"capture":   FlowCapture,
		"recording": FlowCapture,
		"all":       FlowAll,
		"":          FlowAll,
	}
	for in, want := range tests {
		got, err := ParseDataFlow(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDataFlow("sideways")
	assert.Error(t, err)
}

func TestDeviceState(t *testing.T) {
	assert.Equal(t, "Active", StateActive.String())
	assert.Equal(t, "All", StateAll.String())
	assert.Equal(t, "Active|Unplugged", (StateActive | StateUnplugged).String())
	assert.Equal(t, "DeviceState(0)", DeviceState(0).String())

	mask, err := ParseDeviceState("active|unplugged")
	require.NoError(t, err)
	assert.Equal(t, StateActive|StateUnplugged, mask)

	mask, err = ParseDeviceState("disabled, not-present")
	require.NoError(t, err)
	assert.Equal(t, StateDisabled|StateNotPresent, mask)

	_, err = ParseDeviceState("")
	assert.Error(t, err)
	_, err = ParseDeviceState("active|broken")
	assert.Error(t, err)
}

func TestSessionState(t *testing.T) {
	for _, s := range []SessionState{SessionInactive, SessionActive, SessionExpired} {
		got, err := ParseSessionState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseSessionState("paused")
	assert.Error(t, err)
}

func TestDisconnectReason_String(t *testing.T) {
	assert.Equal(t, "DeviceRemoval", DisconnectDeviceRemoval.String())
	assert.Equal(t, "ExclusiveModeOverride", DisconnectExclusiveModeOverride.String())
	assert.Equal(t, "DisconnectReason(42)", DisconnectReason(42).String())
}

func TestSessionInfo_Label(t *testing.T) {
	assert.Equal(t, "Music", SessionInfo{ProcessID: 1, DisplayName: "Music", ProcessName: "spotify.exe"}.Label())
	assert.Equal(t, "spotify.exe", SessionInfo{ProcessID: 1, ProcessName: "spotify.exe"}.Label())
	assert.Equal(t, "System Sounds", SessionInfo{}.Label())
	assert.Equal(t, "pid 77", SessionInfo{ProcessID: 77}.Label())
}
