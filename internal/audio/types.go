// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"strings"
)

// DataFlow is the direction of audio through an endpoint.
type DataFlow uint32

const (
	FlowRender DataFlow = iota
	FlowCapture
	FlowAll
	flowEnumCount
)

var dataFlowNames = [...]string{"eRender", "eCapture", "eAll", "EDataFlow_enum_count"}

// String returns the native symbolic name of the flow, e.g. "eRender".
func (f DataFlow) String() string {
	if int(f) < len(dataFlowNames) {
		return dataFlowNames[f]
	}
	return fmt.Sprintf("DataFlow(%d)", uint32(f))
}

// ParseDataFlow accepts "render", "capture", "all" (case-insensitive) as
// well as the native names returned by String.
func ParseDataFlow(s string) (DataFlow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "render", "playback", "erender":
		return FlowRender, nil
	case "capture", "recording", "ecapture":
		return FlowCapture, nil
	case "all", "", "eall":
		return FlowAll, nil
	}
	return 0, fmt.Errorf("unknown data flow %q", s)
}

// Role is the device role used when resolving a default endpoint.
type Role uint32

const (
	RoleConsole Role = iota
	RoleMultimedia
	RoleCommunications
)

// DeviceState is a bitmask of endpoint states. A single device reports
// exactly one bit; filters may combine several.
type DeviceState uint32

const (
	StateActive     DeviceState = 0x1
	StateDisabled   DeviceState = 0x2
	StateNotPresent DeviceState = 0x4
	StateUnplugged  DeviceState = 0x8
	StateAll        DeviceState = 0xF
)

func (s DeviceState) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateDisabled:
		return "Disabled"
	case StateNotPresent:
		return "NotPresent"
	case StateUnplugged:
		return "Unplugged"
	case StateAll:
		return "All"
	}
	var parts []string
	for _, bit := range []DeviceState{StateActive, StateDisabled, StateNotPresent, StateUnplugged} {
		if s&bit != 0 {
			parts = append(parts, bit.String())
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("DeviceState(%d)", uint32(s))
	}
	return strings.Join(parts, "|")
}

// ParseDeviceState parses a single state name or a "|"/","-separated list
// of names into a mask.
func ParseDeviceState(s string) (DeviceState, error) {
	var mask DeviceState
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "active":
			mask |= StateActive
		case "disabled":
			mask |= StateDisabled
		case "notpresent", "not-present", "not_present":
			mask |= StateNotPresent
		case "unplugged":
			mask |= StateUnplugged
		case "all":
			mask |= StateAll
		default:
			return 0, fmt.Errorf("unknown device state %q", part)
		}
	}
	if mask == 0 {
		return 0, fmt.Errorf("empty device state %q", s)
	}
	return mask, nil
}

// SessionState is the activity state of an audio session.
type SessionState uint32

const (
	SessionInactive SessionState = iota
	SessionActive
	SessionExpired
)

func (s SessionState) String() string {
	switch s {
	case SessionInactive:
		return "Inactive"
	case SessionActive:
		return "Active"
	case SessionExpired:
		return "Expired"
	}
	return fmt.Sprintf("SessionState(%d)", uint32(s))
}

// ParseSessionState parses "active", "inactive" or "expired".
func ParseSessionState(s string) (SessionState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inactive":
		return SessionInactive, nil
	case "active":
		return SessionActive, nil
	case "expired":
		return SessionExpired, nil
	}
	return 0, fmt.Errorf("unknown session state %q", s)
}

// DisconnectReason explains why a session was disconnected.
type DisconnectReason uint32

const (
	DisconnectDeviceRemoval DisconnectReason = iota
	DisconnectServerShutdown
	DisconnectFormatChanged
	DisconnectSessionLogoff
	DisconnectSessionDisconnected
	DisconnectExclusiveModeOverride
)

var disconnectReasonNames = [...]string{
	"DeviceRemoval",
	"ServerShutdown",
	"FormatChanged",
	"SessionLogoff",
	"SessionDisconnected",
	"ExclusiveModeOverride",
}

func (r DisconnectReason) String() string {
	if int(r) < len(disconnectReasonNames) {
		return disconnectReasonNames[r]
	}
	return fmt.Sprintf("DisconnectReason(%d)", uint32(r))
}

// FlowFormat selects how EndpointDataFlow renders its result.
type FlowFormat int

const (
	FlowFormatName FlowFormat = iota // symbolic name, e.g. "eCapture"
	FlowFormatCode                   // numeric code, e.g. "1"
)
