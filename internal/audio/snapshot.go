// SPDX-License-Identifier: MIT
package audio

import (
	"strconv"
	"time"

	applog "audioctl/internal/log"
)

// Snapshot is a plain-data view of the endpoint and session graph at one
// point in time, suitable for printing or publishing.
type Snapshot struct {
	Taken   time.Time    `json:"taken"`
	Flow    string       `json:"flow"`
	Devices []DeviceInfo `json:"devices"`
}

// DeviceInfo describes one endpoint. Pointer fields are nil when the value
// could not be read.
type DeviceInfo struct {
	ID       string        `json:"id"`
	Name     string        `json:"name,omitempty"`
	State    string        `json:"state"`
	Flow     string        `json:"flow,omitempty"`
	Muted    *bool         `json:"muted,omitempty"`
	Volume   *float32      `json:"volume,omitempty"`
	Sessions []SessionInfo `json:"sessions,omitempty"`
}

// SessionInfo describes one audio session.
type SessionInfo struct {
	ProcessID          uint32   `json:"pid"`
	ProcessName        string   `json:"process,omitempty"`
	DisplayName        string   `json:"display_name,omitempty"`
	IconPath           string   `json:"icon_path,omitempty"`
	Identifier         string   `json:"identifier,omitempty"`
	InstanceIdentifier string   `json:"instance_identifier,omitempty"`
	State              string   `json:"state"`
	Volume             *float32 `json:"volume,omitempty"`
	Muted              *bool    `json:"muted,omitempty"`
}

// Snapshot collects every endpoint matching flow in any state, together with
// the sessions of the active ones. Failures reading individual fields are
// logged and leave the field empty; only enumeration failures are returned.
func (d *Directory) Snapshot(flow DataFlow) (*Snapshot, error) {
	devices, err := d.Devices(flow, StateAll)
	if err != nil {
		return nil, err
	}
	defer releaseDevices(devices)

	snap := &Snapshot{
		Taken:   time.Now().UTC(),
		Flow:    flow.String(),
		Devices: make([]DeviceInfo, 0, len(devices)),
	}
	for _, device := range devices {
		info, err := DescribeDevice(device)
		if err != nil {
			return nil, err
		}
		snap.Devices = append(snap.Devices, info)
	}
	return snap, nil
}

// DescribeDevice reads device and the sessions of an active device into a
// DeviceInfo.
func DescribeDevice(device *Device) (DeviceInfo, error) {
	id, err := device.ID()
	if err != nil {
		return DeviceInfo{}, err
	}
	state, err := device.State()
	if err != nil {
		return DeviceInfo{}, err
	}

	info := DeviceInfo{ID: id, State: state.String()}
	if name, ok, err := device.FriendlyName(); err != nil {
		applog.Warnf("audio: device %s: %v", id, err)
	} else if ok {
		info.Name = name
	}
	if flow, err := device.DataFlow(); err == nil {
		info.Flow = flow.String()
	}
	if state != StateActive {
		return info, nil
	}

	if muted, err := device.IsMuted(); err == nil {
		info.Muted = &muted
	} else {
		applog.Debugf("audio: device %s mute: %v", id, err)
	}
	if volume, err := device.Volume(); err == nil {
		info.Volume = &volume
	}

	sessions, err := device.Sessions()
	if err != nil {
		applog.Warnf("audio: device %s sessions: %v", id, err)
		return info, nil
	}
	defer releaseSessions(sessions)

	for _, s := range sessions {
		info.Sessions = append(info.Sessions, DescribeSession(s))
	}
	return info, nil
}

// DescribeSession reads s into a SessionInfo, skipping unreadable fields.
func DescribeSession(s *Session) SessionInfo {
	var info SessionInfo
	if pid, err := s.ProcessID(); err == nil {
		info.ProcessID = pid
	}
	if p, err := s.Process(); err == nil && p != nil {
		if name, err := p.Name(); err == nil {
			info.ProcessName = name
		}
	}
	info.DisplayName, _ = s.DisplayName()
	info.IconPath, _ = s.IconPath()
	info.Identifier, _ = s.Identifier()
	info.InstanceIdentifier, _ = s.InstanceIdentifier()
	if state, err := s.State(); err == nil {
		info.State = state.String()
	}
	if sv, err := s.SimpleVolume(); err == nil && sv != nil {
		if volume, err := sv.MasterVolume(); err == nil {
			info.Volume = &volume
		}
		if muted, err := sv.Mute(); err == nil {
			info.Muted = &muted
		}
	}
	return info
}

// Label returns the best human-readable name for the session.
func (i SessionInfo) Label() string {
	switch {
	case i.DisplayName != "":
		return i.DisplayName
	case i.ProcessName != "":
		return i.ProcessName
	case i.ProcessID == 0:
		return "System Sounds"
	}
	return "pid " + strconv.FormatUint(uint64(i.ProcessID), 10)
}
