// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"

	applog "audioctl/internal/log"
)

// Device wraps one audio endpoint. Identity, state and properties are read
// from the native device on first use and never refreshed; wrap the device
// again to observe changes. A Device is not safe for concurrent use.
type Device struct {
	dev NativeDevice

	id        string
	idFetched bool

	state        DeviceState
	stateFetched bool

	properties map[string]any
	warnings   []PropertyWarning

	activated *CapabilityCache // Activate on the device
	narrowed  *CapabilityCache // QueryInterface on the device

	skipped int
}

// NewDevice wraps dev. It returns nil for a nil dev.
func NewDevice(dev NativeDevice) *Device {
	if dev == nil {
		return nil
	}
	return &Device{
		dev:       dev,
		activated: NewCapabilityCache(dev.Activate),
		narrowed:  NewCapabilityCache(dev.QueryInterface),
	}
}

// ID returns the endpoint id string.
func (d *Device) ID() (string, error) {
	if !d.idFetched {
		id, err := d.dev.ID()
		if err != nil {
			return "", fmt.Errorf("failed to get device id: %w", err)
		}
		d.id = id
		d.idFetched = true
	}
	return d.id, nil
}

// State returns the state observed on first call.
func (d *Device) State() (DeviceState, error) {
	if !d.stateFetched {
		state, err := d.dev.State()
		if err != nil {
			return 0, fmt.Errorf("failed to get device state: %w", err)
		}
		d.state = state
		d.stateFetched = true
	}
	return d.state, nil
}

// Properties returns every readable entry of the device's property store.
// The whole store is read once and cached.
func (d *Device) Properties() (map[string]any, error) {
	if d.properties != nil {
		return d.properties, nil
	}

	store, err := d.dev.OpenPropertyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open property store: %w", err)
	}
	if store == nil {
		// Nothing to cache; a later call tries the store again.
		return map[string]any{}, nil
	}
	defer store.Release()

	owner, _ := d.ID()
	properties, warnings, err := ReadProperties(store, owner)
	if err != nil {
		return nil, err
	}
	d.properties = properties
	d.warnings = warnings
	return d.properties, nil
}

// Property looks up one key in the cached properties.
func (d *Device) Property(key PropertyKey) (any, bool, error) {
	properties, err := d.Properties()
	if err != nil {
		return nil, false, err
	}
	v, ok := properties[key.String()]
	return v, ok, nil
}

// Warnings returns the entries that failed while reading Properties.
func (d *Device) Warnings() []PropertyWarning {
	return d.warnings
}

// FriendlyName returns the human-readable device name. ok is false when the
// store has no usable name.
func (d *Device) FriendlyName() (name string, ok bool, err error) {
	v, found, err := d.Property(PKeyDeviceFriendlyName)
	if err != nil || !found {
		return "", false, err
	}
	name, ok = v.(string)
	return name, ok, nil
}

// EndpointVolume returns the endpoint volume capability, activating it on
// first use.
func (d *Device) EndpointVolume() (EndpointVolume, error) {
	return Acquire(d.activated, CapEndpointVolume)
}

// IsMuted reports the endpoint mute flag.
func (d *Device) IsMuted() (bool, error) {
	ev, err := d.EndpointVolume()
	if err != nil {
		return false, err
	}
	return ev.Mute()
}

// Mute sets the endpoint mute flag.
func (d *Device) Mute() error {
	return d.setMute(true)
}

// Unmute clears the endpoint mute flag.
func (d *Device) Unmute() error {
	return d.setMute(false)
}

func (d *Device) setMute(mute bool) error {
	ev, err := d.EndpointVolume()
	if err != nil {
		return err
	}
	if err := ev.SetMute(mute, EmptyContext); err != nil {
		return fmt.Errorf("failed to set mute: %w", err)
	}
	return nil
}

// Volume returns the endpoint master volume in [0, 1].
func (d *Device) Volume() (float32, error) {
	ev, err := d.EndpointVolume()
	if err != nil {
		return 0, err
	}
	return ev.MasterVolumeLevelScalar()
}

// SetVolume sets the endpoint master volume. level must be in [0, 1].
func (d *Device) SetVolume(level float32) error {
	if level < 0 || level > 1 {
		return fmt.Errorf("%w: %.3f", ErrVolumeRange, level)
	}
	ev, err := d.EndpointVolume()
	if err != nil {
		return err
	}
	if err := ev.SetMasterVolumeLevelScalar(level, EmptyContext); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	return nil
}

// SessionManager returns the session manager capability.
func (d *Device) SessionManager() (SessionManager, error) {
	return Acquire(d.activated, CapSessionManager)
}

// Sessions returns the sessions currently attached to the endpoint in native
// order. Only active endpoints have sessions: for any other state the session
// manager is never activated. Sessions that do not expose the richer control
// interface are skipped and counted in SkippedSessions.
func (d *Device) Sessions() ([]*Session, error) {
	state, err := d.State()
	if err != nil {
		return nil, err
	}
	if state != StateActive {
		return nil, nil
	}

	h, err := d.activated.Get(CapSessionManager.IID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s: %w", CapSessionManager.Name, err)
	}
	mgr, ok := h.(SessionManager)
	if !ok {
		// Some endpoint classes activate a manager without enumeration support.
		applog.Debugf("audio: device %s has no session enumerator", d.label())
		return nil, nil
	}

	enum, err := mgr.SessionEnumerator()
	if err != nil {
		return nil, fmt.Errorf("failed to get session enumerator: %w", err)
	}
	defer enum.Release()

	count, err := enum.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	sessions := make([]*Session, 0, count)
	for i := 0; i < count; i++ {
		basic, err := enum.Session(i)
		if err != nil {
			releaseSessions(sessions)
			return nil, fmt.Errorf("failed to get session %d: %w", i, err)
		}
		if basic == nil {
			d.skipped++
			applog.Debugf("audio: session %d of device %s is empty, skipping", i, d.label())
			continue
		}

		ctl, err := narrow(basic, CapSessionControl)
		basic.Release()
		if err != nil {
			d.skipped++
			applog.Debugf("audio: session %d of device %s skipped: %v", i, d.label(), err)
			continue
		}
		sessions = append(sessions, NewSession(ctl))
	}

	return sessions, nil
}

// SkippedSessions returns how many enumerated sessions were dropped because
// they were empty or lacked the richer control interface.
func (d *Device) SkippedSessions() int {
	return d.skipped
}

// DataFlow returns the direction of the endpoint.
func (d *Device) DataFlow() (DataFlow, error) {
	ep, err := Acquire(d.narrowed, CapEndpoint)
	if err != nil {
		return 0, err
	}
	return ep.DataFlow()
}

// String returns the friendly name, falling back to the id.
func (d *Device) String() string {
	if name, ok, err := d.FriendlyName(); err == nil && ok {
		return name
	}
	return d.label()
}

func (d *Device) label() string {
	if id, err := d.ID(); err == nil {
		return id
	}
	return "<unknown device>"
}

// Release releases every capability and the native device.
func (d *Device) Release() {
	d.activated.Release()
	d.narrowed.Release()
	d.dev.Release()
}

func releaseDevices(devices []*Device) {
	for _, d := range devices {
		d.Release()
	}
}
