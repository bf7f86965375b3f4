// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"
	"strconv"

	applog "audioctl/internal/log"
)

// openEnumeratorFunc creates the platform device enumerator. It is a
// variable so tests can substitute a fake object graph.
var openEnumeratorFunc = openEnumerator

// Directory is the entry point to the endpoint and session graph. Every call
// opens a fresh enumerator and releases it before returning; the returned
// Devices and Sessions are owned by the caller.
type Directory struct {
	open func() (Enumerator, error)
}

// NewDirectory returns a Directory backed by the platform enumerator.
func NewDirectory() *Directory {
	return &Directory{open: openEnumeratorFunc}
}

// enumerator opens the platform enumerator. A nil enumerator with a nil
// error means the platform has none.
func (d *Directory) enumerator() (Enumerator, error) {
	e, err := d.open()
	if errors.Is(err, ErrUnavailable) {
		applog.Debugf("audio: %v", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create device enumerator: %w", err)
	}
	return e, nil
}

// DefaultEndpoint returns the default multimedia endpoint for flow, or nil
// when there is no enumerator or no default device.
func (d *Directory) DefaultEndpoint(flow DataFlow) (*Device, error) {
	e, err := d.enumerator()
	if err != nil || e == nil {
		return nil, err
	}
	defer e.Release()

	dev, err := e.DefaultAudioEndpoint(flow, RoleMultimedia)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default %s endpoint: %w", flow, err)
	}
	return NewDevice(dev), nil
}

// Speakers returns the default render endpoint.
func (d *Directory) Speakers() (*Device, error) {
	return d.DefaultEndpoint(FlowRender)
}

// Microphone returns the default capture endpoint.
func (d *Directory) Microphone() (*Device, error) {
	return d.DefaultEndpoint(FlowCapture)
}

// Devices returns the endpoints matching flow whose state is in mask.
func (d *Directory) Devices(flow DataFlow, mask DeviceState) ([]*Device, error) {
	e, err := d.enumerator()
	if err != nil || e == nil {
		return nil, err
	}
	defer e.Release()

	collection, err := e.EnumAudioEndpoints(flow, mask)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate endpoints: %w", err)
	}
	if collection == nil {
		return nil, nil
	}
	defer collection.Release()

	count, err := collection.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count endpoints: %w", err)
	}

	devices := make([]*Device, 0, count)
	for i := 0; i < count; i++ {
		dev, err := collection.Item(i)
		if err != nil {
			releaseDevices(devices)
			return nil, fmt.Errorf("failed to get endpoint %d: %w", i, err)
		}
		if device := NewDevice(dev); device != nil {
			devices = append(devices, device)
		}
	}
	return devices, nil
}

// AllDevices returns every endpoint of every flow in every state.
func (d *Directory) AllDevices() ([]*Device, error) {
	return d.Devices(FlowAll, StateAll)
}

// Device resolves one endpoint by id.
func (d *Directory) Device(id string) (*Device, error) {
	e, err := d.enumerator()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrUnavailable
	}
	defer e.Release()

	dev, err := e.Device(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get device %q: %w", id, err)
	}
	return NewDevice(dev), nil
}

// Sessions returns the sessions of every active endpoint for flow. When
// states is non-empty only sessions in one of those states are kept.
func (d *Directory) Sessions(flow DataFlow, states ...SessionState) ([]*Session, error) {
	devices, err := d.Devices(flow, StateActive)
	if err != nil {
		return nil, err
	}
	defer releaseDevices(devices)

	var sessions []*Session
	for _, device := range devices {
		deviceSessions, err := device.Sessions()
		if err != nil {
			releaseSessions(sessions)
			return nil, err
		}
		for j, s := range deviceSessions {
			keep, err := matchSessionState(s, states)
			if err != nil {
				releaseSessions(sessions)
				releaseSessions(deviceSessions[j:])
				return nil, err
			}
			if keep {
				sessions = append(sessions, s)
			} else {
				s.Release()
			}
		}
	}
	return sessions, nil
}

func matchSessionState(s *Session, states []SessionState) (bool, error) {
	if len(states) == 0 {
		return true, nil
	}
	state, err := s.State()
	if err != nil {
		return false, err
	}
	for _, want := range states {
		if state == want {
			return true, nil
		}
	}
	return false, nil
}

// PlaybackSessions returns the sessions of active render endpoints.
func (d *Directory) PlaybackSessions(states ...SessionState) ([]*Session, error) {
	return d.Sessions(FlowRender, states...)
}

// RecordingSessions returns the sessions of active capture endpoints.
func (d *Directory) RecordingSessions(states ...SessionState) ([]*Session, error) {
	return d.Sessions(FlowCapture, states...)
}

// AllSessions returns the sessions of the default render endpoint only.
// Despite the name it does not cover capture endpoints or non-default render
// endpoints; callers depend on that scope. Use Sessions(FlowAll) for every
// endpoint.
func (d *Directory) AllSessions() ([]*Session, error) {
	speakers, err := d.Speakers()
	if err != nil || speakers == nil {
		return nil, err
	}
	defer speakers.Release()

	return speakers.Sessions()
}

// FindSessionByProcessID returns the first session, across all active
// endpoints, owned by pid. It returns nil when no session matches.
func (d *Directory) FindSessionByProcessID(pid uint32) (*Session, error) {
	sessions, err := d.Sessions(FlowAll)
	if err != nil {
		return nil, err
	}

	var found *Session
	for _, s := range sessions {
		if found == nil {
			sessionPID, err := s.ProcessID()
			if err == nil && sessionPID == pid {
				found = s
				continue
			}
		}
		s.Release()
	}
	return found, nil
}

// EndpointDataFlow returns the direction of the endpoint with the given id,
// as its native name ("eRender") or its numeric code ("0").
func (d *Directory) EndpointDataFlow(id string, format FlowFormat) (string, error) {
	device, err := d.Device(id)
	if err != nil {
		return "", err
	}
	defer device.Release()

	flow, err := device.DataFlow()
	if err != nil {
		return "", err
	}
	if format == FlowFormatCode {
		return strconv.FormatUint(uint64(flow), 10), nil
	}
	return flow.String(), nil
}
