// SPDX-License-Identifier: MIT
package audio

import ole "github.com/go-ole/go-ole"

// The interfaces in this file model the slice of the native Core Audio object
// graph used by the wrappers. The Windows build binds them to go-wca; tests
// bind them to in-memory fakes.

// Unknown is an owned reference to a native object.
type Unknown interface {
	Release()
}

// Narrower asks a native object for another interface it implements.
type Narrower interface {
	Unknown
	QueryInterface(iid *ole.GUID) (Unknown, error)
}

// Enumerator is the root of the endpoint object graph.
type Enumerator interface {
	Unknown
	EnumAudioEndpoints(flow DataFlow, mask DeviceState) (DeviceCollection, error)
	DefaultAudioEndpoint(flow DataFlow, role Role) (NativeDevice, error)
	Device(id string) (NativeDevice, error)
}

// DeviceCollection is a count-bounded list of endpoints.
type DeviceCollection interface {
	Unknown
	Count() (int, error)
	Item(i int) (NativeDevice, error)
}

// NativeDevice is one endpoint. Activate creates a new object implementing
// the capability named by iid.
type NativeDevice interface {
	Narrower
	Activate(iid *ole.GUID) (Unknown, error)
	ID() (string, error)
	State() (DeviceState, error)
	// OpenPropertyStore opens the store read-only. A nil store with a nil
	// error means the device has no properties.
	OpenPropertyStore() (PropertyStore, error)
}

// PropertyStore is a key/value collection of unknown size and shape.
type PropertyStore interface {
	Unknown
	Count() (int, error)
	KeyAt(i int) (PropertyKey, error)
	// Value returns the converted value for key. A nil value with a nil
	// error means the entry is empty.
	Value(key PropertyKey) (any, error)
}

// EndpointVolume controls the master volume of an endpoint.
type EndpointVolume interface {
	Unknown
	Mute() (bool, error)
	SetMute(mute bool, eventContext *ole.GUID) error
	MasterVolumeLevelScalar() (float32, error)
	SetMasterVolumeLevelScalar(level float32, eventContext *ole.GUID) error
}

// SessionManager gives access to the sessions of an endpoint.
type SessionManager interface {
	Unknown
	SessionEnumerator() (SessionEnumerator, error)
}

// SessionEnumerator is a count-bounded list of basic session controls.
type SessionEnumerator interface {
	Unknown
	Count() (int, error)
	// Session returns the basic control at i, or nil if the slot is empty.
	Session(i int) (Narrower, error)
}

// SessionControl is the richer per-session control interface.
type SessionControl interface {
	Narrower
	ProcessID() (uint32, error)
	SessionIdentifier() (string, error)
	SessionInstanceIdentifier() (string, error)
	State() (SessionState, error)
	GroupingParam() (ole.GUID, error)
	SetGroupingParam(param *ole.GUID, eventContext *ole.GUID) error
	DisplayName() (string, error)
	SetDisplayName(name string, eventContext *ole.GUID) error
	IconPath() (string, error)
	SetIconPath(path string, eventContext *ole.GUID) error
	RegisterNotification(events SessionEvents) error
	UnregisterNotification(events SessionEvents) error
}

// SimpleVolume is the per-session master volume.
type SimpleVolume interface {
	Unknown
	MasterVolume() (float32, error)
	SetMasterVolume(level float32, eventContext *ole.GUID) error
	Mute() (bool, error)
	SetMute(mute bool, eventContext *ole.GUID) error
}

// ChannelVolume is the per-session, per-channel volume.
type ChannelVolume interface {
	Unknown
	ChannelCount() (int, error)
	ChannelVolume(channel int) (float32, error)
	SetChannelVolume(channel int, level float32, eventContext *ole.GUID) error
}

// Endpoint reports the topology of an endpoint.
type Endpoint interface {
	Unknown
	DataFlow() (DataFlow, error)
}

// SessionEvents receives session notifications. Embed NopSessionEvents to
// implement only some of the methods.
type SessionEvents interface {
	OnDisplayNameChanged(name string)
	OnIconPathChanged(path string)
	OnSimpleVolumeChanged(volume float32, muted bool)
	OnChannelVolumeChanged(volumes []float32, changed int)
	OnGroupingParamChanged(param ole.GUID)
	OnStateChanged(state SessionState)
	OnSessionDisconnected(reason DisconnectReason)
}

// NopSessionEvents ignores every notification.
type NopSessionEvents struct{}

func (NopSessionEvents) OnDisplayNameChanged(string)            {}
func (NopSessionEvents) OnIconPathChanged(string)               {}
func (NopSessionEvents) OnSimpleVolumeChanged(float32, bool)    {}
func (NopSessionEvents) OnChannelVolumeChanged([]float32, int)  {}
func (NopSessionEvents) OnGroupingParamChanged(ole.GUID)        {}
func (NopSessionEvents) OnStateChanged(SessionState)            {}
func (NopSessionEvents) OnSessionDisconnected(DisconnectReason) {}

var _ SessionEvents = NopSessionEvents{}

// EmptyContext is the null event-context GUID passed to native setters.
var EmptyContext = &ole.GUID{}
