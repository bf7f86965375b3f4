package audio

import (
	"errors"

	ole "github.com/go-ole/go-ole"
)

// refs counts releases so tests can assert ownership.
type refs struct {
	released int
}

func (r *refs) Release() { r.released++ }

type fakeEnumerator struct {
	refs
	devices     []*fakeDevice
	defaults    map[DataFlow]*fakeDevice
	enumErr     error
	enumCalls   int
	lastMask    DeviceState
	lastFlow    DataFlow
	defaultRole Role
}

func (e *fakeEnumerator) EnumAudioEndpoints(flow DataFlow, mask DeviceState) (DeviceCollection, error) {
	e.enumCalls++
	e.lastFlow, e.lastMask = flow, mask
	if e.enumErr != nil {
		return nil, e.enumErr
	}
	var matched []*fakeDevice
	for _, d := range e.devices {
		if (flow == FlowAll || d.flow == flow) && d.state&mask != 0 {
			matched = append(matched, d)
		}
	}
	return &fakeCollection{devices: matched}, nil
}

func (e *fakeEnumerator) DefaultAudioEndpoint(flow DataFlow, role Role) (NativeDevice, error) {
	e.defaultRole = role
	d, ok := e.defaults[flow]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (e *fakeEnumerator) Device(id string) (NativeDevice, error) {
	for _, d := range e.devices {
		if d.id == id {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

type fakeCollection struct {
	refs
	devices []*fakeDevice
}

func (c *fakeCollection) Count() (int, error) { return len(c.devices), nil }

func (c *fakeCollection) Item(i int) (NativeDevice, error) { return c.devices[i], nil }

type fakeDevice struct {
	refs
	id    string
	state DeviceState
	flow  DataFlow
	store *fakeStore

	idCalls    int
	stateCalls int
	storeOpens int

	// activate maps IID strings to the handle Activate returns.
	activate    map[string]Unknown
	activateErr error
	activations map[string]int

	queried map[string]int
}

func newFakeDevice(id string, state DeviceState, flow DataFlow) *fakeDevice {
	return &fakeDevice{
		id:          id,
		state:       state,
		flow:        flow,
		activate:    make(map[string]Unknown),
		activations: make(map[string]int),
		queried:     make(map[string]int),
	}
}

func (d *fakeDevice) ID() (string, error) {
	d.idCalls++
	return d.id, nil
}

func (d *fakeDevice) State() (DeviceState, error) {
	d.stateCalls++
	return d.state, nil
}

func (d *fakeDevice) OpenPropertyStore() (PropertyStore, error) {
	d.storeOpens++
	if d.store == nil {
		return nil, nil
	}
	return d.store, nil
}

func (d *fakeDevice) Activate(iid *ole.GUID) (Unknown, error) {
	d.activations[iid.String()]++
	if d.activateErr != nil {
		return nil, d.activateErr
	}
	h, ok := d.activate[iid.String()]
	if !ok {
		return nil, errors.New("class not registered")
	}
	return h, nil
}

func (d *fakeDevice) QueryInterface(iid *ole.GUID) (Unknown, error) {
	d.queried[iid.String()]++
	if iid.String() == CapEndpoint.IID.String() {
		return &fakeEndpoint{flow: d.flow}, nil
	}
	return nil, ErrNoInterface
}

// withSessions wires a session manager listing sessions onto d.
func (d *fakeDevice) withSessions(sessions ...Narrower) *fakeSessionManager {
	mgr := &fakeSessionManager{enum: &fakeSessionEnumerator{sessions: sessions}}
	d.activate[CapSessionManager.IID.String()] = mgr
	return mgr
}

type fakeEndpoint struct {
	refs
	flow DataFlow
}

func (e *fakeEndpoint) DataFlow() (DataFlow, error) { return e.flow, nil }

type fakeEntry struct {
	key    PropertyKey
	value  any
	keyErr error
	valErr error
}

type fakeStore struct {
	refs
	entries  []fakeEntry
	countErr error
}

func (s *fakeStore) Count() (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.entries), nil
}

func (s *fakeStore) KeyAt(i int) (PropertyKey, error) {
	e := s.entries[i]
	if e.keyErr != nil {
		return PropertyKey{}, e.keyErr
	}
	return e.key, nil
}

func (s *fakeStore) Value(key PropertyKey) (any, error) {
	for _, e := range s.entries {
		if e.key == key {
			return e.value, e.valErr
		}
	}
	return nil, nil
}

type fakeEndpointVolume struct {
	refs
	muted     bool
	level     float32
	contexts  []*ole.GUID
	setMuteN  int
	setLevelN int
}

func (v *fakeEndpointVolume) Mute() (bool, error) { return v.muted, nil }

func (v *fakeEndpointVolume) SetMute(mute bool, ctx *ole.GUID) error {
	v.setMuteN++
	v.muted = mute
	v.contexts = append(v.contexts, ctx)
	return nil
}

func (v *fakeEndpointVolume) MasterVolumeLevelScalar() (float32, error) { return v.level, nil }

func (v *fakeEndpointVolume) SetMasterVolumeLevelScalar(level float32, ctx *ole.GUID) error {
	v.setLevelN++
	v.level = level
	v.contexts = append(v.contexts, ctx)
	return nil
}

type fakeSessionManager struct {
	refs
	enum *fakeSessionEnumerator
}

func (m *fakeSessionManager) SessionEnumerator() (SessionEnumerator, error) { return m.enum, nil }

// plainManager is an activated handle that is not a SessionManager.
type plainManager struct{ refs }

type fakeSessionEnumerator struct {
	refs
	sessions []Narrower
}

func (e *fakeSessionEnumerator) Count() (int, error) { return len(e.sessions), nil }

func (e *fakeSessionEnumerator) Session(i int) (Narrower, error) { return e.sessions[i], nil }

// fakeBasicSession is the basic control handed out by the session
// enumerator. ctl is nil for sessions without the richer interface.
type fakeBasicSession struct {
	refs
	ctl *fakeSessionControl
}

func (b *fakeBasicSession) QueryInterface(iid *ole.GUID) (Unknown, error) {
	if b.ctl == nil || iid.String() != CapSessionControl.IID.String() {
		return nil, ErrNoInterface
	}
	return b.ctl, nil
}

type fakeSessionControl struct {
	refs
	pid          uint32
	identifier   string
	instance     string
	state        SessionState
	grouping     ole.GUID
	displayName  string
	iconPath     string
	simple       *fakeSimpleVolume
	channel      *fakeChannelVolume
	queries      map[string]int
	setNameN     int
	setIconN     int
	setGroupN    int
	contexts     []*ole.GUID
	registered   []SessionEvents
	unregistered []SessionEvents
}

func newFakeSessionControl(pid uint32, name string) *fakeSessionControl {
	return &fakeSessionControl{
		pid:         pid,
		displayName: name,
		identifier:  "{0.0.0.00000000}.{app}|" + name,
		instance:    "{0.0.0.00000000}.{app}|" + name + "%b1",
		state:       SessionActive,
		simple:      &fakeSimpleVolume{level: 1},
		channel:     &fakeChannelVolume{levels: []float32{1, 1}},
		queries:     make(map[string]int),
	}
}

func (c *fakeSessionControl) QueryInterface(iid *ole.GUID) (Unknown, error) {
	c.queries[iid.String()]++
	switch iid.String() {
	case CapSimpleVolume.IID.String():
		return c.simple, nil
	case CapChannelVolume.IID.String():
		return c.channel, nil
	}
	return nil, ErrNoInterface
}

func (c *fakeSessionControl) ProcessID() (uint32, error)                 { return c.pid, nil }
func (c *fakeSessionControl) SessionIdentifier() (string, error)         { return c.identifier, nil }
func (c *fakeSessionControl) SessionInstanceIdentifier() (string, error) { return c.instance, nil }
func (c *fakeSessionControl) State() (SessionState, error)               { return c.state, nil }
func (c *fakeSessionControl) GroupingParam() (ole.GUID, error)           { return c.grouping, nil }
func (c *fakeSessionControl) DisplayName() (string, error)               { return c.displayName, nil }
func (c *fakeSessionControl) IconPath() (string, error)                  { return c.iconPath, nil }

func (c *fakeSessionControl) SetGroupingParam(param *ole.GUID, ctx *ole.GUID) error {
	c.setGroupN++
	c.grouping = *param
	c.contexts = append(c.contexts, ctx)
	return nil
}

func (c *fakeSessionControl) SetDisplayName(name string, ctx *ole.GUID) error {
	c.setNameN++
	c.displayName = name
	c.contexts = append(c.contexts, ctx)
	return nil
}

func (c *fakeSessionControl) SetIconPath(path string, ctx *ole.GUID) error {
	c.setIconN++
	c.iconPath = path
	c.contexts = append(c.contexts, ctx)
	return nil
}

func (c *fakeSessionControl) RegisterNotification(events SessionEvents) error {
	c.registered = append(c.registered, events)
	return nil
}

func (c *fakeSessionControl) UnregisterNotification(events SessionEvents) error {
	c.unregistered = append(c.unregistered, events)
	return nil
}

type fakeSimpleVolume struct {
	refs
	level float32
	muted bool
}

func (v *fakeSimpleVolume) MasterVolume() (float32, error) { return v.level, nil }

func (v *fakeSimpleVolume) SetMasterVolume(level float32, _ *ole.GUID) error {
	v.level = level
	return nil
}

func (v *fakeSimpleVolume) Mute() (bool, error) { return v.muted, nil }

func (v *fakeSimpleVolume) SetMute(mute bool, _ *ole.GUID) error {
	v.muted = mute
	return nil
}

type fakeChannelVolume struct {
	refs
	levels []float32
}

func (v *fakeChannelVolume) ChannelCount() (int, error) { return len(v.levels), nil }

func (v *fakeChannelVolume) ChannelVolume(ch int) (float32, error) { return v.levels[ch], nil }

func (v *fakeChannelVolume) SetChannelVolume(ch int, level float32, _ *ole.GUID) error {
	v.levels[ch] = level
	return nil
}

// recordingEvents remembers the notifications it receives.
type recordingEvents struct {
	NopSessionEvents
	names []string
}

func (r *recordingEvents) OnDisplayNameChanged(name string) { r.names = append(r.names, name) }

// useEnumerator points NewDirectory at e for the duration of the test.
func useEnumerator(t interface{ Cleanup(func()) }, e Enumerator, err error) {
	orig := openEnumeratorFunc
	openEnumeratorFunc = func() (Enumerator, error) {
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	t.Cleanup(func() { openEnumeratorFunc = orig })
}
