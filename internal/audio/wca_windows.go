//go:build windows

// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"
	"golang.org/x/sys/windows"
)

// Initialize joins the process to the COM multithreaded apartment. Call it
// once from main before using a Directory and pair it with Terminate.
func Initialize() error {
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		if hresult(err) == hrFalse {
			return nil
		}
		return fmt.Errorf("failed to initialize COM: %w", err)
	}
	return nil
}

// Terminate leaves the COM apartment joined by Initialize.
func Terminate() error {
	ole.CoUninitialize()
	return nil
}

func openEnumerator() (Enumerator, error) {
	var mmde *wca.IMMDeviceEnumerator
	err := wca.CoCreateInstance(wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL, wca.IID_IMMDeviceEnumerator, &mmde)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &deviceEnumerator{mmde: mmde}, nil
}

// handleWrappers narrows a raw interface pointer into the Go type that
// implements the capability with the same IID.
var handleWrappers = []struct {
	iid  *ole.GUID
	wrap func(unk *ole.IUnknown) Unknown
}{
	{CapEndpointVolume.IID, func(unk *ole.IUnknown) Unknown {
		return &endpointVolume{aev: (*wca.IAudioEndpointVolume)(unsafe.Pointer(unk))}
	}},
	{CapSessionManager.IID, func(unk *ole.IUnknown) Unknown {
		return &sessionManager{mgr: (*wca.IAudioSessionManager2)(unsafe.Pointer(unk))}
	}},
	{CapSessionControl.IID, func(unk *ole.IUnknown) Unknown {
		return &sessionControl{ctl: (*wca.IAudioSessionControl2)(unsafe.Pointer(unk))}
	}},
	{CapSimpleVolume.IID, func(unk *ole.IUnknown) Unknown {
		return &simpleVolume{sav: (*wca.ISimpleAudioVolume)(unsafe.Pointer(unk))}
	}},
	{CapChannelVolume.IID, func(unk *ole.IUnknown) Unknown {
		return &channelVolume{cav: (*iChannelAudioVolume)(unsafe.Pointer(unk))}
	}},
	{CapEndpoint.IID, func(unk *ole.IUnknown) Unknown {
		return &endpoint{mme: (*wca.IMMEndpoint)(unsafe.Pointer(unk))}
	}},
}

func wrapHandle(iid *ole.GUID, unk *ole.IUnknown) Unknown {
	for _, w := range handleWrappers {
		if ole.IsEqualGUID(w.iid, iid) {
			return w.wrap(unk)
		}
	}
	return &unknown{unk: unk}
}

func queryInterface(unk *ole.IUnknown, iid *ole.GUID) (Unknown, error) {
	disp, err := unk.QueryInterface(iid)
	if err != nil {
		return nil, mapHRESULT(err)
	}
	return wrapHandle(iid, (*ole.IUnknown)(unsafe.Pointer(disp))), nil
}

// unknown is a handle without a typed capability.
type unknown struct {
	unk *ole.IUnknown
}

func (u *unknown) Release() { u.unk.Release() }

func (u *unknown) QueryInterface(iid *ole.GUID) (Unknown, error) {
	return queryInterface(u.unk, iid)
}

type deviceEnumerator struct {
	mmde *wca.IMMDeviceEnumerator
}

func (e *deviceEnumerator) Release() { e.mmde.Release() }

func (e *deviceEnumerator) EnumAudioEndpoints(flow DataFlow, mask DeviceState) (DeviceCollection, error) {
	var dc *wca.IMMDeviceCollection
	if err := e.mmde.EnumAudioEndpoints(uint32(flow), uint32(mask), &dc); err != nil {
		return nil, mapHRESULT(err)
	}
	if dc == nil {
		return nil, nil
	}
	return &deviceCollection{dc: dc}, nil
}

func (e *deviceEnumerator) DefaultAudioEndpoint(flow DataFlow, role Role) (NativeDevice, error) {
	var mmd *wca.IMMDevice
	if err := e.mmde.GetDefaultAudioEndpoint(uint32(flow), uint32(role), &mmd); err != nil {
		return nil, mapHRESULT(err)
	}
	if mmd == nil {
		return nil, ErrNotFound
	}
	return &nativeDevice{mmd: mmd}, nil
}

// Device resolves an endpoint by id. go-wca's IMMDeviceEnumerator.GetDevice
// is a stub returning E_NOTIMPL, so the vtable slot is called directly.
func (e *deviceEnumerator) Device(id string) (NativeDevice, error) {
	wid, err := windows.UTF16PtrFromString(id)
	if err != nil {
		return nil, fmt.Errorf("invalid device id %q: %w", id, err)
	}
	var mmd *wca.IMMDevice
	hr, _, _ := syscall.SyscallN(
		e.mmde.VTable().GetDevice,
		uintptr(unsafe.Pointer(e.mmde)),
		uintptr(unsafe.Pointer(wid)),
		uintptr(unsafe.Pointer(&mmd)))
	if hr != 0 {
		return nil, mapHRESULT(ole.NewError(hr))
	}
	if mmd == nil {
		return nil, ErrNotFound
	}
	return &nativeDevice{mmd: mmd}, nil
}

type deviceCollection struct {
	dc *wca.IMMDeviceCollection
}

func (c *deviceCollection) Release() { c.dc.Release() }

func (c *deviceCollection) Count() (int, error) {
	var count uint32
	if err := c.dc.GetCount(&count); err != nil {
		return 0, mapHRESULT(err)
	}
	return int(count), nil
}

func (c *deviceCollection) Item(i int) (NativeDevice, error) {
	var mmd *wca.IMMDevice
	if err := c.dc.Item(uint32(i), &mmd); err != nil {
		return nil, mapHRESULT(err)
	}
	if mmd == nil {
		return nil, nil
	}
	return &nativeDevice{mmd: mmd}, nil
}

type nativeDevice struct {
	mmd *wca.IMMDevice
}

func (d *nativeDevice) Release() { d.mmd.Release() }

func (d *nativeDevice) QueryInterface(iid *ole.GUID) (Unknown, error) {
	return queryInterface(&d.mmd.IUnknown, iid)
}

// Activate creates the object for iid on the device and narrows it to iid.
func (d *nativeDevice) Activate(iid *ole.GUID) (Unknown, error) {
	var unk *ole.IUnknown
	if err := d.mmd.Activate(iid, wca.CLSCTX_ALL, nil, &unk); err != nil {
		return nil, mapHRESULT(err)
	}
	defer unk.Release()
	return queryInterface(unk, iid)
}

func (d *nativeDevice) ID() (string, error) {
	var id string
	if err := d.mmd.GetId(&id); err != nil {
		return "", mapHRESULT(err)
	}
	return id, nil
}

func (d *nativeDevice) State() (DeviceState, error) {
	var state uint32
	if err := d.mmd.GetState(&state); err != nil {
		return 0, mapHRESULT(err)
	}
	return DeviceState(state), nil
}

func (d *nativeDevice) OpenPropertyStore() (PropertyStore, error) {
	var ps *wca.IPropertyStore
	if err := d.mmd.OpenPropertyStore(wca.STGM_READ, &ps); err != nil {
		return nil, mapHRESULT(err)
	}
	if ps == nil {
		return nil, nil
	}
	return &propertyStore{ps: ps}, nil
}

type propertyStore struct {
	ps *wca.IPropertyStore
}

func (s *propertyStore) Release() { s.ps.Release() }

func (s *propertyStore) Count() (int, error) {
	var count uint32
	if err := s.ps.GetCount(&count); err != nil {
		return 0, mapHRESULT(err)
	}
	return int(count), nil
}

func (s *propertyStore) KeyAt(i int) (PropertyKey, error) {
	var pk wca.PROPERTYKEY
	if err := s.ps.GetAt(uint32(i), &pk); err != nil {
		return PropertyKey{}, mapHRESULT(err)
	}
	return PropertyKey{Fmtid: pk.GUID, Pid: pk.PID}, nil
}

func (s *propertyStore) Value(key PropertyKey) (any, error) {
	pk := wca.PROPERTYKEY{GUID: key.Fmtid, PID: key.Pid}
	var pv propVariant
	if err := s.ps.GetValue(&pk, (*wca.PROPVARIANT)(unsafe.Pointer(&pv))); err != nil {
		return nil, mapHRESULT(err)
	}
	defer pv.clear()
	return pv.value()
}

type endpointVolume struct {
	aev *wca.IAudioEndpointVolume
}

func (v *endpointVolume) Release() { v.aev.Release() }

func (v *endpointVolume) Mute() (bool, error) {
	var mute bool
	if err := v.aev.GetMute(&mute); err != nil {
		return false, mapHRESULT(err)
	}
	return mute, nil
}

func (v *endpointVolume) SetMute(mute bool, eventContext *ole.GUID) error {
	return mapHRESULT(v.aev.SetMute(mute, eventContext))
}

func (v *endpointVolume) MasterVolumeLevelScalar() (float32, error) {
	var level float32
	if err := v.aev.GetMasterVolumeLevelScalar(&level); err != nil {
		return 0, mapHRESULT(err)
	}
	return level, nil
}

func (v *endpointVolume) SetMasterVolumeLevelScalar(level float32, eventContext *ole.GUID) error {
	return mapHRESULT(v.aev.SetMasterVolumeLevelScalar(level, eventContext))
}

type sessionManager struct {
	mgr *wca.IAudioSessionManager2
}

func (m *sessionManager) Release() { m.mgr.Release() }

func (m *sessionManager) SessionEnumerator() (SessionEnumerator, error) {
	var se *wca.IAudioSessionEnumerator
	if err := m.mgr.GetSessionEnumerator(&se); err != nil {
		return nil, mapHRESULT(err)
	}
	return &sessionEnumerator{se: se}, nil
}

type sessionEnumerator struct {
	se *wca.IAudioSessionEnumerator
}

func (e *sessionEnumerator) Release() { e.se.Release() }

func (e *sessionEnumerator) Count() (int, error) {
	var count int
	if err := e.se.GetCount(&count); err != nil {
		return 0, mapHRESULT(err)
	}
	return count, nil
}

func (e *sessionEnumerator) Session(i int) (Narrower, error) {
	var ctl *wca.IAudioSessionControl
	if err := e.se.GetSession(i, &ctl); err != nil {
		return nil, mapHRESULT(err)
	}
	if ctl == nil {
		return nil, nil
	}
	return &unknown{unk: &ctl.IUnknown}, nil
}

type sessionControl struct {
	ctl  *wca.IAudioSessionControl2
	sink *sessionEventsSink
}

func (c *sessionControl) Release() { c.ctl.Release() }

func (c *sessionControl) QueryInterface(iid *ole.GUID) (Unknown, error) {
	return queryInterface(&c.ctl.IUnknown, iid)
}

func (c *sessionControl) ProcessID() (uint32, error) {
	var pid uint32
	if err := c.ctl.GetProcessId(&pid); err != nil && hresult(err) != hrNoSingleProcess {
		return 0, mapHRESULT(err)
	}
	return pid, nil
}

func (c *sessionControl) SessionIdentifier() (string, error) {
	var id string
	if err := c.ctl.GetSessionIdentifier(&id); err != nil {
		return "", mapHRESULT(err)
	}
	return id, nil
}

func (c *sessionControl) SessionInstanceIdentifier() (string, error) {
	var id string
	if err := c.ctl.GetSessionInstanceIdentifier(&id); err != nil {
		return "", mapHRESULT(err)
	}
	return id, nil
}

func (c *sessionControl) State() (SessionState, error) {
	var state uint32
	if err := c.ctl.GetState(&state); err != nil {
		return 0, mapHRESULT(err)
	}
	return SessionState(state), nil
}

func (c *sessionControl) GroupingParam() (ole.GUID, error) {
	var g ole.GUID
	if err := c.ctl.GetGroupingParam(&g); err != nil {
		return ole.GUID{}, mapHRESULT(err)
	}
	return g, nil
}

func (c *sessionControl) SetGroupingParam(param *ole.GUID, eventContext *ole.GUID) error {
	return mapHRESULT(c.ctl.SetGroupingParam(param, eventContext))
}

func (c *sessionControl) DisplayName() (string, error) {
	var name string
	if err := c.ctl.GetDisplayName(&name); err != nil {
		return "", mapHRESULT(err)
	}
	return name, nil
}

func (c *sessionControl) SetDisplayName(name string, eventContext *ole.GUID) error {
	return mapHRESULT(c.ctl.SetDisplayName(&name, eventContext))
}

func (c *sessionControl) IconPath() (string, error) {
	var path string
	if err := c.ctl.GetIconPath(&path); err != nil {
		return "", mapHRESULT(err)
	}
	return path, nil
}

func (c *sessionControl) SetIconPath(path string, eventContext *ole.GUID) error {
	return mapHRESULT(c.ctl.SetIconPath(&path, eventContext))
}

func (c *sessionControl) RegisterNotification(events SessionEvents) error {
	if c.sink != nil {
		return nil
	}
	sink, err := newSessionEventsSink(c, events)
	if err != nil {
		return err
	}
	if err := c.ctl.RegisterAudioSessionNotification(sink.asNative()); err != nil {
		sink.close()
		return mapHRESULT(err)
	}
	c.sink = sink
	return nil
}

func (c *sessionControl) UnregisterNotification(SessionEvents) error {
	if c.sink == nil {
		return nil
	}
	if err := c.ctl.UnregisterAudioSessionNotification(c.sink.asNative()); err != nil {
		return mapHRESULT(err)
	}
	c.sink.close()
	c.sink = nil
	return nil
}

type simpleVolume struct {
	sav *wca.ISimpleAudioVolume
}

func (v *simpleVolume) Release() { v.sav.Release() }

func (v *simpleVolume) MasterVolume() (float32, error) {
	var level float32
	if err := v.sav.GetMasterVolume(&level); err != nil {
		return 0, mapHRESULT(err)
	}
	return level, nil
}

func (v *simpleVolume) SetMasterVolume(level float32, eventContext *ole.GUID) error {
	return mapHRESULT(v.sav.SetMasterVolume(level, eventContext))
}

func (v *simpleVolume) Mute() (bool, error) {
	var mute bool
	if err := v.sav.GetMute(&mute); err != nil {
		return false, mapHRESULT(err)
	}
	return mute, nil
}

func (v *simpleVolume) SetMute(mute bool, eventContext *ole.GUID) error {
	return mapHRESULT(v.sav.SetMute(mute, eventContext))
}

type channelVolume struct {
	cav *iChannelAudioVolume
}

func (v *channelVolume) Release() { v.cav.Release() }

func (v *channelVolume) ChannelCount() (int, error) {
	var count uint32
	if err := v.cav.GetChannelCount(&count); err != nil {
		return 0, mapHRESULT(err)
	}
	return int(count), nil
}

func (v *channelVolume) ChannelVolume(channel int) (float32, error) {
	var level float32
	if err := v.cav.GetChannelVolume(uint32(channel), &level); err != nil {
		return 0, mapHRESULT(err)
	}
	return level, nil
}

func (v *channelVolume) SetChannelVolume(channel int, level float32, eventContext *ole.GUID) error {
	return mapHRESULT(v.cav.SetChannelVolume(uint32(channel), level, eventContext))
}

type endpoint struct {
	mme *wca.IMMEndpoint
}

func (e *endpoint) Release() { e.mme.Release() }

func (e *endpoint) DataFlow() (DataFlow, error) {
	var flow uint32
	if err := e.mme.GetDataFlow(&flow); err != nil {
		return 0, mapHRESULT(err)
	}
	return DataFlow(flow), nil
}

// Compile-time checks that every wrapper satisfies its native interface.
var (
	_ Enumerator        = (*deviceEnumerator)(nil)
	_ DeviceCollection  = (*deviceCollection)(nil)
	_ NativeDevice      = (*nativeDevice)(nil)
	_ PropertyStore     = (*propertyStore)(nil)
	_ EndpointVolume    = (*endpointVolume)(nil)
	_ SessionManager    = (*sessionManager)(nil)
	_ SessionEnumerator = (*sessionEnumerator)(nil)
	_ SessionControl    = (*sessionControl)(nil)
	_ SimpleVolume      = (*simpleVolume)(nil)
	_ ChannelVolume     = (*channelVolume)(nil)
	_ Endpoint          = (*endpoint)(nil)
	_ Narrower          = (*unknown)(nil)
)
