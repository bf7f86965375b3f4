//go:build windows

// SPDX-License-Identifier: MIT
package audio

import (
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"
	"golang.org/x/sys/windows"

	applog "audioctl/internal/log"
)

var (
	sessionEventsOnce  sync.Once
	sessionEventsTable *wca.IAudioSessionEventsVtbl
)

// sessionEventsVtable builds the callback table once; callbacks created by
// syscall.NewCallback are never freed.
func sessionEventsVtable() *wca.IAudioSessionEventsVtbl {
	sessionEventsOnce.Do(func() {
		sessionEventsTable = &wca.IAudioSessionEventsVtbl{
			QueryInterface:         syscall.NewCallback(sinkQueryInterface),
			AddRef:                 syscall.NewCallback(sinkAddRef),
			Release:                syscall.NewCallback(sinkRelease),
			OnDisplayNameChanged:   syscall.NewCallback(sinkDisplayNameChanged),
			OnIconPathChanged:      syscall.NewCallback(sinkIconPathChanged),
			OnSimpleVolumeChanged:  syscall.NewCallback(sinkSimpleVolumeChanged),
			OnChannelVolumeChanged: syscall.NewCallback(sinkChannelVolumeChanged),
			OnGroupingParamChanged: syscall.NewCallback(sinkGroupingParamChanged),
			OnStateChanged:         syscall.NewCallback(sinkStateChanged),
			OnSessionDisconnected:  syscall.NewCallback(sinkSessionDisconnected),
		}
	})
	return sessionEventsTable
}

// sessionEventsSink is a COM object implementing IAudioSessionEvents that
// forwards every notification to a SessionEvents handler. The embedded
// interface, which holds the vtable pointer, must stay the first field.
type sessionEventsSink struct {
	wca.IAudioSessionEvents
	refs    int32
	handler SessionEvents
	// volume re-reads the level on OnSimpleVolumeChanged; the float argument
	// arrives in a register that syscall callbacks cannot see.
	volume *wca.ISimpleAudioVolume
}

// liveSinks keeps registered sinks reachable while the audio service holds
// pointers to them.
var liveSinks sync.Map

func newSessionEventsSink(c *sessionControl, handler SessionEvents) (*sessionEventsSink, error) {
	disp, err := c.ctl.QueryInterface(CapSimpleVolume.IID)
	if err != nil {
		return nil, mapHRESULT(err)
	}
	sink := &sessionEventsSink{
		IAudioSessionEvents: wca.IAudioSessionEvents{VTable: sessionEventsVtable()},
		refs:                1,
		handler:             handler,
		volume:              (*wca.ISimpleAudioVolume)(unsafe.Pointer(disp)),
	}
	liveSinks.Store(sink, struct{}{})
	return sink, nil
}

func (s *sessionEventsSink) asNative() *wca.IAudioSessionEvents {
	return &s.IAudioSessionEvents
}

func (s *sessionEventsSink) close() {
	if s.volume != nil {
		s.volume.Release()
		s.volume = nil
	}
	liveSinks.Delete(s)
}

func sinkQueryInterface(this *sessionEventsSink, iid *ole.GUID, object *unsafe.Pointer) uintptr {
	if object == nil {
		return ole.E_POINTER
	}
	if ole.IsEqualGUID(iid, ole.IID_IUnknown) || ole.IsEqualGUID(iid, wca.IID_IAudioSessionEvents) {
		atomic.AddInt32(&this.refs, 1)
		*object = unsafe.Pointer(this)
		return ole.S_OK
	}
	*object = nil
	return hrNoInterface
}

func sinkAddRef(this *sessionEventsSink) uintptr {
	return uintptr(atomic.AddInt32(&this.refs, 1))
}

func sinkRelease(this *sessionEventsSink) uintptr {
	return uintptr(atomic.AddInt32(&this.refs, -1))
}

func sinkDisplayNameChanged(this *sessionEventsSink, name *uint16, _ *ole.GUID) uintptr {
	this.handler.OnDisplayNameChanged(windows.UTF16PtrToString(name))
	return ole.S_OK
}

func sinkIconPathChanged(this *sessionEventsSink, path *uint16, _ *ole.GUID) uintptr {
	this.handler.OnIconPathChanged(windows.UTF16PtrToString(path))
	return ole.S_OK
}

func sinkSimpleVolumeChanged(this *sessionEventsSink, _ uintptr, muted uintptr, _ *ole.GUID) uintptr {
	var level float32
	if v := this.volume; v != nil {
		if err := v.GetMasterVolume(&level); err != nil {
			applog.Debugf("audio: session volume event: %v", err)
		}
	}
	this.handler.OnSimpleVolumeChanged(level, int32(muted) != 0)
	return ole.S_OK
}

func sinkChannelVolumeChanged(this *sessionEventsSink, count uintptr, levels *float32, changed uintptr, _ *ole.GUID) uintptr {
	var volumes []float32
	if levels != nil && count > 0 {
		volumes = append(volumes, unsafe.Slice(levels, int(count))...)
	}
	this.handler.OnChannelVolumeChanged(volumes, int(int32(changed)))
	return ole.S_OK
}

func sinkGroupingParamChanged(this *sessionEventsSink, param *ole.GUID, _ *ole.GUID) uintptr {
	var g ole.GUID
	if param != nil {
		g = *param
	}
	this.handler.OnGroupingParamChanged(g)
	return ole.S_OK
}

func sinkStateChanged(this *sessionEventsSink, state uintptr) uintptr {
	this.handler.OnStateChanged(SessionState(state))
	return ole.S_OK
}

func sinkSessionDisconnected(this *sessionEventsSink, reason uintptr) uintptr {
	this.handler.OnSessionDisconnected(DisconnectReason(reason))
	return ole.S_OK
}
