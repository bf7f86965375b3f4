//go:build windows

// SPDX-License-Identifier: MIT
package audio

import (
	"math"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
)

// iChannelAudioVolume binds IChannelAudioVolume, which go-wca declares an IID
// for but no interface type.
type iChannelAudioVolume struct {
	ole.IUnknown
}

type iChannelAudioVolumeVtbl struct {
	ole.IUnknownVtbl
	GetChannelCount  uintptr
	SetChannelVolume uintptr
	GetChannelVolume uintptr
	SetAllVolumes    uintptr
	GetAllVolumes    uintptr
}

func (v *iChannelAudioVolume) VTable() *iChannelAudioVolumeVtbl {
	return (*iChannelAudioVolumeVtbl)(unsafe.Pointer(v.RawVTable))
}

func (v *iChannelAudioVolume) GetChannelCount(count *uint32) error {
	hr, _, _ := syscall.SyscallN(
		v.VTable().GetChannelCount,
		uintptr(unsafe.Pointer(v)),
		uintptr(unsafe.Pointer(count)))
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}

// SetChannelVolume passes the level as raw float bits; the Windows syscall
// trampoline mirrors integer arguments into the float registers.
func (v *iChannelAudioVolume) SetChannelVolume(index uint32, level float32, eventContext *ole.GUID) error {
	hr, _, _ := syscall.SyscallN(
		v.VTable().SetChannelVolume,
		uintptr(unsafe.Pointer(v)),
		uintptr(index),
		uintptr(math.Float32bits(level)),
		uintptr(unsafe.Pointer(eventContext)))
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}

func (v *iChannelAudioVolume) GetChannelVolume(index uint32, level *float32) error {
	hr, _, _ := syscall.SyscallN(
		v.VTable().GetChannelVolume,
		uintptr(unsafe.Pointer(v)),
		uintptr(index),
		uintptr(unsafe.Pointer(level)))
	if hr != 0 {
		return ole.NewError(hr)
	}
	return nil
}
