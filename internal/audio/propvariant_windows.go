//go:build windows

// SPDX-License-Identifier: MIT
package audio

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var procPropVariantClear = windows.NewLazySystemDLL("ole32.dll").NewProc("PropVariantClear")

func (pv *propVariant) clear() {
	_, _, _ = procPropVariantClear.Call(uintptr(unsafe.Pointer(pv)))
}
