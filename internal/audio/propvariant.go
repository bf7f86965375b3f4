// SPDX-License-Identifier: MIT
package audio

import (
	"bytes"
	"fmt"
	"time"
	"unsafe"

	ole "github.com/go-ole/go-ole"
)

const (
	vtEmpty    = 0
	vtI2       = 2
	vtI4       = 3
	vtR4       = 4
	vtR8       = 5
	vtBSTR     = 8
	vtBool     = 11
	vtI1       = 16
	vtUI1      = 17
	vtUI2      = 18
	vtUI4      = 19
	vtI8       = 20
	vtUI8      = 21
	vtInt      = 22
	vtUInt     = 23
	vtLPSTR    = 30
	vtLPWSTR   = 31
	vtFileTime = 64
	vtBlob     = 65
	vtCLSID    = 72
	vtVector   = 0x1000
)

// Offset between the FILETIME epoch (1601) and the Unix epoch, in 100ns ticks.
const fileTimeUnixOffset = 116444736000000000

// propVariant has the PROPVARIANT layout: a type tag, three reserved words
// and a union at least two pointers wide. Counted arrays (BLOB and the
// VT_VECTOR forms) store a uint32 count in val and the data pointer in val2.
type propVariant struct {
	vt   uint16
	_    [3]uint16
	val  uintptr
	val2 uintptr
}

// value converts the variant into a Go value. Integers widen to int64 or
// uint64 and floats to float64. VT_EMPTY yields nil; unsupported types are an
// error.
func (pv *propVariant) value() (any, error) {
	p := unsafe.Pointer(&pv.val)
	switch pv.vt {
	case vtEmpty:
		return nil, nil
	case vtLPWSTR, vtBSTR:
		return ole.LpOleStrToString(*(**uint16)(p)), nil
	case vtLPSTR:
		if s := *(**byte)(p); s != nil {
			return ole.BytePtrToString(s), nil
		}
		return "", nil
	case vtBool:
		return *(*int16)(p) != 0, nil
	case vtI1:
		return int64(*(*int8)(p)), nil
	case vtI2:
		return int64(*(*int16)(p)), nil
	case vtI4, vtInt:
		return int64(*(*int32)(p)), nil
	case vtI8:
		return *(*int64)(p), nil
	case vtUI1:
		return uint64(*(*uint8)(p)), nil
	case vtUI2:
		return uint64(*(*uint16)(p)), nil
	case vtUI4, vtUInt:
		return uint64(*(*uint32)(p)), nil
	case vtUI8:
		return *(*uint64)(p), nil
	case vtR4:
		return float64(*(*float32)(p)), nil
	case vtR8:
		return *(*float64)(p), nil
	case vtFileTime:
		ft := *(*[2]uint32)(p)
		ticks := int64(ft[1])<<32 | int64(ft[0])
		return time.Unix(0, (ticks-fileTimeUnixOffset)*100).UTC(), nil
	case vtBlob, vtVector | vtUI1:
		size, data := pv.counted()
		if size == 0 || data == nil {
			return Blob{}, nil
		}
		return Blob(bytes.Clone(unsafe.Slice((*byte)(data), size))), nil
	case vtVector | vtLPWSTR:
		size, data := pv.counted()
		strs := make([]string, 0, size)
		if data != nil {
			for _, s := range unsafe.Slice((**uint16)(data), size) {
				strs = append(strs, ole.LpOleStrToString(s))
			}
		}
		return strs, nil
	case vtCLSID:
		g := *(**ole.GUID)(p)
		if g == nil {
			return ole.GUID{}, nil
		}
		return *g, nil
	}
	return nil, fmt.Errorf("unsupported property type VT %#x", pv.vt)
}

func (pv *propVariant) counted() (int, unsafe.Pointer) {
	size := *(*uint32)(unsafe.Pointer(&pv.val))
	return int(size), *(*unsafe.Pointer)(unsafe.Pointer(&pv.val2))
}
