// SPDX-License-Identifier: MIT
package audio

import (
	"errors"
	"fmt"

	ole "github.com/go-ole/go-ole"
)

const (
	hrFalse             = 0x00000001 // S_FALSE: COM already initialized on this thread
	hrNoSingleProcess   = 0x0889000D // AUDCLNT_S_NO_SINGLE_PROCESS
	hrNotImplemented    = 0x80004001 // E_NOTIMPL
	hrNoInterface       = 0x80004002 // E_NOINTERFACE
	hrNotFound          = 0x80070490 // HRESULT_FROM_WIN32(ERROR_NOT_FOUND)
	hrDeviceInvalidated = 0x88890004 // AUDCLNT_E_DEVICE_INVALIDATED
)

func hresult(err error) uintptr {
	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		return oleErr.Code()
	}
	return 0
}

// mapHRESULT attaches the package sentinel matching a well-known HRESULT.
func mapHRESULT(err error) error {
	if err == nil {
		return nil
	}
	switch hresult(err) {
	case hrNotFound:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case hrNoInterface:
		return fmt.Errorf("%w: %v", ErrNoInterface, err)
	case hrNotImplemented:
		return fmt.Errorf("%w: %v", errors.ErrUnsupported, err)
	case hrDeviceInvalidated:
		return fmt.Errorf("device invalidated: %w", err)
	}
	return err
}
