//go:build !windows

package audio

import (
	"fmt"
	"runtime"
)

// Initialize is a no-op outside Windows.
func Initialize() error {
	return nil
}

// Terminate is a no-op outside Windows.
func Terminate() error {
	return nil
}

func openEnumerator() (Enumerator, error) {
	return nil, fmt.Errorf("%w on %s", ErrUnavailable, runtime.GOOS)
}
