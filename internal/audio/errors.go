package audio

import "errors"

var (
	// ErrUnavailable is returned by the platform opener when no audio device
	// enumerator can be created (non-Windows builds, COM not initialized).
	ErrUnavailable = errors.New("audio device enumerator unavailable")

	// ErrNotFound is returned by native calls when the requested element
	// (default endpoint, device id) does not exist.
	ErrNotFound = errors.New("element not found")

	// ErrNoInterface is returned when a native object does not support the
	// requested capability.
	ErrNoInterface = errors.New("interface not supported")

	// ErrVolumeRange is returned for scalar volume levels outside [0, 1].
	ErrVolumeRange = errors.New("volume level out of range")
)
