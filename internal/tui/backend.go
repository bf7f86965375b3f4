package tui

import (
	"fmt"

	"audioctl/internal/audio"
)

// DirectoryBackend serves the browser from the live endpoint graph.
type DirectoryBackend struct {
	Directory *audio.Directory
	Flow      audio.DataFlow
}

// Snapshot reads every endpoint of the configured flow.
func (b DirectoryBackend) Snapshot() (*audio.Snapshot, error) {
	return b.Directory.Snapshot(b.Flow)
}

// ToggleMute flips the mute flag of the endpoint with id.
func (b DirectoryBackend) ToggleMute(id string) error {
	device, err := b.Directory.Device(id)
	if err != nil {
		return err
	}
	if device == nil {
		return fmt.Errorf("device %q: %w", id, audio.ErrNotFound)
	}
	defer device.Release()

	muted, err := device.IsMuted()
	if err != nil {
		return err
	}
	if muted {
		return device.Unmute()
	}
	return device.Mute()
}
