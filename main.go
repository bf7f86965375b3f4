package main

import (
	"os"
	"runtime"

	"audioctl/cmd"
	"audioctl/internal/audio"
	applog "audioctl/internal/log"
	"audioctl/pkg/build"
)

// main initializes build information and the COM runtime, then hands over
// to the command tree.
func main() {
	// Development builds carry no linker flags and keep the defaults.
	if err := build.Initialize(); err != nil {
		applog.Debugf("build: %v", err)
	}

	// COM is initialized per OS thread; keep the main goroutine on the
	// thread that owns the apartment.
	runtime.LockOSThread()

	if err := audio.Initialize(); err != nil {
		applog.Fatalf("audio: initialization failed: %v", err)
	}

	err := cmd.Execute()
	if termErr := audio.Terminate(); termErr != nil {
		applog.Warnf("audio: termination failed: %v", termErr)
	}
	if err != nil {
		applog.Errorf("%v", err)
		os.Exit(1)
	}
}
