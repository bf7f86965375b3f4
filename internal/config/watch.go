// SPDX-License-Identifier: MIT
package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	applog "audioctl/internal/log"
)

// Watch reloads the config file at path whenever it is written or
// recreated and passes every valid result to onChange. Invalid files are
// logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory.
	target := filepath.Clean(path)
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	applog.Debugf("config: watching %s", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadConfig(target)
			if err != nil {
				applog.Warnf("config: ignoring change to %s: %v", target, err)
				continue
			}
			applog.Infof("config: reloaded %s", target)
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			applog.Debugf("config: watcher error: %v", err)
		}
	}
}
