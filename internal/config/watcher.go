// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Andriykkk/ai-cli/internal/util"
)

// Watcher reloads the configuration file when it changes on disk, so
// theme or server tweaks apply without restarting the client.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(*Config)
	cancel   context.CancelFunc
}

// NewWatcher watches one config file. onReload receives each successfully
// reloaded configuration; failed reloads are logged and skipped.
func NewWatcher(path string, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		path:     path,
		watcher:  fw,
		debounce: 250 * time.Millisecond,
		onReload: onReload,
	}, nil
}

// Start begins processing change events until Stop is called.
func (w *Watcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.processEvents(ctx)
}

// Stop ends watching and releases the underlying watcher.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	// Editors often emit several writes per save; collapse them into one
	// reload per debounce window.
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			cfg, err := LoadFromPath(w.path)
			if err != nil {
				util.Logf("config: reload failed: %v", err)
				continue
			}
			if w.onReload != nil {
				w.onReload(cfg)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			util.Logf("config: watch error: %v", err)
		}
	}
}
