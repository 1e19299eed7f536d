// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, path, url string) {
	t.Helper()
	content := "[server]\nurl = \"" + url + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfigFile(t, path, "http://one:8000")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	w.Start()
	defer w.Stop()

	writeConfigFile(t, path, "http://two:9000")

	select {
	case cfg := <-reloaded:
		if cfg.Server.URL != "http://two:9000" {
			t.Errorf("reloaded URL = %q", cfg.Server.URL)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatcher_SkipsInvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeConfigFile(t, path, "http://one:8000")

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	w.Start()
	defer w.Stop()

	// A save that fails validation must not reach the callback.
	if err := os.WriteFile(path, []byte("[server]\nurl = \"ftp://nope\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	select {
	case cfg := <-reloaded:
		t.Fatalf("invalid config delivered: %+v", cfg)
	case <-time.After(600 * time.Millisecond):
	}

	// The next valid save still goes through.
	writeConfigFile(t, path, "http://three:7000")
	select {
	case cfg := <-reloaded:
		if cfg.Server.URL != "http://three:7000" {
			t.Errorf("reloaded URL = %q", cfg.Server.URL)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after recovery")
	}
}
