// ai-cli - terminal client for a remote AI assistant backend.
//
// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/Andriykkk/ai-cli/internal/api"
	"github.com/Andriykkk/ai-cli/internal/cli"
	"github.com/Andriykkk/ai-cli/internal/config"
	"github.com/Andriykkk/ai-cli/internal/storage"
	"github.com/Andriykkk/ai-cli/internal/ui/chat"
	"github.com/Andriykkk/ai-cli/internal/util"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		serverURL   = flag.String("server", "", "backend base URL (overrides config)")
		projectID   = flag.Int("project", 0, "project id to open (overrides config)")
		plain       = flag.Bool("plain", false, "use the line-based interface instead of the TUI")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("ai-cli %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*serverURL, *projectID, *plain); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(serverURL string, projectID int, plain bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if projectID == 0 {
		projectID = cfg.Server.DefaultProject
	}

	if logPath, pathErr := cfg.LogPath(); pathErr == nil {
		if closeLog, logErr := util.OpenLogFile(logPath); logErr == nil {
			defer closeLog()
		}
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.Server.URL,
		Timeout: time.Duration(cfg.Server.TimeoutSecs) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := client.Health(ctx); err != nil {
		util.Logf("main: health check failed: %v", err)
	}
	cancel()

	var cache *storage.HistoryCache
	if cfg.History.OfflineCache {
		if cachePath, pathErr := cfg.CachePath(); pathErr == nil {
			if c, openErr := storage.Open(cachePath); openErr == nil {
				cache = c
				defer cache.Close()
			} else {
				util.Logf("main: offline cache unavailable: %v", openErr)
			}
		}
	}

	project, err := cli.PickProject(client, projectID)
	if err != nil {
		return err
	}

	if plain || cfg.UI.Plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		repl := cli.NewREPL(cfg, client, cache, project)
		defer repl.Close()
		return repl.Run()
	}

	m := chat.New(cfg, client, cache, project)
	p := tea.NewProgram(m, tea.WithAltScreen())
	chat.BindConversation(m.Conversation(), p)

	// Hot-reload appearance tweaks while the TUI runs; the reloaded config
	// is relayed into the update loop rather than mutated in place.
	if tomlPath, pathErr := config.ConfigPathTOML(); pathErr == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if watcher, watchErr := config.NewWatcher(tomlPath, func(next *config.Config) {
				p.Send(chat.ConfigReloadedMsg{Config: next})
			}); watchErr == nil {
				watcher.Start()
				defer watcher.Stop()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
