// Copyright (c) 2025 Andriykkk
// SPDX-License-Identifier: MIT

// Package config provides unified configuration loading and management for
// ai-cli.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.ai-cli/config.toml
//   - ~/.ai-cli/config.json
//   - Built-in defaults
package config
