// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the .hwke/project.yaml project file: engine
// tunables, sandbox limits, and storage backend selection.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	hwkeerrors "github.com/kraklabs/hwke/internal/errors"
)

const currentVersion = "1"

// Config is the root of .hwke/project.yaml.
type Config struct {
	Version string         `yaml:"version"`
	Store   StoreConfig    `yaml:"store"`
	Engine  EngineConfig   `yaml:"engine"`
	Sandbox SandboxConfig  `yaml:"sandbox"`
	Cache   CacheConfig    `yaml:"cache"`
}

// StoreConfig selects and configures the graph store backend.
type StoreConfig struct {
	// Backend is "mem" (default) or "cozo".
	Backend string `yaml:"backend"`
	// DataDir is where a persistent backend keeps its files.
	DataDir string `yaml:"data_dir"`
}

// EngineConfig holds reasoning-loop and mutation-engine tunables.
type EngineConfig struct {
	// BatchLimit bounds QuadDelta size (the "Chatman constant").
	BatchLimit int `yaml:"batch_limit"`
	// MaxTicks bounds run_to_completion before returning ErrNoConvergence.
	MaxTicks int `yaml:"max_ticks"`
	// StrictTick, when true, makes RunToCompletion return an error when
	// any rule evaluation failed during the run, instead of only logging
	// the failures.
	StrictTick bool `yaml:"strict_tick"`
}

// SandboxConfig holds default hook resource limits as written to the
// project file. No command passes them on: the hook Executor uses its own
// 2s default timeout when a hook sets none, and memory is not limited.
type SandboxConfig struct {
	DefaultTimeoutMS int `yaml:"default_timeout_ms"`
	MaxMemoryMB      int `yaml:"max_memory_mb"`
}

// CacheConfig tunes the condition-evaluation result cache.
type CacheConfig struct {
	Capacity int `yaml:"capacity"`
	TTLMS    int `yaml:"ttl_ms"`
}

// DefaultConfig returns the configuration written by `hwke init`.
func DefaultConfig() *Config {
	return &Config{
		Version: currentVersion,
		Store: StoreConfig{
			Backend: "mem",
			DataDir: ".hwke/data",
		},
		Engine: EngineConfig{
			BatchLimit: 64,
			MaxTicks:   1000,
			StrictTick: false,
		},
		Sandbox: SandboxConfig{
			DefaultTimeoutMS: 2000,
			MaxMemoryMB:      256,
		},
		Cache: CacheConfig{
			Capacity: 1024,
			TTLMS:    30000,
		},
	}
}

// ConfigDir returns ".hwke" relative to the current directory.
func ConfigDir() string { return ".hwke" }

// ConfigPath returns ".hwke/project.yaml" relative to the current directory.
func ConfigPath() string { return filepath.Join(ConfigDir(), "project.yaml") }

// findConfigFile walks up from the current directory looking for
// .hwke/project.yaml, mirroring how the engine's teacher locates its own
// project file from any subdirectory of a repository.
func findConfigFile() (string, error) {
	if env := os.Getenv("HWKE_CONFIG_PATH"); env != "" {
		return env, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, ".hwke", "project.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ConfigPath(), nil
}

// LoadConfig loads the project file from configPath, or discovers one by
// walking parent directories when configPath is empty.
func LoadConfig(configPath string) (*Config, error) {
	path := configPath
	if path == "" {
		found, err := findConfigFile()
		if err != nil {
			return nil, hwkeerrors.NewInternalError("cannot resolve config path", err.Error(), "", err)
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, hwkeerrors.NewConfigError(
				"no project configuration found",
				fmt.Sprintf("expected %s", path),
				"run `hwke init` to create one",
				err,
			)
		}
		return nil, hwkeerrors.NewConfigError("cannot read project configuration", err.Error(), "", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, hwkeerrors.NewConfigError("malformed project configuration", err.Error(), "check YAML syntax in "+path, err)
	}
	if cfg.Version == "" {
		cfg.Version = currentVersion
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets operators override the most commonly tuned
// settings without editing the project file, matching the teacher's
// env-override convention for container/CI deployments.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HWKE_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("HWKE_STORE_DATA_DIR"); v != "" {
		cfg.Store.DataDir = v
	}
	if v := os.Getenv("HWKE_BATCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.BatchLimit = n
		}
	}
	if v := os.Getenv("HWKE_MAX_TICKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MaxTicks = n
		}
	}
}

// SaveConfig writes cfg to configPath (or the default path) as YAML, 0600,
// creating the parent directory (0750) if needed.
func SaveConfig(cfg *Config, configPath string) error {
	path := configPath
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return hwkeerrors.NewPermissionError("cannot create config directory", err.Error(), "", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return hwkeerrors.NewInternalError("cannot encode project configuration", err.Error(), "", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return hwkeerrors.NewPermissionError("cannot write project configuration", err.Error(), "", err)
	}
	return nil
}
