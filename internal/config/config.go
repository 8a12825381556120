// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads and validates the JSON configuration file, filling
// in documented defaults for missing fields and watching the file for
// changes so a reload can be requested without a restart.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joeypjx/zygl2/internal/domain"
)

// Config is the daemon's full runtime configuration.
type Config struct {
	Backend       BackendConfig       `json:"backend"`
	DataCollector DataCollectorConfig `json:"data_collector"`
	UDP           UDPConfig           `json:"udp"`
	Webhook       WebhookConfig       `json:"webhook"`
	Hardware      HardwareConfig      `json:"hardware"`
	Limits        LimitsConfig        `json:"limits"`
}

type BackendConfig struct {
	APIURL         string `json:"api_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type DataCollectorConfig struct {
	IntervalSeconds int `json:"interval_seconds"`
}

type UDPConfig struct {
	MulticastAddress    string `json:"multicast_address"`
	StateBroadcastPort  int    `json:"state_broadcast_port"`
	CommandListenerPort int    `json:"command_listener_port"`
	BroadcastIntervalMs int    `json:"broadcast_interval_ms"`
}

type WebhookConfig struct {
	ListenPort int `json:"listen_port"`
}

// HardwareConfig is validated against the daemon's fixed topology; only
// IPBasePattern and IPOffset actually parameterize the Topology Factory,
// since ChassisCount and BoardsPerChassis are compile-time array
// dimensions (domain.TotalChassisCount, domain.BoardsPerChassis) rather
// than runtime knobs. A mismatched count is rejected as a diagnostic and
// the fixed dimension is used regardless.
type HardwareConfig struct {
	ChassisCount     int    `json:"chassis_count"`
	BoardsPerChassis int    `json:"boards_per_chassis"`
	IPBasePattern    string `json:"ip_base_pattern"`
	IPOffset         int    `json:"ip_offset"`
}

type LimitsConfig struct {
	MaxTasksPerBoard  int `json:"max_tasks_per_board"`
	MaxLabelsPerStack int `json:"max_labels_per_stack"`
	MaxAlertMessages  int `json:"max_alert_messages"`
}

// Defaults returns the documented default configuration.
func Defaults() Config {
	return Config{
		Backend: BackendConfig{
			APIURL:         "http://127.0.0.1:8080",
			TimeoutSeconds: 5,
		},
		DataCollector: DataCollectorConfig{
			IntervalSeconds: 10,
		},
		UDP: UDPConfig{
			MulticastAddress:    "239.255.0.1",
			StateBroadcastPort:  9001,
			CommandListenerPort: 9002,
			BroadcastIntervalMs: 1000,
		},
		Webhook: WebhookConfig{
			ListenPort: 8081,
		},
		Hardware: HardwareConfig{
			ChassisCount:     domain.TotalChassisCount,
			BoardsPerChassis: domain.BoardsPerChassis,
			IPBasePattern:    "192.168.%d",
			IPOffset:         100,
		},
		Limits: LimitsConfig{
			MaxTasksPerBoard:  domain.MaxTasksPerBoard,
			MaxLabelsPerStack: domain.MaxLabelsPerPipeline,
			MaxAlertMessages:  domain.MaxAlertMessages,
		},
	}
}

// Load reads path, JSON-decodes it over the documented defaults, and
// validates every field. Invalid fields are logged and reset to their
// default rather than aborting startup.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	sanitize(&cfg)
	return cfg, nil
}

// sanitize resets any field outside its documented valid range to the
// corresponding default, logging a diagnostic for each one it touches.
func sanitize(cfg *Config) {
	defaults := Defaults()

	if cfg.Backend.TimeoutSeconds < 0 {
		slog.Warn("config: backend.timeout_seconds must be non-negative, using default", "value", cfg.Backend.TimeoutSeconds)
		cfg.Backend.TimeoutSeconds = defaults.Backend.TimeoutSeconds
	}
	if cfg.DataCollector.IntervalSeconds < 0 {
		slog.Warn("config: data_collector.interval_seconds must be non-negative, using default", "value", cfg.DataCollector.IntervalSeconds)
		cfg.DataCollector.IntervalSeconds = defaults.DataCollector.IntervalSeconds
	}
	if !validPort(cfg.UDP.StateBroadcastPort) {
		slog.Warn("config: udp.state_broadcast_port out of range, using default", "value", cfg.UDP.StateBroadcastPort)
		cfg.UDP.StateBroadcastPort = defaults.UDP.StateBroadcastPort
	}
	if !validPort(cfg.UDP.CommandListenerPort) {
		slog.Warn("config: udp.command_listener_port out of range, using default", "value", cfg.UDP.CommandListenerPort)
		cfg.UDP.CommandListenerPort = defaults.UDP.CommandListenerPort
	}
	if cfg.UDP.BroadcastIntervalMs < 0 {
		slog.Warn("config: udp.broadcast_interval_ms must be non-negative, using default", "value", cfg.UDP.BroadcastIntervalMs)
		cfg.UDP.BroadcastIntervalMs = defaults.UDP.BroadcastIntervalMs
	}
	if !validPort(cfg.Webhook.ListenPort) {
		slog.Warn("config: webhook.listen_port out of range, using default", "value", cfg.Webhook.ListenPort)
		cfg.Webhook.ListenPort = defaults.Webhook.ListenPort
	}
	if cfg.Hardware.ChassisCount != domain.TotalChassisCount {
		slog.Warn("config: hardware.chassis_count does not match the fixed topology, ignoring", "value", cfg.Hardware.ChassisCount, "fixed", domain.TotalChassisCount)
		cfg.Hardware.ChassisCount = domain.TotalChassisCount
	}
	if cfg.Hardware.BoardsPerChassis != domain.BoardsPerChassis {
		slog.Warn("config: hardware.boards_per_chassis does not match the fixed topology, ignoring", "value", cfg.Hardware.BoardsPerChassis, "fixed", domain.BoardsPerChassis)
		cfg.Hardware.BoardsPerChassis = domain.BoardsPerChassis
	}
	if cfg.Hardware.IPOffset < 0 {
		slog.Warn("config: hardware.ip_offset must be non-negative, using default", "value", cfg.Hardware.IPOffset)
		cfg.Hardware.IPOffset = defaults.Hardware.IPOffset
	}
	if cfg.Limits.MaxTasksPerBoard < 0 {
		slog.Warn("config: limits.max_tasks_per_board must be non-negative, using default", "value", cfg.Limits.MaxTasksPerBoard)
		cfg.Limits.MaxTasksPerBoard = defaults.Limits.MaxTasksPerBoard
	}
	if cfg.Limits.MaxLabelsPerStack < 0 {
		slog.Warn("config: limits.max_labels_per_stack must be non-negative, using default", "value", cfg.Limits.MaxLabelsPerStack)
		cfg.Limits.MaxLabelsPerStack = defaults.Limits.MaxLabelsPerStack
	}
	if cfg.Limits.MaxAlertMessages < 0 {
		slog.Warn("config: limits.max_alert_messages must be non-negative, using default", "value", cfg.Limits.MaxAlertMessages)
		cfg.Limits.MaxAlertMessages = defaults.Limits.MaxAlertMessages
	}
}

func validPort(port int) bool {
	return port >= 1024 && port <= 65535
}

// Watch calls onChange with a freshly loaded Config every time path is
// written, until ctx is cancelled. Load failures are logged and skipped;
// the previous configuration remains in effect.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		var debounce *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(200*time.Millisecond, func() {
					cfg, err := Load(path)
					if err != nil {
						slog.Error("config: reload failed, keeping previous configuration", "error", err)
						return
					}
					onChange(cfg)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("config: watcher error", "error", err)
			}
		}
	}()

	return nil
}
