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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeypjx/zygl2/internal/domain"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "http://127.0.0.1:8080", cfg.Backend.APIURL)
	assert.Equal(t, domain.TotalChassisCount, cfg.Hardware.ChassisCount)
	assert.Equal(t, domain.BoardsPerChassis, cfg.Hardware.BoardsPerChassis)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}

func TestLoad_ParsesOverridesOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"backend": {"api_url": "http://backend.internal:9000", "timeout_seconds": 15}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://backend.internal:9000", cfg.Backend.APIURL)
	assert.Equal(t, 15, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, Defaults().UDP.MulticastAddress, cfg.UDP.MulticastAddress)
}

func TestLoad_MalformedJSONReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_SanitizesOutOfRangeFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"backend": {"timeout_seconds": -1},
		"udp": {"state_broadcast_port": 80, "broadcast_interval_ms": -5},
		"webhook": {"listen_port": 70000},
		"hardware": {"chassis_count": 3, "boards_per_chassis": 4, "ip_offset": -10},
		"limits": {"max_tasks_per_board": -2}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	defaults := Defaults()
	assert.Equal(t, defaults.Backend.TimeoutSeconds, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, defaults.UDP.StateBroadcastPort, cfg.UDP.StateBroadcastPort)
	assert.Equal(t, defaults.UDP.BroadcastIntervalMs, cfg.UDP.BroadcastIntervalMs)
	assert.Equal(t, defaults.Webhook.ListenPort, cfg.Webhook.ListenPort)
	assert.Equal(t, domain.TotalChassisCount, cfg.Hardware.ChassisCount)
	assert.Equal(t, domain.BoardsPerChassis, cfg.Hardware.BoardsPerChassis)
	assert.Equal(t, defaults.Hardware.IPOffset, cfg.Hardware.IPOffset)
	assert.Equal(t, defaults.Limits.MaxTasksPerBoard, cfg.Limits.MaxTasksPerBoard)
}

func TestWatch_ReloadsOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend": {"api_url": "http://first"}}`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan Config, 1)
	require.NoError(t, Watch(ctx, path, func(cfg Config) {
		changed <- cfg
	}))

	require.NoError(t, os.WriteFile(path, []byte(`{"backend": {"api_url": "http://second"}}`), 0o600))

	select {
	case cfg := <-changed:
		assert.Equal(t, "http://second", cfg.Backend.APIURL)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
