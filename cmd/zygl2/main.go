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

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/joeypjx/zygl2/internal/alertstore"
	"github.com/joeypjx/zygl2/internal/backend"
	"github.com/joeypjx/zygl2/internal/broadcaster"
	"github.com/joeypjx/zygl2/internal/chassisstore"
	"github.com/joeypjx/zygl2/internal/collector"
	"github.com/joeypjx/zygl2/internal/command"
	"github.com/joeypjx/zygl2/internal/config"
	"github.com/joeypjx/zygl2/internal/control"
	"github.com/joeypjx/zygl2/internal/domain"
	"github.com/joeypjx/zygl2/internal/logging"
	"github.com/joeypjx/zygl2/internal/pipelinestore"
	"github.com/joeypjx/zygl2/internal/query"
	"github.com/joeypjx/zygl2/internal/server"
	"github.com/joeypjx/zygl2/internal/topology"
	"github.com/joeypjx/zygl2/internal/webhook"
)

const defaultAgentName = "zygl2"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath = flag.String("config-path", "/etc/zygl2/config.json", "path to the JSON configuration file")
)

func main() {
	flag.Parse()

	logging.SetDefaultStructuredLogger(defaultAgentName, version)
	slog.Info("Starting zygl2", "version", version, "commit", commit, "date", date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("zygl2 failed", "error", err)
		os.Exit(1)
	}

	slog.Info("zygl2 stopped cleanly")
}

func run(ctx context.Context) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Warn("config: falling back to documented defaults", "path", *configPath, "error", err)
		cfg = config.Defaults()
	}

	factory := topology.NewFactory()
	var chassisConfigs [domain.TotalChassisCount]topology.ChassisConfig
	for i := range chassisConfigs {
		chassisConfigs[i] = topology.DefaultConfig(int32(i + 1))
		chassisConfigs[i].IPBaseAddress = fmt.Sprintf(cfg.Hardware.IPBasePattern, i+1)
		chassisConfigs[i].IPStartOffset = int32(cfg.Hardware.IPOffset)
	}
	initialTopology := factory.CreateFullTopologyFrom(chassisConfigs)

	chassisStore := chassisstore.New(initialTopology)
	pipelineStore := pipelinestore.New()
	alertStore := alertstore.New()

	backendClient := backend.New(cfg.Backend.APIURL, time.Duration(cfg.Backend.TimeoutSeconds)*time.Second)

	col := collector.New(backendClient, chassisStore, pipelineStore, time.Duration(cfg.DataCollector.IntervalSeconds)*time.Second)

	querySvc := query.New(chassisStore, pipelineStore, alertStore)
	controlSvc := control.New(pipelineStore, backendClient)

	bcast := broadcaster.New(querySvc, broadcaster.Config{
		MulticastGroup: cfg.UDP.MulticastAddress,
		BroadcastPort:  cfg.UDP.StateBroadcastPort,
		TTL:            64,
		BoardInterval:  time.Duration(cfg.UDP.BroadcastIntervalMs) * time.Millisecond,
		AlertInterval:  2 * time.Second,
		LabelInterval:  5 * time.Second,
	})
	if err := bcast.Start(); err != nil {
		return fmt.Errorf("start broadcaster: %w", err)
	}
	defer bcast.Stop()

	cmdListener := command.New(controlSvc, alertStore, command.Config{
		MulticastGroup: cfg.UDP.MulticastAddress,
		ListenPort:     cfg.UDP.CommandListenerPort,
		BroadcastPort:  cfg.UDP.StateBroadcastPort,
		TTL:            64,
	})
	if err := cmdListener.Start(); err != nil {
		return fmt.Errorf("start command listener: %w", err)
	}
	defer cmdListener.Stop()

	webhookHandler := webhook.New(alertStore, chassisStore)
	webhookRouter := chi.NewRouter()
	webhookHandler.Mount(webhookRouter)

	httpServer := server.NewServer(
		server.WithPort(cfg.Webhook.ListenPort),
		server.WithPrometheusMetrics(),
		server.WithSimpleHealth(),
		server.WithServiceHealth(defaultAgentName),
		server.WithHandler("/webhook/*", webhookRouter),
	)

	if err := config.Watch(ctx, *configPath, func(newCfg config.Config) {
		slog.Info("config: reload observed, restart required for UDP/webhook binding changes",
			"backend_api_url", newCfg.Backend.APIURL,
			"collector_interval_seconds", newCfg.DataCollector.IntervalSeconds,
		)
	}); err != nil {
		slog.Warn("config: file watch unavailable, changes require a restart", "error", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		col.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		bcast.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		cmdListener.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		slog.Info("Starting webhook/metrics server", "port", cfg.Webhook.ListenPort)
		if err := httpServer.Serve(gCtx); err != nil {
			slog.Error("webhook/metrics server failed - continuing without it", "error", err)
		}
		return nil
	})

	return g.Wait()
}
