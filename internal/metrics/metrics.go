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

// Package metrics holds the collector's Prometheus collectors. Other
// components (broadcaster, command) register their own directly against
// promauto/the default registry; this package exists for the collector
// because it has no other natural home for cross-cutting counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CollectTicksTotal counts every collector tick, by phase and outcome.
	CollectTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zygl2_collector_ticks_total",
			Help: "Total collector ticks, by phase and outcome.",
		},
		[]string{"phase", "outcome"},
	)

	// CollectDuration tracks how long each collector phase takes.
	CollectDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zygl2_collector_phase_duration_seconds",
			Help:    "Histogram of collector phase durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"phase"},
	)
)
