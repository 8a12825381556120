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

// Package collector periodically pulls board and pipeline inventory from
// the backend and publishes it into the chassis and pipeline stores.
package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joeypjx/zygl2/internal/backend"
	"github.com/joeypjx/zygl2/internal/chassisstore"
	"github.com/joeypjx/zygl2/internal/domain"
	"github.com/joeypjx/zygl2/internal/metrics"
	"github.com/joeypjx/zygl2/internal/pipelinestore"
)

// tickGranularity bounds how long a stop signal can take to be observed
// mid-sleep between ticks.
const tickGranularity = 100 * time.Millisecond

// Client is the subset of backend.Client the Collector depends on.
type Client interface {
	GetBoardInfo(ctx context.Context) ([]backend.BoardInfo, error)
	GetStackInfo(ctx context.Context) ([]backend.StackInfo, error)
}

// Collector runs the two-phase pull loop: board info into the chassis
// store, then pipeline info into the pipeline store. A failure in one
// phase never skips the other phase of the same tick, and a failed tick
// leaves the last-known-good snapshots published.
type Collector struct {
	client        Client
	chassisStore  *chassisstore.Store
	pipelineStore *pipelinestore.Store
	interval      time.Duration
}

// New constructs a Collector with the given pull period.
func New(client Client, chassisStore *chassisstore.Store, pipelineStore *pipelinestore.Store, interval time.Duration) *Collector {
	return &Collector{
		client:        client,
		chassisStore:  chassisStore,
		pipelineStore: pipelineStore,
		interval:      interval,
	}
}

// Run executes the collect loop until ctx is cancelled.
func (c *Collector) Run(ctx context.Context) {
	for {
		c.CollectOnce(ctx)

		start := time.Now()
		for time.Since(start) < c.interval {
			select {
			case <-ctx.Done():
				return
			case <-time.After(tickGranularity):
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// CollectOnce runs a single tick: board info then pipeline info, absorbing
// failures from either phase so the other still runs.
func (c *Collector) CollectOnce(ctx context.Context) {
	if err := c.collectBoardInfo(ctx); err != nil {
		slog.Error("collect board info failed", "error", err)
	}
	if err := c.collectPipelineInfo(ctx); err != nil {
		slog.Error("collect pipeline info failed", "error", err)
	}
}

func (c *Collector) collectBoardInfo(ctx context.Context) error {
	timer := prometheus.NewTimer(metrics.CollectDuration.WithLabelValues("board"))
	defer timer.ObserveDuration()

	boardInfos, err := c.client.GetBoardInfo(ctx)
	if err != nil {
		metrics.CollectTicksTotal.WithLabelValues("board", "failure").Inc()
		return err
	}

	reported := make(map[string]backend.BoardInfo, len(boardInfos))
	for _, bi := range boardInfos {
		reported[bi.BoardAddress] = bi
	}

	all := c.chassisStore.GetAll()
	for ci := range all {
		if all[ci].Number() == 0 {
			continue
		}
		boards := all[ci].Boards()
		for bi := range boards {
			board := boards[bi]
			info, found := reported[board.Address()]
			if !found {
				board.MarkOffline()
			} else {
				board.UpdateFromAPI(info.BoardStatus, convertBoardTasks(info.TaskInfos))
			}
			all[ci].AddOrUpdateBoard(board)
		}
	}

	c.chassisStore.SaveAll(all)
	metrics.CollectTicksTotal.WithLabelValues("board", "success").Inc()
	return nil
}

func (c *Collector) collectPipelineInfo(ctx context.Context) error {
	timer := prometheus.NewTimer(metrics.CollectDuration.WithLabelValues("pipeline"))
	defer timer.ObserveDuration()

	stackInfos, err := c.client.GetStackInfo(ctx)
	if err != nil {
		metrics.CollectTicksTotal.WithLabelValues("pipeline", "failure").Inc()
		return err
	}

	var errs *multierror.Error
	pipelines := make([]domain.Pipeline, 0, len(stackInfos))
	for _, si := range stackInfos {
		if si.StackUUID == "" {
			errs = multierror.Append(errs, fmt.Errorf("stack %q missing uuid, skipped", si.StackName))
			continue
		}
		pipelines = append(pipelines, convertToPipeline(si))
	}
	c.pipelineStore.SaveAll(pipelines)
	if err := errs.ErrorOrNil(); err != nil {
		metrics.CollectTicksTotal.WithLabelValues("pipeline", "partial").Inc()
		return err
	}
	metrics.CollectTicksTotal.WithLabelValues("pipeline", "success").Inc()
	return nil
}

func convertBoardTasks(tasks []backend.BoardTaskInfo) []domain.TaskSummary {
	out := make([]domain.TaskSummary, len(tasks))
	for i, t := range tasks {
		out[i] = domain.TaskSummary{
			TaskID:       t.TaskID,
			TaskStatus:   t.TaskStatus,
			ServiceName:  t.ServiceName,
			ServiceUUID:  t.ServiceUUID,
			PipelineName: t.StackName,
			PipelineUUID: t.StackUUID,
		}
	}
	return out
}

// convertToPipeline translates one raw backend StackInfo into a Pipeline
// aggregate. Deploy status and each service's status are populated verbatim
// from the backend; only the pipeline's own running status is derived
// afterward from the converted services, so the aggregate satisfies its
// running-status invariant without overriding any backend-reported value.
func convertToPipeline(si backend.StackInfo) domain.Pipeline {
	pipeline := domain.NewPipeline(si.StackUUID, si.StackName)
	pipeline.SetDeployStatus(domain.PipelineDeployStatus(si.StackDeployStatus))

	for _, l := range si.StackLabelInfos {
		pipeline.AddLabel(domain.Label{Name: l.LabelName, UUID: l.LabelUUID})
	}

	for _, svcInfo := range si.ServiceInfos {
		svc := domain.NewService(svcInfo.ServiceUUID, svcInfo.ServiceName, domain.ServiceKind(svcInfo.ServiceType))
		svc.SetStatus(domain.ServiceStatus(svcInfo.ServiceStatus))

		for _, taskInfo := range svcInfo.TaskInfos {
			task := domain.NewTaskDetail(taskInfo.TaskID, taskInfo.TaskStatus)
			task.UpdateResources(domain.ResourceUsage{
				CPUCores:       taskInfo.CPUCores,
				CPUUsed:        taskInfo.CPUUsed,
				CPUUsagePct:    taskInfo.CPUUsage,
				MemorySize:     taskInfo.MemorySize,
				MemoryUsed:     taskInfo.MemoryUsed,
				MemoryUsagePct: taskInfo.MemoryUsage,
				NetRx:          taskInfo.NetReceive,
				NetTx:          taskInfo.NetSent,
				GPUMemUsed:     taskInfo.GPUMemUsed,
			})
			task.UpdateLocation(domain.LocationInfo{
				ChassisName:   taskInfo.ChassisName,
				ChassisNumber: int32(taskInfo.ChassisNumber),
				BoardName:     taskInfo.BoardName,
				BoardNumber:   int32(taskInfo.BoardNumber),
				BoardAddress:  taskInfo.BoardAddress,
			})
			svc.AddOrUpdateTask(task)
		}

		pipeline.AddOrUpdateService(svc)
	}

	pipeline.RecalculateRunningStatus()
	return pipeline
}
