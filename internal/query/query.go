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

// Package query is the read-only service backing UI/API lookups: system
// overview, chassis/pipeline detail, alert lists and the on-demand task
// drill-down.
package query

import (
	"github.com/joeypjx/zygl2/internal/alertstore"
	"github.com/joeypjx/zygl2/internal/apperr"
	"github.com/joeypjx/zygl2/internal/chassisstore"
	"github.com/joeypjx/zygl2/internal/domain"
	"github.com/joeypjx/zygl2/internal/pipelinestore"
)

// Service answers read-only questions against the fleet snapshot, never
// mutating any store.
type Service struct {
	chassis   *chassisstore.Store
	pipelines *pipelinestore.Store
	alerts    *alertstore.Store
}

// New constructs a query Service over the given stores.
func New(chassis *chassisstore.Store, pipelines *pipelinestore.Store, alerts *alertstore.Store) *Service {
	return &Service{chassis: chassis, pipelines: pipelines, alerts: alerts}
}

// SystemOverview summarizes the entire chassis fleet.
type SystemOverview struct {
	Chassis             []domain.Chassis
	TotalChassis        int32
	TotalBoards         int32
	TotalNormalBoards   int32
	TotalAbnormalBoards int32
	TotalOfflineBoards  int32
	TotalTasks          int32
}

// GetSystemOverview returns the whole-fleet snapshot plus derived counts.
func (s *Service) GetSystemOverview() SystemOverview {
	all := s.chassis.GetAll()
	overview := SystemOverview{
		TotalBoards:         s.chassis.CountTotalBoards(),
		TotalNormalBoards:   s.chassis.CountNormalBoards(),
		TotalAbnormalBoards: s.chassis.CountAbnormalBoards(),
		TotalOfflineBoards:  s.chassis.CountOfflineBoards(),
		TotalTasks:          s.chassis.CountTotalTasks(),
	}
	for _, c := range all {
		if c.Number() == 0 {
			continue
		}
		overview.Chassis = append(overview.Chassis, c)
	}
	overview.TotalChassis = int32(len(overview.Chassis))
	return overview
}

// GetChassisByNumber looks up a single chassis.
func (s *Service) GetChassisByNumber(chassisNumber int32) (domain.Chassis, error) {
	c, ok := s.chassis.FindByNumber(chassisNumber)
	if !ok {
		return domain.Chassis{}, apperr.NotFound("chassis not found")
	}
	return c, nil
}

// GetChassisByBoardAddress looks up the chassis owning a given board address.
func (s *Service) GetChassisByBoardAddress(boardAddress string) (domain.Chassis, error) {
	c, ok := s.chassis.FindByBoardAddress(boardAddress)
	if !ok {
		return domain.Chassis{}, apperr.NotFound("board not found")
	}
	return c, nil
}

// PipelineList is the full pipeline inventory plus derived counts.
type PipelineList struct {
	Pipelines           []domain.Pipeline
	TotalPipelines      int
	DeployedPipelines   int
	NormalPipelines     int
	AbnormalPipelines   int
}

// GetAllPipelines returns every known pipeline plus derived counts.
func (s *Service) GetAllPipelines() PipelineList {
	return PipelineList{
		Pipelines:         s.pipelines.GetAll(),
		TotalPipelines:    s.pipelines.Count(),
		DeployedPipelines: s.pipelines.CountDeployed(),
		NormalPipelines:   s.pipelines.CountRunningNormally(),
		AbnormalPipelines: s.pipelines.CountAbnormal(),
	}
}

// GetPipelineByUUID looks up a single pipeline.
func (s *Service) GetPipelineByUUID(uuid string) (domain.Pipeline, error) {
	p, ok := s.pipelines.FindByUUID(uuid)
	if !ok {
		return domain.Pipeline{}, apperr.NotFound("pipeline not found")
	}
	return p, nil
}

// TaskResource is the on-demand drill-down result for a single task: its
// resource usage plus the location it currently runs at.
type TaskResource struct {
	TaskID     string
	TaskStatus string
	Resources  domain.ResourceUsage
	Location   domain.LocationInfo
}

// GetTaskResource resolves a task's resource usage and location by
// scanning every pipeline. This is deliberately an on-demand query rather
// than a cached one: the fleet holds far more tasks than a UI will ever
// drill into at once.
func (s *Service) GetTaskResource(taskID string) (TaskResource, error) {
	if taskID == "" {
		return TaskResource{}, apperr.InvalidArgument("task id is required")
	}

	pipeline, ok := s.pipelines.FindPipelineByTaskID(taskID)
	if !ok {
		return TaskResource{}, apperr.NotFound("task not found")
	}
	task, ok := pipeline.FindTask(taskID)
	if !ok {
		return TaskResource{}, apperr.NotFound("task detail not found")
	}

	return TaskResource{
		TaskID:     task.TaskID,
		TaskStatus: task.TaskStatus,
		Resources:  task.Resources,
		Location:   task.Location,
	}, nil
}

// AlertList is a set of alerts plus derived counts.
type AlertList struct {
	Alerts               []domain.Alert
	TotalAlerts          int
	UnacknowledgedCount  int
	BoardAlertCount      int
	ComponentAlertCount  int
}

// GetActiveAlerts returns every currently held alert plus derived counts.
func (s *Service) GetActiveAlerts() AlertList {
	return AlertList{
		Alerts:              s.alerts.GetAllActive(),
		TotalAlerts:         s.alerts.Count(),
		UnacknowledgedCount: s.alerts.CountUnacknowledged(),
		BoardAlertCount:     s.alerts.CountByKind(domain.AlertKindBoard),
		ComponentAlertCount: s.alerts.CountByKind(domain.AlertKindComponent),
	}
}

// GetUnacknowledgedAlerts returns only alerts that have not been acknowledged.
func (s *Service) GetUnacknowledgedAlerts() AlertList {
	alerts := s.alerts.GetUnacknowledged()
	list := AlertList{Alerts: alerts, TotalAlerts: len(alerts), UnacknowledgedCount: len(alerts)}
	for _, a := range alerts {
		if a.IsBoardAlert() {
			list.BoardAlertCount++
		} else {
			list.ComponentAlertCount++
		}
	}
	return list
}
