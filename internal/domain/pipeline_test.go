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

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipeline_AddLabel_TruncatesAtMax(t *testing.T) {
	p := NewPipeline("uuid-1", "pipeline-1")
	for i := 0; i < MaxLabelsPerPipeline+3; i++ {
		p.AddLabel(Label{Name: "l", UUID: string(rune('a' + i))})
	}

	assert.Len(t, p.Labels(), MaxLabelsPerPipeline)
}

func TestPipeline_HasLabel(t *testing.T) {
	p := NewPipeline("uuid-1", "pipeline-1")
	p.AddLabel(Label{Name: "prod", UUID: "label-uuid"})

	assert.True(t, p.HasLabel("label-uuid"))
	assert.False(t, p.HasLabel("no-such-uuid"))
}

func TestPipeline_ClearLabels(t *testing.T) {
	p := NewPipeline("uuid-1", "pipeline-1")
	p.AddLabel(Label{Name: "prod", UUID: "label-uuid"})
	p.ClearLabels()

	assert.Empty(t, p.Labels())
}

func TestPipeline_RecalculateRunningStatus_NoServicesIsNormal(t *testing.T) {
	p := NewPipeline("uuid-1", "pipeline-1")
	p.RecalculateRunningStatus()

	assert.True(t, p.IsRunningNormally())
}

func TestPipeline_RecalculateRunningStatus_AnyAbnormalServiceIsAbnormal(t *testing.T) {
	p := NewPipeline("uuid-1", "pipeline-1")

	ok := NewService("svc-ok", "ok", ServiceKindNormal)
	ok.SetStatus(ServiceRunning)
	p.AddOrUpdateService(ok)

	bad := NewService("svc-bad", "bad", ServiceKindNormal)
	bad.SetStatus(ServiceAbnormal)
	p.AddOrUpdateService(bad)

	p.RecalculateRunningStatus()

	assert.False(t, p.IsRunningNormally())
}

func TestPipeline_FindTask_SearchesAllServices(t *testing.T) {
	p := NewPipeline("uuid-1", "pipeline-1")

	svc := NewService("svc-1", "svc", ServiceKindNormal)
	svc.AddOrUpdateTask(NewTaskDetail("task-1", "running"))
	p.AddOrUpdateService(svc)

	task, found := p.FindTask("task-1")
	assert.True(t, found)
	assert.Equal(t, "task-1", task.TaskID)

	_, found = p.FindTask("no-such-task")
	assert.False(t, found)
}

func TestPipeline_CalculateTotalResources_SumsAcrossServices(t *testing.T) {
	p := NewPipeline("uuid-1", "pipeline-1")

	svc1 := NewService("svc-1", "svc1", ServiceKindNormal)
	task1 := NewTaskDetail("task-1", "running")
	task1.UpdateResources(ResourceUsage{CPUCores: 2, MemoryUsed: 100})
	svc1.AddOrUpdateTask(task1)
	p.AddOrUpdateService(svc1)

	svc2 := NewService("svc-2", "svc2", ServiceKindNormal)
	task2 := NewTaskDetail("task-2", "running")
	task2.UpdateResources(ResourceUsage{CPUCores: 3, MemoryUsed: 50})
	svc2.AddOrUpdateTask(task2)
	p.AddOrUpdateService(svc2)

	total := p.CalculateTotalResources()

	assert.Equal(t, 5.0, total.CPUCores)
	assert.Equal(t, 150.0, total.MemoryUsed)
}

func TestService_RecalculateStatus(t *testing.T) {
	svc := NewService("svc-1", "svc", ServiceKindNormal)
	svc.SetStatus(ServiceEnabled)

	// no tasks: status untouched
	svc.RecalculateStatus()
	assert.Equal(t, ServiceEnabled, svc.Status())

	svc.AddOrUpdateTask(NewTaskDetail("t1", "running"))
	svc.RecalculateStatus()
	assert.True(t, svc.IsRunning())

	svc.AddOrUpdateTask(NewTaskDetail("t2", "pending"))
	svc.RecalculateStatus()
	assert.True(t, svc.IsAbnormal())
}
