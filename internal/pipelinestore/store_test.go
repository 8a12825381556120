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

package pipelinestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeypjx/zygl2/internal/domain"
)

func TestStore_SaveAndFindByUUID(t *testing.T) {
	s := New()
	p := domain.NewPipeline("uuid-1", "pipeline-1")
	s.Save(p)

	found, ok := s.FindByUUID("uuid-1")
	require.True(t, ok)
	assert.Equal(t, "pipeline-1", found.Name())

	_, ok = s.FindByUUID("no-such-uuid")
	assert.False(t, ok)
}

func TestStore_SaveAll_MergesWithExisting(t *testing.T) {
	s := New()
	s.Save(domain.NewPipeline("uuid-1", "pipeline-1"))

	s.SaveAll([]domain.Pipeline{
		domain.NewPipeline("uuid-2", "pipeline-2"),
		domain.NewPipeline("uuid-3", "pipeline-3"),
	})

	assert.Equal(t, 3, s.Count())
}

func TestStore_FindByLabel(t *testing.T) {
	s := New()
	p1 := domain.NewPipeline("uuid-1", "pipeline-1")
	p1.AddLabel(domain.Label{Name: "prod", UUID: "label-a"})
	s.Save(p1)

	p2 := domain.NewPipeline("uuid-2", "pipeline-2")
	s.Save(p2)

	found := s.FindByLabel("label-a")
	require.Len(t, found, 1)
	assert.Equal(t, "uuid-1", found[0].UUID())

	assert.Empty(t, s.FindByLabel("no-such-label"))
}

func TestStore_RemoveAndClear(t *testing.T) {
	s := New()
	s.Save(domain.NewPipeline("uuid-1", "pipeline-1"))

	assert.True(t, s.Remove("uuid-1"))
	assert.False(t, s.Remove("uuid-1"))
	assert.Equal(t, 0, s.Count())

	s.Save(domain.NewPipeline("uuid-2", "pipeline-2"))
	s.Clear()
	assert.Equal(t, 0, s.Count())
}

func TestStore_CountsReflectDeployAndRunningStatus(t *testing.T) {
	s := New()

	deployed := domain.NewPipeline("uuid-1", "pipeline-1")
	deployed.SetDeployStatus(domain.PipelineDeployed)
	s.Save(deployed)

	undeployed := domain.NewPipeline("uuid-2", "pipeline-2")
	s.Save(undeployed)

	assert.Equal(t, 1, s.CountDeployed())
	assert.Equal(t, 2, s.CountRunningNormally())
	assert.Equal(t, 0, s.CountAbnormal())
}

func TestStore_FindTaskResourcesAndPipelineByTaskID(t *testing.T) {
	s := New()
	p := domain.NewPipeline("uuid-1", "pipeline-1")
	svc := domain.NewService("svc-1", "svc", domain.ServiceKindNormal)
	task := domain.NewTaskDetail("task-1", "running")
	task.UpdateResources(domain.ResourceUsage{CPUCores: 4})
	svc.AddOrUpdateTask(task)
	p.AddOrUpdateService(svc)
	s.Save(p)

	usage, ok := s.FindTaskResources("task-1")
	require.True(t, ok)
	assert.Equal(t, 4.0, usage.CPUCores)

	found, ok := s.FindPipelineByTaskID("task-1")
	require.True(t, ok)
	assert.Equal(t, "uuid-1", found.UUID())

	_, ok = s.FindTaskResources("no-such-task")
	assert.False(t, ok)
}
