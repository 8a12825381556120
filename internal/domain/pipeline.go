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

// Pipeline (called "stack" in the backend's own vocabulary) is the unit of
// deploy/undeploy: a named collection of Services, tagged with up to
// MaxLabelsPerPipeline Labels for batch operations.
type Pipeline struct {
	uuid         string
	name         string
	deployStatus PipelineDeployStatus
	runningStatus PipelineRunningStatus
	labels       []Label
	services     map[string]Service
}

// NewPipeline constructs an undeployed pipeline with no services or labels.
func NewPipeline(uuid, name string) Pipeline {
	return Pipeline{
		uuid:         uuid,
		name:         name,
		deployStatus: PipelineUndeployed,
		runningStatus: PipelineRunningNormal,
		services:     make(map[string]Service),
	}
}

func (p Pipeline) UUID() string                        { return p.uuid }
func (p Pipeline) Name() string                        { return p.name }
func (p Pipeline) DeployStatus() PipelineDeployStatus   { return p.deployStatus }
func (p Pipeline) RunningStatus() PipelineRunningStatus { return p.runningStatus }
func (p Pipeline) ServiceCount() int                    { return len(p.services) }

func (p Pipeline) IsDeployed() bool {
	return p.deployStatus == PipelineDeployed
}

func (p Pipeline) IsRunningNormally() bool {
	return p.runningStatus == PipelineRunningNormal
}

// SetDeployStatus assigns the pipeline's deploy state directly.
func (p *Pipeline) SetDeployStatus(status PipelineDeployStatus) {
	p.deployStatus = status
}

// Labels returns a copy of the pipeline's current labels.
func (p Pipeline) Labels() []Label {
	out := make([]Label, len(p.labels))
	copy(out, p.labels)
	return out
}

// AddLabel appends a label, silently dropping it once the pipeline already
// carries MaxLabelsPerPipeline labels.
func (p *Pipeline) AddLabel(label Label) {
	if len(p.labels) >= MaxLabelsPerPipeline {
		return
	}
	p.labels = append(p.labels, label)
}

// HasLabel reports whether the pipeline carries a label with the given UUID.
func (p Pipeline) HasLabel(uuid string) bool {
	for _, l := range p.labels {
		if l.UUID == uuid {
			return true
		}
	}
	return false
}

// ClearLabels removes every label from the pipeline.
func (p *Pipeline) ClearLabels() {
	p.labels = nil
}

// AddOrUpdateService inserts or overwrites the service with the given UUID.
func (p *Pipeline) AddOrUpdateService(svc Service) {
	if p.services == nil {
		p.services = make(map[string]Service)
	}
	p.services[svc.UUID()] = svc
}

// FindService looks up a service by UUID.
func (p Pipeline) FindService(uuid string) (Service, bool) {
	s, ok := p.services[uuid]
	return s, ok
}

// RemoveService deletes a service by UUID; a no-op if it is not present.
func (p *Pipeline) RemoveService(uuid string) {
	delete(p.services, uuid)
}

// ServiceUUIDs returns the pipeline's service UUIDs in no particular order.
func (p Pipeline) ServiceUUIDs() []string {
	ids := make([]string, 0, len(p.services))
	for id := range p.services {
		ids = append(ids, id)
	}
	return ids
}

// FindTask searches every owned service for a task with the given ID.
func (p Pipeline) FindTask(taskID string) (TaskDetail, bool) {
	for _, svc := range p.services {
		if t, ok := svc.FindTask(taskID); ok {
			return t, true
		}
	}
	return TaskDetail{}, false
}

// TaskResources returns the resource usage of a single owned task.
func (p Pipeline) TaskResources(taskID string) (ResourceUsage, bool) {
	t, ok := p.FindTask(taskID)
	if !ok {
		return ResourceUsage{}, false
	}
	return t.Resources, true
}

// TotalTaskCount sums the task counts of every owned service.
func (p Pipeline) TotalTaskCount() int {
	total := 0
	for _, svc := range p.services {
		total += svc.TaskCount()
	}
	return total
}

// CalculateTotalResources sums the resource usage of every task across
// every owned service.
func (p Pipeline) CalculateTotalResources() ResourceUsage {
	var total ResourceUsage
	for _, svc := range p.services {
		total.Add(svc.CalculateTotalResources())
	}
	return total
}

// RecalculateRunningStatus derives the pipeline's running status from its
// services: Abnormal if any owned service is Abnormal, Normal otherwise
// (including when the pipeline owns no services at all).
func (p *Pipeline) RecalculateRunningStatus() {
	for _, svc := range p.services {
		if svc.IsAbnormal() {
			p.runningStatus = PipelineRunningAbnormal
			return
		}
	}
	p.runningStatus = PipelineRunningNormal
}
