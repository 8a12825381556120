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

// TaskDetail is the full pipeline-side record for a single running task:
// its resource usage and where it physically runs. The board-side
// TaskSummary is a fixed-width projection of this record.
type TaskDetail struct {
	TaskID     string
	TaskStatus string
	Resources  ResourceUsage
	Location   LocationInfo
}

// NewTaskDetail constructs a task record pinned to no location yet; the
// Collector fills in Location once it maps the task to a board.
func NewTaskDetail(taskID, taskStatus string) TaskDetail {
	return TaskDetail{TaskID: taskID, TaskStatus: taskStatus}
}

// IsRunning reports whether the task's raw status string indicates it is
// currently executing, matching the backend's own vocabulary.
func (t TaskDetail) IsRunning() bool {
	return t.TaskStatus == "running"
}

// UpdateResources replaces the task's resource snapshot wholesale; the
// backend always reports a full snapshot, never a delta.
func (t *TaskDetail) UpdateResources(usage ResourceUsage) {
	t.Resources = usage
}

// UpdateLocation replaces the task's physical placement. Callers must keep
// this in sync with the board that actually reported the task.
func (t *TaskDetail) UpdateLocation(loc LocationInfo) {
	t.Location = loc
}

// IsResourceOverloaded reports whether either usage percentage has crossed
// the given threshold (0-100 scale).
func (t TaskDetail) IsResourceOverloaded(thresholdPct float64) bool {
	return t.Resources.CPUUsagePct >= thresholdPct || t.Resources.MemoryUsagePct >= thresholdPct
}

// ToSummary projects the full record down to the fixed-width tuple the
// board-status broadcast carries.
func (t TaskDetail) ToSummary(serviceName, serviceUUID, pipelineName, pipelineUUID string) TaskSummary {
	return TaskSummary{
		TaskID:       t.TaskID,
		TaskStatus:   t.TaskStatus,
		ServiceName:  serviceName,
		ServiceUUID:  serviceUUID,
		PipelineName: pipelineName,
		PipelineUUID: pipelineUUID,
	}
}
