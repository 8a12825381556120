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

// Service is a named component of a Pipeline; it owns zero or more running
// Tasks keyed by task ID. SharedReference services participate in a
// Pipeline without owning their own tasks (the owning Pipeline is
// identified elsewhere); SharedOwned services are the reverse.
type Service struct {
	uuid   string
	name   string
	status ServiceStatus
	kind   ServiceKind
	tasks  map[string]TaskDetail
}

// NewService constructs an empty service in the Disabled state.
func NewService(uuid, name string, kind ServiceKind) Service {
	return Service{
		uuid:   uuid,
		name:   name,
		status: ServiceDisabled,
		kind:   kind,
		tasks:  make(map[string]TaskDetail),
	}
}

func (s Service) UUID() string          { return s.uuid }
func (s Service) Name() string          { return s.name }
func (s Service) Status() ServiceStatus { return s.status }
func (s Service) Kind() ServiceKind     { return s.kind }
func (s Service) TaskCount() int        { return len(s.tasks) }

// SetStatus assigns the service's lifecycle status directly, e.g. when
// populating a Service verbatim from a backend-reported value.
func (s *Service) SetStatus(status ServiceStatus) {
	s.status = status
}

// AddOrUpdateTask inserts or overwrites the task with the given ID.
func (s *Service) AddOrUpdateTask(task TaskDetail) {
	if s.tasks == nil {
		s.tasks = make(map[string]TaskDetail)
	}
	s.tasks[task.TaskID] = task
}

// FindTask looks up a task by ID.
func (s Service) FindTask(taskID string) (TaskDetail, bool) {
	t, ok := s.tasks[taskID]
	return t, ok
}

// RemoveTask deletes a task by ID; a no-op if it is not present.
func (s *Service) RemoveTask(taskID string) {
	delete(s.tasks, taskID)
}

// TaskIDs returns the service's task IDs in no particular order.
func (s Service) TaskIDs() []string {
	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	return ids
}

// IsRunning reports whether the service's status is Running.
func (s Service) IsRunning() bool {
	return s.status == ServiceRunning
}

// IsAbnormal reports whether the service's status is Abnormal.
func (s Service) IsAbnormal() bool {
	return s.status == ServiceAbnormal
}

// RecalculateStatus derives Abnormal/Running from the service's own tasks:
// a service with at least one task is Abnormal if any task is not running,
// else Running. A service with no tasks keeps its current status untouched
// since Enabled/Disabled is a deploy-time state, not a task-derived one.
func (s *Service) RecalculateStatus() {
	if len(s.tasks) == 0 {
		return
	}
	for _, t := range s.tasks {
		if !t.IsRunning() {
			s.status = ServiceAbnormal
			return
		}
	}
	s.status = ServiceRunning
}

// CalculateTotalResources sums the resource usage of every task owned by
// this service.
func (s Service) CalculateTotalResources() ResourceUsage {
	var total ResourceUsage
	for _, t := range s.tasks {
		total.Add(t.Resources)
	}
	return total
}
