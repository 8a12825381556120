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

// Package pipelinestore holds the current set of known pipelines behind a
// read-write mutex: many readers (query service, broadcaster) alongside a
// single writer (the Collector).
package pipelinestore

import (
	"sync"

	"github.com/joeypjx/zygl2/internal/domain"
)

// Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	pipelines map[string]domain.Pipeline
}

// New constructs an empty Store.
func New() *Store {
	return &Store{pipelines: make(map[string]domain.Pipeline)}
}

// Save inserts or overwrites a single pipeline.
func (s *Store) Save(p domain.Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipelines[p.UUID()] = p
}

// SaveAll inserts or overwrites many pipelines under a single write lock,
// so readers never observe a partially-applied batch.
func (s *Store) SaveAll(pipelines []domain.Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pipelines {
		s.pipelines[p.UUID()] = p
	}
}

// FindByUUID looks up a pipeline by UUID.
func (s *Store) FindByUUID(uuid string) (domain.Pipeline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pipelines[uuid]
	return p, ok
}

// GetAll returns a snapshot of every pipeline.
func (s *Store) GetAll() []domain.Pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Pipeline, 0, len(s.pipelines))
	for _, p := range s.pipelines {
		out = append(out, p)
	}
	return out
}

// FindByLabel returns every pipeline tagged with the given label UUID.
func (s *Store) FindByLabel(labelUUID string) []domain.Pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Pipeline
	for _, p := range s.pipelines {
		if p.HasLabel(labelUUID) {
			out = append(out, p)
		}
	}
	return out
}

// FindTaskResources scans every pipeline for the given task's usage.
func (s *Store) FindTaskResources(taskID string) (domain.ResourceUsage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pipelines {
		if usage, ok := p.TaskResources(taskID); ok {
			return usage, true
		}
	}
	return domain.ResourceUsage{}, false
}

// FindPipelineByTaskID scans every pipeline for the one owning the given task.
func (s *Store) FindPipelineByTaskID(taskID string) (domain.Pipeline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pipelines {
		if _, ok := p.FindTask(taskID); ok {
			return p, true
		}
	}
	return domain.Pipeline{}, false
}

// Remove deletes a pipeline by UUID, reporting whether it was present.
func (s *Store) Remove(uuid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pipelines[uuid]; !ok {
		return false
	}
	delete(s.pipelines, uuid)
	return true
}

// Clear removes every pipeline.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipelines = make(map[string]domain.Pipeline)
}

// Count returns the number of known pipelines.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pipelines)
}

func (s *Store) CountDeployed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.pipelines {
		if p.IsDeployed() {
			n++
		}
	}
	return n
}

func (s *Store) CountRunningNormally() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.pipelines {
		if p.IsRunningNormally() {
			n++
		}
	}
	return n
}

// CountAbnormal counts deployed pipelines that are not running normally;
// an undeployed pipeline is never counted as abnormal.
func (s *Store) CountAbnormal() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.pipelines {
		if p.IsDeployed() && !p.IsRunningNormally() {
			n++
		}
	}
	return n
}

func (s *Store) CountTotalTasks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.pipelines {
		n += p.TotalTaskCount()
	}
	return n
}
