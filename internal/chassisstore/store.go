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

// Package chassisstore holds the current fleet snapshot behind a single
// atomic pointer: one writer (the Collector) publishes whole snapshots, and
// any number of readers (the broadcaster, the query service) read the
// active snapshot without ever blocking on the writer. Each publish stores
// a freshly allocated copy of the snapshot; there is no preallocated back
// buffer that is reused between publishes.
package chassisstore

import (
	"sync/atomic"

	"github.com/joeypjx/zygl2/internal/domain"
)

type chassisArray = [domain.TotalChassisCount]domain.Chassis

// Store is safe for concurrent use. SaveAll must only ever be called from
// a single goroutine; FindByNumber, GetAll and the Count* methods may be
// called concurrently from any number of goroutines.
type Store struct {
	active atomic.Pointer[chassisArray]
}

// New constructs a Store whose active snapshot is the given initial
// topology, normally produced by topology.Factory.
func New(initial chassisArray) *Store {
	s := &Store{}
	buf := initial
	s.active.Store(&buf)
	return s
}

// SaveAll atomically publishes a full new snapshot. Readers observe either
// the old snapshot in full or the new one in full, never a mix.
func (s *Store) SaveAll(chassis chassisArray) {
	buf := chassis
	s.active.Store(&buf)
}

// GetAll returns the currently active snapshot.
func (s *Store) GetAll() chassisArray {
	return *s.active.Load()
}

// FindByNumber looks up a chassis by its 1-based number. A slot whose
// chassis number is 0 is uninitialized and is reported as not found.
func (s *Store) FindByNumber(chassisNumber int32) (domain.Chassis, bool) {
	if chassisNumber < 1 || chassisNumber > domain.TotalChassisCount {
		return domain.Chassis{}, false
	}
	active := s.active.Load()
	if active[chassisNumber-1].Number() == 0 {
		return domain.Chassis{}, false
	}
	return active[chassisNumber-1], true
}

// FindByBoardAddress scans every chassis for one owning a board with the
// given address.
func (s *Store) FindByBoardAddress(boardAddress string) (domain.Chassis, bool) {
	active := s.active.Load()
	for _, chassis := range active {
		if _, ok := chassis.BoardByAddress(boardAddress); ok {
			return chassis, true
		}
	}
	return domain.Chassis{}, false
}

// CountTotalBoards returns the fixed board count: 9 chassis * 14 boards.
func (s *Store) CountTotalBoards() int32 {
	return domain.TotalChassisCount * domain.BoardsPerChassis
}

func (s *Store) CountNormalBoards() int32 {
	var n int32
	for _, c := range s.active.Load() {
		if c.Number() == 0 {
			continue
		}
		n += c.CountNormalBoards()
	}
	return n
}

func (s *Store) CountAbnormalBoards() int32 {
	var n int32
	for _, c := range s.active.Load() {
		if c.Number() == 0 {
			continue
		}
		n += c.CountAbnormalBoards()
	}
	return n
}

func (s *Store) CountOfflineBoards() int32 {
	var n int32
	for _, c := range s.active.Load() {
		if c.Number() == 0 {
			continue
		}
		n += c.CountOfflineBoards()
	}
	return n
}

func (s *Store) CountTotalTasks() int32 {
	var n int32
	for _, c := range s.active.Load() {
		if c.Number() == 0 {
			continue
		}
		n += c.CountTotalTasks()
	}
	return n
}
