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

// Package alertstore holds active alerts (board and component) behind a
// read-write mutex. RemoveExpired prunes acknowledged alerts that have aged
// past a retention window each time it is called; the store runs no pruning
// on its own.
package alertstore

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/joeypjx/zygl2/internal/domain"
)

// Store is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	alerts map[string]domain.Alert
}

// New constructs an empty Store.
func New() *Store {
	return &Store{alerts: make(map[string]domain.Alert)}
}

// Save inserts or overwrites a single alert.
func (s *Store) Save(a domain.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts[a.UUID()] = a
}

// FindByUUID looks up an alert by UUID.
func (s *Store) FindByUUID(uuid string) (domain.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alerts[uuid]
	return a, ok
}

// GetAllActive returns a snapshot of every currently held alert.
func (s *Store) GetAllActive() []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		out = append(out, a)
	}
	return out
}

func (s *Store) GetUnacknowledged() []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Alert
	for _, a := range s.alerts {
		if !a.Acknowledged() {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) FindByKind(kind domain.AlertKind) []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Alert
	for _, a := range s.alerts {
		if a.Kind() == kind {
			out = append(out, a)
		}
	}
	return out
}

// FindByBoardAddress returns every board alert pinned to the given address.
func (s *Store) FindByBoardAddress(boardAddress string) []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Alert
	for _, a := range s.alerts {
		if a.IsBoardAlert() && a.Location().BoardAddress == boardAddress {
			out = append(out, a)
		}
	}
	return out
}

// FindByPipelineUUID returns every component alert pinned to the given pipeline.
func (s *Store) FindByPipelineUUID(pipelineUUID string) []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Alert
	for _, a := range s.alerts {
		if a.IsComponentAlert() && a.PipelineUUID() == pipelineUUID {
			out = append(out, a)
		}
	}
	return out
}

// Acknowledge marks a single alert acknowledged, reporting whether it existed.
func (s *Store) Acknowledge(uuid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.alerts[uuid]
	if !ok {
		return false
	}
	a.Acknowledge()
	s.alerts[uuid] = a
	return true
}

// AcknowledgeMultiple marks each of the given alerts acknowledged under a
// single write lock, so a partial batch is never visible to readers, and
// returns how many were actually found.
func (s *Store) AcknowledgeMultiple(uuids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, uuid := range uuids {
		a, ok := s.alerts[uuid]
		if !ok {
			continue
		}
		a.Acknowledge()
		s.alerts[uuid] = a
		count++
	}
	return count
}

// Remove deletes an alert by UUID, reporting whether it was present.
func (s *Store) Remove(uuid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[uuid]; !ok {
		return false
	}
	delete(s.alerts, uuid)
	return true
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = make(map[string]domain.Alert)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}

func (s *Store) CountUnacknowledged() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.alerts {
		if !a.Acknowledged() {
			n++
		}
	}
	return n
}

func (s *Store) CountByKind(kind domain.AlertKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.alerts {
		if a.Kind() == kind {
			n++
		}
	}
	return n
}

// RemoveExpired deletes every acknowledged alert whose age exceeds
// maxAgeSeconds; unacknowledged alerts are never removed regardless of
// age. Returns the number of alerts removed.
func (s *Store) RemoveExpired(nowUnix, maxAgeSeconds int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for uuid, a := range s.alerts {
		if a.Acknowledged() && a.AgeSeconds(nowUnix) > maxAgeSeconds {
			delete(s.alerts, uuid)
			removed++
		}
	}
	return removed
}

// GenerateUUID builds an alert identifier in the form
// "alert-{kind}-{unixSeconds}-{6 hex}", matching the wire contract's
// documented alert ID format.
func GenerateUUID(kind domain.AlertKind, unixSeconds int64) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("alert-%s-%d-%x", kind, unixSeconds, buf), nil
}
