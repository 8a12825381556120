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

package wire

import (
	"encoding/binary"
	"fmt"
)

const (
	// ResourceMonitorPacketSize is the fixed on-wire size of a resource
	// monitor response, independent of fleet occupancy.
	ResourceMonitorPacketSize = 1000

	resourceMonitorHeaderSize = 22
	resourceMonitorCommandCode = 0xF000

	// ChassisCount and SlotsPerChassis are this packet's own fixed
	// dimensions: only the first 12 slots of each chassis (the compute and
	// switch boards) are represented; the trailing power pair is not.
	ChassisCount    = 9
	SlotsPerChassis = 12
	TasksPerSlot    = 8

	boardStatesOffset = resourceMonitorHeaderSize + 2 + 4 // header + commandCode + responseID
	boardStatesSize   = ChassisCount * SlotsPerChassis
	taskStatesOffset  = boardStatesOffset + boardStatesSize
	taskStatesSize    = ChassisCount * SlotsPerChassis * TasksPerSlot
)

// BoardState is the per-slot status byte: 1 = Normal, 0 = anything else.
type BoardState uint8

const (
	BoardStateAbnormal BoardState = 0
	BoardStateNormal   BoardState = 1
)

// TaskState is the per-task status byte within a slot.
type TaskState uint8

const (
	TaskStateUnknown TaskState = 0
	TaskStateNormal  TaskState = 1
	TaskStateOther   TaskState = 2
)

// ResourceMonitorResponse is the fixed-shape board-status snapshot the
// broadcaster emits once per board-status tick.
type ResourceMonitorResponse struct {
	ResponseID  uint32
	BoardStates [ChassisCount][SlotsPerChassis]BoardState
	TaskStates  [ChassisCount][SlotsPerChassis][TasksPerSlot]TaskState
}

// Encode serialises r into the exact 1000-byte wire format. The opaque
// 22-byte leading header is always zero-filled.
func (r ResourceMonitorResponse) Encode() [ResourceMonitorPacketSize]byte {
	var buf [ResourceMonitorPacketSize]byte
	binary.LittleEndian.PutUint16(buf[resourceMonitorHeaderSize:resourceMonitorHeaderSize+2], resourceMonitorCommandCode)
	binary.LittleEndian.PutUint32(buf[resourceMonitorHeaderSize+2:boardStatesOffset], r.ResponseID)

	for i := 0; i < ChassisCount; i++ {
		for j := 0; j < SlotsPerChassis; j++ {
			buf[boardStatesOffset+i*SlotsPerChassis+j] = byte(r.BoardStates[i][j])
		}
	}
	for i := 0; i < ChassisCount; i++ {
		for j := 0; j < SlotsPerChassis; j++ {
			for k := 0; k < TasksPerSlot; k++ {
				idx := taskStatesOffset + (i*SlotsPerChassis+j)*TasksPerSlot + k
				buf[idx] = byte(r.TaskStates[i][j][k])
			}
		}
	}
	return buf
}

// DecodeResourceMonitorResponse parses a 1000-byte packet produced by Encode.
func DecodeResourceMonitorResponse(buf []byte) (ResourceMonitorResponse, error) {
	if len(buf) != ResourceMonitorPacketSize {
		return ResourceMonitorResponse{}, fmt.Errorf("wire: resource monitor packet must be %d bytes, got %d", ResourceMonitorPacketSize, len(buf))
	}
	commandCode := binary.LittleEndian.Uint16(buf[resourceMonitorHeaderSize : resourceMonitorHeaderSize+2])
	if commandCode != resourceMonitorCommandCode {
		return ResourceMonitorResponse{}, fmt.Errorf("wire: unexpected command code 0x%04X", commandCode)
	}

	var r ResourceMonitorResponse
	r.ResponseID = binary.LittleEndian.Uint32(buf[resourceMonitorHeaderSize+2 : boardStatesOffset])

	for i := 0; i < ChassisCount; i++ {
		for j := 0; j < SlotsPerChassis; j++ {
			r.BoardStates[i][j] = BoardState(buf[boardStatesOffset+i*SlotsPerChassis+j])
		}
	}
	for i := 0; i < ChassisCount; i++ {
		for j := 0; j < SlotsPerChassis; j++ {
			for k := 0; k < TasksPerSlot; k++ {
				idx := taskStatesOffset + (i*SlotsPerChassis+j)*TasksPerSlot + k
				r.TaskStates[i][j][k] = TaskState(buf[idx])
			}
		}
	}
	return r, nil
}
