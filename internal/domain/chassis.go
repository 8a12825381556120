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

// Chassis is one physical 14-slot enclosure. The Boards array is always
// exactly BoardsPerChassis long and every slot is populated at startup by
// the topology factory; slot n lives at index n-1.
type Chassis struct {
	number int32
	name   string
	boards [BoardsPerChassis]Board
}

// NewChassis constructs an empty chassis shell; boards are attached with
// AddOrUpdateBoard by the topology factory.
func NewChassis(number int32, name string) Chassis {
	return Chassis{number: number, name: name}
}

func (c Chassis) Number() int32 { return c.number }
func (c Chassis) Name() string  { return c.name }

// Boards returns a copy of the fixed 14-slot board array.
func (c Chassis) Boards() [BoardsPerChassis]Board {
	return c.boards
}

// AddOrUpdateBoard places board at the array index derived from its slot
// number; out-of-range slot numbers are silently ignored.
func (c *Chassis) AddOrUpdateBoard(board Board) {
	idx := board.Number() - 1
	if idx < 0 || int(idx) >= BoardsPerChassis {
		return
	}
	c.boards[idx] = board
}

// BoardByAddress linear-scans the chassis's boards for the given address.
func (c *Chassis) BoardByAddress(address string) (*Board, bool) {
	for i := range c.boards {
		if c.boards[i].Address() == address {
			return &c.boards[i], true
		}
	}
	return nil, false
}

// BoardByNumber returns the board at the given 1-based slot number.
func (c *Chassis) BoardByNumber(number int32) (*Board, bool) {
	idx := number - 1
	if idx < 0 || int(idx) >= BoardsPerChassis {
		return nil, false
	}
	return &c.boards[idx], true
}

func (c Chassis) CountNormalBoards() int32 {
	var n int32
	for _, b := range c.boards {
		if b.Status() == BoardStatusNormal {
			n++
		}
	}
	return n
}

func (c Chassis) CountAbnormalBoards() int32 {
	var n int32
	for _, b := range c.boards {
		if b.IsAbnormal() {
			n++
		}
	}
	return n
}

func (c Chassis) CountOfflineBoards() int32 {
	var n int32
	for _, b := range c.boards {
		if b.Status() == BoardStatusOffline {
			n++
		}
	}
	return n
}

func (c Chassis) CountTotalTasks() int32 {
	var n int32
	for _, b := range c.boards {
		if b.CanRunTasks() {
			n += int32(b.TaskCount())
		}
	}
	return n
}
