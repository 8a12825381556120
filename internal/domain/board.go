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

// Board is a single card occupying a chassis slot, identified by its
// IPv4 address. Its address and slot are fixed at construction; status
// and tasks are the only fields the Collector ever mutates.
type Board struct {
	address string
	number  int32
	kind    BoardType

	status BoardStatus
	tasks  []TaskSummary
}

// NewBoard constructs a Board for the given slot; kind is derived by the
// caller (normally topology.Factory) from the slot number.
func NewBoard(address string, number int32, kind BoardType) Board {
	return Board{
		address: address,
		number:  number,
		kind:    kind,
		status:  BoardStatusUnknown,
	}
}

func (b Board) Address() string       { return b.address }
func (b Board) Number() int32         { return b.number }
func (b Board) Kind() BoardType       { return b.kind }
func (b Board) Status() BoardStatus   { return b.status }
func (b Board) TaskCount() int        { return len(b.tasks) }

// Tasks returns a copy of the board's current task summaries.
func (b Board) Tasks() []TaskSummary {
	out := make([]TaskSummary, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// CanRunTasks reports whether this board's kind is allowed to host tasks.
func (b Board) CanRunTasks() bool {
	return b.kind == BoardTypeCompute
}

// IsAbnormal reports whether the board is in a faulted or unreachable state.
func (b Board) IsAbnormal() bool {
	return b.status == BoardStatusAbnormal || b.status == BoardStatusOffline
}

// IsOnline reports whether the backend is currently reporting this board.
func (b Board) IsOnline() bool {
	return b.status == BoardStatusNormal || b.status == BoardStatusAbnormal
}

// UpdateFromAPI applies a freshly polled status code and task list.
// statusCode 0 means Normal, anything else means Abnormal. Non-compute
// boards always end up with an empty task list regardless of what is
// reported; the task list is truncated to MaxTasksPerBoard.
func (b *Board) UpdateFromAPI(statusCode int, tasks []TaskSummary) {
	if statusCode == 0 {
		b.status = BoardStatusNormal
	} else {
		b.status = BoardStatusAbnormal
	}

	if !b.CanRunTasks() {
		b.tasks = nil
		return
	}

	b.tasks = truncateTasks(tasks)
}

// MarkOffline records that the backend no longer reports this board.
// Offline boards always carry an empty task list.
func (b *Board) MarkOffline() {
	b.status = BoardStatusOffline
	b.tasks = nil
}
