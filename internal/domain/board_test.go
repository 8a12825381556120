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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoardTypeForSlot(t *testing.T) {
	tests := []struct {
		slot int32
		want BoardType
	}{
		{1, BoardTypeCompute},
		{5, BoardTypeCompute},
		{6, BoardTypeSwitch},
		{7, BoardTypeSwitch},
		{8, BoardTypeCompute},
		{13, BoardTypePower},
		{14, BoardTypePower},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BoardTypeForSlot(tt.slot), "slot %d", tt.slot)
	}
}

func TestNewBoard_StartsUnknown(t *testing.T) {
	b := NewBoard("192.168.1.101", 1, BoardTypeCompute)
	assert.Equal(t, BoardStatusUnknown, b.Status())
	assert.False(t, b.IsOnline())
	assert.False(t, b.IsAbnormal())
	assert.Equal(t, 0, b.TaskCount())
}

func TestBoard_UpdateFromAPI_ComputeKeepsTasks(t *testing.T) {
	b := NewBoard("192.168.1.101", 1, BoardTypeCompute)
	tasks := []TaskSummary{{TaskID: "t1"}, {TaskID: "t2"}}

	b.UpdateFromAPI(0, tasks)

	assert.Equal(t, BoardStatusNormal, b.Status())
	assert.True(t, b.IsOnline())
	assert.Equal(t, 2, b.TaskCount())
}

func TestBoard_UpdateFromAPI_NonComputeDropsTasks(t *testing.T) {
	b := NewBoard("192.168.1.106", 6, BoardTypeSwitch)
	b.UpdateFromAPI(0, []TaskSummary{{TaskID: "t1"}})

	assert.Equal(t, 0, b.TaskCount())
}

func TestBoard_UpdateFromAPI_NonZeroStatusIsAbnormal(t *testing.T) {
	b := NewBoard("192.168.1.101", 1, BoardTypeCompute)
	b.UpdateFromAPI(1, nil)

	assert.Equal(t, BoardStatusAbnormal, b.Status())
	assert.True(t, b.IsAbnormal())
	assert.True(t, b.IsOnline())
}

func TestBoard_UpdateFromAPI_TruncatesTaskList(t *testing.T) {
	b := NewBoard("192.168.1.101", 1, BoardTypeCompute)
	tasks := make([]TaskSummary, MaxTasksPerBoard+5)
	for i := range tasks {
		tasks[i] = TaskSummary{TaskID: string(rune('a' + i))}
	}

	b.UpdateFromAPI(0, tasks)

	assert.Equal(t, MaxTasksPerBoard, b.TaskCount())
}

func TestBoard_MarkOffline(t *testing.T) {
	b := NewBoard("192.168.1.101", 1, BoardTypeCompute)
	b.UpdateFromAPI(0, []TaskSummary{{TaskID: "t1"}})

	b.MarkOffline()

	assert.Equal(t, BoardStatusOffline, b.Status())
	assert.True(t, b.IsAbnormal())
	assert.False(t, b.IsOnline())
	assert.Equal(t, 0, b.TaskCount())
}
