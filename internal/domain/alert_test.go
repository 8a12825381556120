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

func TestNewBoardAlert(t *testing.T) {
	loc := LocationInfo{ChassisNumber: 1, BoardNumber: 2, BoardAddress: "192.168.1.102"}
	a := NewBoardAlert("alert-1", 1000, loc, "board offline")

	assert.True(t, a.IsBoardAlert())
	assert.False(t, a.IsComponentAlert())
	assert.False(t, a.Acknowledged())
	assert.Equal(t, loc, a.Location())
	assert.Len(t, a.Messages(), 1)
	assert.Equal(t, "board offline", a.Messages()[0].Text)
}

func TestNewComponentAlert(t *testing.T) {
	loc := LocationInfo{ChassisNumber: 1}
	a := NewComponentAlert("alert-2", 1000, loc, "pipeline-1", "puuid", "service-1", "suuid", "task-1", "task failed")

	assert.True(t, a.IsComponentAlert())
	assert.Equal(t, "pipeline-1", a.PipelineName())
	assert.Equal(t, "suuid", a.ServiceUUID())
	assert.Equal(t, "task-1", a.TaskID())
}

func TestAlert_AddMessage_KeepsFirstMaxAlertMessages(t *testing.T) {
	a := NewBoardAlert("alert-1", 1000, LocationInfo{}, "initial")
	for i := 0; i < MaxAlertMessages+5; i++ {
		a.AddMessage("msg", 1000+int64(i))
	}

	msgs := a.Messages()
	assert.Len(t, msgs, MaxAlertMessages)
	// the first message ever recorded is retained, not evicted
	assert.Equal(t, "initial", msgs[0].Text)
	assert.Equal(t, int64(1000), msgs[0].Timestamp)
	// once at capacity, further messages are rejected outright
	assert.Equal(t, "msg", msgs[MaxAlertMessages-1].Text)
	assert.Equal(t, int64(1000+MaxAlertMessages-2), msgs[MaxAlertMessages-1].Timestamp)
}

func TestAlert_AcknowledgeUnacknowledge(t *testing.T) {
	a := NewBoardAlert("alert-1", 1000, LocationInfo{}, "initial")
	assert.False(t, a.Acknowledged())

	a.Acknowledge()
	assert.True(t, a.Acknowledged())

	a.Unacknowledge()
	assert.False(t, a.Acknowledged())
}

func TestAlert_AgeSeconds(t *testing.T) {
	a := NewBoardAlert("alert-1", 1000, LocationInfo{}, "initial")
	assert.Equal(t, int64(50), a.AgeSeconds(1050))
}
