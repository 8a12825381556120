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

// AlertMessage is one appended note in an Alert's running history, bounded
// to MaxAlertMessages entries.
type AlertMessage struct {
	Text      string
	Timestamp int64
}

// Alert records a fault against either a Board or a pipeline Component
// (service/task). Component-only fields are zero-valued on board alerts
// and vice versa.
type Alert struct {
	uuid          string
	kind          AlertKind
	timestamp     int64
	acknowledged  bool
	messages      []AlertMessage
	location      LocationInfo

	// Component-only.
	pipelineName string
	pipelineUUID string
	serviceName  string
	serviceUUID  string
	taskID       string
}

// NewBoardAlert constructs an unacknowledged board alert.
func NewBoardAlert(uuid string, timestamp int64, loc LocationInfo, message string) Alert {
	a := Alert{
		uuid:      uuid,
		kind:      AlertKindBoard,
		timestamp: timestamp,
		location:  loc,
	}
	a.AddMessage(message, timestamp)
	return a
}

// NewComponentAlert constructs an unacknowledged component alert pinned to
// a specific pipeline/service/task.
func NewComponentAlert(uuid string, timestamp int64, loc LocationInfo, pipelineName, pipelineUUID, serviceName, serviceUUID, taskID, message string) Alert {
	a := Alert{
		uuid:         uuid,
		kind:         AlertKindComponent,
		timestamp:    timestamp,
		location:     loc,
		pipelineName: pipelineName,
		pipelineUUID: pipelineUUID,
		serviceName:  serviceName,
		serviceUUID:  serviceUUID,
		taskID:       taskID,
	}
	a.AddMessage(message, timestamp)
	return a
}

func (a Alert) UUID() string             { return a.uuid }
func (a Alert) Kind() AlertKind          { return a.kind }
func (a Alert) Timestamp() int64         { return a.timestamp }
func (a Alert) Acknowledged() bool       { return a.acknowledged }
func (a Alert) Location() LocationInfo   { return a.location }
func (a Alert) PipelineName() string     { return a.pipelineName }
func (a Alert) PipelineUUID() string     { return a.pipelineUUID }
func (a Alert) ServiceName() string      { return a.serviceName }
func (a Alert) ServiceUUID() string      { return a.serviceUUID }
func (a Alert) TaskID() string           { return a.taskID }

func (a Alert) IsBoardAlert() bool     { return a.kind == AlertKindBoard }
func (a Alert) IsComponentAlert() bool { return a.kind == AlertKindComponent }

// Messages returns a copy of the alert's message history.
func (a Alert) Messages() []AlertMessage {
	out := make([]AlertMessage, len(a.messages))
	copy(out, a.messages)
	return out
}

// AddMessage appends a message unless the alert already carries
// MaxAlertMessages entries, in which case it is rejected and the first
// MaxAlertMessages messages are retained unchanged.
func (a *Alert) AddMessage(text string, timestamp int64) {
	if len(a.messages) >= MaxAlertMessages {
		return
	}
	a.messages = append(a.messages, AlertMessage{Text: text, Timestamp: timestamp})
}

func (a *Alert) Acknowledge() {
	a.acknowledged = true
}

func (a *Alert) Unacknowledge() {
	a.acknowledged = false
}

// AgeSeconds returns how many seconds have elapsed between the alert's
// creation and the given "now" unix timestamp.
func (a Alert) AgeSeconds(nowUnix int64) int64 {
	return nowUnix - a.timestamp
}
