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

package broadcaster

import (
	"strconv"
	"sync/atomic"

	"github.com/joeypjx/zygl2/internal/domain"
	"github.com/joeypjx/zygl2/internal/wire"
)

// broadcastBoardStatus emits one whole-fleet ResourceMonitorResponse packet
// covering every chassis in a single 1000-byte datagram.
func (b *Broadcaster) broadcastBoardStatus() {
	overview := b.query.GetSystemOverview()

	var resp wire.ResourceMonitorResponse
	resp.ResponseID = atomic.AddUint32(&b.responseID, 1)

	for _, c := range overview.Chassis {
		ci := int(c.Number()) - 1
		if ci < 0 || ci >= wire.ChassisCount {
			continue
		}
		boards := c.Boards()
		for slot := 0; slot < wire.SlotsPerChassis; slot++ {
			board := boards[slot]
			if board.Status() == domain.BoardStatusNormal {
				resp.BoardStates[ci][slot] = wire.BoardStateNormal
			} else {
				resp.BoardStates[ci][slot] = wire.BoardStateAbnormal
			}

			if !board.CanRunTasks() {
				continue
			}
			tasks := board.Tasks()
			for t := 0; t < wire.TasksPerSlot && t < len(tasks); t++ {
				resp.TaskStates[ci][slot][t] = taskState(tasks[t].TaskStatus)
			}
		}
	}

	payload := resp.Encode()
	b.send("board", payload[:])
}

func taskState(status string) wire.TaskState {
	switch status {
	case "", "unknown":
		return wire.TaskStateUnknown
	case "running", "normal":
		return wire.TaskStateNormal
	default:
		return wire.TaskStateOther
	}
}

// broadcastAlerts emits the unacknowledged alert set, chunked to
// wire.MaxAlertsPerPacket entries per packet. An acknowledged alert drops
// out of this broadcast even though it remains held by the alert store.
func (b *Broadcaster) broadcastAlerts() {
	alerts := b.query.GetUnacknowledgedAlerts().Alerts
	if len(alerts) == 0 {
		return
	}

	for start := 0; start < len(alerts); start += wire.MaxAlertsPerPacket {
		end := start + wire.MaxAlertsPerPacket
		if end > len(alerts) {
			end = len(alerts)
		}
		chunk := alerts[start:end]

		entries := make([]wire.AlertEntry, len(chunk))
		for i, a := range chunk {
			entries[i] = alertToEntry(a)
		}

		batch := wire.AlertBatch{
			Header: wire.Header{
				Version:        wire.ProtocolVersion,
				SequenceNumber: b.nextSequence(),
				TimestampMs:    nowMs(),
			},
			Alerts: entries,
		}
		payload, err := batch.Encode()
		if err != nil {
			sendErrors.WithLabelValues("alert").Inc()
			return
		}
		b.send("alert", payload)
	}
}

func alertToEntry(a domain.Alert) wire.AlertEntry {
	entry := wire.AlertEntry{
		UUID:         a.UUID(),
		Kind:         a.Kind().String(),
		TimestampMs:  uint64(a.Timestamp()) * 1000,
		Acknowledged: a.Acknowledged(),
		BoardAddress: a.Location().BoardAddress,
	}
	if a.IsComponentAlert() {
		entry.RelatedEntity = a.PipelineUUID() + "/" + a.ServiceUUID() + "/" + a.TaskID()
	} else {
		entry.RelatedEntity = strconv.Itoa(int(a.Location().ChassisNumber))
	}
	if msgs := a.Messages(); len(msgs) > 0 {
		entry.Message = msgs[len(msgs)-1].Text
	}
	return entry
}

// broadcastLabels emits the full pipeline inventory (name, status, labels),
// chunked to wire.MaxPipelinesPerPacket entries per packet.
func (b *Broadcaster) broadcastLabels() {
	pipelines := b.query.GetAllPipelines().Pipelines
	if len(pipelines) == 0 {
		return
	}

	for start := 0; start < len(pipelines); start += wire.MaxPipelinesPerPacket {
		end := start + wire.MaxPipelinesPerPacket
		if end > len(pipelines) {
			end = len(pipelines)
		}
		chunk := pipelines[start:end]

		entries := make([]wire.PipelineEntry, len(chunk))
		for i, p := range chunk {
			entries[i] = pipelineToEntry(p)
		}

		batch := wire.LabelBatch{
			Header: wire.Header{
				Version:        wire.ProtocolVersion,
				SequenceNumber: b.nextSequence(),
				TimestampMs:    nowMs(),
			},
			Pipelines: entries,
		}
		payload, err := batch.Encode()
		if err != nil {
			sendErrors.WithLabelValues("label").Inc()
			return
		}
		b.send("label", payload)
	}
}

func pipelineToEntry(p domain.Pipeline) wire.PipelineEntry {
	labels := p.Labels()
	out := wire.PipelineEntry{
		UUID:          p.UUID(),
		Name:          p.Name(),
		DeployStatus:  int32(p.DeployStatus()),
		RunningStatus: int32(p.RunningStatus()),
		Labels:        make([]wire.LabelEntry, len(labels)),
	}
	for i, l := range labels {
		out.Labels[i] = wire.LabelEntry{UUID: l.UUID, Name: l.Name}
	}
	return out
}
