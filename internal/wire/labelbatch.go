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
	// MaxPipelinesPerPacket bounds how many pipeline entries one LabelBatch
	// packet carries.
	MaxPipelinesPerPacket = 64

	labelUUIDFieldSize = 64
	labelNameFieldSize = 64
	// labelPairSize is one Label's wire width: uuid[64] | name[64].
	labelPairSize = labelUUIDFieldSize + labelNameFieldSize

	pipelineUUIDSize = 64
	pipelineNameSize = 128

	// pipelineEntrySize is one pipeline's fixed wire width: uuid[64] |
	// name[128] | deployStatus i32 | runningStatus i32 | labelCount u16 |
	// pad[2] | labels[8]*labelPairSize.
	pipelineEntrySize = pipelineUUIDSize + pipelineNameSize + 4 + 4 + 2 + 2 + 8*labelPairSize
)

// LabelEntry is one pipeline's label tag on the wire.
type LabelEntry struct {
	UUID string
	Name string
}

// PipelineEntry is one pipeline's projection onto the label broadcast wire.
type PipelineEntry struct {
	UUID          string
	Name          string
	DeployStatus  int32
	RunningStatus int32
	Labels        []LabelEntry // at most 8; extras are dropped by Encode.
}

// LabelBatch is one chunk of the pipeline-label broadcast stream, holding
// at most MaxPipelinesPerPacket entries.
type LabelBatch struct {
	Header    Header
	Pipelines []PipelineEntry
}

// Encode serialises a batch: 24-byte header, u16 count, then count fixed-
// width pipeline entries.
func (b LabelBatch) Encode() ([]byte, error) {
	if len(b.Pipelines) > MaxPipelinesPerPacket {
		return nil, fmt.Errorf("wire: label batch exceeds %d entries", MaxPipelinesPerPacket)
	}
	size := HeaderSize + 2 + len(b.Pipelines)*pipelineEntrySize
	buf := make([]byte, size)

	header := b.Header
	header.PacketType = PacketLabel
	header.DataLength = uint32(size - HeaderSize)
	header.Encode(buf[:HeaderSize])

	binary.LittleEndian.PutUint16(buf[HeaderSize:HeaderSize+2], uint16(len(b.Pipelines)))

	off := HeaderSize + 2
	for _, p := range b.Pipelines {
		putFixedString(buf[off:off+pipelineUUIDSize], p.UUID)
		off += pipelineUUIDSize
		putFixedString(buf[off:off+pipelineNameSize], p.Name)
		off += pipelineNameSize
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(p.DeployStatus))
		off += 4
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(p.RunningStatus))
		off += 4

		labels := p.Labels
		if len(labels) > 8 {
			labels = labels[:8]
		}
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(len(labels)))
		off += 2 + 2 // skip reserved padding

		labelsStart := off
		for i, l := range labels {
			lo := labelsStart + i*labelPairSize
			putFixedString(buf[lo:lo+labelUUIDFieldSize], l.UUID)
			putFixedString(buf[lo+labelUUIDFieldSize:lo+labelPairSize], l.Name)
		}
		off = labelsStart + 8*labelPairSize
	}
	return buf, nil
}

// DecodeLabelBatch parses a packet produced by Encode.
func DecodeLabelBatch(buf []byte) (LabelBatch, error) {
	if len(buf) < HeaderSize+2 {
		return LabelBatch{}, fmt.Errorf("wire: label batch too short")
	}
	header, err := DecodeHeader(buf)
	if err != nil {
		return LabelBatch{}, err
	}
	count := int(binary.LittleEndian.Uint16(buf[HeaderSize : HeaderSize+2]))
	off := HeaderSize + 2
	need := off + count*pipelineEntrySize
	if len(buf) < need {
		return LabelBatch{}, fmt.Errorf("wire: label batch declares %d entries but only has %d bytes", count, len(buf))
	}

	pipelines := make([]PipelineEntry, count)
	for i := 0; i < count; i++ {
		var p PipelineEntry
		p.UUID = getFixedString(buf[off : off+pipelineUUIDSize])
		off += pipelineUUIDSize
		p.Name = getFixedString(buf[off : off+pipelineNameSize])
		off += pipelineNameSize
		p.DeployStatus = int32(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4
		p.RunningStatus = int32(binary.LittleEndian.Uint32(buf[off : off+4]))
		off += 4

		labelCount := int(binary.LittleEndian.Uint16(buf[off : off+2]))
		off += 2 + 2

		labelsStart := off
		for j := 0; j < labelCount && j < 8; j++ {
			lo := labelsStart + j*labelPairSize
			p.Labels = append(p.Labels, LabelEntry{
				UUID: getFixedString(buf[lo : lo+labelUUIDFieldSize]),
				Name: getFixedString(buf[lo+labelUUIDFieldSize : lo+labelPairSize]),
			})
		}
		off = labelsStart + 8*labelPairSize
		pipelines[i] = p
	}
	return LabelBatch{Header: header, Pipelines: pipelines}, nil
}
