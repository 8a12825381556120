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

// Package wire implements the little-endian binary codec for every UDP
// packet the broadcaster emits and the command listener consumes. Layouts
// are packed with no padding, matching a C struct compiled with 1-byte
// alignment, so every encode/decode walks fixed byte offsets by hand
// rather than relying on unsafe casts.
package wire

import (
	"encoding/binary"
	"fmt"
)

// PacketType identifies the payload that follows a Header.
type PacketType uint16

const (
	PacketChassisState    PacketType = 0x0001
	PacketAlert           PacketType = 0x0002
	PacketLabel           PacketType = 0x0003
	PacketDeployStack     PacketType = 0x1001
	PacketUndeployStack   PacketType = 0x1002
	PacketAcknowledgeAlert PacketType = 0x1003
	PacketCommandResponse PacketType = 0x2001
)

// CommandResult is the outcome code carried in a CommandResponsePacket.
type CommandResult uint16

const (
	ResultSuccess          CommandResult = 0
	ResultFailed           CommandResult = 1
	ResultInvalidParameter CommandResult = 2
	ResultNotFound         CommandResult = 3
	ResultTimeout          CommandResult = 4
)

// ProtocolVersion is the only version this codec understands.
const ProtocolVersion = 1

// HeaderSize is the fixed on-wire size of Header in bytes.
const HeaderSize = 24

// Header prefixes every packet defined by this protocol.
type Header struct {
	PacketType     PacketType
	Version        uint16
	SequenceNumber uint32
	TimestampMs    uint64
	DataLength     uint32
}

// Encode writes the 24-byte header into buf, which must be at least
// HeaderSize long.
func (h Header) Encode(buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(h.PacketType))
	binary.LittleEndian.PutUint16(buf[2:4], h.Version)
	binary.LittleEndian.PutUint32(buf[4:8], h.SequenceNumber)
	binary.LittleEndian.PutUint64(buf[8:16], h.TimestampMs)
	binary.LittleEndian.PutUint32(buf[16:20], h.DataLength)
	// buf[20:24] reserved, left zeroed.
}

// DecodeHeader reads a Header from the front of buf.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("wire: header needs %d bytes, got %d", HeaderSize, len(buf))
	}
	return Header{
		PacketType:     PacketType(binary.LittleEndian.Uint16(buf[0:2])),
		Version:        binary.LittleEndian.Uint16(buf[2:4]),
		SequenceNumber: binary.LittleEndian.Uint32(buf[4:8]),
		TimestampMs:    binary.LittleEndian.Uint64(buf[8:16]),
		DataLength:     binary.LittleEndian.Uint32(buf[16:20]),
	}, nil
}

// putFixedString writes s into buf, truncating if too long and zero-padding
// the remainder, matching the C fixed-width char[] field semantics.
func putFixedString(buf []byte, s string) {
	n := copy(buf, s)
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}

// getFixedString reads a NUL-terminated (or fully-populated) ASCII field.
func getFixedString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}
