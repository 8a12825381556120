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
	idFieldSize       = 64
	operatorFieldSize = 64
	messageFieldSize  = 256

	// CommandPacketSize is the fixed size of every deploy/undeploy/ack
	// command: header + id[64] + operatorID[64] + commandID u64 + reserved[16].
	CommandPacketSize = HeaderSize + idFieldSize + operatorFieldSize + 8 + 16

	// CommandResponsePacketSize is the fixed size of a response packet:
	// header + commandID u64 + originalCommandType u16 + result u16 +
	// message[256] + reserved[8].
	CommandResponsePacketSize = HeaderSize + 8 + 2 + 2 + messageFieldSize + 8
)

// IdentifiedCommand is the shared shape of Deploy, Undeploy and
// AcknowledgeAlert commands: a 24-byte header, one fixed-width identifier
// field (label UUID or alert ID), an operator ID and a correlation ID.
type IdentifiedCommand struct {
	Header     Header
	ID         string
	OperatorID string
	CommandID  uint64
}

// EncodeCommand serialises an IdentifiedCommand of the given packet type.
func EncodeCommand(packetType PacketType, cmd IdentifiedCommand) [CommandPacketSize]byte {
	var buf [CommandPacketSize]byte
	header := cmd.Header
	header.PacketType = packetType
	header.DataLength = CommandPacketSize - HeaderSize
	header.Encode(buf[:HeaderSize])

	idOff := HeaderSize
	opOff := idOff + idFieldSize
	cmdIDOff := opOff + operatorFieldSize

	putFixedString(buf[idOff:idOff+idFieldSize], cmd.ID)
	putFixedString(buf[opOff:opOff+operatorFieldSize], cmd.OperatorID)
	binary.LittleEndian.PutUint64(buf[cmdIDOff:cmdIDOff+8], cmd.CommandID)
	return buf
}

// DecodeCommand parses a fixed-shape command packet's body, given that its
// header has already been validated by the caller.
func DecodeCommand(buf []byte) (IdentifiedCommand, error) {
	if len(buf) < CommandPacketSize {
		return IdentifiedCommand{}, fmt.Errorf("wire: command packet needs %d bytes, got %d", CommandPacketSize, len(buf))
	}
	header, err := DecodeHeader(buf)
	if err != nil {
		return IdentifiedCommand{}, err
	}

	idOff := HeaderSize
	opOff := idOff + idFieldSize
	cmdIDOff := opOff + operatorFieldSize

	return IdentifiedCommand{
		Header:     header,
		ID:         getFixedString(buf[idOff : idOff+idFieldSize]),
		OperatorID: getFixedString(buf[opOff : opOff+operatorFieldSize]),
		CommandID:  binary.LittleEndian.Uint64(buf[cmdIDOff : cmdIDOff+8]),
	}, nil
}

// CommandResponse is the reply the command listener multicasts after
// acting on a Deploy, Undeploy or AcknowledgeAlert command.
type CommandResponse struct {
	Header               Header
	CommandID            uint64
	OriginalCommandType  PacketType
	Result               CommandResult
	Message              string
}

// Encode serialises a CommandResponse.
func (r CommandResponse) Encode() [CommandResponsePacketSize]byte {
	var buf [CommandResponsePacketSize]byte
	header := r.Header
	header.PacketType = PacketCommandResponse
	header.DataLength = CommandResponsePacketSize - HeaderSize
	header.Encode(buf[:HeaderSize])

	cmdIDOff := HeaderSize
	typeOff := cmdIDOff + 8
	resultOff := typeOff + 2
	msgOff := resultOff + 2

	binary.LittleEndian.PutUint64(buf[cmdIDOff:cmdIDOff+8], r.CommandID)
	binary.LittleEndian.PutUint16(buf[typeOff:typeOff+2], uint16(r.OriginalCommandType))
	binary.LittleEndian.PutUint16(buf[resultOff:resultOff+2], uint16(r.Result))
	putFixedString(buf[msgOff:msgOff+messageFieldSize], r.Message)
	return buf
}

// DecodeCommandResponse parses a CommandResponse packet.
func DecodeCommandResponse(buf []byte) (CommandResponse, error) {
	if len(buf) < CommandResponsePacketSize {
		return CommandResponse{}, fmt.Errorf("wire: command response packet needs %d bytes, got %d", CommandResponsePacketSize, len(buf))
	}
	header, err := DecodeHeader(buf)
	if err != nil {
		return CommandResponse{}, err
	}

	cmdIDOff := HeaderSize
	typeOff := cmdIDOff + 8
	resultOff := typeOff + 2
	msgOff := resultOff + 2

	return CommandResponse{
		Header:              header,
		CommandID:           binary.LittleEndian.Uint64(buf[cmdIDOff : cmdIDOff+8]),
		OriginalCommandType: PacketType(binary.LittleEndian.Uint16(buf[typeOff : typeOff+2])),
		Result:              CommandResult(binary.LittleEndian.Uint16(buf[resultOff : resultOff+2])),
		Message:             getFixedString(buf[msgOff : msgOff+messageFieldSize]),
	}, nil
}
