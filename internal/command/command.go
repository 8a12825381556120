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

// Package command listens on the multicast command port for deploy,
// undeploy and alert-acknowledge requests and relays every outcome back to
// the multicast group at the broadcast port.
package command

import (
	"context"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/net/ipv4"

	"github.com/joeypjx/zygl2/internal/alertstore"
	"github.com/joeypjx/zygl2/internal/apperr"
	"github.com/joeypjx/zygl2/internal/control"
	"github.com/joeypjx/zygl2/internal/wire"
)

// Config parameterizes the multicast group the listener joins and the
// address it relays responses to.
type Config struct {
	MulticastGroup string
	ListenPort     int
	BroadcastPort  int
	TTL            int
}

// DefaultConfig matches the documented protocol defaults.
func DefaultConfig() Config {
	return Config{
		MulticastGroup: "239.255.0.1",
		ListenPort:     9002,
		BroadcastPort:  9001,
		TTL:            64,
	}
}

var (
	commandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zygl2_command_handled_total",
		Help: "Total commands handled by the listener, by type and result.",
	}, []string{"type", "result"})
	decodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zygl2_command_decode_errors_total",
		Help: "Total datagrams dropped for failing to decode as a known command.",
	})
)

// Listener consumes command datagrams and drives the control Service and
// alert store in response.
type Listener struct {
	control *control.Service
	alerts  *alertstore.Store
	cfg     Config

	recvConn *net.UDPConn
	sendConn *net.UDPConn
	dest     *net.UDPAddr
	sequence uint32
}

// New constructs a Listener; sockets are opened by Start.
func New(ctrl *control.Service, alerts *alertstore.Store, cfg Config) *Listener {
	return &Listener{control: ctrl, alerts: alerts, cfg: cfg}
}

// Start joins the command multicast group and opens the response socket.
func (l *Listener) Start() error {
	group := net.ParseIP(l.cfg.MulticastGroup)

	recvConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: l.cfg.ListenPort})
	if err != nil {
		return err
	}
	pc := ipv4.NewPacketConn(recvConn)
	ifaces, _ := net.Interfaces()
	joined := false
	for _, iface := range ifaces {
		if err := pc.JoinGroup(&iface, &net.UDPAddr{IP: group}); err == nil {
			joined = true
		}
	}
	if !joined {
		if err := pc.JoinGroup(nil, &net.UDPAddr{IP: group}); err != nil {
			_ = recvConn.Close()
			return err
		}
	}
	l.recvConn = recvConn

	sendConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		_ = recvConn.Close()
		return err
	}
	if err := ipv4.NewPacketConn(sendConn).SetMulticastTTL(l.cfg.TTL); err != nil {
		_ = recvConn.Close()
		_ = sendConn.Close()
		return err
	}
	l.sendConn = sendConn
	l.dest = &net.UDPAddr{IP: group, Port: l.cfg.BroadcastPort}
	return nil
}

// Stop closes both sockets.
func (l *Listener) Stop() {
	if l.recvConn != nil {
		_ = l.recvConn.Close()
	}
	if l.sendConn != nil {
		_ = l.sendConn.Close()
	}
}

// Run reads and dispatches datagrams until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		l.Stop()
	}()

	buf := make([]byte, 2048)
	for {
		n, err := l.recvConn.Read(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				slog.Debug("command listener read failed", "error", err)
				continue
			}
		}
		l.dispatch(ctx, append([]byte(nil), buf[:n]...))
	}
}

func (l *Listener) dispatch(ctx context.Context, buf []byte) {
	header, err := wire.DecodeHeader(buf)
	if err != nil {
		decodeErrors.Inc()
		return
	}

	switch header.PacketType {
	case wire.PacketDeployStack:
		l.handleDeploy(ctx, buf)
	case wire.PacketUndeployStack:
		l.handleUndeploy(ctx, buf)
	case wire.PacketAcknowledgeAlert:
		l.handleAcknowledge(buf)
	default:
		decodeErrors.Inc()
	}
}

func (l *Listener) handleDeploy(ctx context.Context, buf []byte) {
	cmd, err := wire.DecodeCommand(buf)
	if err != nil {
		decodeErrors.Inc()
		return
	}
	_, err = l.control.DeployByLabel(ctx, cmd.ID)
	l.respond("deploy", wire.PacketDeployStack, cmd.CommandID, err)
}

func (l *Listener) handleUndeploy(ctx context.Context, buf []byte) {
	cmd, err := wire.DecodeCommand(buf)
	if err != nil {
		decodeErrors.Inc()
		return
	}
	_, err = l.control.UndeployByLabel(ctx, cmd.ID)
	l.respond("undeploy", wire.PacketUndeployStack, cmd.CommandID, err)
}

func (l *Listener) handleAcknowledge(buf []byte) {
	cmd, err := wire.DecodeCommand(buf)
	if err != nil {
		decodeErrors.Inc()
		return
	}
	ok := l.alerts.Acknowledge(cmd.ID)
	var ackErr error
	if !ok {
		ackErr = apperr.NotFound("alert not found")
	}
	l.respond("acknowledge", wire.PacketAcknowledgeAlert, cmd.CommandID, ackErr)
}

func (l *Listener) respond(kind string, originalType wire.PacketType, commandID uint64, cmdErr error) {
	result := wire.ResultSuccess
	message := "ok"
	if cmdErr != nil {
		message = cmdErr.Error()
		if apperr.Is(cmdErr, apperr.KindNotFound) {
			result = wire.ResultNotFound
		} else if apperr.Is(cmdErr, apperr.KindInvalidArgument) {
			result = wire.ResultInvalidParameter
		} else {
			result = wire.ResultFailed
		}
	}
	commandsHandled.WithLabelValues(kind, resultLabel(result)).Inc()

	resp := wire.CommandResponse{
		Header: wire.Header{
			PacketType:     wire.PacketCommandResponse,
			Version:        wire.ProtocolVersion,
			SequenceNumber: l.nextSequence(),
			TimestampMs:    uint64(time.Now().UnixMilli()),
		},
		CommandID:           commandID,
		OriginalCommandType: originalType,
		Result:              result,
		Message:             message,
	}
	payload := resp.Encode()
	if _, err := l.sendConn.WriteToUDP(payload[:], l.dest); err != nil {
		slog.Debug("command response send failed", "error", err)
	}
}

func resultLabel(r wire.CommandResult) string {
	switch r {
	case wire.ResultSuccess:
		return "success"
	case wire.ResultNotFound:
		return "not_found"
	case wire.ResultInvalidParameter:
		return "invalid_parameter"
	case wire.ResultTimeout:
		return "timeout"
	default:
		return "failed"
	}
}

func (l *Listener) nextSequence() uint32 {
	return atomic.AddUint32(&l.sequence, 1)
}
