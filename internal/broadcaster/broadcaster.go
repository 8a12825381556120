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

// Package broadcaster runs the three independent UDP multicast emission
// schedules — board status, alerts and pipeline labels — on a single
// cooperative loop over one sending socket.
package broadcaster

import (
	"context"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/net/ipv4"

	"github.com/joeypjx/zygl2/internal/query"
)

// tickGranularity bounds how often the cooperative loop checks whether a
// stream is due.
const tickGranularity = 100 * time.Millisecond

// Config parameterizes the three broadcast streams and their destination.
type Config struct {
	MulticastGroup   string
	BroadcastPort    int
	TTL              int
	BoardInterval    time.Duration
	AlertInterval    time.Duration
	LabelInterval    time.Duration
}

// DefaultConfig matches the documented protocol defaults.
func DefaultConfig() Config {
	return Config{
		MulticastGroup: "239.255.0.1",
		BroadcastPort:  9001,
		TTL:            64,
		BoardInterval:  1000 * time.Millisecond,
		AlertInterval:  2000 * time.Millisecond,
		LabelInterval:  5000 * time.Millisecond,
	}
}

var (
	packetsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zygl2_broadcaster_packets_sent_total",
		Help: "Total packets sent by the broadcaster, by stream.",
	}, []string{"stream"})
	sendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zygl2_broadcaster_send_errors_total",
		Help: "Total sendto failures encountered by the broadcaster, by stream.",
	}, []string{"stream"})
)

// Broadcaster owns the single sending socket and the three ticker states.
type Broadcaster struct {
	query *query.Service
	cfg   Config
	conn  *net.UDPConn
	dest  *net.UDPAddr

	sequence   uint32
	responseID uint32
}

// New constructs a Broadcaster; the socket is opened by Start.
func New(q *query.Service, cfg Config) *Broadcaster {
	return &Broadcaster{query: q, cfg: cfg}
}

// Start opens the sending socket, configuring the multicast TTL so packets
// reach beyond the local segment when required.
func (b *Broadcaster) Start() error {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		return err
	}
	if err := ipv4.NewPacketConn(conn).SetMulticastTTL(b.cfg.TTL); err != nil {
		_ = conn.Close()
		return err
	}
	b.conn = conn
	b.dest = &net.UDPAddr{IP: net.ParseIP(b.cfg.MulticastGroup), Port: b.cfg.BroadcastPort}
	return nil
}

// Stop closes the sending socket.
func (b *Broadcaster) Stop() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Close()
}

// Run drives the cooperative loop until ctx is cancelled. Each due stream
// reads the current snapshot via the query service and emits packet(s);
// serialised emission is acceptable since packets are small and multicast
// fan-out is passive.
func (b *Broadcaster) Run(ctx context.Context) {
	lastBoard := time.Now()
	lastAlert := time.Now()
	lastLabel := time.Now()

	ticker := time.NewTicker(tickGranularity)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Sub(lastBoard) >= b.cfg.BoardInterval {
				b.broadcastBoardStatus()
				lastBoard = now
			}
			if now.Sub(lastAlert) >= b.cfg.AlertInterval {
				b.broadcastAlerts()
				lastAlert = now
			}
			if now.Sub(lastLabel) >= b.cfg.LabelInterval {
				b.broadcastLabels()
				lastLabel = now
			}
		}
	}
}

func (b *Broadcaster) nextSequence() uint32 {
	return atomic.AddUint32(&b.sequence, 1)
}

func (b *Broadcaster) send(stream string, payload []byte) {
	if _, err := b.conn.WriteToUDP(payload, b.dest); err != nil {
		sendErrors.WithLabelValues(stream).Inc()
		slog.Debug("broadcaster send failed", "stream", stream, "error", err)
		return
	}
	packetsSent.WithLabelValues(stream).Inc()
}

func nowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}
