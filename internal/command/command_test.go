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

package command

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeypjx/zygl2/internal/alertstore"
	"github.com/joeypjx/zygl2/internal/backend"
	"github.com/joeypjx/zygl2/internal/control"
	"github.com/joeypjx/zygl2/internal/domain"
	"github.com/joeypjx/zygl2/internal/pipelinestore"
	"github.com/joeypjx/zygl2/internal/wire"
)

type stubClient struct {
	resp backend.DeployResponse
	err  error
}

func (s *stubClient) Deploy(context.Context, []string) (backend.DeployResponse, error) {
	return s.resp, s.err
}

func (s *stubClient) Undeploy(context.Context, []string) (backend.DeployResponse, error) {
	return s.resp, s.err
}

func newTestListener(t *testing.T, client control.Client) (*Listener, *alertstore.Store, *net.UDPConn) {
	t.Helper()
	listener, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	sendConn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { sendConn.Close() })

	alerts := alertstore.New()
	ctrl := control.New(pipelinestore.New(), client)
	l := New(ctrl, alerts, DefaultConfig())
	l.sendConn = sendConn
	l.dest = listener.LocalAddr().(*net.UDPAddr)

	return l, alerts, listener
}

func readResponse(t *testing.T, listener *net.UDPConn) wire.CommandResponse {
	t.Helper()
	buf := make([]byte, wire.CommandResponsePacketSize)
	require.NoError(t, listener.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := listener.ReadFromUDP(buf)
	require.NoError(t, err)
	resp, err := wire.DecodeCommandResponse(buf[:n])
	require.NoError(t, err)
	return resp
}

func TestDispatch_DeploySuccess(t *testing.T) {
	l, _, listener := newTestListener(t, &stubClient{})

	cmd := wire.EncodeCommand(wire.PacketDeployStack, wire.IdentifiedCommand{ID: "label-a", CommandID: 7})
	l.dispatch(context.Background(), cmd[:])

	resp := readResponse(t, listener)
	assert.Equal(t, wire.ResultSuccess, resp.Result)
	assert.Equal(t, uint64(7), resp.CommandID)
	assert.Equal(t, wire.PacketDeployStack, resp.OriginalCommandType)
}

func TestDispatch_UndeployBackendFailure(t *testing.T) {
	l, _, listener := newTestListener(t, &stubClient{err: assert.AnError})

	cmd := wire.EncodeCommand(wire.PacketUndeployStack, wire.IdentifiedCommand{ID: "label-a", CommandID: 8})
	l.dispatch(context.Background(), cmd[:])

	resp := readResponse(t, listener)
	assert.Equal(t, wire.ResultFailed, resp.Result)
}

func TestDispatch_AcknowledgeKnownAlert(t *testing.T) {
	l, alerts, listener := newTestListener(t, &stubClient{})
	alerts.Save(domain.NewBoardAlert("alert-1", 1000, domain.LocationInfo{}, "m"))

	cmd := wire.EncodeCommand(wire.PacketAcknowledgeAlert, wire.IdentifiedCommand{ID: "alert-1", CommandID: 9})
	l.dispatch(context.Background(), cmd[:])

	resp := readResponse(t, listener)
	assert.Equal(t, wire.ResultSuccess, resp.Result)

	found, _ := alerts.FindByUUID("alert-1")
	assert.True(t, found.Acknowledged())
}

func TestDispatch_AcknowledgeUnknownAlertIsNotFound(t *testing.T) {
	l, _, listener := newTestListener(t, &stubClient{})

	cmd := wire.EncodeCommand(wire.PacketAcknowledgeAlert, wire.IdentifiedCommand{ID: "no-such-alert", CommandID: 10})
	l.dispatch(context.Background(), cmd[:])

	resp := readResponse(t, listener)
	assert.Equal(t, wire.ResultNotFound, resp.Result)
}

func TestDispatch_UnknownPacketTypeIncrementsDecodeErrors(t *testing.T) {
	l, _, _ := newTestListener(t, &stubClient{})

	buf := make([]byte, wire.HeaderSize)
	header := wire.Header{PacketType: 0x9999}
	header.Encode(buf)

	before := testutil.ToFloat64(decodeErrors)
	assert.NotPanics(t, func() { l.dispatch(context.Background(), buf) })
	assert.Equal(t, before+1, testutil.ToFloat64(decodeErrors))
}
