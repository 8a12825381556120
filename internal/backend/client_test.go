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

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeypjx/zygl2/internal/apperr"
)

func TestGetBoardInfo_ParsesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, boardInfoPath, r.URL.Path)
		_ = json.NewEncoder(w).Encode(boardInfoEnvelope{Data: []BoardInfo{
			{ChassisName: "chassis-01", ChassisNumber: 1, BoardName: "board-01", BoardNumber: 1},
		}})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	boards, err := c.GetBoardInfo(context.Background())

	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, "board-01", boards[0].BoardName)
}

func TestGetStackInfo_ParsesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, stackInfoPath, r.URL.Path)
		_ = json.NewEncoder(w).Encode(stackInfoEnvelope{Data: []StackInfo{
			{StackName: "p1", StackUUID: "u1"},
		}})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	stacks, err := c.GetStackInfo(context.Background())

	require.NoError(t, err)
	require.Len(t, stacks, 1)
	assert.Equal(t, "u1", stacks[0].StackUUID)
}

func TestGetBoardInfo_NonOKStatusIsBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.http.RetryMax = 0

	_, err := c.GetBoardInfo(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindBackendUnavailable))
}

func TestGetBoardInfo_MalformedJSONIsBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.http.RetryMax = 0

	_, err := c.GetBoardInfo(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindBackendUnavailable))
}

func TestDeploy_SendsLabelsAndParsesResponse(t *testing.T) {
	var gotBody deployRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, deployPath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(DeployResponse{
			SuccessStackInfos: []StackResult{{StackName: "p1", StackUUID: "u1", Message: "ok"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	resp, err := c.Deploy(context.Background(), []string{"label-a", "label-b"})

	require.NoError(t, err)
	assert.Equal(t, []string{"label-a", "label-b"}, gotBody.StackLabels)
	require.Len(t, resp.SuccessStackInfos, 1)
	assert.Equal(t, "u1", resp.SuccessStackInfos[0].StackUUID)
}

func TestUndeploy_PostsToUndeployPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, undeployPath, r.URL.Path)
		_ = json.NewEncoder(w).Encode(DeployResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Undeploy(context.Background(), []string{"label-a"})
	require.NoError(t, err)
}

func TestDeploy_NonOKStatusIsBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	c.http.RetryMax = 0

	_, err := c.Deploy(context.Background(), []string{"label-a"})
	assert.True(t, apperr.Is(err, apperr.KindBackendUnavailable))
}
