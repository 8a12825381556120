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

package control

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeypjx/zygl2/internal/apperr"
	"github.com/joeypjx/zygl2/internal/backend"
	"github.com/joeypjx/zygl2/internal/domain"
	"github.com/joeypjx/zygl2/internal/pipelinestore"
)

type fakeClient struct {
	deployResp   backend.DeployResponse
	undeployResp backend.DeployResponse
	err          error
	lastLabels   []string
}

func (f *fakeClient) Deploy(_ context.Context, labelUUIDs []string) (backend.DeployResponse, error) {
	f.lastLabels = labelUUIDs
	return f.deployResp, f.err
}

func (f *fakeClient) Undeploy(_ context.Context, labelUUIDs []string) (backend.DeployResponse, error) {
	f.lastLabels = labelUUIDs
	return f.undeployResp, f.err
}

func TestDeployByLabels_EmptyListIsInvalidArgument(t *testing.T) {
	svc := New(pipelinestore.New(), &fakeClient{})

	_, err := svc.DeployByLabels(context.Background(), nil)

	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestDeployByLabels_PartitionsSuccessAndFailure(t *testing.T) {
	client := &fakeClient{
		deployResp: backend.DeployResponse{
			SuccessStackInfos: []backend.StackResult{{StackName: "p1", StackUUID: "u1", Message: "ok"}},
			FailureStackInfos: []backend.StackResult{{StackName: "p2", StackUUID: "u2", Message: "not found"}},
		},
	}
	svc := New(pipelinestore.New(), client)

	result, err := svc.DeployByLabels(context.Background(), []string{"label-a"})

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailureCount)
	assert.Equal(t, "u1", result.SuccessPipelines[0].PipelineUUID)
	assert.Equal(t, "u2", result.FailurePipelines[0].PipelineUUID)
	assert.Equal(t, []string{"label-a"}, client.lastLabels)
}

func TestDeployByLabel_WrapsSingleLabel(t *testing.T) {
	client := &fakeClient{}
	svc := New(pipelinestore.New(), client)

	_, err := svc.DeployByLabel(context.Background(), "label-a")

	require.NoError(t, err)
	assert.Equal(t, []string{"label-a"}, client.lastLabels)
}

func TestUndeployByLabels_PropagatesClientError(t *testing.T) {
	client := &fakeClient{err: apperr.New(apperr.KindBackendUnavailable, "backend down")}
	svc := New(pipelinestore.New(), client)

	_, err := svc.UndeployByLabels(context.Background(), []string{"label-a"})

	assert.True(t, apperr.Is(err, apperr.KindBackendUnavailable))
}

func TestPreviewPipelinesByLabel(t *testing.T) {
	pipelines := pipelinestore.New()
	p := domain.NewPipeline("uuid-1", "p1")
	p.AddLabel(domain.Label{Name: "prod", UUID: "label-a"})
	pipelines.Save(p)

	svc := New(pipelines, &fakeClient{})

	uuids := svc.PreviewPipelinesByLabel("label-a")
	assert.Equal(t, []string{"uuid-1"}, uuids)

	assert.Empty(t, svc.PreviewPipelinesByLabel("no-such-label"))
}
