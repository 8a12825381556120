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

// Package control issues deploy/undeploy commands to the backend on
// behalf of a label and relays its per-pipeline success/failure partition
// back to the caller faithfully, without reinterpreting it.
package control

import (
	"context"

	"github.com/joeypjx/zygl2/internal/apperr"
	"github.com/joeypjx/zygl2/internal/backend"
	"github.com/joeypjx/zygl2/internal/pipelinestore"
)

// Client is the subset of backend.Client the control Service depends on.
type Client interface {
	Deploy(ctx context.Context, labelUUIDs []string) (backend.DeployResponse, error)
	Undeploy(ctx context.Context, labelUUIDs []string) (backend.DeployResponse, error)
}

// Service issues deploy/undeploy commands.
type Service struct {
	pipelines *pipelinestore.Store
	client    Client
}

// New constructs a control Service.
func New(pipelines *pipelinestore.Store, client Client) *Service {
	return &Service{pipelines: pipelines, client: client}
}

// PipelineResult is one pipeline's outcome within a DeployResult.
type PipelineResult struct {
	PipelineName string
	PipelineUUID string
	Message      string
}

// DeployResult partitions a deploy/undeploy batch into successes and
// failures, exactly as the backend reported them.
type DeployResult struct {
	SuccessPipelines []PipelineResult
	FailurePipelines []PipelineResult
	TotalCount       int
	SuccessCount     int
	FailureCount     int
}

// DeployByLabels requests that every pipeline tagged with any of the given
// label UUIDs be deployed.
func (s *Service) DeployByLabels(ctx context.Context, labelUUIDs []string) (DeployResult, error) {
	if len(labelUUIDs) == 0 {
		return DeployResult{}, apperr.InvalidArgument("label list is empty")
	}
	resp, err := s.client.Deploy(ctx, labelUUIDs)
	if err != nil {
		return DeployResult{}, err
	}
	return toDeployResult(resp), nil
}

// UndeployByLabels is the symmetric counterpart of DeployByLabels.
func (s *Service) UndeployByLabels(ctx context.Context, labelUUIDs []string) (DeployResult, error) {
	if len(labelUUIDs) == 0 {
		return DeployResult{}, apperr.InvalidArgument("label list is empty")
	}
	resp, err := s.client.Undeploy(ctx, labelUUIDs)
	if err != nil {
		return DeployResult{}, err
	}
	return toDeployResult(resp), nil
}

// DeployByLabel is the single-label convenience form of DeployByLabels.
func (s *Service) DeployByLabel(ctx context.Context, labelUUID string) (DeployResult, error) {
	return s.DeployByLabels(ctx, []string{labelUUID})
}

// UndeployByLabel is the single-label convenience form of UndeployByLabels.
func (s *Service) UndeployByLabel(ctx context.Context, labelUUID string) (DeployResult, error) {
	return s.UndeployByLabels(ctx, []string{labelUUID})
}

// PreviewPipelinesByLabel lists the pipeline UUIDs currently tagged with
// labelUUID, without issuing any command. Useful for a UI confirming what
// a deploy/undeploy would affect before sending it.
func (s *Service) PreviewPipelinesByLabel(labelUUID string) []string {
	pipelines := s.pipelines.FindByLabel(labelUUID)
	uuids := make([]string, len(pipelines))
	for i, p := range pipelines {
		uuids[i] = p.UUID()
	}
	return uuids
}

func toDeployResult(resp backend.DeployResponse) DeployResult {
	result := DeployResult{
		SuccessPipelines: make([]PipelineResult, len(resp.SuccessStackInfos)),
		FailurePipelines: make([]PipelineResult, len(resp.FailureStackInfos)),
	}
	for i, s := range resp.SuccessStackInfos {
		result.SuccessPipelines[i] = PipelineResult{PipelineName: s.StackName, PipelineUUID: s.StackUUID, Message: s.Message}
	}
	for i, f := range resp.FailureStackInfos {
		result.FailurePipelines[i] = PipelineResult{PipelineName: f.StackName, PipelineUUID: f.StackUUID, Message: f.Message}
	}
	result.SuccessCount = len(result.SuccessPipelines)
	result.FailureCount = len(result.FailurePipelines)
	result.TotalCount = result.SuccessCount + result.FailureCount
	return result
}
