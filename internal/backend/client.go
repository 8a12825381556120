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

// Package backend speaks the southbound HTTP/JSON protocol against the
// fleet-management API: board and stack inventory pulls, and deploy /
// undeploy commands.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/joeypjx/zygl2/internal/apperr"
)

const (
	boardInfoPath = "/api/v1/external/qyw/boardinfo"
	stackInfoPath = "/api/v1/external/qyw/stackinfo"
	deployPath    = "/api/v1/external/qyw/deploy"
	undeployPath  = "/api/v1/external/qyw/undeploy"
)

// Client talks to the backend's fleet-management API over HTTP.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// New constructs a Client bound to baseURL with the given per-request
// timeout. Every request, GET and POST alike, is retried up to 3 times on
// connection errors and retryable statuses (5xx, 429) using retryablehttp's
// default policy and backoff; retryablehttp's own logging is disabled.
func New(baseURL string, timeout time.Duration) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	rc.HTTPClient.Timeout = timeout
	rc.HTTPClient.Transport = &auditingRoundTripper{delegate: rc.HTTPClient.Transport}

	return &Client{baseURL: baseURL, http: rc}
}

// auditingRoundTripper logs the method, URL and response code of every
// write request (POST) issued against the backend.
type auditingRoundTripper struct {
	delegate http.RoundTripper
}

func (rt *auditingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	delegate := rt.delegate
	if delegate == nil {
		delegate = http.DefaultTransport
	}
	resp, err := delegate.RoundTrip(req)
	if req.Method == http.MethodPost {
		code := 0
		if resp != nil {
			code = resp.StatusCode
		}
		slog.Debug("backend request", "method", req.Method, "url", req.URL.String(), "status", code, "error", err)
	}
	return resp, err
}

// boardInfoEnvelope mirrors GET /boardinfo's JSON shape.
type boardInfoEnvelope struct {
	Data []BoardInfo `json:"data"`
}

// BoardInfo is one board's raw inventory record as the backend reports it.
type BoardInfo struct {
	ChassisName   string          `json:"chassisName"`
	ChassisNumber int             `json:"chassisNumber"`
	BoardName     string          `json:"boardName"`
	BoardNumber   int             `json:"boardNumber"`
	BoardType     int             `json:"boardType"`
	BoardAddress  string          `json:"boardAddress"`
	BoardStatus   int             `json:"boardStatus"`
	TaskInfos     []BoardTaskInfo `json:"taskInfos"`
}

// BoardTaskInfo is the fixed-width task tuple carried on a board record.
type BoardTaskInfo struct {
	TaskID       string `json:"taskID"`
	TaskStatus   string `json:"taskStatus"`
	ServiceName  string `json:"serviceName"`
	ServiceUUID  string `json:"serviceUUID"`
	StackName    string `json:"stackName"`
	StackUUID    string `json:"stackUUID"`
}

// stackInfoEnvelope mirrors GET /stackinfo's JSON shape.
type stackInfoEnvelope struct {
	Data []StackInfo `json:"data"`
}

// StackInfo is one pipeline's raw record as the backend reports it.
type StackInfo struct {
	StackName          string        `json:"stackName"`
	StackUUID          string        `json:"stackUUID"`
	StackDeployStatus  int           `json:"stackDeployStatus"`
	StackRunningStatus int           `json:"stackRunningStatus"`
	StackLabelInfos    []LabelInfo   `json:"stackLabelInfos"`
	ServiceInfos       []ServiceInfo `json:"serviceInfos"`
}

// LabelInfo is one deploy/undeploy tag on a pipeline.
type LabelInfo struct {
	LabelName string `json:"labelName"`
	LabelUUID string `json:"labelUUID"`
}

// ServiceInfo is one component of a pipeline.
type ServiceInfo struct {
	ServiceName string             `json:"serviceName"`
	ServiceUUID string             `json:"serviceUUID"`
	ServiceStatus int              `json:"serviceStatus"`
	ServiceType   int              `json:"serviceType"`
	TaskInfos     []ServiceTaskInfo `json:"taskInfos"`
}

// ServiceTaskInfo is a task's full resource-and-location record.
type ServiceTaskInfo struct {
	TaskID        string  `json:"taskID"`
	TaskStatus    string  `json:"taskStatus"`
	CPUCores      float64 `json:"cpuCores"`
	CPUUsed       float64 `json:"cpuUsed"`
	CPUUsage      float64 `json:"cpuUsage"`
	MemorySize    float64 `json:"memorySize"`
	MemoryUsed    float64 `json:"memoryUsed"`
	MemoryUsage   float64 `json:"memoryUsage"`
	NetReceive    float64 `json:"netReceive"`
	NetSent       float64 `json:"netSent"`
	GPUMemUsed    float64 `json:"gpuMemUsed"`
	ChassisName   string  `json:"chassisName"`
	ChassisNumber int     `json:"chassisNumber"`
	BoardName     string  `json:"boardName"`
	BoardNumber   int     `json:"boardNumber"`
	BoardAddress  string  `json:"boardAddress"`
}

// StackResult is one pipeline's outcome within a Deploy/Undeploy response.
type StackResult struct {
	StackName string `json:"stackName"`
	StackUUID string `json:"stackUUID"`
	Message   string `json:"message"`
}

// DeployResponse partitions a deploy/undeploy batch into successes and failures.
type DeployResponse struct {
	SuccessStackInfos []StackResult `json:"successStackInfos"`
	FailureStackInfos []StackResult `json:"failureStackInfos"`
}

type deployRequest struct {
	StackLabels []string `json:"stackLabels"`
}

// GetBoardInfo pulls the full board inventory.
func (c *Client) GetBoardInfo(ctx context.Context) ([]BoardInfo, error) {
	var env boardInfoEnvelope
	if err := c.getJSON(ctx, boardInfoPath, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetStackInfo pulls the full pipeline inventory.
func (c *Client) GetStackInfo(ctx context.Context) ([]StackInfo, error) {
	var env stackInfoEnvelope
	if err := c.getJSON(ctx, stackInfoPath, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Deploy requests that the backend enable every pipeline tagged with any
// of the given label UUIDs.
func (c *Client) Deploy(ctx context.Context, labelUUIDs []string) (DeployResponse, error) {
	return c.postDeploy(ctx, deployPath, labelUUIDs)
}

// Undeploy is the symmetric counterpart of Deploy.
func (c *Client) Undeploy(ctx context.Context, labelUUIDs []string) (DeployResponse, error) {
	return c.postDeploy(ctx, undeployPath, labelUUIDs)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidArgument, "build backend request", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindBackendUnavailable, fmt.Sprintf("GET %s", path), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Wrap(apperr.KindBackendUnavailable, "read backend response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return apperr.New(apperr.KindBackendUnavailable, fmt.Sprintf("GET %s: status %d", path, resp.StatusCode))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Wrap(apperr.KindBackendUnavailable, "parse backend response", err)
	}
	return nil
}

func (c *Client) postDeploy(ctx context.Context, path string, labelUUIDs []string) (DeployResponse, error) {
	payload, err := json.Marshal(deployRequest{StackLabels: labelUUIDs})
	if err != nil {
		return DeployResponse{}, apperr.Wrap(apperr.KindInvalidArgument, "encode deploy request", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return DeployResponse{}, apperr.Wrap(apperr.KindInvalidArgument, "build backend request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return DeployResponse{}, apperr.Wrap(apperr.KindBackendUnavailable, fmt.Sprintf("POST %s", path), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return DeployResponse{}, apperr.Wrap(apperr.KindBackendUnavailable, "read backend response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return DeployResponse{}, apperr.New(apperr.KindBackendUnavailable, fmt.Sprintf("POST %s: status %d", path, resp.StatusCode))
	}

	var out DeployResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return DeployResponse{}, apperr.Wrap(apperr.KindBackendUnavailable, "parse backend response", err)
	}
	return out, nil
}
