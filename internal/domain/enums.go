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

// Package domain holds the entities and value objects for the fleet
// snapshot: chassis, boards, pipelines, services, tasks and alerts.
package domain

// Fixed topology and bounded-collection constants.
const (
	TotalChassisCount = 9
	BoardsPerChassis  = 14

	MaxTasksPerBoard     = 8
	MaxLabelsPerPipeline = 8
	MaxAlertMessages     = 16
)

// BoardType is the slot-derived hardware role of a Board.
type BoardType int32

const (
	BoardTypeCompute BoardType = iota
	BoardTypeSwitch
	BoardTypePower
)

func (t BoardType) String() string {
	switch t {
	case BoardTypeSwitch:
		return "switch"
	case BoardTypePower:
		return "power"
	default:
		return "compute"
	}
}

// BoardTypeForSlot derives the board kind from its 1-based slot number,
// per the fixed topology: slots 6/7 are switch boards, 13/14 are power
// boards, everything else is compute.
func BoardTypeForSlot(slot int32) BoardType {
	switch slot {
	case 6, 7:
		return BoardTypeSwitch
	case 13, 14:
		return BoardTypePower
	default:
		return BoardTypeCompute
	}
}

// BoardStatus is the operational status of a Board.
type BoardStatus int32

const (
	BoardStatusUnknown BoardStatus = iota - 1
	BoardStatusNormal
	BoardStatusAbnormal
	BoardStatusOffline
)

func (s BoardStatus) String() string {
	switch s {
	case BoardStatusNormal:
		return "normal"
	case BoardStatusAbnormal:
		return "abnormal"
	case BoardStatusOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// PipelineDeployStatus tracks whether a Pipeline is deployed on the backend.
type PipelineDeployStatus int32

const (
	PipelineUndeployed PipelineDeployStatus = iota
	PipelineDeployed
)

// PipelineRunningStatus is the derived health of a deployed Pipeline.
type PipelineRunningStatus int32

const (
	PipelineRunningNormal PipelineRunningStatus = iota + 1
	PipelineRunningAbnormal
)

// ServiceStatus is the lifecycle status of a Service within a Pipeline.
type ServiceStatus int32

const (
	ServiceDisabled ServiceStatus = iota
	ServiceEnabled
	ServiceRunning
	ServiceAbnormal
)

// ServiceKind distinguishes ownership of shared components.
type ServiceKind int32

const (
	ServiceKindNormal ServiceKind = iota
	ServiceKindSharedReference
	ServiceKindSharedOwned
)

// AlertKind distinguishes Board faults from Component (task) faults.
type AlertKind int32

const (
	AlertKindBoard AlertKind = iota
	AlertKindComponent
)

func (k AlertKind) String() string {
	if k == AlertKindComponent {
		return "component"
	}
	return "board"
}
