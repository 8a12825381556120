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

// Package topology builds the fixed 9-chassis, 14-board-per-chassis
// hardware layout that every other component addresses by chassis number
// and slot number.
package topology

import (
	"fmt"

	"github.com/joeypjx/zygl2/internal/domain"
)

// ChassisConfig names one chassis and the IP range its boards live in.
type ChassisConfig struct {
	ChassisNumber int32
	ChassisName   string
	IPBaseAddress string
	IPStartOffset int32
}

// DefaultConfig returns the standard config for a chassis: name
// "chassis-NN", IP base "192.168.N", boards starting at .101.
func DefaultConfig(chassisNumber int32) ChassisConfig {
	return ChassisConfig{
		ChassisNumber: chassisNumber,
		ChassisName:   fmt.Sprintf("chassis-%02d", chassisNumber),
		IPBaseAddress: fmt.Sprintf("192.168.%d", chassisNumber),
		IPStartOffset: 100,
	}
}

// Factory builds Chassis aggregates from ChassisConfig values.
type Factory struct{}

// NewFactory constructs a topology Factory.
func NewFactory() Factory {
	return Factory{}
}

// CreateChassis builds one fully-populated 14-slot chassis.
func (Factory) CreateChassis(cfg ChassisConfig) domain.Chassis {
	chassis := domain.NewChassis(cfg.ChassisNumber, cfg.ChassisName)
	for slot := int32(1); slot <= domain.BoardsPerChassis; slot++ {
		chassis.AddOrUpdateBoard(createBoard(cfg, slot))
	}
	return chassis
}

// CreateFullTopology builds all 9 chassis using DefaultConfig.
func (f Factory) CreateFullTopology() [domain.TotalChassisCount]domain.Chassis {
	var topology [domain.TotalChassisCount]domain.Chassis
	for i := 0; i < domain.TotalChassisCount; i++ {
		topology[i] = f.CreateChassis(DefaultConfig(int32(i + 1)))
	}
	return topology
}

// CreateFullTopologyFrom builds all 9 chassis from caller-supplied configs.
func (f Factory) CreateFullTopologyFrom(configs [domain.TotalChassisCount]ChassisConfig) [domain.TotalChassisCount]domain.Chassis {
	var topology [domain.TotalChassisCount]domain.Chassis
	for i, cfg := range configs {
		topology[i] = f.CreateChassis(cfg)
	}
	return topology
}

func createBoard(cfg ChassisConfig, slot int32) domain.Board {
	kind := domain.BoardTypeForSlot(slot)
	address := fmt.Sprintf("%s.%d", cfg.IPBaseAddress, cfg.IPStartOffset+slot)
	return domain.NewBoard(address, slot, kind)
}
