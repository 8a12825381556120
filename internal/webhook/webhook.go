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

// Package webhook exposes the HTTP surface external senders use to report
// board faults and offline events, translating them into board alerts.
package webhook

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/joeypjx/zygl2/internal/alertstore"
	"github.com/joeypjx/zygl2/internal/chassisstore"
	"github.com/joeypjx/zygl2/internal/domain"
)

var validate = validator.New()

// alertRequest is the body accepted by POST /webhook/alert.
type alertRequest struct {
	AlertType     string   `json:"alertType" validate:"required,eq=board"`
	ChassisName   string   `json:"chassisName"`
	ChassisNumber int32    `json:"chassisNumber"`
	BoardName     string   `json:"boardName"`
	BoardNumber   int32    `json:"boardNumber"`
	BoardAddress  string   `json:"boardAddress" validate:"required"`
	Messages      []string `json:"messages" validate:"required,min=1"`
}

// boardEventRequest is the body accepted by POST /webhook/board.
type boardEventRequest struct {
	EventType     string `json:"eventType" validate:"required"`
	ChassisName   string `json:"chassisName"`
	ChassisNumber int32  `json:"chassisNumber"`
	BoardName     string `json:"boardName"`
	BoardNumber   int32  `json:"boardNumber"`
	BoardAddress  string `json:"boardAddress" validate:"required"`
}

type alertResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	AlertUUID string `json:"alertUUID,omitempty"`
}

// Handler serves the three webhook endpoints.
type Handler struct {
	alerts  *alertstore.Store
	chassis *chassisstore.Store
}

// New constructs a Handler backed by the given alert and chassis stores.
func New(alerts *alertstore.Store, chassis *chassisstore.Store) *Handler {
	return &Handler{alerts: alerts, chassis: chassis}
}

// Mount registers the webhook routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/webhook/alert", h.handleAlert)
	r.Post("/webhook/status", h.handleStatus)
	r.Post("/webhook/board", h.handleBoard)
}

func (h *Handler) handleAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, alertResponse{Success: false, Message: "malformed request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, alertResponse{Success: false, Message: err.Error()})
		return
	}

	now := time.Now().Unix()
	uuid, err := alertstore.GenerateUUID(domain.AlertKindBoard, now)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, alertResponse{Success: false, Message: "failed to generate alert id"})
		return
	}

	loc := domain.LocationInfo{
		ChassisName:   req.ChassisName,
		ChassisNumber: req.ChassisNumber,
		BoardName:     req.BoardName,
		BoardNumber:   req.BoardNumber,
		BoardAddress:  req.BoardAddress,
	}
	alert := domain.NewBoardAlert(uuid, now, loc, req.Messages[0])
	for _, m := range req.Messages[1:] {
		alert.AddMessage(m, now)
	}
	h.alerts.Save(alert)

	writeJSON(w, http.StatusOK, alertResponse{Success: true, Message: "alert recorded", AlertUUID: uuid})
}

// handleStatus acknowledges the request without acting on it; a future
// revision will propagate this into the pipeline store.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	var req boardEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, alertResponse{Success: false, Message: "malformed request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, alertResponse{Success: false, Message: err.Error()})
		return
	}

	if req.EventType != "offline" {
		w.WriteHeader(http.StatusOK)
		return
	}

	now := time.Now().Unix()
	uuid, err := alertstore.GenerateUUID(domain.AlertKindBoard, now)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, alertResponse{Success: false, Message: "failed to generate alert id"})
		return
	}

	loc := domain.LocationInfo{
		ChassisName:   req.ChassisName,
		ChassisNumber: req.ChassisNumber,
		BoardName:     req.BoardName,
		BoardNumber:   req.BoardNumber,
		BoardAddress:  req.BoardAddress,
	}
	alert := domain.NewBoardAlert(uuid, now, loc, "board offline")
	h.alerts.Save(alert)
	h.markBoardOffline(req.BoardAddress)

	writeJSON(w, http.StatusOK, alertResponse{Success: true, Message: "alert recorded", AlertUUID: uuid})
}

// markBoardOffline flips a single board to Offline in the chassis snapshot.
// A miss (unknown address) is silently ignored: the alert has already been
// recorded regardless.
func (h *Handler) markBoardOffline(boardAddress string) {
	all := h.chassis.GetAll()
	for ci := range all {
		boards := all[ci].Boards()
		for bi := range boards {
			if boards[bi].Address() != boardAddress {
				continue
			}
			board := boards[bi]
			board.MarkOffline()
			all[ci].AddOrUpdateBoard(board)
			h.chassis.SaveAll(all)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
