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

// Package apperr classifies errors that cross a component boundary
// (backend calls, store lookups, config validation) into a small set of
// kinds that callers can branch on without parsing message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of an AppError.
type Kind int

const (
	// KindUnknown is the zero value; avoid constructing errors with it.
	KindUnknown Kind = iota
	// KindNotFound means the requested entity does not exist.
	KindNotFound
	// KindInvalidArgument means the caller supplied a malformed request.
	KindInvalidArgument
	// KindBackendUnavailable means a backend call failed: the backend could
	// not be reached, answered with a non-OK status, or sent an unparseable
	// body.
	KindBackendUnavailable
	// KindTransient means the operation failed but a retry may succeed.
	KindTransient
	// KindFatal means the operation failed in a way retries cannot fix.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindBackendUnavailable:
		return "backend_unavailable"
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// AppError pairs a Kind with a message and an optional wrapped cause.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New constructs an AppError with no wrapped cause.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap constructs an AppError that carries cause as its Unwrap target.
func Wrap(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

// NotFound is a convenience constructor for the common not-found case.
func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

// InvalidArgument is a convenience constructor for validation failures.
func InvalidArgument(message string) *AppError {
	return New(KindInvalidArgument, message)
}

// KindOf extracts the Kind of err if it is an *AppError, KindUnknown
// otherwise.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// Is reports whether err is an *AppError of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
