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

package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesKind(t *testing.T) {
	err := NotFound("board not found")
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindInvalidArgument))
}

func TestIs_NonAppErrorIsUnknown(t *testing.T) {
	err := errors.New("plain error")
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.False(t, Is(err, KindNotFound))
}

func TestWrap_UnwrapsToCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(KindBackendUnavailable, "backend call failed", cause)

	assert.True(t, Is(err, KindBackendUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestErrorsAs_ThroughWrappingChain(t *testing.T) {
	inner := InvalidArgument("bad label uuid")
	outer := fmt.Errorf("deploy failed: %w", inner)

	var ae *AppError
	assert.True(t, errors.As(outer, &ae))
	assert.Equal(t, KindInvalidArgument, ae.Kind)
}
