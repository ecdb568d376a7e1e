/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		t.Setenv(EnvDebug, "false")
		assert.NotNil(t, NewLogger())
	})
	t.Run("debug", func(t *testing.T) {
		t.Setenv(EnvDebug, "true")
		l := NewLogger()
		assert.NotNil(t, l)
		assert.True(t, l.Desugar().Core().Enabled(-1))
	})
	t.Run("level override", func(t *testing.T) {
		t.Setenv(EnvLevel, "warn")
		l := NewLogger()
		assert.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Desugar().Core().Enabled(zapcore.ErrorLevel))
	})
	t.Run("unparsable level is ignored", func(t *testing.T) {
		t.Setenv(EnvLevel, "loud")
		assert.True(t, NewLogger().Desugar().Core().Enabled(zapcore.InfoLevel))
	})
}

func TestContextRoundTrip(t *testing.T) {
	l := NewNopLogger().With("run", "r-1")
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	// missing logger falls back to a fresh one
	assert.NotNil(t, FromContext(context.Background()))
}
