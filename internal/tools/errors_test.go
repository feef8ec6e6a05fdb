package tools

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrf(t *testing.T) {
	t.Parallel()

	err := Errf(KindValidation, "Invalid cron expression: %s", "bad")
	assert.Equal(t, "Invalid cron expression: bad", err.Error())
	assert.Equal(t, KindValidation, err.Kind)
	assert.Nil(t, err.Err)
}

func TestWrapf(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := Wrapf(KindTransport, cause, "Failed to connect to backup service: %v", cause)

	assert.Equal(t, "Failed to connect to backup service: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	t.Run("direct", func(t *testing.T) {
		t.Parallel()
		kind, ok := KindOf(Errf(KindRemote, "boom"))
		require.True(t, ok)
		assert.Equal(t, KindRemote, kind)
	})

	t.Run("wrapped", func(t *testing.T) {
		t.Parallel()
		wrapped := fmt.Errorf("dispatch: %w", Errf(KindNotFound, "File not found: x"))
		kind, ok := KindOf(wrapped)
		require.True(t, ok)
		assert.Equal(t, KindNotFound, kind)
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()
		_, ok := KindOf(errors.New("plain"))
		assert.False(t, ok)
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		_, ok := KindOf(nil)
		assert.False(t, ok)
	})
}
