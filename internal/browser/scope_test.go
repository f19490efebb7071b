package browser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_ReleaseOrderAndIndependence(t *testing.T) {
	t.Parallel()

	scope := NewScope(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var order []string
	scope.Add("context", func() error {
		order = append(order, "context")
		return nil
	})
	scope.Add("tracing", func() error {
		order = append(order, "tracing")
		return errors.New("trace write failed")
	})
	scope.Add("page", func() error {
		order = append(order, "page")
		panic("page already gone")
	})

	err := scope.Release()
	require.Error(t, err)
	assert.Equal(t, []string{"page", "tracing", "context"}, order)
	assert.Contains(t, err.Error(), "release tracing")
	assert.Contains(t, err.Error(), "release page")

	require.NoError(t, scope.Release())
	assert.Len(t, order, 3)
}

func TestScope_PartialAcquisition(t *testing.T) {
	t.Parallel()

	scope := NewScope(nil)

	released := 0
	scope.Add("context", func() error {
		released++
		return nil
	})

	require.NoError(t, scope.Release())
	assert.Equal(t, 1, released)
}

func TestSession_Bind(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := &Session{Name: "Checkout", scope: NewScope(nil)}
	ctx := s.Bind(context.Background())

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Nil(t, got.Screen())
	require.NoError(t, got.Release(false))
}
