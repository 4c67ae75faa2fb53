package store

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationView_StartsLoading(t *testing.T) {
	view := NewActivationView(time.Millisecond, nil)
	assert.Equal(t, ActivationLoading, view.State())
	assert.NoError(t, view.Err())
}

func TestActivationView_SuccessSchedulesRedirect(t *testing.T) {
	var redirected atomic.Bool
	view := NewActivationView(10*time.Millisecond, func() { redirected.Store(true) })

	view.Resolve(nil)
	assert.Equal(t, ActivationSuccess, view.State())
	assert.False(t, redirected.Load())

	require.Eventually(t, func() bool {
		return redirected.Load()
	}, time.Second, time.Millisecond)
}

func TestActivationView_ErrorIsTerminal(t *testing.T) {
	var redirected atomic.Bool
	view := NewActivationView(time.Millisecond, func() { redirected.Store(true) })

	view.Resolve(errors.New("activation link expired"))
	assert.Equal(t, ActivationError, view.State())
	assert.EqualError(t, view.Err(), "activation link expired")

	view.Resolve(nil)
	assert.Equal(t, ActivationError, view.State())

	time.Sleep(10 * time.Millisecond)
	assert.False(t, redirected.Load())
}

func TestActivationView_ResolveIsIdempotent(t *testing.T) {
	view := NewActivationView(time.Millisecond, nil)

	view.Resolve(nil)
	view.Resolve(errors.New("late failure"))

	assert.Equal(t, ActivationSuccess, view.State())
	assert.NoError(t, view.Err())
}

func TestActivationView_CloseCancelsRedirect(t *testing.T) {
	var redirected atomic.Bool
	view := NewActivationView(10*time.Millisecond, func() { redirected.Store(true) })

	view.Resolve(nil)
	view.Close()

	time.Sleep(30 * time.Millisecond)
	assert.False(t, redirected.Load())
}
