package store

import (
	"sync"
	"time"
)

// defaultRedirectDelay gives the shopper time to read the confirmation
// before the sign-in redirect fires.
const defaultRedirectDelay = 3 * time.Second

// ActivationState is the phase of the account-activation view.
type ActivationState int

const (
	// ActivationLoading is the initial phase while the activation call runs.
	ActivationLoading ActivationState = iota
	// ActivationSuccess is terminal; a redirect to the sign-in page follows.
	ActivationSuccess
	// ActivationError is terminal; the shopper retries from their email link.
	ActivationError
)

// ActivationView models the activation landing page: it starts loading,
// resolves exactly once to success or error, and on success schedules a
// redirect after a short delay so the shopper can read the confirmation.
type ActivationView struct {
	mu       sync.Mutex
	state    ActivationState
	err      error
	delay    time.Duration
	redirect func()
	timer    *time.Timer
}

// NewActivationView creates a view in the loading state. The redirect
// callback fires delay after a successful resolution unless Close runs first.
// Zero means the default of 3s.
func NewActivationView(delay time.Duration, redirect func()) *ActivationView {
	if delay <= 0 {
		delay = defaultRedirectDelay
	}
	return &ActivationView{delay: delay, redirect: redirect}
}

// Resolve moves the view out of loading. Calls after the first are ignored;
// the terminal states never transition again.
func (v *ActivationView) Resolve(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != ActivationLoading {
		return
	}
	if err != nil {
		v.state = ActivationError
		v.err = err
		return
	}
	v.state = ActivationSuccess
	if v.redirect != nil {
		v.timer = time.AfterFunc(v.delay, v.redirect)
	}
}

// State returns the current phase.
func (v *ActivationView) State() ActivationState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the resolution error, if any.
func (v *ActivationView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Close cancels a scheduled redirect. Leaving the page before the delay
// elapses must not navigate the shopper later.
func (v *ActivationView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}
