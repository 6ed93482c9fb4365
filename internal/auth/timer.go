package auth

// OTPWindow is the resend countdown in whole seconds (5 minutes).
const OTPWindow = 300

// Countdown is the one-second-resolution resend timer bound to the OTP step.
//
// Ticks are driven externally (the TUI schedules one per second) so the
// countdown itself holds no goroutine or timer to cancel: when the owning
// step goes away the caller simply stops ticking, or calls [Countdown.Stop].
type Countdown struct {
	remaining int
	canResend bool
}

// Start resets the countdown to the full window and disables resend.
func (c *Countdown) Start() {
	c.remaining = OTPWindow
	c.canResend = false
}

// Tick advances the countdown by one second and returns the remaining time.
// Reaching zero enables resend; further ticks are no-ops.
func (c *Countdown) Tick() int {
	if c.remaining <= 0 {
		return 0
	}

	c.remaining--
	if c.remaining == 0 {
		c.canResend = true
	}
	return c.remaining
}

// Stop halts the countdown without enabling resend.
func (c *Countdown) Stop() {
	c.remaining = 0
}

// Remaining returns the seconds left before resend becomes available.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Running reports whether the countdown is still ticking.
func (c *Countdown) Running() bool {
	return c.remaining > 0
}

// CanResend reports whether the resend control is enabled. It becomes true
// exactly when a started countdown reaches zero.
func (c *Countdown) CanResend() bool {
	return c.canResend
}
