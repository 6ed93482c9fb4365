package auth

import (
	"context"
	"sync"

	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/shared"
)

// Mode selects which of the three credential flows the wizard is running.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
	ModeForgotPassword
)

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeSignup:
		return "signup"
	case ModeForgotPassword:
		return "forgot-password"
	default:
		return ""
	}
}

// Step is the wizard's position within the current mode.
type Step int

const (
	StepEmail Step = iota
	StepOTP
	StepSetPassword
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepEmail:
		return "email"
	case StepOTP:
		return "otp"
	case StepSetPassword:
		return "set-password"
	case StepSuccess:
		return "success"
	default:
		return ""
	}
}

// Service is the subset of the backend client the wizard drives.
type Service interface {
	RequestOTP(ctx context.Context, email, name string) error
	VerifyOTP(ctx context.Context, email, code, name string) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyPasswordReset(ctx context.Context, email, code, newPassword string) error
	SetPassword(ctx context.Context, oldPassword, newPassword string) error
	Me(ctx context.Context) (*models.User, error)
}

// Flow is the authentication step machine.
//
// Transitions hold the mutex only around state reads and writes, never across
// a network call, so the UI can render current state while a call is in
// flight. The busy flag rejects overlapping submissions: only one operation
// runs per wizard instance at a time.
//
// All verification is delegated to the backend; the machine performs no input
// validation of its own and every failure message it stores comes from the
// rejected call.
type Flow struct {
	mu  sync.Mutex
	svc Service

	mode Mode
	step Step

	email       string
	name        string
	otp         string
	password    string
	oldPassword string
	newPassword string

	errMsg    string
	isNewUser bool
	busy      bool
	countdown Countdown
	session   *models.Session
}

// NewFlow creates a wizard in its initial state: login mode, email step.
func NewFlow(svc Service) *Flow {
	return &Flow{svc: svc, mode: ModeLogin, step: StepEmail}
}

// Mode returns the active flow mode.
func (f *Flow) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Step returns the wizard's current step.
func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Err returns the inline error message from the last failed operation.
func (f *Flow) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Busy reports whether an operation is in flight.
func (f *Flow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// IsNewUser reports whether the last OTP verification identified a new
// account needing an initial password.
func (f *Flow) IsNewUser() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isNewUser
}

// Session returns the session issued by a successful login or verification.
func (f *Flow) Session() *models.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

// Email returns the email under entry.
func (f *Flow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// OTP returns the verification code under entry.
func (f *Flow) OTP() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.otp
}

// SetFields stores the email-step inputs.
func (f *Flow) SetFields(email, name, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.email = email
	f.name = name
	f.password = password
}

// SetOTP stores the entered verification code.
func (f *Flow) SetOTP(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otp = code
}

// SetPasswords stores the set-password step inputs.
func (f *Flow) SetPasswords(oldPassword, newPassword string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.oldPassword = oldPassword
	f.newPassword = newPassword
}

// CanResend reports whether the resend control is enabled.
func (f *Flow) CanResend() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countdown.CanResend()
}

// CountdownRemaining returns the resend countdown in whole seconds.
func (f *Flow) CountdownRemaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countdown.Remaining()
}

// TickCountdown advances the resend countdown by one second.
func (f *Flow) TickCountdown() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countdown.Tick()
}

// begin marks an operation in flight, failing when one already is.
func (f *Flow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return shared.ErrInFlight
	}
	f.busy = true
	f.errMsg = ""
	return nil
}

// finish records the operation outcome. A non-nil err becomes the inline
// error message unless inline is false (transient notification instead).
func (f *Flow) finish(err error, inline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil && inline {
		f.errMsg = err.Error()
	}
}

// SubmitEmail runs the email-step submission for the current mode.
//
// Signup and forgot-password request a code and advance to the OTP step with
// a fresh countdown. Failures keep the wizard on the email step.
func (f *Flow) SubmitEmail(ctx context.Context) error {
	if err := f.begin(); err != nil {
		return err
	}

	f.mu.Lock()
	mode, email, name := f.mode, f.email, f.name
	f.mu.Unlock()

	var err error
	if mode == ModeForgotPassword {
		err = f.svc.RequestPasswordReset(ctx, email)
	} else {
		err = f.svc.RequestOTP(ctx, email, name)
	}

	if err != nil {
		f.finish(err, true)
		return err
	}

	f.mu.Lock()
	f.step = StepOTP
	f.countdown.Start()
	f.mu.Unlock()
	f.finish(nil, true)
	return nil
}

// ResendOTP re-issues the code request. Permitted only once the countdown has
// reached zero; earlier calls are rejected without touching state. The
// previously entered code is cleared before the request.
func (f *Flow) ResendOTP(ctx context.Context) error {
	f.mu.Lock()
	if !f.countdown.CanResend() {
		f.mu.Unlock()
		return shared.ErrResendBlocked
	}
	f.mu.Unlock()

	if err := f.begin(); err != nil {
		return err
	}

	f.mu.Lock()
	f.otp = ""
	mode, email, name := f.mode, f.email, f.name
	f.mu.Unlock()

	var err error
	if mode == ModeForgotPassword {
		err = f.svc.RequestPasswordReset(ctx, email)
	} else {
		err = f.svc.RequestOTP(ctx, email, name)
	}

	if err != nil {
		f.finish(err, true)
		return err
	}

	f.mu.Lock()
	f.countdown.Start()
	f.mu.Unlock()
	f.finish(nil, true)
	return nil
}

// VerifyOTP runs the OTP-step submission.
//
// In forgot-password mode the code is checked against the reset endpoint and
// the wizard advances to set-password. Otherwise the code is exchanged for a
// session, then the profile fetch decides the branch: a failed fetch marks a
// new account that still needs a password, a successful one completes the
// flow. Verification failures keep the step and the entered code so it can
// be corrected.
func (f *Flow) VerifyOTP(ctx context.Context) error {
	if err := f.begin(); err != nil {
		return err
	}

	f.mu.Lock()
	mode, email, code, name := f.mode, f.email, f.otp, f.name
	f.mu.Unlock()

	if mode == ModeForgotPassword {
		if err := f.svc.VerifyPasswordReset(ctx, email, code, ""); err != nil {
			f.finish(err, true)
			return err
		}

		f.mu.Lock()
		f.step = StepSetPassword
		f.countdown.Stop()
		f.mu.Unlock()
		f.finish(nil, true)
		return nil
	}

	session, err := f.svc.VerifyOTP(ctx, email, code, name)
	if err != nil {
		f.finish(err, true)
		return err
	}

	f.mu.Lock()
	f.session = session
	f.countdown.Stop()
	f.mu.Unlock()

	// A profile fetch failing right after verification signals an account
	// that has no password yet.
	if _, err := f.svc.Me(ctx); err != nil {
		f.mu.Lock()
		f.isNewUser = true
		f.step = StepSetPassword
		f.mu.Unlock()
		f.finish(nil, true)
		return nil
	}

	f.mu.Lock()
	f.step = StepSuccess
	f.mu.Unlock()
	f.finish(nil, true)
	return nil
}

// Login runs the password login from the login-mode email step. Failures are
// reported to the caller for transient display rather than stored inline.
func (f *Flow) Login(ctx context.Context) error {
	if err := f.begin(); err != nil {
		return err
	}

	f.mu.Lock()
	email, password := f.email, f.password
	f.mu.Unlock()

	session, err := f.svc.Login(ctx, email, password)
	if err != nil {
		f.finish(err, false)
		return err
	}

	f.mu.Lock()
	f.session = session
	f.step = StepSuccess
	f.mu.Unlock()
	f.finish(nil, false)
	return nil
}

// SubmitPassword runs the set-password step.
//
// Forgot-password mode re-verifies the still-valid reset code together with
// the new password; the other modes replace the temporary password. On
// success all password fields are cleared and the machine resets to the
// login-mode email step so the user signs in with the new password.
func (f *Flow) SubmitPassword(ctx context.Context) error {
	if err := f.begin(); err != nil {
		return err
	}

	f.mu.Lock()
	mode, email, code := f.mode, f.email, f.otp
	oldPassword, newPassword := f.oldPassword, f.newPassword
	f.mu.Unlock()

	var err error
	if mode == ModeForgotPassword {
		err = f.svc.VerifyPasswordReset(ctx, email, code, newPassword)
	} else {
		err = f.svc.SetPassword(ctx, oldPassword, newPassword)
	}

	if err != nil {
		f.finish(err, true)
		return err
	}

	f.mu.Lock()
	f.mode = ModeLogin
	f.step = StepEmail
	f.oldPassword = ""
	f.newPassword = ""
	f.password = ""
	f.errMsg = ""
	f.mu.Unlock()
	f.finish(nil, true)
	return nil
}

// SwitchMode moves to the target mode's email step, clearing all collected
// fields and any error. Allowed from any state.
func (f *Flow) SwitchMode(target Mode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = target
	f.step = StepEmail
	f.email = ""
	f.name = ""
	f.otp = ""
	f.password = ""
	f.errMsg = ""
	f.countdown.Stop()
}

// SwitchToOTPLogin re-enters the OTP-based signup flow for passwordless
// login, clearing only the error.
func (f *Flow) SwitchToOTPLogin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeSignup
	f.step = StepEmail
	f.errMsg = ""
}

// BackToEmail returns from the OTP step to the email step, keeping the
// entered address for correction.
func (f *Flow) BackToEmail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepEmail
	f.countdown.Stop()
}
