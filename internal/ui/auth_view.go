package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lysn-labs/lysn-cli/internal/auth"
	"github.com/lysn-labs/lysn-cli/internal/shared"
)

// activeFields returns the text inputs visible for the current mode and
// step, in focus order.
func (m *Model) activeFields() []*textinput.Model {
	switch m.flow.Step() {
	case auth.StepEmail:
		switch m.flow.Mode() {
		case auth.ModeLogin:
			return []*textinput.Model{&m.inputs.email, &m.inputs.password}
		case auth.ModeSignup:
			return []*textinput.Model{&m.inputs.email, &m.inputs.name}
		default:
			return []*textinput.Model{&m.inputs.email}
		}
	case auth.StepOTP:
		return []*textinput.Model{&m.inputs.otp}
	case auth.StepSetPassword:
		if m.flow.Mode() == auth.ModeForgotPassword {
			return []*textinput.Model{&m.inputs.newPassword}
		}
		return []*textinput.Model{&m.inputs.oldPassword, &m.inputs.newPassword}
	default:
		return nil
	}
}

// syncFocus re-focuses the first field of the current step.
func (m *Model) syncFocus() {
	m.focus = 0
	fields := m.activeFields()
	for i, field := range fields {
		if i == 0 {
			field.Focus()
		} else {
			field.Blur()
		}
	}
}

func (m *Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.activeFields()

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab", "shift+tab", "down", "up":
		if len(fields) < 2 {
			break
		}
		fields[m.focus].Blur()
		if msg.String() == "shift+tab" || msg.String() == "up" {
			m.focus = (m.focus + len(fields) - 1) % len(fields)
		} else {
			m.focus = (m.focus + 1) % len(fields)
		}
		fields[m.focus].Focus()
		return m, nil

	case "esc":
		if m.flow.Step() == auth.StepOTP {
			m.flow.BackToEmail()
			m.syncFocus()
		}
		return m, nil

	case "ctrl+t":
		switch m.flow.Mode() {
		case auth.ModeLogin:
			m.flow.SwitchMode(auth.ModeSignup)
		case auth.ModeSignup:
			m.flow.SwitchMode(auth.ModeForgotPassword)
		default:
			m.flow.SwitchMode(auth.ModeLogin)
		}
		m.clearAuthInputs()
		m.syncFocus()
		m.status = ""
		return m, nil

	case "ctrl+o":
		if m.flow.Mode() == auth.ModeLogin && m.flow.Step() == auth.StepEmail {
			m.flow.SwitchToOTPLogin()
			m.syncFocus()
		}
		return m, nil

	case "ctrl+r":
		if m.flow.Step() == auth.StepOTP && m.flow.CanResend() {
			m.inputs.otp.SetValue("")
			return m, m.resendCmd()
		}
		return m, nil

	case "enter":
		return m, m.submitCmd()
	}

	if len(fields) > 0 && m.focus < len(fields) {
		var cmd tea.Cmd
		*fields[m.focus], cmd = fields[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// submitCmd dispatches the current step's operation.
func (m *Model) submitCmd() tea.Cmd {
	switch m.flow.Step() {
	case auth.StepEmail:
		m.flow.SetFields(
			strings.TrimSpace(m.inputs.email.Value()),
			strings.TrimSpace(m.inputs.name.Value()),
			m.inputs.password.Value(),
		)
		if m.flow.Mode() == auth.ModeLogin {
			return func() tea.Msg { return authResultMsg{err: m.flow.Login(m.ctx)} }
		}
		return func() tea.Msg { return authResultMsg{err: m.flow.SubmitEmail(m.ctx)} }

	case auth.StepOTP:
		m.flow.SetOTP(strings.TrimSpace(m.inputs.otp.Value()))
		return func() tea.Msg { return authResultMsg{err: m.flow.VerifyOTP(m.ctx)} }

	case auth.StepSetPassword:
		m.flow.SetPasswords(m.inputs.oldPassword.Value(), m.inputs.newPassword.Value())
		return func() tea.Msg { return authResultMsg{err: m.flow.SubmitPassword(m.ctx)} }
	}
	return nil
}

func (m *Model) resendCmd() tea.Cmd {
	return func() tea.Msg { return authResultMsg{err: m.flow.ResendOTP(m.ctx)} }
}

func (m *Model) clearAuthInputs() {
	m.inputs.email.SetValue("")
	m.inputs.name.SetValue("")
	m.inputs.password.SetValue("")
	m.inputs.otp.SetValue("")
	m.inputs.oldPassword.SetValue("")
	m.inputs.newPassword.SetValue("")
}

func (m *Model) renderAuth() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(m.authTitle()))
	b.WriteString("\n\n")

	switch m.flow.Step() {
	case auth.StepEmail:
		b.WriteString("Email\n" + m.inputs.email.View() + "\n\n")
		switch m.flow.Mode() {
		case auth.ModeLogin:
			b.WriteString("Password\n" + m.inputs.password.View() + "\n\n")
			b.WriteString(styles.help.Render("ctrl+o: email me a code instead • ctrl+t: switch mode") + "\n")
		case auth.ModeSignup:
			b.WriteString("Name (optional)\n" + m.inputs.name.View() + "\n\n")
			b.WriteString(styles.help.Render("ctrl+t: switch mode") + "\n")
		default:
			b.WriteString(styles.help.Render("We'll email you a reset code • ctrl+t: switch mode") + "\n")
		}

	case auth.StepOTP:
		b.WriteString(fmt.Sprintf("Enter the code sent to %s\n\n", m.flow.Email()))
		b.WriteString(m.inputs.otp.View() + "\n\n")
		if m.flow.CanResend() {
			b.WriteString(styles.warn.Render("Didn't get it? Press ctrl+r to resend.") + "\n")
		} else {
			b.WriteString(styles.help.Render(
				fmt.Sprintf("Resend available in %s", shared.FormatCountdown(m.flow.CountdownRemaining())),
			) + "\n")
		}
		b.WriteString(styles.help.Render("esc: change email") + "\n")

	case auth.StepSetPassword:
		if m.flow.Mode() == auth.ModeForgotPassword {
			b.WriteString("Choose a new password\n\n")
		} else {
			if m.flow.IsNewUser() {
				b.WriteString("Welcome! Set a password for your new account.\n\n")
			}
			b.WriteString("Temporary password\n" + m.inputs.oldPassword.View() + "\n\n")
		}
		b.WriteString("New password\n" + m.inputs.newPassword.View() + "\n")

	case auth.StepSuccess:
		b.WriteString(styles.ok.Render("✓ Signed in") + "\n\n")
		b.WriteString("Taking you to your library...\n")
	}

	if errMsg := m.flow.Err(); errMsg != "" {
		b.WriteString("\n" + styles.err.Render(errMsg) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + styles.warn.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit}))
	return b.String()
}

func (m *Model) authTitle() string {
	switch m.flow.Mode() {
	case auth.ModeSignup:
		return "Create your Lysn account"
	case auth.ModeForgotPassword:
		return "Reset your password"
	default:
		return "Sign in to Lysn"
	}
}
