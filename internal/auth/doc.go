// Package auth drives the multi-step credential wizard for the Lysn client.
//
// The wizard is a step machine over (mode, step) pairs with three modes:
//
//   - signup: collect name+email, verify an emailed code, set an initial
//     password for new accounts
//   - login: collect email+password for direct login, with a switch into the
//     OTP-based signup flow for passwordless login
//   - forgot-password: collect email, verify a reset code, set a new password
//
// Only the combinations a mode can reach are producible through the exposed
// transitions; there is no way to assemble an illegal pair from outside.
// All verification is deferred to the backend: the machine stores whatever
// failure message the API returned and never advances on a failed call.
//
// [Countdown] implements the five-minute resend window for emailed codes.
package auth
