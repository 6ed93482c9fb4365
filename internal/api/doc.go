// Package api implements the typed HTTP client for the Lysn backend.
//
// The client's contract with the backend mirrors the external interface of
// the product's web client:
//
//   - auth: OTP request/verify, password login, password set/reset, profile
//     fetch, logout, Google login URL
//   - audio: list, playable URL, delete, download
//   - pdf: upload for conversion
//
// Every call either resolves with a typed payload or fails with an [Error]
// carrying the backend's human-readable message. Callers treat any rejection
// as a failure to display and any resolution as authoritative new state,
// never inferring partial success.
//
// Session tokens are opaque: the client stores one (optionally persisted to
// ~/.lysn/session.json) and passes it back on authenticated calls.
package api
