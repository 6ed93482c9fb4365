// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow around the Lysn library:
//  1. [AuthView] : Sign in, sign up, or reset a password through the step wizard
//  2. [LibraryView] : Browse, filter, and delete generated audios
//  3. [PlayerView] : Playback context for the selected audio with playlist navigation
//  4. [UploadView] : Stage and submit a PDF for conversion
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// The OTP resend countdown ticks through timed messages, and the success screen
// redirects to the library after a short delay.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
