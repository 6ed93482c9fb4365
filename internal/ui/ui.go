package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lysn-labs/lysn-cli/internal/auth"
	"github.com/lysn-labs/lysn-cli/internal/library"
	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/player"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AuthView ViewState = iota
	LibraryView
	PlayerView
	UploadView
)

// successRedirectDelay is how long the auth success screen stays up
// before moving to the library.
const successRedirectDelay = 2 * time.Second

// ModelOpts carries the dependencies for NewModel.
type ModelOpts struct {
	Flow     *auth.Flow
	Library  *library.Manager
	Uploader *library.Uploader
	Player   *player.Player

	// SaveSession persists the session after a successful sign-in.
	// Optional.
	SaveSession func(*models.Session) error

	// Authenticated starts the TUI at the library instead of the
	// sign-in wizard.
	Authenticated bool
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	flow     *auth.Flow
	library  *library.Manager
	uploader *library.Uploader
	player   *player.Player

	saveSession func(*models.Session) error

	width  int
	height int

	audioList list.Model
	listReady bool
	pendingID string

	// tickGen is the generation of the live countdown tick chain.
	// Ticks from older chains are discarded.
	tickGen int

	inputs authInputs
	focus  int

	uploadPath textinput.Model

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// authInputs holds the text fields of the sign-in wizard.
type authInputs struct {
	email       textinput.Model
	name        textinput.Model
	password    textinput.Model
	otp         textinput.Model
	oldPassword textinput.Model
	newPassword textinput.Model
}

type authResultMsg struct{ err error }

type libraryLoadedMsg struct{ err error }

type deleteDoneMsg struct{ err error }

type uploadDoneMsg struct{ err error }

// countdownTickMsg carries the generation of the tick chain that
// scheduled it, so a tick left over from an abandoned OTP step cannot
// drive a fresh countdown alongside the new chain.
type countdownTickMsg struct{ gen int }

type successTimeoutMsg struct{}

type uploadResetMsg struct{}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	m := &Model{
		ctx:         ctx,
		view:        AuthView,
		flow:        opts.Flow,
		library:     opts.Library,
		uploader:    opts.Uploader,
		player:      opts.Player,
		saveSession: opts.SaveSession,
		help:        help.New(),
		keys:        newKeyMap(),
	}
	if opts.Authenticated {
		m.view = LibraryView
	}

	m.inputs.email = newInput("you@example.com", 0)
	m.inputs.name = newInput("Name", 0)
	m.inputs.password = newInput("Password", '•')
	m.inputs.otp = newInput("6-digit code", 0)
	m.inputs.otp.CharLimit = 6
	m.inputs.oldPassword = newInput("Temporary password", '•')
	m.inputs.newPassword = newInput("New password", '•')
	m.inputs.email.Focus()

	m.uploadPath = newInput("/path/to/document.pdf", 0)

	return m
}

func newInput(placeholder string, echo rune) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	if echo != 0 {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = echo
	}
	return in
}

// Init starts the TUI, fetching the library when already signed in.
func (m *Model) Init() tea.Cmd {
	if m.view == LibraryView {
		return m.refreshLibrary()
	}
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.audioList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case AuthView:
			return m.handleAuthKeys(msg)
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case PlayerView:
			return m.handlePlayerKeys(msg)
		case UploadView:
			return m.handleUploadKeys(msg)
		}

	case authResultMsg:
		return m.handleAuthResult(msg)

	case countdownTickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		if m.view == AuthView && m.flow.Step() == auth.StepOTP && m.flow.CountdownRemaining() > 0 {
			if m.flow.TickCountdown() > 0 {
				return m, m.tickCountdown()
			}
		}
		return m, nil

	case successTimeoutMsg:
		if session := m.flow.Session(); session != nil && m.saveSession != nil {
			if err := m.saveSession(session); err != nil {
				m.status = "Warning: could not persist session"
			}
		}
		m.view = LibraryView
		return m, m.refreshLibrary()

	case libraryLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.rebuildList()
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.status = "Delete failed: " + msg.err.Error()
		} else {
			m.status = "Audio deleted"
		}
		m.rebuildList()
		return m, nil

	case uploadDoneMsg:
		if msg.err != nil {
			m.status = ""
			return m, nil
		}
		return m, tea.Tick(successRedirectDelay, func(time.Time) tea.Msg {
			return uploadResetMsg{}
		})

	case uploadResetMsg:
		m.uploader.Reset()
		m.uploadPath.SetValue("")
		m.view = LibraryView
		return m, m.refreshLibrary()
	}

	if m.view == LibraryView && m.listReady {
		var cmd tea.Cmd
		m.audioList, cmd = m.audioList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case AuthView:
		return m.renderAuth()
	case LibraryView:
		return m.renderLibrary()
	case PlayerView:
		return m.renderPlayer()
	case UploadView:
		return m.renderUpload()
	default:
		return ""
	}
}

// handleAuthResult reacts to a finished auth operation: starting the
// countdown on the OTP step, scheduling the library redirect on
// success, or surfacing the reset-complete notice.
func (m *Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.syncFocus()

	if msg.err != nil {
		if m.flow.Err() == "" {
			m.status = msg.err.Error()
		}
		return m, nil
	}

	m.status = ""
	switch m.flow.Step() {
	case auth.StepOTP:
		m.tickGen++
		return m, m.tickCountdown()
	case auth.StepSuccess:
		return m, tea.Tick(successRedirectDelay, func(time.Time) tea.Msg {
			return successTimeoutMsg{}
		})
	case auth.StepEmail:
		// the machine reset itself after a password change
		m.status = "Password updated. Sign in with your new password."
	}
	return m, nil
}

func (m *Model) tickCountdown() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{gen: gen}
	})
}

func (m *Model) refreshLibrary() tea.Cmd {
	return func() tea.Msg {
		return libraryLoadedMsg{err: m.library.Refresh(m.ctx)}
	}
}

// rebuildList reconstructs the audio list from the manager's snapshot,
// carrying per-item delete state into the items.
func (m *Model) rebuildList() {
	records := m.library.Records()
	items := make([]list.Item, len(records))
	for i, record := range records {
		items[i] = audioItem{
			record:   record,
			pending:  m.library.PendingDelete(record.AudioID),
			deleting: m.library.Deleting(record.AudioID),
		}
	}

	if !m.listReady {
		m.audioList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.audioList.Title = "Your Library"
		m.audioList.SetSize(m.width-4, m.height-8)
		m.listReady = true
		return
	}
	m.audioList.SetItems(items)
}

// selectedRecord returns the record under the cursor and its position
// in the full listing.
func (m *Model) selectedRecord() (models.AudioRecord, int, bool) {
	if !m.listReady {
		return models.AudioRecord{}, 0, false
	}
	selected := m.audioList.SelectedItem()
	item, ok := selected.(audioItem)
	if !ok {
		return models.AudioRecord{}, 0, false
	}

	records := m.library.Records()
	for i, record := range records {
		if record.AudioID == item.record.AudioID {
			return record, i, true
		}
	}
	return models.AudioRecord{}, 0, false
}
