package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// while the list's filter input is active, all keys belong to it
	if m.listReady && m.audioList.SettingFilter() {
		var cmd tea.Cmd
		m.audioList, cmd = m.audioList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		m.status = ""
		return m, m.refreshLibrary()

	case "u":
		m.view = UploadView
		m.uploadPath.Focus()
		m.status = ""
		return m, nil

	case "d":
		if record, _, ok := m.selectedRecord(); ok {
			m.library.RequestDelete(record.AudioID)
			m.pendingID = record.AudioID
			m.rebuildList()
		}
		return m, nil

	case "y":
		if m.pendingID != "" {
			id := m.pendingID
			m.pendingID = ""
			m.rebuildList()
			return m, m.confirmDeleteCmd(id)
		}
		return m, nil

	case "n", "esc":
		if m.pendingID != "" {
			m.library.CancelDelete(m.pendingID)
			m.pendingID = ""
			m.rebuildList()
			return m, nil
		}

	case "enter":
		if record, index, ok := m.selectedRecord(); ok {
			m.player.Play(record, index, m.library.Records())
			m.view = PlayerView
		}
		return m, nil
	}

	if m.listReady {
		var cmd tea.Cmd
		m.audioList, cmd = m.audioList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) confirmDeleteCmd(audioID string) tea.Cmd {
	m.rebuildList()
	return func() tea.Msg {
		return deleteDoneMsg{err: m.library.ConfirmDelete(m.ctx, audioID)}
	}
}

func (m *Model) renderLibrary() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Could not load your library: %v", m.err)) +
			"\n\n" + styles.help.Render("r: retry • q: quit")
	}
	if !m.listReady {
		return "Loading your library..."
	}

	body := m.audioList.View()

	footer := m.help.ShortHelpView([]key.Binding{
		m.keys.play, m.keys.upload, m.keys.delete, m.keys.quit,
	})
	if m.pendingID != "" {
		footer = styles.warn.Render("Delete this audio? ") +
			m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	}

	out := fmt.Sprintf("%s\n\n%s", body, footer)
	if m.status != "" {
		out += "\n" + styles.help.Render(m.status)
	}
	return out
}
