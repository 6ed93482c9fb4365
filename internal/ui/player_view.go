package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		// back to the library with the player still open
		m.view = LibraryView
		return m, nil
	case "x":
		m.player.Close()
		m.view = LibraryView
		return m, nil
	case "n":
		m.player.Next()
		return m, nil
	case "p":
		m.player.Previous()
		return m, nil
	}
	return m, nil
}

func (m *Model) renderPlayer() string {
	track := m.player.Current()
	if track == nil {
		m.view = LibraryView
		return m.renderLibrary()
	}

	title := styles.title.Render("Now Playing")
	info := fmt.Sprintf("\n%s\n\n%s\n", styles.ok.Render(track.Title), styles.help.Render(track.URL))

	position := fmt.Sprintf("Track %d of %d", m.player.Index()+1, len(m.library.Records()))

	var nav string
	if m.player.HasPrevious() {
		nav += "p: previous  "
	}
	if m.player.HasNext() {
		nav += "n: next  "
	}

	footer := m.help.ShortHelpView([]key.Binding{m.keys.close, m.keys.back, m.keys.quit})
	if nav != "" {
		footer = styles.help.Render(nav) + "\n" + footer
	}

	return fmt.Sprintf("%s%s\n%s\n\n%s", title, info, position, footer)
}
