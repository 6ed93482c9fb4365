package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lysn-labs/lysn-cli/internal/library"
)

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.uploader.Phase() != library.PhaseUploading {
			m.uploader.Reset()
			m.view = LibraryView
		}
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.uploadPath.Value())
		if path == "" {
			return m, nil
		}
		if err := m.uploader.Stage(path); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		return m, func() tea.Msg {
			return uploadDoneMsg{err: m.uploader.Submit(m.ctx)}
		}
	}

	var cmd tea.Cmd
	m.uploadPath, cmd = m.uploadPath.Update(msg)
	return m, cmd
}

func (m *Model) renderUpload() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Upload a PDF"))
	b.WriteString("\n\n")

	switch m.uploader.Phase() {
	case library.PhaseUploading:
		b.WriteString(fmt.Sprintf("Uploading %s...\n", m.uploader.Staged()))
		b.WriteString(styles.help.Render("Converting your document to audio, this can take a moment.") + "\n")

	case library.PhaseSuccess:
		b.WriteString(styles.ok.Render("✓ Upload complete") + "\n\n")
		b.WriteString(fmt.Sprintf("Audio ID: %s\n", m.uploader.AudioID()))
		b.WriteString(styles.help.Render("Returning to your library...") + "\n")

	case library.PhaseError:
		b.WriteString(styles.err.Render("Upload failed: "+m.uploader.Err()) + "\n\n")
		b.WriteString("File\n" + m.uploadPath.View() + "\n")
		b.WriteString(styles.help.Render("enter: retry • esc: back") + "\n")

	default:
		b.WriteString("File\n" + m.uploadPath.View() + "\n")
		if errMsg := m.uploader.Err(); errMsg != "" {
			b.WriteString("\n" + styles.err.Render(errMsg) + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + styles.err.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit}))
	return b.String()
}
