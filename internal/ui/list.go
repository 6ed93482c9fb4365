package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/lysn-labs/lysn-cli/internal/models"
)

var _ list.Item = audioItem{}

// audioItem wraps [models.AudioRecord] to implement [list.Item].
type audioItem struct {
	record   models.AudioRecord
	pending  bool
	deleting bool
}

func (i audioItem) FilterValue() string { return i.record.DisplayTitle() }
func (i audioItem) Title() string {
	if i.deleting {
		return fmt.Sprintf("%s (deleting...)", i.record.DisplayTitle())
	}
	if i.pending {
		return fmt.Sprintf("%s (delete? y/n)", i.record.DisplayTitle())
	}
	return i.record.DisplayTitle()
}
func (i audioItem) Description() string {
	if i.record.CreatedAt != "" {
		return i.record.CreatedAt
	}
	return i.record.AudioID
}
