// Package player holds the shared playback state: which audio record is
// open, its position in the active playlist, and the stream URL handed
// to whatever renders it. State changes go through Play and Close so
// every consumer observes the same track.
package player

import (
	"sync"

	"github.com/lysn-labs/lysn-cli/internal/models"
)

// Track is the resolved form of an audio record ready for playback.
// URL is the stream endpoint after source preference has been applied
// and Title is the display name after filename preference.
type Track struct {
	Record models.AudioRecord
	URL    string
	Title  string
}

// Player tracks the open audio and its playlist position. The zero
// value is a closed player. Safe for concurrent use.
type Player struct {
	mu       sync.Mutex
	current  *Track
	index    int
	playlist []models.AudioRecord
}

func New() *Player {
	return &Player{index: -1}
}

// Play opens record at position index within playlist, replacing
// whatever was open before. The playlist is copied so later mutations
// by the caller do not shift Next and Previous targets. An index outside
// the playlist is clamped so navigation stays on real entries.
func (p *Player) Play(record models.AudioRecord, index int, playlist []models.AudioRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case len(playlist) == 0:
		index = 0
	case index < 0:
		index = 0
	case index > len(playlist)-1:
		index = len(playlist) - 1
	}

	p.current = &Track{
		Record: record,
		URL:    record.StreamURL(),
		Title:  record.DisplayTitle(),
	}
	p.index = index
	p.playlist = make([]models.AudioRecord, len(playlist))
	copy(p.playlist, playlist)
}

// Close clears the open track. Closing an already closed player is a
// no-op.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = nil
	p.index = -1
	p.playlist = nil
}

// Current returns the open track, or nil when the player is closed.
func (p *Player) Current() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil
	}
	track := *p.current
	return &track
}

// Open reports whether a track is loaded.
func (p *Player) Open() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current != nil
}

// Index returns the playlist position of the open track, -1 when
// closed.
func (p *Player) Index() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.index
}

func (p *Player) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current != nil && p.index < len(p.playlist)-1
}

func (p *Player) HasPrevious() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.current != nil && p.index > 0
}

// Next advances to the following playlist entry. At the end of the
// playlist, or with no track open, it does nothing and reports false.
func (p *Player) Next() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.index >= len(p.playlist)-1 {
		return false
	}
	p.advance(p.index + 1)
	return true
}

// Previous steps back to the preceding playlist entry. At the start,
// or with no track open, it does nothing and reports false.
func (p *Player) Previous() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil || p.index <= 0 {
		return false
	}
	p.advance(p.index - 1)
	return true
}

// advance repoints current at playlist[i]. Callers hold the lock.
func (p *Player) advance(i int) {
	record := p.playlist[i]
	p.current = &Track{
		Record: record,
		URL:    record.StreamURL(),
		Title:  record.DisplayTitle(),
	}
	p.index = i
}
