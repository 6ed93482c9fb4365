package models

import (
	"fmt"
	"time"
)

var _ Model = (*CachedAudio)(nil)

// CachedAudio is a locally persisted copy of an [AudioRecord] so the library
// can be listed without the network.
//
// Rows mirror server state: they are replaced wholesale on every successful
// list fetch and soft-deleted when the server record is gone.
type CachedAudio struct {
	id        string
	sequence  int
	audioID   string
	filename  string
	serverAt  string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedAudio builds a cache row from a server record.
func NewCachedAudio(sequence int, record AudioRecord) *CachedAudio {
	now := time.Now().UTC()
	return &CachedAudio{
		sequence:  sequence,
		audioID:   record.AudioID,
		filename:  record.Filename,
		serverAt:  record.CreatedAt,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreCachedAudio rebuilds a row from database columns.
func RestoreCachedAudio(id string, sequence int, audioID, filename, serverAt string, createdAt, updatedAt time.Time, deletedAt *time.Time) *CachedAudio {
	return &CachedAudio{
		id:        id,
		sequence:  sequence,
		audioID:   audioID,
		filename:  filename,
		serverAt:  serverAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (c *CachedAudio) ID() string           { return c.id }
func (c *CachedAudio) SetID(id string)      { c.id = id }
func (c *CachedAudio) Sequence() int        { return c.sequence }
func (c *CachedAudio) AudioID() string      { return c.audioID }
func (c *CachedAudio) Filename() string     { return c.filename }
func (c *CachedAudio) ServerAt() string     { return c.serverAt }
func (c *CachedAudio) CreatedAt() time.Time { return c.createdAt }
func (c *CachedAudio) UpdatedAt() time.Time { return c.updatedAt }
func (c *CachedAudio) DeletedAt() *time.Time {
	return c.deletedAt
}

// Validate checks required fields before persistence.
func (c *CachedAudio) Validate() error {
	if c.id == "" {
		return fmt.Errorf("cached audio missing id")
	}
	if c.audioID == "" {
		return fmt.Errorf("cached audio missing audio_id")
	}
	if c.filename == "" {
		return fmt.Errorf("cached audio missing filename")
	}
	return nil
}

// Record converts the cache row back to the server-shaped [AudioRecord].
func (c *CachedAudio) Record() AudioRecord {
	return AudioRecord{
		AudioID:   c.audioID,
		Filename:  c.filename,
		CreatedAt: c.serverAt,
	}
}
