package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/shared"
)

// AudioRepository implements models.Repository[*models.CachedAudio] for the
// offline library cache.
//
// Cached rows mirror the server's audio list. ReplaceAll rewrites the mirror
// from an authoritative fetch; soft deletes keep rows around for debugging
// without surfacing them in listings.
type AudioRepository struct {
	db *sql.DB
}

// NewAudioRepository creates a new AudioRepository with the given database connection
func NewAudioRepository(db *sql.DB) *AudioRepository {
	return &AudioRepository{db: db}
}

// Create inserts a new [models.CachedAudio] into the database with generated ID and sequence
func (r *AudioRepository) Create(audio *models.CachedAudio) error {
	sequence, err := NextSequence(r.db, "audios")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	audio.SetID(id)

	if err := audio.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO audios (id, sequence, audio_id, filename, server_created_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		audio.AudioID(),
		audio.Filename(),
		audio.ServerAt(),
		audio.CreatedAt(),
		audio.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audio: %w", err)
	}

	return nil
}

// Get retrieves a cached audio by ID, excluding soft-deleted rows
func (r *AudioRepository) Get(id string) (*models.CachedAudio, error) {
	query := `
		SELECT id, sequence, audio_id, filename, server_created_at, created_at, updated_at, deleted_at
		FROM audios
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByAudioID retrieves a cached audio by its server-side identifier
func (r *AudioRepository) GetByAudioID(audioID string) (*models.CachedAudio, error) {
	query := `
		SELECT id, sequence, audio_id, filename, server_created_at, created_at, updated_at, deleted_at
		FROM audios
		WHERE audio_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, audioID))
}

// Update modifies an existing cached audio in the database
func (r *AudioRepository) Update(audio *models.CachedAudio) error {
	if err := audio.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE audios
		SET filename = ?, server_created_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		audio.Filename(),
		audio.ServerAt(),
		now,
		audio.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update audio: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("audio not found or already deleted: %s", audio.ID())
	}

	return nil
}

// Delete soft-deletes a cached audio by ID
func (r *AudioRepository) Delete(id string) error {
	now := time.Now().UTC()

	query := `
		UPDATE audios
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete audio: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("audio not found or already deleted: %s", id)
	}

	return nil
}

// DeleteByAudioID soft-deletes a cached audio by its server-side identifier
func (r *AudioRepository) DeleteByAudioID(audioID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE audios
		SET deleted_at = ?
		WHERE audio_id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, audioID)
	if err != nil {
		return fmt.Errorf("failed to delete audio: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("audio not found or already deleted: %s", audioID)
	}

	return nil
}

// List retrieves all cached audios matching the given criteria, excluding soft-deleted rows
func (r *AudioRepository) List(criteria map[string]any) ([]*models.CachedAudio, error) {
	query := `
		SELECT id, sequence, audio_id, filename, server_created_at, created_at, updated_at, deleted_at
		FROM audios
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if audioID, ok := criteria["audio_id"].(string); ok && audioID != "" {
		query += " AND audio_id = ?"
		args = append(args, audioID)
	}

	if filename, ok := criteria["filename"].(string); ok && filename != "" {
		query += " AND filename = ?"
		args = append(args, filename)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audios: %w", err)
	}
	defer rows.Close()

	var audios []*models.CachedAudio
	for rows.Next() {
		audio, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		audios = append(audios, audio)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return audios, nil
}

// ReplaceAll rewrites the cache mirror from an authoritative server listing.
//
// Rows absent from the listing are soft-deleted, existing rows are updated in
// place, and new rows are inserted. The whole swap runs in one transaction so
// readers never observe a half-replaced mirror.
func (r *AudioRepository) ReplaceAll(records []models.AudioRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	keep := make(map[string]bool, len(records))
	for _, record := range records {
		keep[record.AudioID] = true
	}

	rows, err := tx.Query(`SELECT audio_id FROM audios WHERE deleted_at IS NULL`)
	if err != nil {
		return fmt.Errorf("failed to query existing audios: %w", err)
	}

	existing := map[string]bool{}
	for rows.Next() {
		var audioID string
		if err := rows.Scan(&audioID); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan audio_id: %w", err)
		}
		existing[audioID] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	for audioID := range existing {
		if keep[audioID] {
			continue
		}
		_, err := tx.Exec(`UPDATE audios SET deleted_at = ? WHERE audio_id = ? AND deleted_at IS NULL`, now, audioID)
		if err != nil {
			return fmt.Errorf("failed to prune audio %s: %w", audioID, err)
		}
	}

	for _, record := range records {
		if existing[record.AudioID] {
			_, err := tx.Exec(
				`UPDATE audios SET filename = ?, server_created_at = ?, updated_at = ? WHERE audio_id = ? AND deleted_at IS NULL`,
				record.Filename, record.CreatedAt, now, record.AudioID,
			)
			if err != nil {
				return fmt.Errorf("failed to refresh audio %s: %w", record.AudioID, err)
			}
			continue
		}

		// audio_id is UNIQUE across live and soft-deleted rows, so a record
		// that returns after a prune resurrects its old row instead of
		// inserting a duplicate.
		result, err := tx.Exec(
			`UPDATE audios SET filename = ?, server_created_at = ?, updated_at = ?, deleted_at = NULL WHERE audio_id = ?`,
			record.Filename, record.CreatedAt, now, record.AudioID,
		)
		if err != nil {
			return fmt.Errorf("failed to restore audio %s: %w", record.AudioID, err)
		}
		if restored, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		} else if restored > 0 {
			continue
		}

		var sequence int
		sequenceTable := "audios_sequence"
		if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
			return fmt.Errorf("failed to increment sequence: %w", err)
		}
		if err := tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence); err != nil {
			return fmt.Errorf("failed to get sequence value: %w", err)
		}

		audio := models.NewCachedAudio(sequence, record)
		audio.SetID(shared.GenerateID())
		if err := audio.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		_, err = tx.Exec(
			`INSERT INTO audios (id, sequence, audio_id, filename, server_created_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			audio.ID(), sequence, audio.AudioID(), audio.Filename(), audio.ServerAt(), audio.CreatedAt(), audio.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert audio %s: %w", record.AudioID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace transaction: %w", err)
	}

	return nil
}

// Records returns the cached listing converted back to server-shaped records,
// ordered by local sequence.
func (r *AudioRepository) Records() ([]models.AudioRecord, error) {
	audios, err := r.List(map[string]any{})
	if err != nil {
		return nil, err
	}

	records := make([]models.AudioRecord, 0, len(audios))
	for _, audio := range audios {
		records = append(records, audio.Record())
	}
	return records, nil
}

// scanOne scans a single [sql.Row] into a [models.CachedAudio]
func (r *AudioRepository) scanOne(row *sql.Row) (*models.CachedAudio, error) {
	var (
		id        string
		sequence  int
		audioID   string
		filename  string
		serverAt  string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &audioID, &filename, &serverAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: audio not found", shared.ErrAudioNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan audio: %w", err)
	}

	return restore(id, sequence, audioID, filename, serverAt, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a result-set row into a [models.CachedAudio]
func (r *AudioRepository) scanRow(rows *sql.Rows) (*models.CachedAudio, error) {
	var (
		id        string
		sequence  int
		audioID   string
		filename  string
		serverAt  string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &audioID, &filename, &serverAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan audio row: %w", err)
	}

	return restore(id, sequence, audioID, filename, serverAt, createdAt, updatedAt, deletedAt), nil
}

func restore(id string, sequence int, audioID, filename, serverAt string, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.CachedAudio {
	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}
	return models.RestoreCachedAudio(id, sequence, audioID, filename, serverAt, createdAt, updatedAt, deleted)
}
