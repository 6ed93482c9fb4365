// package models defines the data model for the Lysn client
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the local library cache.
// Implementations include CachedAudio.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// User represents the authenticated account as reported by the Lysn API.
type User struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	AuthType   string `json:"auth_type"`
	ProfilePic string `json:"profile_pic"`
}

// AudioRecord is the server-held metadata for one generated audio narration.
//
// Records are read-only projections of server state. The backend serves them
// under either "url" or "audio_url" and either "filename" or "title" depending
// on the endpoint, so both pairs are kept and resolved via [AudioRecord.StreamURL]
// and [AudioRecord.DisplayTitle].
type AudioRecord struct {
	AudioID   string `json:"audio_id"`
	Filename  string `json:"filename"`
	Title     string `json:"title,omitempty"`
	URL       string `json:"url,omitempty"`
	AudioURL  string `json:"audio_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

// StreamURL returns the playable resource URL, preferring "url" over "audio_url".
func (a AudioRecord) StreamURL() string {
	if a.URL != "" {
		return a.URL
	}
	return a.AudioURL
}

// DisplayTitle returns the human-readable title, preferring the filename.
func (a AudioRecord) DisplayTitle() string {
	if a.Filename != "" {
		return a.Filename
	}
	return a.Title
}

// Session represents an authenticated session issued by the Lysn API.
//
// The token is opaque to the client and passed back verbatim on every
// authenticated call, the CLI analogue of the browser's session cookie.
type Session struct {
	Token string `json:"session_token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
