package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchLibrary Phase = iota
	SaveAudio
)

func (p Phase) String() string {
	switch p {
	case FetchLibrary:
		return "fetch_library"
	case SaveAudio:
		return "save_audio"
	default:
		return ""
	}
}

func fetchingLibraryUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    1,
		Total:   1,
		Message: "Fetching audio library...",
	}
}

func savingAudioUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveAudio,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Saving: %s...", step, total, title),
	}
}

func saveCompletedUpdate(step, total int, title string, bytes int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveAudio,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d bytes)", step, total, title, bytes),
	}
}

func saveFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveAudio,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}
