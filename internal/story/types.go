// Package story defines the shared data model for the refinement chain:
// version records, generation preferences, and the error kinds used across
// the store, generator, and loop packages.
package story

import "time"

// Preferences are the fixed generation parameters of a refinement chain.
// They are set once when the chain starts and repeated in every prompt.
type Preferences struct {
	Theme    string   `json:"theme"`
	Genre    string   `json:"genre"`
	Tone     string   `json:"tone"`
	Elements []string `json:"elements"`
	Language string   `json:"language"` // ISO 639-1 code of the story language
}

// VersionRecord is one snapshot of a refinement iteration. Once a record has
// been scored against a later version its Content is never mutated; only
// Feedback and Rating may be attached afterwards.
type VersionRecord struct {
	Version   int       `json:"version"`
	Theme     string    `json:"theme"`
	Genre     string    `json:"genre"`
	Tone      string    `json:"tone"`
	Elements  []string  `json:"elements"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	Feedback  *string   `json:"feedback,omitempty"`
	Rating    *int      `json:"rating,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VersionContent is the (version, content) projection used for trend and
// pairwise-change analysis.
type VersionContent struct {
	Version int    `json:"version"`
	Content string `json:"content"`
}

// FeedbackEntry is one non-null feedback row, in version order.
type FeedbackEntry struct {
	Version  int    `json:"version"`
	Feedback string `json:"feedback"`
}

// GenerationEntry is one logged content-generator invocation. Failed
// invocations are logged too; they carry the version that was being
// attempted but never produce a version row.
type GenerationEntry struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	LatencyMs int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
