// Package prompts implements the prompt override domain for taxon.
// It provides types, an in-memory store, and HTTP handlers for replacing
// the instructions sent to the LLM classifier per stage.
package prompts

import "time"

// MaxInstructions bounds the size of an override in bytes.
const MaxInstructions = 16 << 10

// Prompt is the effective instructions of a stage.
type Prompt struct {
	Stage        Stage      `json:"stage"`
	Instructions string     `json:"instructions"`
	Override     bool       `json:"override"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// OverrideCommand carries replacement instructions for a stage.
type OverrideCommand struct {
	Instructions string `json:"instructions"`
}
