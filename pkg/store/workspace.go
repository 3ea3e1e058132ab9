package store

// Message is one turn of the transient conversation buffer
type Message struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// AnalysisNote is the output of one preliminary analysis pass. It feeds the
// final model prompt and never surfaces as a chat message.
type AnalysisNote struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// SamplingConfig holds the generation parameters for the active activity.
// It is reset to the type defaults on every selection.
type SamplingConfig struct {
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	MaxTokens         int     `json:"max_tokens"`
	SystemInstruction string  `json:"system_instruction"`
}

// Workspace represents the active per-clinician editing state in memory
type Workspace struct {
	UserID string `json:"user_id"`

	// THE SELECTION (which activity the clinician is looking at)
	ActiveActivityID string `json:"active_activity_id"`
	ActivityType     string `json:"activity_type"`

	// Sampling parameters for the active activity type
	Sampling SamplingConfig `json:"sampling"`

	// THE BUFFER (transient conversation shown in the UI). It only ever
	// holds messages belonging to ActiveActivityID.
	Buffer []Message `json:"buffer"`
}

// ClearBuffer empties the transient conversation buffer.
func (w *Workspace) ClearBuffer() {
	w.Buffer = nil
}

// AppendMessage adds one turn to the buffer.
func (w *Workspace) AppendMessage(role, content string) {
	w.Buffer = append(w.Buffer, Message{Role: role, Content: content})
}
