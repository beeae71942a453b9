// Package conversation turns persisted chat history into a single LLM prompt.
package conversation

const (
	// HistoryWindow is how many prior messages are loaded for a turn.
	HistoryWindow = 10
	// PromptWindow is how many of those are interpolated into the prompt.
	PromptWindow = 5
)

type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Window keeps the most recent n turns of an oldest-first history.
func Window(history []Turn, n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
