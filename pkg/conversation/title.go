package conversation

import "strings"

const TitleMaxRunes = 20

// BootstrapTitle derives a session title from the first user message.
// Truncation counts runes so multi-byte text is never split mid-character.
func BootstrapTitle(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= TitleMaxRunes {
		return text
	}
	return string(runes[:TitleMaxRunes]) + "..."
}
