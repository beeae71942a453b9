package conversation

import (
	"fmt"
	"strings"

	"wspace-be/pkg/llm"
)

const Persona = `You are Ares, the assistant inside Wspace, a workspace for notes and documents.
Answer clearly and concisely in the language the user writes in.
If the question needs fresh information from the web that you do not have, say so briefly and set needsWebSearch to true.`

type Source struct {
	Title   string
	Link    string
	Snippet string
}

type PromptInput struct {
	History []Turn // prior turns, oldest first
	Sources []Source
	Message string
}

// BuildPrompt renders persona, the last PromptWindow turns, search sources and the current message.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString(Persona)
	b.WriteString("\n\n")

	recent := Window(Window(in.History, HistoryWindow), PromptWindow)
	if len(recent) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, t := range recent {
			fmt.Fprintf(&b, "%s: %s\n", speaker(t.Role), t.Content)
		}
		b.WriteString("\n")
	}

	if len(in.Sources) > 0 {
		b.WriteString("Web search results:\n")
		for i, s := range in.Sources {
			fmt.Fprintf(&b, "[%d] %s\n%s\n", i+1, s.Title, s.Snippet)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "User: %s\nAssistant:", in.Message)
	return b.String()
}

func speaker(role string) string {
	if role == "assistant" {
		return "Assistant"
	}
	return "User"
}

// Reply is the structured output every chat turn asks for.
type Reply struct {
	Content        string `json:"content"`
	NeedsWebSearch bool   `json:"needsWebSearch"`
}

var ReplySchema = llm.JSONSchema{
	Name:        "chat_reply",
	Description: "Assistant reply and whether a web search would improve it",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content":        map[string]any{"type": "string"},
			"needsWebSearch": map[string]any{"type": "boolean"},
		},
		"required":             []string{"content", "needsWebSearch"},
		"additionalProperties": false,
	},
}
