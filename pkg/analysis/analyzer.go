// Package analysis derives title, summary, category, tags and action items from free text.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"wspace-be/pkg/lexical"
	"wspace-be/pkg/llm"

	"github.com/samber/lo"
)

const (
	maxInputRunes   = 8000
	fallbackSummary = 200
	maxTags         = 8
)

var (
	categories = []string{"daily", "work", "study", "other"}
	priorities = []string{"low", "medium", "high"}
)

type Result struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Priority    string   `json:"priority"`
	ActionItems []string `json:"actionItems"`
}

var schema = llm.JSONSchema{
	Name:        "content_analysis",
	Description: "Categorization and summary of a note or document",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"summary":     map[string]any{"type": "string"},
			"category":    map[string]any{"type": "string", "enum": categories},
			"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"priority":    map[string]any{"type": "string", "enum": priorities},
			"actionItems": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []string{"title", "summary", "category", "tags", "priority", "actionItems"},
		"additionalProperties": false,
	},
}

type Analyzer struct {
	provider llm.LLMProvider
}

func NewAnalyzer(provider llm.LLMProvider) *Analyzer {
	return &Analyzer{provider: provider}
}

func prompt(title, content string) string {
	r := []rune(content)
	if len(r) > maxInputRunes {
		content = string(r[:maxInputRunes])
	}
	return fmt.Sprintf(`Analyze the following content and categorize it.
Categories: daily (personal life, routines), work (projects, meetings), study (learning, courses), other.
Write the summary in the same language as the content, at most three sentences.
Extract up to %d short lowercase tags and any concrete action items.

Title: %s

Content:
%s`, maxTags, title, content)
}

// Analyze never returns an empty Result: on error it returns Fallback(title, content)
// together with the error so the caller can mark the analysis as failed.
func (a *Analyzer) Analyze(ctx context.Context, title, content string) (Result, error) {
	content = lexical.PlainText(content)
	res, _, err := llm.GenerateStructured[Result](ctx, a.provider,
		[]llm.Message{{Role: "user", Content: prompt(title, content)}},
		schema,
		llm.WithTemperature(0.2),
	)
	if err != nil {
		return Fallback(title, content), err
	}
	return normalize(res, title), nil
}

// Fallback is the result stored when the model is unavailable or answers off-schema.
func Fallback(title, content string) Result {
	summary := strings.TrimSpace(content)
	if r := []rune(summary); len(r) > fallbackSummary {
		summary = string(r[:fallbackSummary]) + "..."
	}
	return Result{
		Title:       title,
		Summary:     summary,
		Category:    "other",
		Tags:        []string{},
		Priority:    "medium",
		ActionItems: []string{},
	}
}

func normalize(r Result, title string) Result {
	if strings.TrimSpace(r.Title) == "" {
		r.Title = title
	}
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	if !lo.Contains(categories, r.Category) {
		r.Category = "other"
	}
	r.Priority = strings.ToLower(strings.TrimSpace(r.Priority))
	if !lo.Contains(priorities, r.Priority) {
		r.Priority = "medium"
	}

	tags := lo.Map(r.Tags, func(t string, _ int) string { return strings.ToLower(strings.TrimSpace(t)) })
	tags = lo.Uniq(lo.Compact(tags))
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	r.Tags = tags

	r.ActionItems = lo.Compact(lo.Map(r.ActionItems, func(s string, _ int) string { return strings.TrimSpace(s) }))
	return r
}
