// Package notion pushes analysed notes and documents into a user's Notion database.
package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
)

// Notion rejects rich text longer than this per block.
const maxRichText = 2000

type Page struct {
	Title       string
	Summary     string
	Category    string
	Tags        []string
	Priority    string
	ActionItems []string
}

type Client struct {
	client *resty.Client
}

func NewClient(baseURL, version string) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Notion-Version", version).
			SetHeader("Content-Type", "application/json").
			SetTimeout(15 * time.Second),
	}
}

type pageResponse struct {
	Id string `json:"id"`
}

func richText(s string) []map[string]any {
	r := []rune(s)
	if len(r) > maxRichText {
		s = string(r[:maxRichText])
	}
	return []map[string]any{{"type": "text", "text": map[string]any{"content": s}}}
}

func properties(p Page) map[string]any {
	return map[string]any{
		"Name":     map[string]any{"title": richText(p.Title)},
		"Category": map[string]any{"select": map[string]any{"name": p.Category}},
		"Priority": map[string]any{"select": map[string]any{"name": p.Priority}},
		"Tags": map[string]any{"multi_select": lo.Map(p.Tags, func(t string, _ int) map[string]any {
			return map[string]any{"name": t}
		})},
	}
}

func children(p Page) []map[string]any {
	blocks := []map[string]any{{
		"object":    "block",
		"type":      "paragraph",
		"paragraph": map[string]any{"rich_text": richText(p.Summary)},
	}}
	for _, item := range p.ActionItems {
		blocks = append(blocks, map[string]any{
			"object": "block",
			"type":   "to_do",
			"to_do":  map[string]any{"rich_text": richText(item), "checked": false},
		})
	}
	return blocks
}

// CreatePage adds a row to databaseId and returns the new page id.
func (c *Client) CreatePage(ctx context.Context, token, databaseId string, p Page) (string, error) {
	body := map[string]any{
		"parent":     map[string]any{"database_id": databaseId},
		"properties": properties(p),
		"children":   children(p),
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		Post("/v1/pages")
	if err != nil {
		return "", fmt.Errorf("notion request failed: %w", err)
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("notion error: status %d, body: %s", res.StatusCode(), res.String())
	}

	var page pageResponse
	if err := json.Unmarshal(res.Body(), &page); err != nil {
		return "", fmt.Errorf("unmarshal notion response: %w", err)
	}
	return page.Id, nil
}

// UpdatePage refreshes the properties of a page created earlier.
func (c *Client) UpdatePage(ctx context.Context, token, pageId string, p Page) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(map[string]any{"properties": properties(p)}).
		Patch("/v1/pages/" + pageId)
	if err != nil {
		return fmt.Errorf("notion request failed: %w", err)
	}
	if !res.IsSuccess() {
		return fmt.Errorf("notion error: status %d, body: %s", res.StatusCode(), res.String())
	}
	return nil
}
