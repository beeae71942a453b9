// Package lexical flattens Lexical editor state into text the analyzer can read.
package lexical

import (
	"encoding/json"
	"fmt"
	"strings"
)

type editorState struct {
	Root node `json:"root"`
}

type node struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	ListType string `json:"listType"`
	Checked  bool   `json:"checked"`
	Start    int    `json:"start"`
	Children []node `json:"children"`
}

// PlainText returns content unchanged unless it is serialized editor state,
// in which case it returns the text with lists rendered as markdown-style items.
func PlainText(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") || !strings.Contains(trimmed, `"root"`) {
		return content
	}

	var state editorState
	if err := json.Unmarshal([]byte(trimmed), &state); err != nil || state.Root.Type != "root" {
		return content
	}

	var sb strings.Builder
	for _, block := range state.Root.Children {
		writeBlock(&sb, block, 0)
	}
	return strings.TrimSpace(sb.String())
}

func writeBlock(sb *strings.Builder, n node, depth int) {
	switch n.Type {
	case "list":
		writeList(sb, n, depth)
	case "horizontalrule":
		sb.WriteString("---\n")
	case "table":
		for _, row := range n.Children {
			cells := make([]string, 0, len(row.Children))
			for _, cell := range row.Children {
				cells = append(cells, strings.TrimSpace(inline(cell)))
			}
			sb.WriteString(strings.Join(cells, " | "))
			sb.WriteString("\n")
		}
	default:
		sb.WriteString(inline(n))
		sb.WriteString("\n")
	}
}

func writeList(sb *strings.Builder, list node, depth int) {
	index := max(list.Start, 1)
	for _, item := range list.Children {
		if item.Type != "listitem" {
			continue
		}
		sb.WriteString(strings.Repeat("  ", depth))
		switch list.ListType {
		case "number":
			fmt.Fprintf(sb, "%d. ", index)
			index++
		case "check":
			if item.Checked {
				sb.WriteString("- [x] ")
			} else {
				sb.WriteString("- [ ] ")
			}
		default:
			sb.WriteString("- ")
		}

		var nested []node
		for _, child := range item.Children {
			if child.Type == "list" {
				nested = append(nested, child)
				continue
			}
			sb.WriteString(inline(child))
		}
		sb.WriteString("\n")
		for _, l := range nested {
			writeList(sb, l, depth+1)
		}
	}
}

func inline(n node) string {
	switch n.Type {
	case "text":
		return n.Text
	case "linebreak":
		return "\n"
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(inline(child))
	}
	return sb.String()
}
