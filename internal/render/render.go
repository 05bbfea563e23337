// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns a decoded ConversationRecord into a Markdown document.
// Rendering is a pure function of the record and the style configuration:
// the same input always produces byte-identical output.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/chat2md/pkg/types"
)

// timeFmt is the layout for rendered timestamps (UTC).
const timeFmt = "2006-01-02 15:04:05"

// defaultTitle heads documents whose export carries no title.
const defaultTitle = "Chat Conversation"

// multiBlank matches runs of three or more newlines, collapsed to a single
// blank line in rendered turn bodies.
var multiBlank = regexp.MustCompile(`\n{3,}`)

// strayFence matches the quadruple-backtick artifacts some exporters leave
// in prose content.
var strayFence = regexp.MustCompile("````\n?")

// Renderer applies one style configuration to conversation records.
type Renderer struct {
	style types.StyleConfig
}

// New returns a Renderer for the given style. The style is normalized, so a
// zero StyleConfig renders with defaults.
func New(style types.StyleConfig) *Renderer {
	return &Renderer{style: style.Normalize()}
}

// Document renders the whole conversation. Warnings about skipped empty
// content go to warn; they never abort rendering. The returned count is the
// number of turns rendered, which equals len(rec.Turns).
func (r *Renderer) Document(rec *types.ConversationRecord, warn io.Writer) (string, int) {
	var b strings.Builder

	if r.style.Frontmatter {
		b.WriteString(r.frontmatter(rec))
	}

	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = defaultTitle
	}
	fmt.Fprintf(&b, "# %s\n", title)

	if rec.Requester != "" || rec.Responder != "" {
		fmt.Fprintf(&b, "\n**Participants:** %s ↔ %s\n",
			orUnknown(rec.Requester), orUnknown(rec.Responder))
	}
	if r.style.Timestamps && !rec.ExportedAt.IsZero() {
		fmt.Fprintf(&b, "\n_Exported: %s_\n", rec.ExportedAt.UTC().Format(timeFmt))
	}

	for i, turn := range rec.Turns {
		b.WriteString("\n")
		if i > 0 {
			b.WriteString(r.style.TurnSeparator + "\n\n")
		}
		b.WriteString(r.turn(i, turn, warn))
	}

	return b.String(), len(rec.Turns)
}

// frontmatter renders the YAML metadata block. Every field derives from the
// input record, keeping output deterministic.
func (r *Renderer) frontmatter(rec *types.ConversationRecord) string {
	meta := struct {
		Title      string `yaml:"title,omitempty"`
		Requester  string `yaml:"requester,omitempty"`
		Responder  string `yaml:"responder,omitempty"`
		ExportedAt string `yaml:"exported_at,omitempty"`
		Turns      int    `yaml:"turns"`
	}{
		Title:     rec.Title,
		Requester: rec.Requester,
		Responder: rec.Responder,
		Turns:     len(rec.Turns),
	}
	if !rec.ExportedAt.IsZero() {
		meta.ExportedAt = rec.ExportedAt.UTC().Format(timeFmt)
	}

	data, err := yaml.Marshal(&meta)
	if err != nil {
		// A flat struct of strings and an int cannot fail to marshal.
		return ""
	}
	return "---\n" + string(data) + "---\n\n"
}

// turn renders one turn: heading, optional timestamp, referenced files, then
// the content blocks in order. A turn whose body renders empty keeps its
// heading and omits the body section.
func (r *Renderer) turn(idx int, turn types.Turn, warn io.Writer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", strings.Repeat("#", r.style.HeadingLevel), roleHeading(turn.Role))

	if r.style.Timestamps && !turn.Time.IsZero() {
		fmt.Fprintf(&b, "\n_%s_\n", turn.Time.UTC().Format(timeFmt))
	}

	if len(turn.Files) > 0 {
		b.WriteString("\n**Referenced Files:**\n")
		for _, f := range turn.Files {
			name := f.Name
			if name == "" {
				name = f.Path
			}
			if f.Path != "" && f.Path != name {
				fmt.Fprintf(&b, "- `%s` (%s)\n", name, f.Path)
			} else {
				fmt.Fprintf(&b, "- `%s`\n", name)
			}
		}
	}

	var body strings.Builder
	for _, block := range turn.Blocks {
		rendered := r.block(block)
		if rendered == "" {
			fmt.Fprintf(warn, "warning: turn %d: skipping empty %s block\n", idx+1, block.Kind)
			continue
		}
		if body.Len() > 0 {
			body.WriteString("\n")
		}
		body.WriteString(rendered)
	}

	text := strings.TrimSpace(multiBlank.ReplaceAllString(body.String(), "\n\n"))
	if text != "" {
		b.WriteString("\n" + text + "\n")
	}
	return b.String()
}

// block renders a single content block, returning "" when there is nothing
// worth emitting (so no empty fences or labels appear in the output).
func (r *Renderer) block(block types.ContentBlock) string {
	switch block.Kind {
	case types.BlockCode:
		if strings.TrimSpace(block.Text) == "" {
			return ""
		}
		return r.fenced(block.Language, strings.TrimRight(block.Text, "\n"))
	case types.BlockReference:
		if block.Name == "" && block.Path == "" {
			return ""
		}
		name := block.Name
		if name == "" {
			name = block.Path
		}
		if block.Path != "" && block.Path != name {
			return fmt.Sprintf("[%s](%s)", name, block.Path)
		}
		return fmt.Sprintf("[%s]", name)
	case types.BlockTool:
		return r.toolCall(block.Tool)
	default:
		return strayFence.ReplaceAllString(strings.TrimSpace(block.Text), "")
	}
}

// fenced wraps text in a code fence, lengthening the fence when the text
// contains the fence sequence itself.
func (r *Renderer) fenced(lang, text string) string {
	fence := r.style.Fence
	for strings.Contains(text, fence) {
		fence += string(fence[0])
	}
	return fence + lang + "\n" + text + "\n" + fence
}

// roleHeading maps a role label to its heading text. Unrecognized roles get
// a generic capitalized heading instead of failing the conversion.
func roleHeading(role string) string {
	switch strings.ToLower(role) {
	case types.RoleUser:
		return "User"
	case types.RoleAssistant:
		return "Assistant"
	default:
		return capitalize(role)
	}
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func orUnknown(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
