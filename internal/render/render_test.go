// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/chat2md/pkg/types"
)

func textTurn(role, text string) types.Turn {
	return types.Turn{
		Role:   role,
		Blocks: []types.ContentBlock{{Kind: types.BlockText, Text: text}},
	}
}

func TestDocumentTwoTurnScenario(t *testing.T) {
	rec := &types.ConversationRecord{
		Turns: []types.Turn{
			textTurn("user", "Hello"),
			textTurn("assistant", "Hi there"),
		},
	}

	var warn bytes.Buffer
	doc, turns := New(types.DefaultStyle()).Document(rec, &warn)

	if turns != 2 {
		t.Errorf("turns = %d, want 2", turns)
	}

	userIdx := strings.Index(doc, "## User")
	assistantIdx := strings.Index(doc, "## Assistant")
	if userIdx < 0 || assistantIdx < 0 {
		t.Fatalf("missing role headings in output:\n%s", doc)
	}
	if userIdx > assistantIdx {
		t.Error("user heading should precede assistant heading")
	}

	helloIdx := strings.Index(doc, "Hello")
	hiIdx := strings.Index(doc, "Hi there")
	if helloIdx < userIdx || hiIdx < assistantIdx {
		t.Error("turn bodies should follow their headings")
	}
	if warn.Len() != 0 {
		t.Errorf("unexpected warnings: %s", warn.String())
	}
}

func TestDocumentUnknownRole(t *testing.T) {
	rec := &types.ConversationRecord{
		Turns: []types.Turn{textTurn("system-note", "maintenance window")},
	}

	doc, _ := New(types.DefaultStyle()).Document(rec, &bytes.Buffer{})

	if !strings.Contains(doc, "## System-note") {
		t.Errorf("unknown role should render under a fallback heading, got:\n%s", doc)
	}
	if !strings.Contains(doc, "maintenance window") {
		t.Error("unknown-role body should still render")
	}
}

func TestDocumentEmptyConversation(t *testing.T) {
	rec := &types.ConversationRecord{}

	doc, turns := New(types.DefaultStyle()).Document(rec, &bytes.Buffer{})

	if turns != 0 {
		t.Errorf("turns = %d, want 0", turns)
	}
	if !strings.HasPrefix(doc, "# Chat Conversation\n") {
		t.Errorf("empty conversation should still produce a titled document, got:\n%s", doc)
	}
}

func TestDocumentEmptyBodyTurn(t *testing.T) {
	rec := &types.ConversationRecord{
		Turns: []types.Turn{
			{Role: "user"},
			textTurn("assistant", "done"),
		},
	}

	doc, turns := New(types.DefaultStyle()).Document(rec, &bytes.Buffer{})

	if turns != 2 {
		t.Errorf("turns = %d, want 2", turns)
	}
	if !strings.Contains(doc, "## User\n") {
		t.Error("empty-body turn should keep its heading")
	}
	if strings.Contains(doc, "```") {
		t.Error("no code fence should appear for a conversation without code")
	}
}

func TestDocumentDeterministic(t *testing.T) {
	rec := &types.ConversationRecord{
		Title:     "Repro",
		Requester: "alice",
		Responder: "copilot",
		Turns: []types.Turn{
			textTurn("user", "run it"),
			{
				Role: "assistant",
				Blocks: []types.ContentBlock{
					{Kind: types.BlockTool, Tool: &types.ToolCall{
						Name:   "semantic_search",
						Input:  map[string]any{"query": "foo", "scope": "src", "limit": 3.0},
						Output: "3 hits",
					}},
				},
			},
		},
	}

	r := New(types.StyleConfig{Frontmatter: true})
	first, _ := r.Document(rec, &bytes.Buffer{})
	second, _ := r.Document(rec, &bytes.Buffer{})

	if first != second {
		t.Error("rendering the same record twice should be byte-identical")
	}
}

func TestDocumentSeparatorBetweenTurns(t *testing.T) {
	rec := &types.ConversationRecord{
		Turns: []types.Turn{
			textTurn("user", "a"),
			textTurn("assistant", "b"),
			textTurn("user", "c"),
		},
	}

	doc, _ := New(types.DefaultStyle()).Document(rec, &bytes.Buffer{})

	if got := strings.Count(doc, "\n---\n"); got != 2 {
		t.Errorf("separator count = %d, want 2 (between 3 turns)\n%s", got, doc)
	}
}

func TestDocumentFrontmatter(t *testing.T) {
	rec := &types.ConversationRecord{
		Title:      "Session",
		Requester:  "alice",
		Responder:  "copilot",
		ExportedAt: time.Unix(1700000000, 0).UTC(),
		Turns:      []types.Turn{textTurn("user", "hi")},
	}

	doc, _ := New(types.StyleConfig{Frontmatter: true}).Document(rec, &bytes.Buffer{})

	if !strings.HasPrefix(doc, "---\n") {
		t.Fatalf("frontmatter should open the document, got:\n%s", doc)
	}
	for _, want := range []string{"title: Session", "requester: alice", "turns: 1", "exported_at:"} {
		if !strings.Contains(doc, want) {
			t.Errorf("frontmatter missing %q:\n%s", want, doc)
		}
	}
}

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name     string
		block    types.ContentBlock
		want     []string
		wantGone []string
		empty    bool
	}{
		{
			name:  "code block fenced with language",
			block: types.ContentBlock{Kind: types.BlockCode, Language: "go", Text: "fmt.Println(1)\n"},
			want:  []string{"```go\nfmt.Println(1)\n```"},
		},
		{
			name:  "empty code block renders nothing",
			block: types.ContentBlock{Kind: types.BlockCode, Language: "go", Text: "  \n"},
			empty: true,
		},
		{
			name:  "code containing fence grows the fence",
			block: types.ContentBlock{Kind: types.BlockCode, Language: "md", Text: "```\ninner\n```"},
			want:  []string{"````md\n"},
		},
		{
			name:  "reference with path",
			block: types.ContentBlock{Kind: types.BlockReference, Name: "main.go", Path: "/src/main.go"},
			want:  []string{"[main.go](/src/main.go)"},
		},
		{
			name:  "reference without path",
			block: types.ContentBlock{Kind: types.BlockReference, Name: "main.go"},
			want:  []string{"[main.go]"},
		},
		{
			name:  "empty reference renders nothing",
			block: types.ContentBlock{Kind: types.BlockReference},
			empty: true,
		},
		{
			name:     "stray fence artifacts stripped from prose",
			block:    types.ContentBlock{Kind: types.BlockText, Text: "before````\nafter"},
			want:     []string{"before", "after"},
			wantGone: []string{"````"},
		},
	}

	r := New(types.DefaultStyle())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.block(tt.block)
			if tt.empty {
				if got != "" {
					t.Errorf("block() = %q, want empty", got)
				}
				return
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("block() = %q, missing %q", got, want)
				}
			}
			for _, gone := range tt.wantGone {
				if strings.Contains(got, gone) {
					t.Errorf("block() = %q, should not contain %q", got, gone)
				}
			}
		})
	}
}

func TestTurnWarnsOnEmptyBlocks(t *testing.T) {
	rec := &types.ConversationRecord{
		Turns: []types.Turn{
			{
				Role: "assistant",
				Blocks: []types.ContentBlock{
					{Kind: types.BlockCode, Language: "go"},
					{Kind: types.BlockText, Text: "still here"},
				},
			},
		},
	}

	var warn bytes.Buffer
	doc, _ := New(types.DefaultStyle()).Document(rec, &warn)

	if !strings.Contains(warn.String(), "skipping empty code block") {
		t.Errorf("expected a warning about the empty code block, got: %q", warn.String())
	}
	if !strings.Contains(doc, "still here") {
		t.Error("non-empty blocks should survive an empty sibling")
	}
}

func TestTurnCollapsesBlankRuns(t *testing.T) {
	rec := &types.ConversationRecord{
		Turns: []types.Turn{textTurn("user", "a\n\n\n\n\nb")},
	}

	doc, _ := New(types.DefaultStyle()).Document(rec, &bytes.Buffer{})

	if strings.Contains(doc, "\n\n\n") {
		t.Errorf("blank-line runs should collapse to one blank line:\n%q", doc)
	}
}

func TestTurnTimestampsAndFiles(t *testing.T) {
	rec := &types.ConversationRecord{
		Turns: []types.Turn{
			{
				Role:   "user",
				Time:   time.Unix(1700000000, 0).UTC(),
				Blocks: []types.ContentBlock{{Kind: types.BlockText, Text: "see files"}},
				Files: []types.FileRef{
					{Name: "a.go", Path: "/src/a.go"},
					{Path: "/src/b.go"},
				},
			},
		},
	}

	doc, _ := New(types.StyleConfig{Timestamps: true}).Document(rec, &bytes.Buffer{})

	if !strings.Contains(doc, "_2023-11-14 22:13:20_") {
		t.Errorf("timestamp line missing:\n%s", doc)
	}
	if !strings.Contains(doc, "**Referenced Files:**") {
		t.Error("referenced files section missing")
	}
	if !strings.Contains(doc, "- `a.go` (/src/a.go)") {
		t.Errorf("file entry missing:\n%s", doc)
	}
	if !strings.Contains(doc, "- `/src/b.go`") {
		t.Errorf("nameless file should fall back to its path:\n%s", doc)
	}
}

func TestHeadingLevelConfigurable(t *testing.T) {
	rec := &types.ConversationRecord{Turns: []types.Turn{textTurn("user", "hi")}}

	doc, _ := New(types.StyleConfig{HeadingLevel: 3}).Document(rec, &bytes.Buffer{})

	if !strings.Contains(doc, "### User") {
		t.Errorf("heading level 3 not applied:\n%s", doc)
	}
}
