// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"
	"testing"

	"github.com/pdiddy/chat2md/pkg/types"
)

func TestToolCallTerminal(t *testing.T) {
	r := New(types.DefaultStyle())
	got := r.toolCall(&types.ToolCall{
		Name:   "run_in_terminal",
		Input:  map[string]any{"command": "go test ./...", "explanation": "run tests"},
		Output: "ok  \tchat2md\t0.4s",
	})

	if !strings.Contains(got, "**Tool Call:** run_in_terminal") {
		t.Errorf("missing tool call label:\n%s", got)
	}
	if !strings.Contains(got, "```bash\ngo test ./...\n```") {
		t.Errorf("terminal command should render as a bash fence:\n%s", got)
	}
	if !strings.Contains(got, "**Output:**") {
		t.Errorf("missing output section:\n%s", got)
	}
}

func TestToolCallFileEdit(t *testing.T) {
	r := New(types.DefaultStyle())
	got := r.toolCall(&types.ToolCall{
		Name:  "create_file",
		Input: map[string]any{"filePath": `C:\proj\src\main.go`, "content": "package main"},
	})

	if !strings.Contains(got, "**File:** `main.go`") {
		t.Errorf("file tools should show the base file name:\n%s", got)
	}
}

func TestToolCallGenericParamsSorted(t *testing.T) {
	r := New(types.DefaultStyle())
	got := r.toolCall(&types.ToolCall{
		Name:  "semantic_search",
		Input: map[string]any{"zeta": "z", "alpha": "a", "query": "find it"},
	})

	if !strings.Contains(got, "```json") {
		t.Fatalf("generic params should render as a JSON fence:\n%s", got)
	}
	alphaIdx := strings.Index(got, `"alpha"`)
	zetaIdx := strings.Index(got, `"zeta"`)
	if alphaIdx < 0 || zetaIdx < 0 || alphaIdx > zetaIdx {
		t.Errorf("JSON params should be key-sorted for deterministic output:\n%s", got)
	}
}

func TestToolCallErrorLabel(t *testing.T) {
	r := New(types.DefaultStyle())
	got := r.toolCall(&types.ToolCall{
		Name:    "run_in_terminal",
		Input:   map[string]any{"command": "false"},
		Output:  "exit status 1",
		IsError: true,
	})

	if !strings.Contains(got, "**Error:**") {
		t.Errorf("failed tool calls should carry the error label:\n%s", got)
	}
	if strings.Contains(got, "**Output:**") {
		t.Errorf("error output should not also carry the output label:\n%s", got)
	}
}

func TestToolCallTruncation(t *testing.T) {
	long := strings.Repeat("x", 1500)

	r := New(types.DefaultStyle())
	got := r.toolCall(&types.ToolCall{Name: "run_in_terminal", Output: long})

	if !strings.Contains(got, "... (output truncated)") {
		t.Errorf("long output should be truncated:\n%.200s", got)
	}
	if strings.Contains(got, strings.Repeat("x", 1001)) {
		t.Error("output should be capped at the configured limit")
	}

	unlimited := New(types.StyleConfig{MaxToolOutput: -1})
	got = unlimited.toolCall(&types.ToolCall{Name: "run_in_terminal", Output: long})
	if strings.Contains(got, "truncated") {
		t.Error("negative limit should disable truncation")
	}
}

func TestToolCallFallbacks(t *testing.T) {
	r := New(types.DefaultStyle())

	if got := r.toolCall(nil); got != "" {
		t.Errorf("nil tool call should render nothing, got %q", got)
	}

	got := r.toolCall(&types.ToolCall{})
	if !strings.Contains(got, "**Tool Call:** unknown_tool") {
		t.Errorf("nameless tool should use the generic label:\n%s", got)
	}
}
