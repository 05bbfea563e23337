// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/chat2md/pkg/types"
)

// toolCall renders a tool invocation block: the call label, its parameters
// as indented JSON, and its (possibly truncated) output. Map keys in the
// parameter JSON are emitted in sorted order, so rendering stays
// deterministic regardless of decode order.
func (r *Renderer) toolCall(tc *types.ToolCall) string {
	if tc == nil {
		return ""
	}

	var b strings.Builder

	name := tc.Name
	if name == "" {
		name = "unknown_tool"
	}
	fmt.Fprintf(&b, "**Tool Call:** %s\n", name)

	if params := r.toolParams(tc); params != "" {
		b.WriteString("\n**Parameters:**\n" + params + "\n")
	}

	if out := strings.TrimSpace(tc.Output); out != "" {
		label := "**Output:**"
		if tc.IsError {
			label = "**Error:**"
		}
		b.WriteString("\n" + label + "\n" + r.fenced("", r.truncate(out)) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// specialParams renders a dedicated view for tools whose raw parameters are
// better shown as a command or file reference than as a JSON dump. It
// returns "" when the generic JSON view should be used instead.
func (r *Renderer) specialParams(tc *types.ToolCall) string {
	switch tc.Name {
	case "run_in_terminal":
		cmd, _ := tc.Input["command"].(string)
		if cmd == "" {
			return ""
		}
		return r.fenced("bash", cmd)
	case "create_file", "replace_string_in_file", "insert_edit_into_file":
		path, _ := tc.Input["filePath"].(string)
		if path == "" {
			return ""
		}
		return fmt.Sprintf("**File:** `%s`", baseName(path))
	}
	return ""
}

func (r *Renderer) toolParams(tc *types.ToolCall) string {
	if len(tc.Input) == 0 {
		return ""
	}
	if special := r.specialParams(tc); special != "" {
		return special
	}

	data, err := json.MarshalIndent(tc.Input, "", "  ")
	if err != nil {
		return ""
	}
	return r.fenced("json", string(data))
}

// truncate caps tool output at the configured limit. A negative limit
// disables truncation.
func (r *Renderer) truncate(s string) string {
	limit := r.style.MaxToolOutput
	if limit < 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "\n... (output truncated)"
}

// baseName returns the final path element, accepting both separators since
// exports may come from Windows machines.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
