// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export decodes exported chat-log JSON into a ConversationRecord.
// The export schema is an external contract owned by the upstream exporter:
// unknown fields are tolerated, missing required fields are not.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pdiddy/chat2md/pkg/types"
)

// ErrNotFound reports that the input file does not exist or cannot be read.
var ErrNotFound = errors.New("input not found")

// ErrMalformed reports that the input could be read but does not match the
// expected export shape.
var ErrMalformed = errors.New("malformed input")

// wireRecord mirrors the top-level export object. Turns is a pointer so a
// missing "turns" key is distinguishable from an empty conversation.
type wireRecord struct {
	Title      string      `json:"title"`
	Requester  string      `json:"requesterUsername"`
	Responder  string      `json:"responderUsername"`
	ExportedAt *int64      `json:"exported_at"`
	Turns      *[]wireTurn `json:"turns"`
}

// wireTurn mirrors one turn entry. Role and Body are pointers so absent
// required fields fail validation instead of decoding to zero values.
type wireTurn struct {
	Role      *string          `json:"role"`
	Body      *json.RawMessage `json:"body"`
	Timestamp *int64           `json:"timestamp"`
	Files     []wireFile       `json:"files"`
}

type wireFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// wireBlock mirrors one typed content block inside a structured body.
type wireBlock struct {
	Type     string          `json:"type"`
	Text     string          `json:"text"`
	Language string          `json:"language"`
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	Input    json.RawMessage `json:"input"`
	Output   string          `json:"output"`
	IsError  bool            `json:"is_error"`
}

// Load reads and validates the export file at path, returning the decoded
// conversation. Decoding is all-or-nothing: a structural problem anywhere in
// the file returns ErrMalformed and no record.
func Load(path string) (*types.ConversationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNotFound, path, err)
	}
	return Decode(data)
}

// Decode validates and converts raw export JSON into a ConversationRecord.
func Decode(data []byte) (*types.ConversationRecord, error) {
	var wire wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if wire.Turns == nil {
		return nil, fmt.Errorf("%w: missing required \"turns\" sequence", ErrMalformed)
	}

	rec := &types.ConversationRecord{
		Title:      wire.Title,
		Requester:  wire.Requester,
		Responder:  wire.Responder,
		ExportedAt: msToTime(wire.ExportedAt),
		Turns:      make([]types.Turn, 0, len(*wire.Turns)),
	}

	for i, wt := range *wire.Turns {
		turn, err := decodeTurn(i, wt)
		if err != nil {
			return nil, err
		}
		rec.Turns = append(rec.Turns, turn)
	}

	return rec, nil
}

func decodeTurn(idx int, wt wireTurn) (types.Turn, error) {
	if wt.Role == nil || *wt.Role == "" {
		return types.Turn{}, fmt.Errorf("%w: turn %d: missing role", ErrMalformed, idx)
	}
	if wt.Body == nil {
		return types.Turn{}, fmt.Errorf("%w: turn %d: missing body", ErrMalformed, idx)
	}

	blocks, err := decodeBody(idx, *wt.Body)
	if err != nil {
		return types.Turn{}, err
	}

	turn := types.Turn{
		Role:   *wt.Role,
		Time:   msToTime(wt.Timestamp),
		Blocks: blocks,
	}
	for _, f := range wt.Files {
		turn.Files = append(turn.Files, types.FileRef{Name: f.Name, Path: f.Path})
	}
	return turn, nil
}

// decodeBody accepts either a plain string (one text block) or an array of
// typed blocks.
func decodeBody(idx int, raw json.RawMessage) ([]types.ContentBlock, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if text == "" {
			return nil, nil
		}
		return []types.ContentBlock{{Kind: types.BlockText, Text: text}}, nil
	}

	var wbs []wireBlock
	if err := json.Unmarshal(raw, &wbs); err != nil {
		return nil, fmt.Errorf("%w: turn %d: body is neither a string nor a block array", ErrMalformed, idx)
	}

	blocks := make([]types.ContentBlock, 0, len(wbs))
	for _, wb := range wbs {
		blocks = append(blocks, decodeBlock(wb))
	}
	return blocks, nil
}

func decodeBlock(wb wireBlock) types.ContentBlock {
	switch wb.Type {
	case "code":
		return types.ContentBlock{Kind: types.BlockCode, Text: wb.Text, Language: wb.Language}
	case "reference":
		return types.ContentBlock{Kind: types.BlockReference, Name: wb.Name, Path: wb.Path}
	case "tool":
		return types.ContentBlock{Kind: types.BlockTool, Tool: decodeTool(wb)}
	case "text":
		return types.ContentBlock{Kind: types.BlockText, Text: wb.Text}
	default:
		// Unknown block kinds degrade to text; blocks with no text at all
		// are skipped later by the renderer with a warning.
		return types.ContentBlock{Kind: types.BlockText, Text: wb.Text}
	}
}

func decodeTool(wb wireBlock) *types.ToolCall {
	tc := &types.ToolCall{
		Name:    wb.Name,
		Output:  wb.Output,
		IsError: wb.IsError,
	}
	if len(wb.Input) > 0 {
		var params map[string]any
		if err := json.Unmarshal(wb.Input, &params); err == nil {
			tc.Input = params
		}
	}
	if tc.Name == "" {
		tc.Name = inferToolName(tc.Input)
	}
	return tc
}

// inferToolName guesses the tool identifier from its parameter keys for
// exports that omit the name. The mappings follow the parameter shapes the
// upstream exporter is known to produce.
func inferToolName(input map[string]any) string {
	has := func(key string) bool {
		_, ok := input[key]
		return ok
	}
	switch {
	case has("command"):
		return "run_in_terminal"
	case has("filePath") && has("oldString"):
		return "replace_string_in_file"
	case has("filePath") && has("code"):
		return "insert_edit_into_file"
	case has("filePath") && has("content"):
		return "create_file"
	case has("query") && !has("filePaths"):
		return "semantic_search"
	case has("symbolName"):
		return "list_code_usages"
	case has("filePaths"):
		return "read_file"
	case has("path"):
		return "list_dir"
	case has("urls"):
		return "fetch_webpage"
	case has("repo"):
		return "github_repo"
	}
	return ""
}

// msToTime converts a millisecond epoch timestamp to UTC time. Nil or
// non-positive values map to the zero time.
func msToTime(ms *int64) time.Time {
	if ms == nil || *ms <= 0 {
		return time.Time{}
	}
	sec := *ms / 1000
	nsec := (*ms % 1000) * int64(time.Millisecond)
	return time.Unix(sec, nsec).UTC()
}
