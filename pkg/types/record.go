// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared records and configuration passed between
// the chat2md stages.
package types

import "time"

// ConversationRecord is the decoded form of one exported chat log. It is
// built once per invocation by the export stage and is not mutated afterwards.
type ConversationRecord struct {
	// Title is the conversation title from the export, if any.
	Title string

	// Requester and Responder are the participant names from the export
	// (e.g. a GitHub username and "GitHub Copilot").
	Requester string
	Responder string

	// ExportedAt is when the upstream tool produced the export. Zero when
	// the export carries no timestamp.
	ExportedAt time.Time

	// Turns is the ordered message sequence. Order is preserved exactly as
	// it appears in the export.
	Turns []Turn
}

// Turn is one message in the conversation, attributable to a role.
type Turn struct {
	// Role is the speaker label ("user", "assistant", or anything else the
	// exporter emits). Always non-empty after decoding.
	Role string

	// Time is the message timestamp, zero when the export omits it.
	Time time.Time

	// Blocks is the ordered body content. May be empty for turns whose
	// body was an empty string.
	Blocks []ContentBlock

	// Files lists files the turn referenced (attachments, context files).
	Files []FileRef
}

// BlockKind identifies the type of a content block.
type BlockKind string

const (
	BlockText      BlockKind = "text"
	BlockCode      BlockKind = "code"
	BlockReference BlockKind = "reference"
	BlockTool      BlockKind = "tool"
)

// ContentBlock is a typed unit of a turn's body. Which fields are meaningful
// depends on Kind: text blocks use Text, code blocks use Text and Language,
// reference blocks use Name and Path, tool blocks use Tool.
type ContentBlock struct {
	Kind     BlockKind
	Text     string
	Language string
	Name     string
	Path     string
	Tool     *ToolCall
}

// ToolCall captures a tool invocation embedded in an assistant turn.
type ToolCall struct {
	// Name is the tool identifier, inferred from the input parameters when
	// the export omits it.
	Name string

	// Input holds the tool parameters as decoded JSON.
	Input map[string]any

	// Output is the tool result text, possibly empty.
	Output string

	// IsError reports whether the tool invocation failed.
	IsError bool
}

// FileRef is a file the conversation referenced by name and path.
type FileRef struct {
	Name string
	Path string
}

// RoleUser and RoleAssistant are the roles with dedicated rendering rules;
// any other role falls back to a generic heading.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
