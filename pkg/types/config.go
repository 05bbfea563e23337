// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StyleConfig controls the Markdown rendering rules. Zero values are
// normalized by Normalize, so an empty StyleConfig renders with defaults.
type StyleConfig struct {
	// HeadingLevel is the ATX heading level used for turn headings
	// (default 2, i.e. "##"). The document title always uses level 1.
	HeadingLevel int `json:"heading_level" yaml:"heading_level"`

	// Fence is the code fence sequence (default "```"). The renderer
	// lengthens it when a code body contains the sequence itself.
	Fence string `json:"fence" yaml:"fence"`

	// TurnSeparator is emitted between turns (default "---").
	TurnSeparator string `json:"turn_separator" yaml:"turn_separator"`

	// Timestamps enables per-turn timestamp lines when the export carries
	// message times.
	Timestamps bool `json:"timestamps" yaml:"timestamps"`

	// Frontmatter enables a YAML frontmatter block with conversation
	// metadata. All frontmatter fields derive from the input, so output
	// stays deterministic.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter"`

	// MaxToolOutput truncates tool output blocks longer than this many
	// bytes (default 1000). Zero means the default; negative disables
	// truncation.
	MaxToolOutput int `json:"max_tool_output" yaml:"max_tool_output"`
}

// DefaultStyle returns the default rendering configuration.
func DefaultStyle() StyleConfig {
	return StyleConfig{
		HeadingLevel:  2,
		Fence:         "```",
		TurnSeparator: "---",
		MaxToolOutput: 1000,
	}
}

// Normalize fills unset fields with their defaults and clamps the heading
// level into the valid ATX range.
func (s StyleConfig) Normalize() StyleConfig {
	def := DefaultStyle()
	if s.HeadingLevel <= 0 {
		s.HeadingLevel = def.HeadingLevel
	}
	if s.HeadingLevel > 6 {
		s.HeadingLevel = 6
	}
	if s.Fence == "" {
		s.Fence = def.Fence
	}
	if s.TurnSeparator == "" {
		s.TurnSeparator = def.TurnSeparator
	}
	if s.MaxToolOutput == 0 {
		s.MaxToolOutput = def.MaxToolOutput
	}
	return s
}

// CatalogConfig holds settings for the optional conversion catalog.
type CatalogConfig struct {
	// Path is the SQLite database file. Empty disables the catalog.
	Path string `json:"path" yaml:"path"`
}
