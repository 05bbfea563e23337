// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chat2md/internal/catalog"
	"github.com/pdiddy/chat2md/internal/convert"
	"github.com/pdiddy/chat2md/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.json> [output.md | inputs...]",
	Short: "Convert an exported chat log to Markdown",
	Long: `Convert reads an exported chat-log JSON file and writes a Markdown
document. With one argument the output path is the input with a .md
extension; with two arguments the second is the output path. With --out-dir,
any number of inputs convert into that directory, one at a time.

Exit codes: 0 on success, 1 when the input is missing or malformed, 2 when
the output cannot be written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")
	style := styleFromFlags(cmd)

	jobs := buildJobs(args, outDir)

	if len(jobs) == 1 {
		res, err := convert.Convert(jobs[0].InputPath, jobs[0].OutputPath, style, os.Stderr)
		if err != nil {
			return err
		}
		fmt.Printf("Converted %d turns: %s\n", res.Turns, res.OutputPath)
		return recordResults(cmd, res)
	}

	result, done := convert.ConvertAll(jobs, style, os.Stderr)
	fmt.Printf("Converted %d of %d files\n", result.Converted, result.Total())
	if err := recordResults(cmd, done...); err != nil {
		return err
	}
	if result.WriteFailed > 0 {
		return fmt.Errorf("%w: %d file(s)", convert.ErrWriteOutput, result.WriteFailed)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// buildJobs maps command arguments to conversion jobs. Exactly two arguments
// without --out-dir mean an explicit input/output pair; everything else
// derives output names from the inputs.
func buildJobs(args []string, outDir string) []convert.Job {
	if len(args) == 2 && outDir == "" {
		return []convert.Job{{InputPath: args[0], OutputPath: args[1]}}
	}
	jobs := make([]convert.Job, len(args))
	for i, in := range args {
		jobs[i] = convert.Job{InputPath: in, OutputPath: convert.OutputPathFor(in, outDir)}
	}
	return jobs
}

// recordResults writes successful conversions into the SQLite catalog when
// one is configured. The catalog is opt-in; without --catalog or a
// catalog.path config entry this is a no-op.
func recordResults(cmd *cobra.Command, results ...convert.Result) error {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = viper.GetString("catalog.path")
	}
	if path == "" || len(results) == 0 {
		return nil
	}

	store, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	now := time.Now().UTC()
	for _, res := range results {
		entry := catalog.Entry{
			InputPath:   res.InputPath,
			OutputPath:  res.OutputPath,
			Title:       res.Title,
			Turns:       res.Turns,
			ConvertedAt: now,
		}
		if err := store.Record(context.Background(), entry); err != nil {
			return err
		}
	}
	return nil
}

// styleFromFlags builds the rendering style: defaults, then config-file
// values, then explicitly set flags.
func styleFromFlags(cmd *cobra.Command) types.StyleConfig {
	style := types.DefaultStyle()

	if viper.IsSet("style.heading_level") {
		style.HeadingLevel = viper.GetInt("style.heading_level")
	}
	if viper.IsSet("style.fence") {
		style.Fence = viper.GetString("style.fence")
	}
	if viper.IsSet("style.turn_separator") {
		style.TurnSeparator = viper.GetString("style.turn_separator")
	}
	if viper.IsSet("style.timestamps") {
		style.Timestamps = viper.GetBool("style.timestamps")
	}
	if viper.IsSet("style.frontmatter") {
		style.Frontmatter = viper.GetBool("style.frontmatter")
	}
	if viper.IsSet("style.max_tool_output") {
		style.MaxToolOutput = viper.GetInt("style.max_tool_output")
	}

	flags := cmd.Flags()
	if flags.Changed("heading-level") {
		style.HeadingLevel, _ = flags.GetInt("heading-level")
	}
	if flags.Changed("fence") {
		style.Fence, _ = flags.GetString("fence")
	}
	if flags.Changed("separator") {
		style.TurnSeparator, _ = flags.GetString("separator")
	}
	if flags.Changed("timestamps") {
		style.Timestamps, _ = flags.GetBool("timestamps")
	}
	if flags.Changed("frontmatter") {
		style.Frontmatter, _ = flags.GetBool("frontmatter")
	}
	if flags.Changed("max-output") {
		style.MaxToolOutput, _ = flags.GetInt("max-output")
	}

	return style.Normalize()
}

func init() {
	convertCmd.Flags().String("out-dir", "", "write outputs into this directory (batch mode)")
	convertCmd.Flags().Int("heading-level", 2, "ATX heading level for turn headings")
	convertCmd.Flags().String("fence", "```", "code fence sequence")
	convertCmd.Flags().String("separator", "---", "separator emitted between turns")
	convertCmd.Flags().Bool("timestamps", false, "render per-turn timestamps when present")
	convertCmd.Flags().Bool("frontmatter", false, "prepend YAML frontmatter with conversation metadata")
	convertCmd.Flags().Int("max-output", 1000, "truncate tool output beyond this many bytes (negative disables)")
	convertCmd.Flags().String("catalog", "", "record conversions in this SQLite catalog")

	rootCmd.AddCommand(convertCmd)
}
