// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates chat-log conversion: decode, render, then an
// atomic write of the Markdown document. Decoding completes before any byte
// is written, so a malformed input never creates or clobbers an output file.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/chat2md/internal/export"
	"github.com/pdiddy/chat2md/internal/render"
	"github.com/pdiddy/chat2md/pkg/types"
)

// ErrWriteOutput reports that the destination file could not be created or
// written. The CLI maps it to a distinct exit code.
var ErrWriteOutput = errors.New("output write failed")

// Result holds the outcome of a single successful conversion.
type Result struct {
	InputPath  string
	OutputPath string

	// Title is the conversation title from the export, possibly empty.
	Title string

	// Turns is the number of turns rendered into the document.
	Turns int
}

// Convert transforms the export at inPath into a Markdown document at
// outPath. Warnings and status lines go to w. The output is written to a
// temporary file in the destination directory and renamed into place only
// on full success, so a partially written document is never observable.
func Convert(inPath, outPath string, style types.StyleConfig, w io.Writer) (Result, error) {
	rec, err := export.Load(inPath)
	if err != nil {
		return Result{}, err
	}

	doc, turns := render.New(style).Document(rec, w)

	if err := writeAtomic(outPath, []byte(doc)); err != nil {
		return Result{}, err
	}

	return Result{InputPath: inPath, OutputPath: outPath, Title: rec.Title, Turns: turns}, nil
}

// writeAtomic writes data to path via a temp file and rename. The parent
// directory is created if absent; the temp file is removed on every error
// path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrWriteOutput, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".chat2md-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file in %s: %v", ErrWriteOutput, dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %v", ErrWriteOutput, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: flushing %s: %v", ErrWriteOutput, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming into %s: %v", ErrWriteOutput, path, err)
	}
	return nil
}

// Job pairs one input file with its output destination.
type Job struct {
	InputPath  string
	OutputPath string
}

// BatchResult summarizes a sequential batch run.
type BatchResult struct {
	Converted   int
	Failed      int
	WriteFailed int
}

// Total returns the number of jobs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed + r.WriteFailed
}

// HasFailures reports whether any job failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0 || r.WriteFailed > 0
}

// ConvertAll processes jobs one at a time, printing per-file status and a
// summary to w. Each job's output write is independent and atomic, so one
// failure never affects the others' output files. The returned slice holds
// the Result of every successful job, in order.
func ConvertAll(jobs []Job, style types.StyleConfig, w io.Writer) (BatchResult, []Result) {
	var result BatchResult
	var done []Result
	for _, job := range jobs {
		res, err := Convert(job.InputPath, job.OutputPath, style, w)
		switch {
		case err == nil:
			fmt.Fprintf(w, "converted: %s -> %s (%d turns)\n", job.InputPath, job.OutputPath, res.Turns)
			result.Converted++
			done = append(done, res)
		case errors.Is(err, ErrWriteOutput):
			fmt.Fprintf(w, "failed:    %s (%v)\n", job.InputPath, err)
			result.WriteFailed++
		default:
			fmt.Fprintf(w, "failed:    %s (%v)\n", job.InputPath, err)
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed+result.WriteFailed, result.Total())
	return result, done
}

// OutputPathFor derives the default output path for an input: same base name
// with a .md extension, placed in outDir when given, otherwise next to the
// input.
func OutputPathFor(inPath, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath)) + ".md"
	if outDir != "" {
		return filepath.Join(outDir, base)
	}
	return filepath.Join(filepath.Dir(inPath), base)
}
