//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// ConvertAll builds the CLI and runs it over every JSON export in exports/,
// writing Markdown into markdown/.
func ConvertAll() error {
	mg.Deps(Build)

	inputs, err := filepath.Glob(filepath.Join("exports", "*.json"))
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		fmt.Println("No exports found in exports/.")
		return nil
	}

	args := append([]string{"convert", "--out-dir", "markdown"}, inputs...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}
