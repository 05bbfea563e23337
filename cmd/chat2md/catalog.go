// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chat2md/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the conversion catalog",
	Long: `Catalog manages the optional SQLite record of completed conversions.
Conversions land in the catalog when convert runs with --catalog (or a
catalog.path config entry).`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged conversions",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = viper.GetString("catalog.path")
	}
	if path == "" {
		return fmt.Errorf("no catalog configured: pass --catalog or set catalog.path")
	}

	store, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-40s  %-40s  %-6s  %s\n", "Input", "Output", "Turns", "Converted")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-40s  %-40s  %-6d  %s\n",
			clip(e.InputPath, 40), clip(e.OutputPath, 40), e.Turns,
			e.ConvertedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(os.Stdout, "\n%d conversions\n", len(entries))
	return nil
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}

func init() {
	catalogCmd.PersistentFlags().String("catalog", "", "SQLite catalog database file")
	catalogListCmd.Flags().Bool("json", false, "output entries as JSON")

	catalogCmd.AddCommand(catalogListCmd)
	rootCmd.AddCommand(catalogCmd)
}
