// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-search/internal/archive"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List harvests stored in the local archive",
	Long: `History opens the archive named by --archive and lists every stored
harvest, oldest first, with its time, source and record count.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Bool("json", false, "output harvests, records included, as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := archiveConfig(viper.GetViper())
	if strings.TrimSpace(cfg.Path) == "" {
		return fmt.Errorf("no archive configured: pass --archive <path>")
	}

	store, err := archive.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	harvests, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(harvests)
	}
	return formatHistory(cmd.OutOrStdout(), harvests)
}

// formatHistory prints one row per harvest. Long sources are truncated
// from the left so the distinguishing query arguments stay visible.
func formatHistory(w io.Writer, harvests []archive.Harvest) error {
	if len(harvests) == 0 {
		_, err := fmt.Fprintln(w, "No harvests archived.")
		return err
	}

	fmt.Fprintf(w, "%-5s  %-20s  %7s  %-8s  %s\n", "ID", "Harvested", "Records", "Complete", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, h := range harvests {
		complete := "yes"
		if h.ResumptionToken != "" {
			complete = "no"
		}
		source := h.Source
		if r := []rune(source); len(r) > 55 {
			source = "..." + string(r[len(r)-52:])
		}
		fmt.Fprintf(w, "%-5d  %-20s  %7d  %-8s  %s\n",
			h.ID, h.HarvestedAt.UTC().Format(time.RFC3339), len(h.Records), complete, source)
	}
	_, err := fmt.Fprintf(w, "\n%d harvest(s)\n", len(harvests))
	return err
}
