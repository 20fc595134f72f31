// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biogen-engine/internal/taskstore"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored synthesis runs (list, show, search, export)",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs, newest first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run with its candidates and evidence",
	RunE:  runRunsShow,
}

var runsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over final artifact text",
	RunE:  runRunsSearch,
}

var runsExportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export one run as YAML",
	RunE:  runRunsExport,
}

func init() {
	runsCmd.PersistentFlags().String("run-db", "output/index/runs.db", "SQLite run store path")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsSearchCmd)
	runsCmd.AddCommand(runsExportCmd)

	rootCmd.AddCommand(runsCmd)
}

func openRunStore(cmd *cobra.Command) (*taskstore.Store, error) {
	path, _ := cmd.Flags().GetString("run-db")
	return taskstore.NewStore(types.RunStoreConfig{Path: path})
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.ListRuns(context.Background())
	if err != nil {
		return err
	}
	printRunSummaries(summaries)
	return nil
}

func runRunsSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}
	store, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.Search(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	printRunSummaries(summaries)
	return nil
}

func printRunSummaries(summaries []taskstore.RunSummary) {
	if len(summaries) == 0 {
		fmt.Println("No runs found.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-20s  %-10s  %-8s  %s\n",
		"Run", "Item", "Candidates", "Evidence", "Created")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))
	for _, s := range summaries {
		item := s.ItemID
		if len(item) > 20 {
			item = item[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-20s  %-10d  %-8d  %s\n",
			s.ID, item, s.Candidates, s.Evidence, s.CreatedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(summaries))
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one run ID")
	}
	store, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.GetRun(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Run %s (item %s, created %s)\n\n",
		run.ID, run.Item.ID, run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(os.Stdout, "Question: %s\n", run.Item.Question)
	if run.Item.Answer != "" {
		fmt.Fprintf(os.Stdout, "Answer:   %s\n", run.Item.Answer)
	}
	fmt.Fprintf(os.Stdout, "\nFinal:\n%s\n", run.Artifact.Final)

	if len(run.Artifact.Candidates) > 0 {
		fmt.Fprintf(os.Stdout, "\nCandidates (%d):\n", len(run.Artifact.Candidates))
		for i, c := range run.Artifact.Candidates {
			fmt.Fprintf(os.Stdout, "  [%d] %s\n", i+1, firstLine(c))
		}
	}
	if len(run.Artifact.Evidence) > 0 {
		fmt.Fprintf(os.Stdout, "\nEvidence (%d rounds):\n", len(run.Artifact.Evidence))
		for i, e := range run.Artifact.Evidence {
			fmt.Fprintf(os.Stdout, "  [%d] %s\n", i+1, e.Tool)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one run ID")
	}
	store, err := openRunStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.ExportYAML(context.Background(), args[0], os.Stdout)
}
