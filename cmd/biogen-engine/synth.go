// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biogen-engine/internal/router"
	"github.com/pdiddy/biogen-engine/internal/secrets"
	"github.com/pdiddy/biogen-engine/internal/synth"
	"github.com/pdiddy/biogen-engine/internal/taskstore"
	"github.com/pdiddy/biogen-engine/pkg/types"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultBaseURL = "https://api.openai.com/v1"
)

var synthCmd = &cobra.Command{
	Use:   "synth [item-ids...]",
	Short: "Run the synthesis pipeline over a dataset of source items",
	Long: `Synth runs the bounded retrieval and synthesis loop for each item in
the dataset: analyze the source item, then up to max-rounds rounds of
plan/retrieve/synthesize against the upstream databases, then reflect
and rewrite. Each item's artifact is written to the output directory
and indexed in the run store.

With item IDs as arguments, only those items are processed.`,
	RunE: runSynth,
}

func init() {
	synthCmd.Flags().String("items", "", "dataset file of task items (YAML or JSON)")
	synthCmd.Flags().String("model", defaultModel, "chat completion model identifier")
	synthCmd.Flags().String("base-url", defaultBaseURL, "OpenAI-compatible API base URL")
	synthCmd.Flags().Int("max-rounds", 3, "maximum retrieval rounds per item")
	synthCmd.Flags().String("output-dir", "output/tasks", "directory for synthesized artifacts")
	synthCmd.Flags().String("run-db", "output/index/runs.db", "SQLite run store path")

	// Retrieval tool configuration, same surface as fetch.
	synthCmd.Flags().String("species", "human", "species alias: human, mouse, or rat")
	synthCmd.Flags().String("cache-dir", "cache", "base directory for cached upstream responses")
	synthCmd.Flags().String("records-dir", "records", "base directory for normalized records")
	synthCmd.Flags().Duration("cache-ttl", defaultCacheTTL, "cache validity window (0 = never expire)")
	synthCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	synthCmd.Flags().Float64("min-score", 0.9, "minimum interaction score for network edges")

	rootCmd.AddCommand(synthCmd)
}

func runSynth(cmd *cobra.Command, args []string) error {
	itemsPath := setting(cmd, "items", "synthesis.items")
	if itemsPath == "" {
		return fmt.Errorf("provide a dataset with --items")
	}

	items, err := synth.LoadItems(itemsPath)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		items = filterItems(items, args)
		if len(items) == 0 {
			return fmt.Errorf("no dataset items match the given IDs")
		}
	}

	aiCfg := types.AIConfig{
		Model:   setting(cmd, "model", "synthesis.model"),
		BaseURL: setting(cmd, "base-url", "synthesis.base_url"),
		APIKey:  secrets.Resolve(loadedSecrets, secrets.OpenAIAPIKey, "OPENAI_API_KEY"),
	}
	if aiCfg.APIKey == "" {
		return fmt.Errorf("no API key: add .secrets/%s or set OPENAI_API_KEY", secrets.OpenAIAPIKey)
	}

	maxRounds, _ := cmd.Flags().GetInt("max-rounds")
	outputDir := setting(cmd, "output-dir", "synthesis.output_dir")

	srcCfg := sourcesConfig(cmd)
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	srcCfg.MinScore = minScore

	svc, err := newFetchServiceFrom(srcCfg)
	if err != nil {
		return err
	}

	tools := router.New()
	router.Bind(tools, svc)

	client := synth.NewOpenAIClient(aiCfg, &http.Client{Timeout: srcCfg.Timeout})
	pipeline := synth.NewPipeline(client, tools, synth.RetrievalToolDefs(), types.SynthesisConfig{
		AIConfig:           aiCfg,
		MaxRetrievalRounds: maxRounds,
		OutputDir:          outputDir,
	}, os.Stderr)

	store, err := taskstore.NewStore(types.RunStoreConfig{Path: setting(cmd, "run-db", "run_store.path")})
	if err != nil {
		return err
	}
	defer store.Close()

	failed := 0
	for _, item := range items {
		fmt.Fprintf(os.Stderr, "item %s\n", item.ID)

		artifact, err := pipeline.Run(context.Background(), item)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  failed: %v\n", err)
			failed++
			continue
		}

		path, err := synth.SaveArtifact(outputDir, item.ID, artifact)
		if err != nil {
			return err
		}
		runID, err := store.SaveRun(context.Background(), item, artifact)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "  saved %s (run %s)\n", path, runID)
	}

	if failed > 0 {
		return fmt.Errorf("%d item(s) failed synthesis", failed)
	}
	return nil
}

func filterItems(items []types.TaskItem, ids []string) []types.TaskItem {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []types.TaskItem
	for _, item := range items {
		if wanted[item.ID] {
			out = append(out, item)
		}
	}
	return out
}
