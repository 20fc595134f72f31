// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the biogen-engine CLI.
// Implements: prd002-gateway, prd005-synthesis, prd006-fetch,
//
//	prd007-run-store (CLI surface).
//
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/biogen-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the biogen-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "biogen-engine",
	Short: "Evidence-bounded biomedical question synthesis",
	Long: `biogen-engine builds difficult biomedical questions grounded in live
database evidence. The fetch subcommands retrieve and normalize gene,
protein, and interaction network records from Ensembl, the EBI Proteins
API, and STRING; the synth subcommand runs the bounded retrieval and
synthesis loop over a dataset of source items; the runs subcommands
inspect stored synthesis runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./biogen-engine.yaml or ~/.config/biogen-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("biogen-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "biogen-engine"))
		}
	}

	viper.SetEnvPrefix("BIOGEN_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setting returns the flag value when the user set it, then the viper
// config value, then the flag default.
func setting(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
