// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scholar-id CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-id/internal/secrets"
	"github.com/pdiddy/scholar-id/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the scholar-id CLI.
var rootCmd = &cobra.Command{
	Use:   "scholar-id",
	Short: "Author disambiguation and bibliometric lookup over OpenAlex",
	Long: `scholar-id identifies the correct researcher among namesakes. It searches
the OpenAlex scholarly database, scores candidates against affiliation,
research field, and ORCID hints, and classifies career stage from
authorship positions.

Run it as an MCP server over stdio with "serve", or use the subcommands
directly: disambiguate, search, institution.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scholar-id.yaml or ~/.config/scholar-id/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scholar-id")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scholar-id"))
		}
	}

	viper.SetEnvPrefix("SCHOLAR_ID")
	viper.AutomaticEnv()

	viper.SetDefault("openalex.timeout", 30*time.Second)
	viper.SetDefault("openalex.user_agent", "scholar-id/0.1")
	viper.SetDefault("openalex.max_retries", 3)
	viper.SetDefault("disambiguation.max_candidates", 5)
	viper.SetDefault("disambiguation.work_sample_size", 20)
	viper.SetDefault("disambiguation.enrich_concurrency", 4)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// serviceConfig assembles the effective configuration from viper and the
// secrets directory. Secrets fill in only what the config leaves empty.
func serviceConfig() types.ServiceConfig {
	return types.ServiceConfig{
		OpenAlex: types.OpenAlexConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("openalex.timeout"),
				UserAgent: viper.GetString("openalex.user_agent"),
			},
			Email:      secretDefault(secrets.KeyEmail, viper.GetString("openalex.email")),
			APIKey:     secretDefault(secrets.KeyAPIKey, viper.GetString("openalex.api_key")),
			MaxRetries: viper.GetInt("openalex.max_retries"),
		},
		Disambiguation: types.DisambiguationConfig{
			MaxCandidates:     viper.GetInt("disambiguation.max_candidates"),
			WorkSampleSize:    viper.GetInt("disambiguation.work_sample_size"),
			EnrichConcurrency: viper.GetInt("disambiguation.enrich_concurrency"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
