// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-id/internal/institution"
	"github.com/pdiddy/scholar-id/internal/openalex"
)

var institutionCmd = &cobra.Command{
	Use:   "institution <name>",
	Short: "Resolve an institution name to its canonical record",
	Long: `Institution resolves a free-text name or abbreviation (e.g. "MIT") to the
best matching canonical OpenAlex record, reporting the match type and
score. When nothing matches, the raw search candidates are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstitution,
}

func init() {
	institutionCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(institutionCmd)
}

func runInstitution(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := serviceConfig()
	client := openalex.New(cfg.OpenAlex)

	candidates, err := client.SearchInstitutions(cmd.Context(), args[0], 10)
	if err != nil {
		return err
	}

	match, ok := institution.Resolve(args[0], candidates)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if ok {
			return enc.Encode(match)
		}
		return enc.Encode(candidates)
	}

	if !ok {
		if len(candidates) == 0 {
			fmt.Printf("No institutions found for %q.\n", args[0])
			return nil
		}
		fmt.Printf("No match for %q; candidates:\n", args[0])
		for _, c := range candidates {
			fmt.Printf("  %s  %s (%s)\n", openalex.CleanID(c.ID), c.DisplayName, c.CountryCode)
		}
		return nil
	}

	fmt.Printf("%s\n", match.DisplayName)
	fmt.Printf("  ID: %s\n", openalex.CleanID(match.ID))
	if match.CountryCode != "" {
		fmt.Printf("  Country: %s\n", match.CountryCode)
	}
	if match.Type != "" {
		fmt.Printf("  Type: %s\n", match.Type)
	}
	if match.HomepageURL != "" {
		fmt.Printf("  Homepage: %s\n", match.HomepageURL)
	}
	fmt.Printf("  Match: %s (score %.0f)\n", match.MatchType, match.Score)
	return nil
}
