// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-id/internal/openalex"
	"github.com/pdiddy/scholar-id/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search author records by name",
	Long: `Search returns raw author records from OpenAlex without confidence
scoring. Use disambiguate when you need candidates ranked against an
affiliation or research field.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("affiliation", "", "institution name to narrow the search")
	searchCmd.Flags().Int("limit", 10, "maximum results (max 25)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	affiliation, _ := cmd.Flags().GetString("affiliation")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := serviceConfig()
	client := openalex.New(cfg.OpenAlex)

	authors, err := client.SearchAuthors(cmd.Context(), types.AuthorFilters{
		Name:        args[0],
		Affiliation: affiliation,
	}, limit)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(authors)
	}

	if len(authors) == 0 {
		fmt.Printf("No authors found for %q.\n", args[0])
		return nil
	}

	for _, a := range authors {
		fmt.Printf("%s  %s", openalex.CleanID(a.ID), a.DisplayName)
		if len(a.Institutions) > 0 {
			fmt.Printf("  (%s)", a.Institutions[0].Name)
		}
		fmt.Printf("  works=%d cited=%d h=%d\n", a.WorksCount, a.CitedByCount, a.HIndex)
		if len(a.Topics) > 0 {
			fmt.Printf("    topics: %s\n", strings.Join(a.Topics, ", "))
		}
	}
	return nil
}
