// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-id/internal/disambig"
	"github.com/pdiddy/scholar-id/internal/openalex"
	"github.com/pdiddy/scholar-id/pkg/types"
)

var disambiguateCmd = &cobra.Command{
	Use:   "disambiguate <name>",
	Short: "Identify the correct author among namesakes",
	Long: `Disambiguate searches OpenAlex for authors matching a name and ranks the
candidates by confidence. Supply an affiliation, research field, or ORCID
to sharpen the match; add --detailed for authorship-position and career
stage analysis per candidate.`,
	Args: cobra.ExactArgs(1),
	RunE: runDisambiguate,
}

func init() {
	disambiguateCmd.Flags().String("affiliation", "", "institution name or fragment")
	disambiguateCmd.Flags().String("field", "", "research field or topic")
	disambiguateCmd.Flags().String("orcid", "", "ORCID identifier (bare or URL form)")
	disambiguateCmd.Flags().Int("max-candidates", 0, "maximum candidates to return (default 5, max 25)")
	disambiguateCmd.Flags().Bool("detailed", false, "include authorship and career stage analysis")
	disambiguateCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(disambiguateCmd)
}

func runDisambiguate(cmd *cobra.Command, args []string) error {
	affiliation, _ := cmd.Flags().GetString("affiliation")
	field, _ := cmd.Flags().GetString("field")
	orcid, _ := cmd.Flags().GetString("orcid")
	maxCandidates, _ := cmd.Flags().GetInt("max-candidates")
	detailed, _ := cmd.Flags().GetBool("detailed")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := serviceConfig()
	if maxCandidates == 0 {
		maxCandidates = cfg.Disambiguation.MaxCandidates
	}

	resolver := disambig.NewResolver(openalex.New(cfg.OpenAlex))
	candidates, err := resolver.Disambiguate(cmd.Context(), types.AuthorQuery{
		Name:          args[0],
		Affiliation:   affiliation,
		ResearchField: field,
		ORCID:         orcid,
		MaxCandidates: maxCandidates,
	}, disambig.Options{
		IncludeCareerAnalysis: detailed,
		WorkSampleSize:        cfg.Disambiguation.WorkSampleSize,
		EnrichConcurrency:     cfg.Disambiguation.EnrichConcurrency,
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	}

	if len(candidates) == 0 {
		fmt.Printf("No candidates found for %q.\n", args[0])
		return nil
	}

	fmt.Printf("Found %d candidate(s) for %q:\n\n", len(candidates), args[0])
	for i, c := range candidates {
		printCandidate(i+1, c)
	}
	return nil
}

func printCandidate(rank int, c types.ScoredAuthor) {
	fmt.Printf("%d. %s  (confidence %.2f)\n", rank, c.DisplayName, c.Confidence)
	fmt.Printf("   ID: %s\n", openalex.CleanID(c.ID))
	if c.ORCID != "" {
		fmt.Printf("   ORCID: %s\n", c.ORCID)
	}
	if len(c.Institutions) > 0 {
		names := make([]string, 0, len(c.Institutions))
		for _, inst := range c.Institutions {
			names = append(names, inst.Name)
		}
		fmt.Printf("   Affiliation: %s\n", strings.Join(names, "; "))
	}
	fmt.Printf("   Works: %d  Citations: %d  h-index: %d\n", c.WorksCount, c.CitedByCount, c.HIndex)
	if len(c.MatchReasons) > 0 {
		fmt.Printf("   Matched on: %s\n", strings.Join(c.MatchReasons, ", "))
	}
	if c.CareerStage != "" {
		fmt.Printf("   Career stage: %s", c.CareerStage)
		if c.SeniorityScore != nil {
			fmt.Printf("  (seniority %.2f)", *c.SeniorityScore)
		}
		fmt.Println()
		if c.Authorship != nil {
			fmt.Printf("   Authorship: %d first / %d middle / %d last\n",
				c.Authorship.First, c.Authorship.Middle, c.Authorship.Last)
		}
	}
	fmt.Println()
}
