// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-id/internal/mcpserver"
	"github.com/pdiddy/scholar-id/internal/openalex"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Serve speaks the Model Context Protocol on stdin/stdout so an MCP client
can call the disambiguation and lookup tools. Diagnostics go to stderr;
stdout carries only protocol traffic.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("log-level", "info", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}

	// stdout belongs to the protocol; everything else goes to stderr.
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	cfg := serviceConfig()
	client := openalex.New(cfg.OpenAlex)
	server := mcpserver.New(client, cfg, log, version)

	log.Info().Str("version", version).Msg("scholar-id MCP server starting")
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}
