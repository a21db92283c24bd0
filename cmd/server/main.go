// Package main provides the entry point for the geometry proof grading MCP
// server.
//
// This server is designed to be spawned as a child process by an MCP host
// and communicates via stdio using the Model Context Protocol. It should not
// be run manually by users.
//
// Environment variables:
//   - DEBUG: Set to "true" to enable debug logging
//   - GEOPROOF_CONFIG_FILE: optional path to a JSON or YAML config file,
//     loaded before environment-variable overrides are applied
package main

import (
	"context"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"geoproof/internal/config"
	"geoproof/internal/server"
)

func main() {
	if os.Getenv("DEBUG") == "true" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Println("Starting geometry proof grading server in debug mode...")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Loaded configuration for environment %q", cfg.Server.Environment)

	srv := server.NewGradingServer(cfg)
	log.Println("Created grading server")

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)
	log.Println("Created MCP server")

	srv.RegisterTools(mcpServer)
	log.Println("Registered tools: grade-geometry-solution")

	transport := &mcp.StdioTransport{}
	log.Println("Created stdio transport")

	ctx := context.Background()
	log.Println("Starting MCP server...")
	if err := mcpServer.Run(ctx, transport); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadConfig loads from GEOPROOF_CONFIG_FILE when set, falling back to
// environment-variables-over-defaults otherwise.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("GEOPROOF_CONFIG_FILE"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
