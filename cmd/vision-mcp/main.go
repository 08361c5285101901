// vision-mcp: Vision Document MCP Server
//
// An MCP server that lets AI agent teams author structured component
// vision documents: section-by-section content with lifecycle status,
// dynamic entities and iterations, and deterministic Markdown export.
//
// Usage:
//
//	vision-mcp serve    # Start MCP server (stdio transport)
package main

import (
	"fmt"
	"os"

	"github.com/autobots-devtools/vision-mcp/internal/config"
	visionserver "github.com/autobots-devtools/vision-mcp/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("vision-mcp v%s\n", visionserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	s, cleanup, err := visionserver.New(settings)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Stdout is the MCP stdio transport; anything user-facing goes
	// to stderr.
	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `vision-mcp v%s — Vision Document MCP Server

Usage:
  vision-mcp serve    Start the MCP server (stdio transport)

Configuration (environment):
  %-24s storage root for documents (default: vision-docs)
  %-24s server state directory (default: ~/.vision-mcp)
  %-24s session context backend: memory | redis | sqlite
  %-24s redis connection URL for the redis backend
  %-24s YAML section catalog overriding the built-in one

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "vision-mcp": {
        "command": "vision-mcp",
        "args": ["serve"]
      }
    }
  }
`, visionserver.Version,
		config.EnvDocsDir, config.EnvDataDir, config.EnvContextBackend,
		config.EnvRedisURL, config.EnvSectionsFile)
}
