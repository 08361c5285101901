package tools

import (
	"context"

	"github.com/autobots-devtools/vision-mcp/internal/export"
	"github.com/autobots-devtools/vision-mcp/internal/sessionctx"
	"github.com/mark3labs/mcp-go/mcp"
)

// ExportMarkdownTool handles the export_markdown MCP tool.
// Export is a pure projection: nothing is written back to the store.
// Persisting the rendered document is the caller's decision.
type ExportMarkdownTool struct {
	exporter *export.Exporter
	contexts sessionctx.Store
}

// NewExportMarkdownTool creates an ExportMarkdownTool.
func NewExportMarkdownTool(exporter *export.Exporter, contexts sessionctx.Store) *ExportMarkdownTool {
	return &ExportMarkdownTool{exporter: exporter, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *ExportMarkdownTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Render a vision document as Markdown: all catalog sections in " +
				"order, then each dynamic group's items in stored order. " +
				"Deterministic — the same document always renders the same bytes.",
		),
	}
	return mcp.NewTool("export_markdown", append(opts, keyArgs()...)...)
}

// Handle processes the export_markdown tool call.
func (t *ExportMarkdownTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := resolveKey(ctx, t.contexts, req)
	if err != nil {
		return errResult(err)
	}

	markdown, err := t.exporter.Export(key)
	if err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(markdown), nil
}
