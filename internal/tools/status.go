package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/autobots-devtools/vision-mcp/internal/document"
	"github.com/autobots-devtools/vision-mcp/internal/sessionctx"
	"github.com/mark3labs/mcp-go/mcp"
)

// DocumentStatusTool handles the get_document_status MCP tool.
// It renders a readable per-section status summary of a document.
type DocumentStatusTool struct {
	store    document.Store
	contexts sessionctx.Store
}

// NewDocumentStatusTool creates a DocumentStatusTool.
func NewDocumentStatusTool(store document.Store, contexts sessionctx.Store) *DocumentStatusTool {
	return &DocumentStatusTool{store: store, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *DocumentStatusTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Show the status of every section in a vision document, plus its " +
				"dynamic items (entities, iterations).",
		),
	}
	return mcp.NewTool("get_document_status", append(opts, keyArgs()...)...)
}

// Handle processes the get_document_status tool call.
func (t *DocumentStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := resolveKey(ctx, t.contexts, req)
	if err != nil {
		return errResult(err)
	}

	meta, err := t.store.GetDocument(key)
	if err != nil {
		return errResult(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n", meta.Key())
	fmt.Fprintf(&b, "Created: %s\nUpdated: %s\n\n", meta.CreatedAt, meta.UpdatedAt)

	sectionIDs := make([]string, 0, len(meta.Sections))
	for id := range meta.Sections {
		sectionIDs = append(sectionIDs, id)
	}
	sort.Strings(sectionIDs)

	b.WriteString("| Section | Status |\n")
	b.WriteString("|---------|--------|\n")
	for _, id := range sectionIDs {
		fmt.Fprintf(&b, "| %s | %s |\n", id, meta.Sections[id].Status)
	}

	groups := make([]string, 0, len(meta.DynamicItems))
	for g := range meta.DynamicItems {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, g := range groups {
		items := meta.DynamicItems[g]
		if len(items) == 0 {
			continue
		}
		names := make([]string, len(items))
		for i, item := range items {
			names[i] = item.ItemName
		}
		fmt.Fprintf(&b, "\n%s: %s\n", g, strings.Join(names, ", "))
	}

	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}
