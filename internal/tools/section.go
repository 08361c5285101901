package tools

import (
	"context"
	"fmt"

	"github.com/autobots-devtools/vision-mcp/internal/document"
	"github.com/autobots-devtools/vision-mcp/internal/sessionctx"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateSectionTool handles the update_section MCP tool.
type UpdateSectionTool struct {
	store    document.Store
	contexts sessionctx.Store
}

// NewUpdateSectionTool creates an UpdateSectionTool.
func NewUpdateSectionTool(store document.Store, contexts sessionctx.Store) *UpdateSectionTool {
	return &UpdateSectionTool{store: store, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateSectionTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Write section content into a vision document. A not_started " +
				"section moves to in_progress; any other status is kept — " +
				"use set_section_status to change it explicitly.",
		),
		mcp.WithString("section_id",
			mcp.Required(),
			mcp.Description("Section identifier (e.g., \"01-preface\", \"05-entity-payment-profile\")"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Section content as a JSON object string"),
		),
	}
	return mcp.NewTool("update_section", append(opts, keyArgs()...)...)
}

// Handle processes the update_section tool call.
func (t *UpdateSectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := resolveKey(ctx, t.contexts, req)
	if err != nil {
		return errResult(err)
	}

	sectionID := req.GetString("section_id", "")
	content := req.GetString("content", "")
	if sectionID == "" {
		return mcp.NewToolResultError("'section_id' is required"), nil
	}
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	if err := t.store.WriteSection(key, sectionID, document.Content(content)); err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated section %q in %s.", sectionID, key)), nil
}

// ReadSectionTool handles the read_section MCP tool.
type ReadSectionTool struct {
	store    document.Store
	contexts sessionctx.Store
}

// NewReadSectionTool creates a ReadSectionTool.
func NewReadSectionTool(store document.Store, contexts sessionctx.Store) *ReadSectionTool {
	return &ReadSectionTool{store: store, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *ReadSectionTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Read a section's stored JSON content from a vision document."),
		mcp.WithString("section_id",
			mcp.Required(),
			mcp.Description("Section identifier"),
		),
	}
	return mcp.NewTool("read_section", append(opts, keyArgs()...)...)
}

// Handle processes the read_section tool call.
func (t *ReadSectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := resolveKey(ctx, t.contexts, req)
	if err != nil {
		return errResult(err)
	}

	sectionID := req.GetString("section_id", "")
	if sectionID == "" {
		return mcp.NewToolResultError("'section_id' is required"), nil
	}

	content, err := t.store.ReadSection(key, sectionID)
	if err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(string(content)), nil
}

// SetSectionStatusTool handles the set_section_status MCP tool.
type SetSectionStatusTool struct {
	store    document.Store
	contexts sessionctx.Store
}

// NewSetSectionStatusTool creates a SetSectionStatusTool.
func NewSetSectionStatusTool(store document.Store, contexts sessionctx.Store) *SetSectionStatusTool {
	return &SetSectionStatusTool{store: store, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *SetSectionStatusTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Set a section's status explicitly. Any transition is allowed, " +
				"including reopening a complete section.",
		),
		mcp.WithString("section_id",
			mcp.Required(),
			mcp.Description("Section identifier"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("One of: not_started, in_progress, needs_detail, draft, complete"),
		),
	}
	return mcp.NewTool("set_section_status", append(opts, keyArgs()...)...)
}

// Handle processes the set_section_status tool call.
func (t *SetSectionStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := resolveKey(ctx, t.contexts, req)
	if err != nil {
		return errResult(err)
	}

	sectionID := req.GetString("section_id", "")
	status := req.GetString("status", "")
	if sectionID == "" || status == "" {
		return mcp.NewToolResultError("'section_id' and 'status' are required"), nil
	}

	if err := t.store.UpdateSectionStatus(key, sectionID, document.Status(status)); err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Set section %q status to %q in %s.", sectionID, status, key)), nil
}
