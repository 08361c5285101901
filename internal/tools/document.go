package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/autobots-devtools/vision-mcp/internal/document"
	"github.com/autobots-devtools/vision-mcp/internal/sessionctx"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateDocumentTool handles the create_document MCP tool.
// Creating a document also binds it as the session's active document
// when a session_id is supplied, so the caller can continue working
// without a separate set_document_context call.
type CreateDocumentTool struct {
	store    document.Store
	contexts sessionctx.Store
}

// NewCreateDocumentTool creates a CreateDocumentTool.
func NewCreateDocumentTool(store document.Store, contexts sessionctx.Store) *CreateDocumentTool {
	return &CreateDocumentTool{store: store, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateDocumentTool) Definition() mcp.Tool {
	return mcp.NewTool("create_document",
		mcp.WithDescription(
			"Create a new vision document for a component and version. All "+
				"catalog sections start at not_started. Fails if the document "+
				"already exists. If session_id is given, the new document "+
				"becomes the session's active document.",
		),
		mcp.WithString("component",
			mcp.Required(),
			mcp.Description("Component name (e.g., \"payment-gateway\")"),
		),
		mcp.WithString("version",
			mcp.Required(),
			mcp.Description("Version string (e.g., \"v1\")"),
		),
		mcp.WithString("session_id",
			mcp.Description("Conversation session identifier to bind the new document to"),
		),
	)
}

// Handle processes the create_document tool call.
func (t *CreateDocumentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	component := req.GetString("component", "")
	version := req.GetString("version", "")
	if component == "" || version == "" {
		return mcp.NewToolResultError("'component' and 'version' are required"), nil
	}

	meta, err := t.store.CreateDocument(component, version)
	if err != nil {
		return errResult(err)
	}

	if sessionID := req.GetString("session_id", ""); sessionID != "" {
		binding := sessionctx.Context{Component: component, Version: version}
		if err := t.contexts.Set(ctx, sessionID, binding); err != nil {
			return nil, fmt.Errorf("binding session context: %w", err)
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Created document %s with %d sections and set it as the active document.",
			meta.Key(), len(meta.Sections),
		)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Created document %s with %d sections.", meta.Key(), len(meta.Sections),
	)), nil
}

// ListDocumentsTool handles the list_documents MCP tool.
type ListDocumentsTool struct {
	store document.Store
}

// NewListDocumentsTool creates a ListDocumentsTool.
func NewListDocumentsTool(store document.Store) *ListDocumentsTool {
	return &ListDocumentsTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ListDocumentsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_documents",
		mcp.WithDescription("List all vision documents with their section completion counts."),
	)
}

// Handle processes the list_documents tool call.
func (t *ListDocumentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := t.store.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	if len(summaries) == 0 {
		return mcp.NewToolResultText("No documents found."), nil
	}

	var b strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&b, "%s — %d/%d sections complete\n", s.Key, s.Completed, s.Total)
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

// DeleteDocumentTool handles the delete_document MCP tool.
type DeleteDocumentTool struct {
	store    document.Store
	contexts sessionctx.Store
}

// NewDeleteDocumentTool creates a DeleteDocumentTool.
func NewDeleteDocumentTool(store document.Store, contexts sessionctx.Store) *DeleteDocumentTool {
	return &DeleteDocumentTool{store: store, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteDocumentTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Delete a vision document including all of its section content " +
				"and entities. This cannot be undone.",
		),
	}
	return mcp.NewTool("delete_document", append(opts, keyArgs()...)...)
}

// Handle processes the delete_document tool call.
func (t *DeleteDocumentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := resolveKey(ctx, t.contexts, req)
	if err != nil {
		return errResult(err)
	}

	if err := t.store.DeleteDocument(key); err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted document %s.", key)), nil
}
