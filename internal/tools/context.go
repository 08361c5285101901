package tools

import (
	"context"
	"fmt"

	"github.com/autobots-devtools/vision-mcp/internal/sessionctx"
	"github.com/mark3labs/mcp-go/mcp"
)

// SetDocumentContextTool handles the set_document_context MCP tool.
// It binds a session to an active document so later section-scoped
// calls can omit component/version.
type SetDocumentContextTool struct {
	contexts sessionctx.Store
}

// NewSetDocumentContextTool creates a SetDocumentContextTool.
func NewSetDocumentContextTool(contexts sessionctx.Store) *SetDocumentContextTool {
	return &SetDocumentContextTool{contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *SetDocumentContextTool) Definition() mcp.Tool {
	return mcp.NewTool("set_document_context",
		mcp.WithDescription(
			"Bind the session to an active vision document (component + version). "+
				"Later document operations can then omit component/version. The "+
				"document does not have to exist yet. The binding is replaced "+
				"whole on every call.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Conversation session identifier"),
		),
		mcp.WithString("component",
			mcp.Required(),
			mcp.Description("Component name (e.g., \"payment-gateway\")"),
		),
		mcp.WithString("version",
			mcp.Required(),
			mcp.Description("Version string (e.g., \"v1\")"),
		),
	)
}

// Handle processes the set_document_context tool call.
func (t *SetDocumentContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	component := req.GetString("component", "")
	version := req.GetString("version", "")

	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	if component == "" || version == "" {
		return mcp.NewToolResultError("'component' and 'version' are required"), nil
	}

	binding := sessionctx.Context{Component: component, Version: version}
	if err := t.contexts.Set(ctx, sessionID, binding); err != nil {
		return nil, fmt.Errorf("binding session context: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Document context set to %s/%s", component, version)), nil
}

// GetDocumentContextTool handles the get_document_context MCP tool.
type GetDocumentContextTool struct {
	contexts sessionctx.Store
}

// NewGetDocumentContextTool creates a GetDocumentContextTool.
func NewGetDocumentContextTool(contexts sessionctx.Store) *GetDocumentContextTool {
	return &GetDocumentContextTool{contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *GetDocumentContextTool) Definition() mcp.Tool {
	return mcp.NewTool("get_document_context",
		mcp.WithDescription("Show the session's active vision document, if one is bound."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Conversation session identifier"),
		),
	)
}

// Handle processes the get_document_context tool call.
func (t *GetDocumentContextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	binding, err := t.contexts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reading session context: %w", err)
	}
	if binding == nil {
		return mcp.NewToolResultText("No document bound for this session."), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Active document: %s/%s", binding.Component, binding.Version)), nil
}
