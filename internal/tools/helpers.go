// Package tools implements the MCP tool handlers for the vision
// document store — the operation surface called by the agent
// orchestration layer.
//
// Each tool receives its dependencies via its struct (DIP) and exposes
// a Definition/Handle pair compatible with mcp-go. Store error kinds
// are translated into fixed user-facing messages so that conversational
// agents can react to them predictably; unexpected faults (I/O, backend
// outages) are returned as handler errors instead.
package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/autobots-devtools/vision-mcp/internal/document"
	"github.com/autobots-devtools/vision-mcp/internal/sessionctx"
	"github.com/mark3labs/mcp-go/mcp"
)

// Fixed user-facing messages, one per failure. Conversational agents
// key off these strings, so they never carry internal error detail.
const (
	msgDocumentNotFound = "Document not found. Create with create_document()"
	msgSectionNotFound  = "Section not found."
	msgEntityNotFound   = "Entity not found."
	msgDocumentExists   = "Document already exists."
	msgEntityExists     = "Entity already exists."
	msgInvalidSectionID = "Invalid section_id"
	msgInvalidStatus    = "Invalid status"
	msgInvalidContent   = "Content must be a JSON object"
	msgInvalidName      = "Invalid name."
	msgUnknownGroup     = "Unknown group."
	msgNotPermutation   = "Reorder list must be a permutation of the current item names"
	msgInvalid          = "Invalid input."
	msgNoContext        = "No active document. Use set_document_context first"
)

// errResult translates a store error into a tool result: each known
// failure maps to its fixed message; anything else propagates as a
// handler error.
func errResult(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, document.ErrNoContext):
		return mcp.NewToolResultError(msgNoContext), nil
	case errors.Is(err, document.ErrDocumentNotFound):
		return mcp.NewToolResultError(msgDocumentNotFound), nil
	case errors.Is(err, document.ErrEntityNotFound):
		return mcp.NewToolResultError(msgEntityNotFound), nil
	case errors.Is(err, document.ErrNotFound):
		return mcp.NewToolResultError(msgSectionNotFound), nil
	case errors.Is(err, document.ErrDocumentExists):
		return mcp.NewToolResultError(msgDocumentExists), nil
	case errors.Is(err, document.ErrConflict):
		return mcp.NewToolResultError(msgEntityExists), nil
	case errors.Is(err, document.ErrInvalidSectionID):
		return mcp.NewToolResultError(msgInvalidSectionID), nil
	case errors.Is(err, document.ErrInvalidStatus):
		return mcp.NewToolResultError(msgInvalidStatus), nil
	case errors.Is(err, document.ErrInvalidContent):
		return mcp.NewToolResultError(msgInvalidContent), nil
	case errors.Is(err, document.ErrInvalidName):
		return mcp.NewToolResultError(msgInvalidName), nil
	case errors.Is(err, document.ErrUnknownGroup):
		return mcp.NewToolResultError(msgUnknownGroup), nil
	case errors.Is(err, document.ErrNotPermutation):
		return mcp.NewToolResultError(msgNotPermutation), nil
	case errors.Is(err, document.ErrValidation):
		return mcp.NewToolResultError(msgInvalid), nil
	default:
		return nil, err
	}
}

// resolveKey determines which document a section-scoped call targets:
// explicit component/version arguments win; otherwise the session's
// active document binding is used. Fails with ErrNoContext when
// neither is available.
func resolveKey(ctx context.Context, contexts sessionctx.Store, req mcp.CallToolRequest) (document.Key, error) {
	component := req.GetString("component", "")
	version := req.GetString("version", "")
	if component != "" && version != "" {
		return document.Key{Component: component, Version: version}, nil
	}

	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return document.Key{}, document.ErrNoContext
	}

	binding, err := contexts.Get(ctx, sessionID)
	if err != nil {
		return document.Key{}, fmt.Errorf("resolving session context: %w", err)
	}
	if binding == nil {
		return document.Key{}, fmt.Errorf("session %q: %w", sessionID, document.ErrNoContext)
	}
	return binding.Key(), nil
}

// keyArgs returns the shared document-addressing arguments: explicit
// component/version, or session_id for context resolution.
func keyArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("component",
			mcp.Description("Component name. Omit to use the session's active document."),
		),
		mcp.WithString("version",
			mcp.Description("Version string. Omit to use the session's active document."),
		),
		mcp.WithString("session_id",
			mcp.Description("Conversation session identifier, used to resolve the active document when component/version are omitted."),
		),
	}
}
