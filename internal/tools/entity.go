package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/autobots-devtools/vision-mcp/internal/document"
	"github.com/autobots-devtools/vision-mcp/internal/sessionctx"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultGroup is the dynamic group used when a tool call omits one.
const defaultGroup = "entities"

// CreateEntityTool handles the create_entity MCP tool.
type CreateEntityTool struct {
	store    document.Store
	contexts sessionctx.Store
}

// NewCreateEntityTool creates a CreateEntityTool.
func NewCreateEntityTool(store document.Store, contexts sessionctx.Store) *CreateEntityTool {
	return &CreateEntityTool{store: store, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateEntityTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Add a named item to a dynamic group of a vision document " +
				"(default group: entities). The name is slugified and must be " +
				"unique within the group, ignoring case. The item starts at " +
				"not_started with empty content; fill it with update_section.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Item name (e.g., \"Payment Profile\")"),
		),
		mcp.WithString("group",
			mcp.Description("Dynamic group name (default: entities)"),
		),
	}
	return mcp.NewTool("create_entity", append(opts, keyArgs()...)...)
}

// Handle processes the create_entity tool call.
func (t *CreateEntityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := resolveKey(ctx, t.contexts, req)
	if err != nil {
		return errResult(err)
	}

	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	group := req.GetString("group", defaultGroup)

	sectionID, err := t.store.CreateEntity(key, group, name)
	if err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Created %q in group %q of %s. Write its content with update_section(section_id=%q).",
		name, group, key, sectionID,
	)), nil
}

// ListEntitiesTool handles the list_entities MCP tool.
type ListEntitiesTool struct {
	store    document.Store
	contexts sessionctx.Store
}

// NewListEntitiesTool creates a ListEntitiesTool.
func NewListEntitiesTool(store document.Store, contexts sessionctx.Store) *ListEntitiesTool {
	return &ListEntitiesTool{store: store, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *ListEntitiesTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"List the items of a dynamic group (default: entities) in their " +
				"stored order, with section ids and statuses.",
		),
		mcp.WithString("group",
			mcp.Description("Dynamic group name (default: entities)"),
		),
	}
	return mcp.NewTool("list_entities", append(opts, keyArgs()...)...)
}

// Handle processes the list_entities tool call.
func (t *ListEntitiesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := resolveKey(ctx, t.contexts, req)
	if err != nil {
		return errResult(err)
	}

	group := req.GetString("group", defaultGroup)
	entities, err := t.store.ListEntities(key, group)
	if err != nil {
		return errResult(err)
	}
	if len(entities) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No items in group %q of %s.", group, key)), nil
	}

	var b strings.Builder
	for _, e := range entities {
		fmt.Fprintf(&b, "%s (%s) — %s\n", e.Name, e.SectionID, e.Status)
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

// DeleteEntityTool handles the delete_entity MCP tool.
type DeleteEntityTool struct {
	store    document.Store
	contexts sessionctx.Store
}

// NewDeleteEntityTool creates a DeleteEntityTool.
func NewDeleteEntityTool(store document.Store, contexts sessionctx.Store) *DeleteEntityTool {
	return &DeleteEntityTool{store: store, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteEntityTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Remove an item from a dynamic group (default: entities), " +
				"including its content and status record.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Item name to delete"),
		),
		mcp.WithString("group",
			mcp.Description("Dynamic group name (default: entities)"),
		),
	}
	return mcp.NewTool("delete_entity", append(opts, keyArgs()...)...)
}

// Handle processes the delete_entity tool call.
func (t *DeleteEntityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := resolveKey(ctx, t.contexts, req)
	if err != nil {
		return errResult(err)
	}

	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	group := req.GetString("group", defaultGroup)

	if err := t.store.DeleteEntity(key, group, name); err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted %q from group %q of %s.", name, group, key)), nil
}

// ReorderGroupTool handles the reorder_group MCP tool.
type ReorderGroupTool struct {
	store    document.Store
	contexts sessionctx.Store
}

// NewReorderGroupTool creates a ReorderGroupTool.
func NewReorderGroupTool(store document.Store, contexts sessionctx.Store) *ReorderGroupTool {
	return &ReorderGroupTool{store: store, contexts: contexts}
}

// Definition returns the MCP tool definition for registration.
func (t *ReorderGroupTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Replace the order of a dynamic group's items. The new order " +
				"must name every current item exactly once. Content and " +
				"statuses are untouched.",
		),
		mcp.WithString("new_order",
			mcp.Required(),
			mcp.Description("JSON array of item names in the desired order (e.g., [\"billing\", \"user\"])"),
		),
		mcp.WithString("group",
			mcp.Description("Dynamic group name (default: entities)"),
		),
	}
	return mcp.NewTool("reorder_group", append(opts, keyArgs()...)...)
}

// Handle processes the reorder_group tool call.
func (t *ReorderGroupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := resolveKey(ctx, t.contexts, req)
	if err != nil {
		return errResult(err)
	}

	rawOrder := req.GetString("new_order", "")
	var newOrder []string
	if err := json.Unmarshal([]byte(rawOrder), &newOrder); err != nil {
		return mcp.NewToolResultError("'new_order' must be a JSON array of item names"), nil
	}
	group := req.GetString("group", defaultGroup)

	if err := t.store.ReorderGroup(key, group, newOrder); err != nil {
		return errResult(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Reordered group %q of %s: %s", group, key, strings.Join(newOrder, ", "),
	)), nil
}
