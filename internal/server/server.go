// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools that depend on abstractions. No
// business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/autobots-devtools/vision-mcp/internal/config"
	"github.com/autobots-devtools/vision-mcp/internal/document"
	"github.com/autobots-devtools/vision-mcp/internal/export"
	"github.com/autobots-devtools/vision-mcp/internal/schema"
	"github.com/autobots-devtools/vision-mcp/internal/sessionctx"
	"github.com/autobots-devtools/vision-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// This is the single place where all dependencies are resolved.
//
// The returned cleanup function closes the session-context store and
// must be called on shutdown (typically via defer). It is always
// non-nil and safe to call.
func New(settings config.Settings) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	reg, err := buildRegistry(settings)
	if err != nil {
		return nil, noop, err
	}

	store := document.NewFileStore(settings.DocsDir, reg)
	exporter := export.New(store, reg)

	// Session-context bindings are not load-bearing for document data:
	// if the configured backend is unreachable we degrade to the
	// in-memory store and keep serving, like any other optional
	// subsystem.
	contexts, err := sessionctx.New(sessionctx.Config{
		Backend:  settings.ContextBackend,
		RedisURL: settings.RedisURL,
		DataDir:  settings.DataDir,
	})
	if err != nil {
		log.Printf("WARNING: %q context backend unavailable, using in-memory bindings: %v", settings.ContextBackend, err)
		contexts = sessionctx.NewMemoryStore()
	}
	cleanup := func() {
		if err := contexts.Close(); err != nil {
			log.Printf("WARNING: closing context store: %v", err)
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"vision-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register document tools ---

	createTool := tools.NewCreateDocumentTool(store, contexts)
	s.AddTool(createTool.Definition(), createTool.Handle)

	listTool := tools.NewListDocumentsTool(store)
	s.AddTool(listTool.Definition(), listTool.Handle)

	deleteTool := tools.NewDeleteDocumentTool(store, contexts)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)

	statusTool := tools.NewDocumentStatusTool(store, contexts)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	// --- Register section tools ---

	updateSectionTool := tools.NewUpdateSectionTool(store, contexts)
	s.AddTool(updateSectionTool.Definition(), updateSectionTool.Handle)

	readSectionTool := tools.NewReadSectionTool(store, contexts)
	s.AddTool(readSectionTool.Definition(), readSectionTool.Handle)

	sectionStatusTool := tools.NewSetSectionStatusTool(store, contexts)
	s.AddTool(sectionStatusTool.Definition(), sectionStatusTool.Handle)

	// --- Register dynamic item tools ---

	createEntityTool := tools.NewCreateEntityTool(store, contexts)
	s.AddTool(createEntityTool.Definition(), createEntityTool.Handle)

	listEntitiesTool := tools.NewListEntitiesTool(store, contexts)
	s.AddTool(listEntitiesTool.Definition(), listEntitiesTool.Handle)

	deleteEntityTool := tools.NewDeleteEntityTool(store, contexts)
	s.AddTool(deleteEntityTool.Definition(), deleteEntityTool.Handle)

	reorderTool := tools.NewReorderGroupTool(store, contexts)
	s.AddTool(reorderTool.Definition(), reorderTool.Handle)

	// --- Register export and context tools ---

	exportTool := tools.NewExportMarkdownTool(exporter, contexts)
	s.AddTool(exportTool.Definition(), exportTool.Handle)

	setContextTool := tools.NewSetDocumentContextTool(contexts)
	s.AddTool(setContextTool.Definition(), setContextTool.Handle)

	getContextTool := tools.NewGetDocumentContextTool(contexts)
	s.AddTool(getContextTool.Definition(), getContextTool.Handle)

	return s, cleanup, nil
}

// buildRegistry loads the section catalog: the configured sections
// file when set, the built-in catalog otherwise.
func buildRegistry(settings config.Settings) (*schema.Registry, error) {
	if settings.SectionsFile == "" {
		return schema.Default(), nil
	}
	reg, err := schema.Load(settings.SectionsFile)
	if err != nil {
		return nil, fmt.Errorf("loading section catalog: %w", err)
	}
	return reg, nil
}

func noop() {}

func serverInstructions() string {
	return `vision-mcp stores multi-section component vision documents and
tracks each section's lifecycle while agents author them.

Typical flow:
1. create_document(component, version) — starts a document with every
   catalog section at not_started and binds it to your session.
2. update_section(section_id, content) — write JSON content; the first
   write moves a section from not_started to in_progress.
3. set_section_status(section_id, status) — promote to draft,
   needs_detail, or complete when the content is ready. Status never
   changes on its own beyond the first-write promotion.
4. create_entity(name) / list_entities / delete_entity / reorder_group —
   manage dynamic items such as entities and value iterations.
5. export_markdown() — render the full document deterministically.

Section-scoped tools accept component/version directly, or resolve the
session's active document via session_id after set_document_context.`
}
