package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/autobots-devtools/vision-mcp/internal/schema"
)

// MetaFile is the filename for document metadata records.
const MetaFile = "_meta.json"

// Store defines the persistence contract for vision documents.
// Abstracted for testability (DIP).
type Store interface {
	CreateDocument(component, version string) (*Meta, error)
	GetDocument(key Key) (*Meta, error)
	ListDocuments() ([]Summary, error)
	DeleteDocument(key Key) error

	WriteSection(key Key, sectionID string, content Content) error
	ReadSection(key Key, sectionID string) (Content, error)
	UpdateSectionStatus(key Key, sectionID string, status Status) error

	CreateEntity(key Key, group, name string) (string, error)
	ListEntities(key Key, group string) ([]Entity, error)
	DeleteEntity(key Key, group, name string) error
	ReorderGroup(key Key, group string, newOrder []string) error
}

// FileStore implements Store on a local directory tree: one directory
// per document key ({root}/{component}/{version}/) holding _meta.json
// and one JSON record per section.
type FileStore struct {
	root  string
	reg   *schema.Registry
	locks *keyLocks
}

// NewFileStore creates a filesystem-backed document store rooted at
// root, validating section ids against reg.
func NewFileStore(root string, reg *schema.Registry) *FileStore {
	return &FileStore{root: root, reg: reg, locks: newKeyLocks()}
}

// --- Path helpers ---

func (fs *FileStore) docDir(key Key) string {
	return filepath.Join(fs.root, key.Component, key.Version)
}

func (fs *FileStore) metaPath(key Key) string {
	return filepath.Join(fs.docDir(key), MetaFile)
}

func (fs *FileStore) sectionPath(key Key, sectionID string) string {
	return filepath.Join(fs.docDir(key), sectionID+".json")
}

// --- Metadata persistence ---

func (fs *FileStore) loadMeta(key Key) (*Meta, error) {
	data, err := os.ReadFile(fs.metaPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("reading metadata for %s: %w", key, err)
	}

	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing metadata for %s: %w", key, err)
	}
	return &meta, nil
}

// saveMeta persists meta with updated_at refreshed. Metadata is always
// written after any content it references, so a crash between the two
// writes leaves a schema-valid document.
func (fs *FileStore) saveMeta(meta *Meta) error {
	meta.UpdatedAt = timeNow().UTC().Format(timeFormat)

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metadata for %s: %w", meta.Key(), err)
	}
	return writeFileAtomic(fs.metaPath(meta.Key()), data)
}

// --- Document operations ---

// CreateDocument initializes a new document: directory, all static
// sections at NOT_STARTED, empty dynamic groups.
func (fs *FileStore) CreateDocument(component, version string) (*Meta, error) {
	if component == "" || version == "" {
		return nil, fmt.Errorf("%w: component and version are required", ErrValidation)
	}

	key := Key{Component: component, Version: version}
	unlock := fs.locks.lock(key)
	defer unlock()

	if _, err := os.Stat(fs.metaPath(key)); err == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrDocumentExists)
	}

	if err := os.MkdirAll(fs.docDir(key), 0o755); err != nil {
		return nil, fmt.Errorf("creating document directory: %w", err)
	}

	meta := NewMeta(fs.reg, component, version)
	if err := fs.saveMeta(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// GetDocument loads a document's metadata.
func (fs *FileStore) GetDocument(key Key) (*Meta, error) {
	return fs.loadMeta(key)
}

// ListDocuments scans the storage root and returns a summary for every
// document found, in component/version order.
func (fs *FileStore) ListDocuments() ([]Summary, error) {
	var result []Summary

	components, err := os.ReadDir(fs.root)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("reading storage root: %w", err)
	}

	for _, comp := range components {
		if !comp.IsDir() {
			continue
		}
		versions, err := os.ReadDir(filepath.Join(fs.root, comp.Name()))
		if err != nil {
			continue
		}
		for _, ver := range versions {
			if !ver.IsDir() {
				continue
			}
			key := Key{Component: comp.Name(), Version: ver.Name()}
			meta, err := fs.loadMeta(key)
			if err != nil {
				continue // not a document directory, or unreadable
			}

			completed := 0
			for _, sm := range meta.Sections {
				if sm.Status == StatusComplete {
					completed++
				}
			}
			result = append(result, Summary{
				Key:       key,
				Completed: completed,
				Total:     len(meta.Sections),
			})
		}
	}

	return result, nil
}

// DeleteDocument removes a document's metadata and every section and
// dynamic-item record under it.
func (fs *FileStore) DeleteDocument(key Key) error {
	unlock := fs.locks.lock(key)
	defer unlock()

	if _, err := os.Stat(fs.metaPath(key)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", key, ErrDocumentNotFound)
		}
		return fmt.Errorf("checking document %s: %w", key, err)
	}

	if err := os.RemoveAll(fs.docDir(key)); err != nil {
		return fmt.Errorf("deleting document %s: %w", key, err)
	}
	return nil
}

// --- Section operations ---

// validateContent checks that content is a well-formed JSON object.
// Content shape beyond that is the caller's concern.
func validateContent(content Content) error {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return ErrInvalidContent
	}
	return nil
}

// WriteSection persists section content. A NOT_STARTED section is
// promoted to IN_PROGRESS; any other status is left unchanged — the
// one automatic edge of the status machine.
func (fs *FileStore) WriteSection(key Key, sectionID string, content Content) error {
	unlock := fs.locks.lock(key)
	defer unlock()

	meta, err := fs.loadMeta(key)
	if err != nil {
		return err
	}
	if !fs.reg.ValidateSectionID(sectionID) {
		return fmt.Errorf("%q: %w", sectionID, ErrInvalidSectionID)
	}
	if err := validateContent(content); err != nil {
		return err
	}

	sm, ok := meta.Sections[sectionID]
	if !ok {
		// Well-formed dynamic item id whose item was never created
		// (or has been deleted): there is nothing to write into.
		return fmt.Errorf("%s in %s: %w", sectionID, key, ErrSectionNotFound)
	}

	// Content first, metadata second: a crash must never leave
	// _meta.json referencing content that wasn't durably written.
	if err := writeFileAtomic(fs.sectionPath(key, sectionID), content); err != nil {
		return err
	}

	sm.Status = promoteOnWrite(sm.Status)
	sm.UpdatedAt = timeNow().UTC().Format(timeFormat)
	meta.Sections[sectionID] = sm

	return fs.saveMeta(meta)
}

// ReadSection loads section content. Safe to call concurrently with
// writers: content files are replaced atomically.
func (fs *FileStore) ReadSection(key Key, sectionID string) (Content, error) {
	if _, err := fs.loadMeta(key); err != nil {
		return nil, err
	}
	if !fs.reg.ValidateSectionID(sectionID) {
		return nil, fmt.Errorf("%q: %w", sectionID, ErrInvalidSectionID)
	}

	data, err := os.ReadFile(fs.sectionPath(key, sectionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s in %s: %w", sectionID, key, ErrSectionNotFound)
		}
		return nil, fmt.Errorf("reading section %s in %s: %w", sectionID, key, err)
	}
	return Content(data), nil
}

// UpdateSectionStatus sets a section's status explicitly. Any
// transition is allowed — operator override is permitted and COMPLETE
// is not terminal.
func (fs *FileStore) UpdateSectionStatus(key Key, sectionID string, status Status) error {
	unlock := fs.locks.lock(key)
	defer unlock()

	meta, err := fs.loadMeta(key)
	if err != nil {
		return err
	}
	if err := ValidateStatus(status); err != nil {
		return err
	}

	sm, ok := meta.Sections[sectionID]
	if !ok {
		return fmt.Errorf("%s in %s: %w", sectionID, key, ErrSectionNotFound)
	}

	sm.Status = status
	sm.UpdatedAt = timeNow().UTC().Format(timeFormat)
	meta.Sections[sectionID] = sm

	return fs.saveMeta(meta)
}

// --- Dynamic item operations ---

// CreateEntity adds a named item to a dynamic group: initializes its
// section record at NOT_STARTED with empty content, and appends it to
// the group's ordered item list. Names are slugified; collisions are
// detected case-insensitively. Returns the item's section id.
func (fs *FileStore) CreateEntity(key Key, group, name string) (string, error) {
	unlock := fs.locks.lock(key)
	defer unlock()

	meta, err := fs.loadMeta(key)
	if err != nil {
		return "", err
	}

	g, ok := fs.reg.Group(group)
	if !ok {
		return "", fmt.Errorf("%q: %w", group, ErrUnknownGroup)
	}

	slug := schema.Slugify(name)
	if slug == "" {
		return "", fmt.Errorf("%q produces an empty slug: %w", name, ErrInvalidName)
	}

	for _, item := range meta.DynamicItems[group] {
		if strings.EqualFold(item.ItemName, slug) {
			return "", fmt.Errorf("%q in group %q: %w", slug, group, ErrEntityExists)
		}
	}

	sectionID := g.ItemSectionID(slug)
	now := timeNow().UTC().Format(timeFormat)

	// Content first, metadata second.
	if err := writeFileAtomic(fs.sectionPath(key, sectionID), []byte("{}")); err != nil {
		return "", err
	}

	meta.Sections[sectionID] = SectionMeta{Status: StatusNotStarted, UpdatedAt: now}
	meta.DynamicItems[group] = append(meta.DynamicItems[group], DynamicItem{
		ItemName:  slug,
		Iteration: 1,
		CreatedAt: now,
	})

	if err := fs.saveMeta(meta); err != nil {
		return "", err
	}
	return sectionID, nil
}

// ListEntities returns a group's items in stored order.
func (fs *FileStore) ListEntities(key Key, group string) ([]Entity, error) {
	meta, err := fs.loadMeta(key)
	if err != nil {
		return nil, err
	}

	g, ok := fs.reg.Group(group)
	if !ok {
		return nil, fmt.Errorf("%q: %w", group, ErrUnknownGroup)
	}

	items := meta.DynamicItems[group]
	result := make([]Entity, 0, len(items))
	for _, item := range items {
		sectionID := g.ItemSectionID(item.ItemName)
		result = append(result, Entity{
			Name:      item.ItemName,
			SectionID: sectionID,
			Status:    meta.Sections[sectionID].Status,
		})
	}
	return result, nil
}

// DeleteEntity removes an item from a dynamic group: the group entry,
// the section metadata, and the content record. Metadata is saved
// before the content file is unlinked, so an interrupted delete can
// only leave an unreferenced content file behind, never a dangling
// metadata entry.
func (fs *FileStore) DeleteEntity(key Key, group, name string) error {
	unlock := fs.locks.lock(key)
	defer unlock()

	meta, err := fs.loadMeta(key)
	if err != nil {
		return err
	}

	g, ok := fs.reg.Group(group)
	if !ok {
		return fmt.Errorf("%q: %w", group, ErrUnknownGroup)
	}

	slug := schema.Slugify(name)
	items := meta.DynamicItems[group]
	idx := -1
	for i, item := range items {
		if strings.EqualFold(item.ItemName, slug) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%q in group %q: %w", slug, group, ErrEntityNotFound)
	}

	sectionID := g.ItemSectionID(items[idx].ItemName)
	meta.DynamicItems[group] = append(items[:idx:idx], items[idx+1:]...)
	delete(meta.Sections, sectionID)

	if err := fs.saveMeta(meta); err != nil {
		return err
	}

	if err := os.Remove(fs.sectionPath(key, sectionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing section %s in %s: %w", sectionID, key, err)
	}
	return nil
}

// ReorderGroup replaces a group's item order. newOrder must be an
// exact permutation of the current item names; content and statuses
// are untouched.
func (fs *FileStore) ReorderGroup(key Key, group string, newOrder []string) error {
	unlock := fs.locks.lock(key)
	defer unlock()

	meta, err := fs.loadMeta(key)
	if err != nil {
		return err
	}

	if _, ok := fs.reg.Group(group); !ok {
		return fmt.Errorf("%q: %w", group, ErrUnknownGroup)
	}

	items := meta.DynamicItems[group]
	if len(newOrder) != len(items) {
		return fmt.Errorf("%w: list has %d names, group has %d items", ErrNotPermutation, len(newOrder), len(items))
	}

	byName := make(map[string]DynamicItem, len(items))
	for _, item := range items {
		byName[item.ItemName] = item
	}

	reordered := make([]DynamicItem, 0, len(items))
	for _, name := range newOrder {
		slug := schema.Slugify(name)
		item, ok := byName[slug]
		if !ok {
			return fmt.Errorf("%w: %q is not a current item of group %q (or appears twice)", ErrNotPermutation, slug, group)
		}
		delete(byName, slug)
		reordered = append(reordered, item)
	}

	meta.DynamicItems[group] = reordered
	return fs.saveMeta(meta)
}
