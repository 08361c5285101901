package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// sectionsFile is the YAML shape of a sections catalog file:
//
//	sections:
//	  01-preface:
//	    title: Preface
//	    description: ...
//	    static: true
//	  05-entity:
//	    title: Entities
//	    dynamic: true
//	    group: entities
//	    item_prefix: 05-entity-
type sectionsFile struct {
	Sections map[string]sectionEntry `yaml:"sections"`
}

type sectionEntry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Static      bool   `yaml:"static"`
	Dynamic     bool   `yaml:"dynamic"`
	Group       string `yaml:"group"`
	ItemPrefix  string `yaml:"item_prefix"`
}

// Load reads a sections catalog from a YAML file and builds a Registry.
// Ordering does not depend on YAML map order: New sorts sections and
// groups on their numeric prefixes.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: reading catalog %s: %w", path, err)
	}

	var file sectionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("schema: parsing catalog %s: %w", path, err)
	}
	if len(file.Sections) == 0 {
		return nil, fmt.Errorf("schema: catalog %s declares no sections", path)
	}

	var statics []Section
	var groups []Group
	for id, entry := range file.Sections {
		switch {
		case entry.Dynamic:
			group := entry.Group
			if group == "" {
				return nil, fmt.Errorf("schema: dynamic section %q missing group name", id)
			}
			if entry.ItemPrefix == "" {
				return nil, fmt.Errorf("schema: dynamic section %q missing item_prefix", id)
			}
			groups = append(groups, Group{
				Name:       group,
				Title:      entry.Title,
				ItemPrefix: entry.ItemPrefix,
			})
		default:
			statics = append(statics, Section{
				ID:          id,
				Title:       entry.Title,
				Description: entry.Description,
			})
		}
	}

	return New(statics, groups)
}
