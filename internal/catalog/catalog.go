package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Group is one of the fixed category groups a portfolio is broken down by.
type Group string

const (
	GroupAcademic         Group = "academic"
	GroupLeadership       Group = "leadership"
	GroupCommunity        Group = "community"
	GroupSports           Group = "sports"
	GroupCultural         Group = "cultural"
	GroupTechnical        Group = "technical"
	GroupEntrepreneurship Group = "entrepreneurship"
)

// Groups lists every category group in its canonical order. Tie-breaks that
// depend on "first encountered" walk this slice.
var Groups = []Group{
	GroupAcademic,
	GroupLeadership,
	GroupCommunity,
	GroupSports,
	GroupCultural,
	GroupTechnical,
	GroupEntrepreneurship,
}

// Valid reports whether g is one of the fixed groups.
func (g Group) Valid() bool {
	for _, candidate := range Groups {
		if candidate == g {
			return true
		}
	}
	return false
}

// Entry describes one category in the catalog file.
type Entry struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	PointsMultiplier float64 `json:"points_multiplier"`
	Group            Group   `json:"group"`
}

// Catalog is the reference set of categories the platform scores against.
type Catalog struct {
	Categories []Entry `json:"categories"`
}

// Default is the built-in catalog used when no catalog file is configured.
var Default = Catalog{
	Categories: []Entry{
		{ID: "academic-excellence", Name: "Academic Excellence", Description: "Research, publications, competitions and academic awards", PointsMultiplier: 1.5, Group: GroupAcademic},
		{ID: "leadership", Name: "Leadership", Description: "Student government, club officer roles and event leadership", PointsMultiplier: 1.25, Group: GroupLeadership},
		{ID: "community-service", Name: "Community Service", Description: "Volunteering and outreach programs", PointsMultiplier: 1.2, Group: GroupCommunity},
		{ID: "sports-recreation", Name: "Sports & Recreation", Description: "Varsity, intramural and recreational sports", PointsMultiplier: 1.0, Group: GroupSports},
		{ID: "cultural-activities", Name: "Cultural Activities", Description: "Arts, music, theatre and cultural festivals", PointsMultiplier: 1.0, Group: GroupCultural},
		{ID: "technical-skills", Name: "Technical Skills", Description: "Hackathons, certifications and technical projects", PointsMultiplier: 1.3, Group: GroupTechnical},
		{ID: "entrepreneurship", Name: "Entrepreneurship", Description: "Startups, business plan competitions and incubators", PointsMultiplier: 1.4, Group: GroupEntrepreneurship},
	},
}

// GroupsByName maps well-known category names to their group. Categories
// loaded without an explicit group fall back to this table.
var GroupsByName = map[string]Group{
	"Academic Excellence": GroupAcademic,
	"Leadership":          GroupLeadership,
	"Community Service":   GroupCommunity,
	"Sports & Recreation": GroupSports,
	"Cultural Activities": GroupCultural,
	"Technical Skills":    GroupTechnical,
	"Entrepreneurship":    GroupEntrepreneurship,
}

// ResolveGroup returns the group for a category, preferring the stored value.
func ResolveGroup(stored, name string) (Group, bool) {
	if g := Group(strings.ToLower(strings.TrimSpace(stored))); g.Valid() {
		return g, true
	}
	g, ok := GroupsByName[strings.TrimSpace(name)]
	return g, ok
}

const schemaURL = "catalog.schema.json"

const schemaDocument = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["categories"],
  "properties": {
    "categories": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name", "points_multiplier", "group"],
        "properties": {
          "id": {"type": "string", "minLength": 1, "maxLength": 64},
          "name": {"type": "string", "minLength": 1, "maxLength": 128},
          "description": {"type": "string"},
          "points_multiplier": {"type": "number", "exclusiveMinimum": 0},
          "group": {"enum": ["academic", "leadership", "community", "sports", "cultural", "technical", "entrepreneurship"]}
        },
        "additionalProperties": false
      }
    }
  }
}`

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaDocument)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
}

// Parse validates raw catalog JSON against the catalog schema and decodes it.
func Parse(data []byte) (Catalog, error) {
	schema, err := compileSchema()
	if err != nil {
		return Catalog{}, fmt.Errorf("compile catalog schema: %w", err)
	}

	var document interface{}
	if err := json.Unmarshal(data, &document); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := schema.Validate(document); err != nil {
		return Catalog{}, fmt.Errorf("invalid catalog: %w", err)
	}

	var result Catalog
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&result); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(result.Categories))
	for _, entry := range result.Categories {
		if _, dup := seen[entry.ID]; dup {
			return Catalog{}, fmt.Errorf("invalid catalog: duplicate category id %q", entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}

	return result, nil
}

// Load reads the catalog file at path. An empty path yields the default catalog.
func Load(path string) (Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	return Parse(data)
}
