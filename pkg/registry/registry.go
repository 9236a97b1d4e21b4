// Package registry provides the static category and model lookup tables
// embedded in the binary. Categories bundle tags with a combination rule and
// drive the coarse one-click filters; model categories group related
// generation-model identifiers (e.g. every Seedream version).
package registry

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesRawData []byte

//go:embed models.yaml
var modelsRawData []byte

// TagLogic is the rule for combining a category's tags during matching.
type TagLogic string

const (
	// LogicAny matches an item carrying at least one of the category's tags.
	LogicAny TagLogic = "any"
	// LogicAll matches only items carrying every one of the category's tags.
	LogicAll TagLogic = "all"
)

// Category is one row of the category table.
type Category struct {
	ID                   string            `yaml:"id" json:"id"`
	Label                map[string]string `yaml:"label" json:"label"`
	Tags                 []string          `yaml:"tags" json:"tags"`
	Logic                TagLogic          `yaml:"logic" json:"logic"`
	IncludeLabelInSearch bool              `yaml:"include_label_in_search" json:"include_label_in_search"`
}

// LabelFor returns the category's display label for the given language tag,
// falling back to English and finally to the category id.
func (c Category) LabelFor(lang string) string {
	if l, ok := c.Label[lang]; ok && l != "" {
		return l
	}
	if l, ok := c.Label["en"]; ok && l != "" {
		return l
	}
	return c.ID
}

// Model is one row of the model table. Declaration order is significant:
// reverse display-name lookups resolve to the first declared identifier.
type Model struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

type categoriesFile struct {
	Categories []Category `yaml:"categories"`
}

type modelsFile struct {
	Models          []Model             `yaml:"models"`
	ModelCategories map[string][]string `yaml:"model_categories"`
}

// Registry holds the parsed category and model tables.
type Registry struct {
	categories   []Category
	categoryByID map[string]Category

	models     []Model
	nameByID   map[string]string
	modelCats  map[string][]string
	catByModel map[string]string
}

// Load parses the embedded YAML tables.
func Load() (*Registry, error) {
	var cf categoriesFile
	if err := yaml.Unmarshal(categoriesRawData, &cf); err != nil {
		return nil, fmt.Errorf("registry: parse categories yaml: %w", err)
	}
	var mf modelsFile
	if err := yaml.Unmarshal(modelsRawData, &mf); err != nil {
		return nil, fmt.Errorf("registry: parse models yaml: %w", err)
	}

	r := &Registry{
		categories:   cf.Categories,
		categoryByID: make(map[string]Category, len(cf.Categories)),
		models:       mf.Models,
		nameByID:     make(map[string]string, len(mf.Models)),
		modelCats:    mf.ModelCategories,
		catByModel:   make(map[string]string),
	}
	for i := range r.categories {
		if r.categories[i].Logic == "" {
			r.categories[i].Logic = LogicAny
		}
		r.categoryByID[r.categories[i].ID] = r.categories[i]
	}
	for _, m := range r.models {
		r.nameByID[m.ID] = m.Name
	}
	for cat, ids := range r.modelCats {
		for _, id := range ids {
			r.catByModel[id] = cat
		}
	}
	return r, nil
}

// Categories returns all categories in declaration order.
func (r *Registry) Categories() []Category {
	cp := make([]Category, len(r.categories))
	copy(cp, r.categories)
	return cp
}

// Category returns the category with the given id.
func (r *Registry) Category(id string) (Category, bool) {
	c, ok := r.categoryByID[id]
	return c, ok
}

// Models returns all known models in declaration order.
func (r *Registry) Models() []Model {
	cp := make([]Model, len(r.models))
	copy(cp, r.models)
	return cp
}

// ModelName resolves a model identifier to its display name. Unknown
// identifiers are returned unchanged.
func (r *Registry) ModelName(id string) string {
	if name, ok := r.nameByID[id]; ok {
		return name
	}
	return id
}

// KnownModel reports whether id is a registered model identifier.
func (r *Registry) KnownModel(id string) bool {
	_, ok := r.nameByID[id]
	return ok
}

// ModelID reverse-resolves a display name to the first declared identifier
// carrying that name.
func (r *Registry) ModelID(displayName string) (string, bool) {
	for _, m := range r.models {
		if m.Name == displayName {
			return m.ID, true
		}
	}
	return "", false
}

// ModelCategory returns the member identifiers of a named model category.
func (r *Registry) ModelCategory(name string) ([]string, bool) {
	ids, ok := r.modelCats[name]
	if !ok {
		return nil, false
	}
	cp := make([]string, len(ids))
	copy(cp, ids)
	return cp, true
}

// IsModelCategory reports whether name is a known model-category name.
func (r *Registry) IsModelCategory(name string) bool {
	_, ok := r.modelCats[name]
	return ok
}

// ResolveModelRef resolves an entry's (modelID, displayName) pair to a raw
// model identifier: the explicit id when present, else the first declared
// identifier carrying the display name, else empty.
func (r *Registry) ResolveModelRef(modelID, displayName string) string {
	if modelID != "" {
		return modelID
	}
	if displayName == "" {
		return ""
	}
	if id, ok := r.ModelID(displayName); ok {
		return id
	}
	return ""
}

// CategoryOf returns the name of the model category owning the given model
// identifier. When no category owns it, the model's display name is returned
// instead, or the raw identifier if it is unknown.
func (r *Registry) CategoryOf(modelID string) string {
	if cat, ok := r.catByModel[modelID]; ok {
		return cat
	}
	return r.ModelName(modelID)
}
