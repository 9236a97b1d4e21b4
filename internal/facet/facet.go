// Package facet derives the selectable filter options present in a catalog:
// the union of all tags and the category-grouped model tree.
package facet

import (
	"sort"

	"github.com/junxiaopang/promptvault/pkg/models"
	"github.com/junxiaopang/promptvault/pkg/registry"
)

// ModelOption is one selectable model inside a group.
type ModelOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ModelGroup is one model category with its member models.
type ModelGroup struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Children []ModelOption `json:"children"`
}

// Tags returns the sorted union of every entry's tags. Tag identity is
// case-sensitive; duplicates across entries collapse.
func Tags(entries []models.PromptItem) []string {
	set := make(map[string]struct{})
	for i := range entries {
		for _, tag := range entries[i].Tags {
			set[tag] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// ModelTree groups every distinct model appearing in the catalog by its
// registry category. Groups are sorted lexicographically by category name,
// children by display name. Entries without any model information
// contribute nothing.
func ModelTree(entries []models.PromptItem, reg *registry.Registry) []ModelGroup {
	byCategory := make(map[string]map[string]struct{})

	for i := range entries {
		e := &entries[i]
		if e.Model == "" && e.ModelID == "" {
			continue
		}

		modelID := reg.ResolveModelRef(e.ModelID, e.Model)
		if modelID == "" {
			modelID = e.Model
		}

		cat := reg.CategoryOf(modelID)
		if byCategory[cat] == nil {
			byCategory[cat] = make(map[string]struct{})
		}
		byCategory[cat][modelID] = struct{}{}
	}

	cats := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	tree := make([]ModelGroup, 0, len(cats))
	for _, cat := range cats {
		children := make([]ModelOption, 0, len(byCategory[cat]))
		for id := range byCategory[cat] {
			children = append(children, ModelOption{ID: id, Name: reg.ModelName(id)})
		}
		sort.Slice(children, func(a, b int) bool {
			return children[a].Name < children[b].Name
		})
		tree = append(tree, ModelGroup{ID: cat, Name: cat, Children: children})
	}
	return tree
}

// AvailableModels narrows the tree to the selected model category. An empty
// selection returns the full tree; an unknown selection returns an empty
// slice.
func AvailableModels(tree []ModelGroup, selectedModelCategory string) []ModelGroup {
	if selectedModelCategory == "" {
		return tree
	}
	for _, g := range tree {
		if g.ID == selectedModelCategory {
			return []ModelGroup{g}
		}
	}
	return []ModelGroup{}
}

