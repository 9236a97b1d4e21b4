package catalog

import (
	"fmt"
	"math/rand"

	"github.com/junxiaopang/promptvault/pkg/models"
	"github.com/junxiaopang/promptvault/pkg/registry"
)

// placeholderImage returns the fallback image URL derived from an entry id.
func placeholderImage(id int64) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/600/400", id)
}

// defaultLikes fabricates a like count for entries whose source data carries
// none. Seeded by id so repeated normalizations of the same input are
// identical; same 100-2099 range the gallery has always shown.
func defaultLikes(id int64) int64 {
	return rand.New(rand.NewSource(id)).Int63n(2000) + 100
}

// Normalize validates and fills each raw record per the catalog contract:
// records without a title are dropped, missing ids are assigned from the
// record's 1-based position in the concatenated input, and all optional
// fields receive their defaults. Order is preserved relative to the input.
// The second return value is the number of dropped records.
func Normalize(raw []RawRecord, reg *registry.Registry) ([]models.PromptItem, int) {
	items := make([]models.PromptItem, 0, len(raw))
	dropped := 0

	for i, r := range raw {
		if r.ID == 0 {
			r.ID = int64(i + 1)
		}
		if r.Title == "" {
			dropped++
			continue
		}

		item := models.PromptItem{
			ID:         r.ID,
			Slug:       r.Slug,
			Title:      r.Title,
			Images:     r.Images,
			Prompts:    r.Prompts,
			Tags:       r.Tags,
			CoverImage: r.CoverImage,
			Examples:   r.Examples,
			Notes:      r.Notes,
			ModelID:    r.ModelID,
			CreateTime: r.CreateTime,
			UpdateTime: r.UpdateTime,
			Likes:      r.Likes,
			Ratio:      r.Ratio,
		}

		if r.Source != nil && r.Source.Name != "" {
			item.Source = *r.Source
		} else {
			item.Source = models.PromptSource{Name: "Unknown", URL: "#"}
		}
		if item.Source.URL == "" {
			item.Source.URL = "#"
		}

		if item.Prompts == nil {
			item.Prompts = []string{}
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		if item.CoverImage == "" {
			item.CoverImage = placeholderImage(item.ID)
		}
		if len(item.Images) == 0 {
			item.Images = []string{placeholderImage(item.ID)}
		}
		if item.Likes <= 0 {
			item.Likes = defaultLikes(item.ID)
		}

		item.Model, item.ModelID = resolveModel(r.Model, r.ModelID, reg)

		items = append(items, item)
	}

	return items, dropped
}

// resolveModel maps the raw model value onto a display name and, when
// derivable, a raw model identifier. A raw value matching a known
// identifier resolves to its display name; a value already equal to a
// display name is kept; anything else passes through unchanged.
func resolveModel(rawModel, rawModelID string, reg *registry.Registry) (model, modelID string) {
	modelID = rawModelID
	if rawModel == "" {
		return "", modelID
	}

	if reg.KnownModel(rawModel) {
		if modelID == "" {
			modelID = rawModel
		}
		return reg.ModelName(rawModel), modelID
	}
	return rawModel, modelID
}
