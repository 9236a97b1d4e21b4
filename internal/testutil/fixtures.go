package testutil

import (
	"fmt"

	"github.com/junxiaopang/promptvault/pkg/models"
)

// NewPrompt returns a PromptItem with sensible defaults, suitable for test
// fixtures. Override individual fields via options or after creation.
func NewPrompt(id int64, opts ...func(*models.PromptItem)) models.PromptItem {
	e := models.PromptItem{
		ID:         id,
		Slug:       fmt.Sprintf("test-prompt-%d", id),
		Title:      fmt.Sprintf("Test Prompt %d", id),
		Source:     models.PromptSource{Name: "Test Source", URL: "#"},
		Images:     []string{fmt.Sprintf("https://picsum.photos/seed/%d/600/400", id)},
		Prompts:    []string{"a test prompt"},
		Tags:       []string{},
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/%d/600/400", id),
		Model:      "NanoBanana Pro",
		ModelID:    "gemini-3-pro-image-preview",
		CreateTime: 1700000000000,
		UpdateTime: 1700000000000,
		Likes:      100,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithTitle sets the entry title.
func WithTitle(title string) func(*models.PromptItem) {
	return func(e *models.PromptItem) { e.Title = title }
}

// WithTags sets the entry's tag list.
func WithTags(tags ...string) func(*models.PromptItem) {
	return func(e *models.PromptItem) { e.Tags = tags }
}

// WithModel sets the display name and identifier of the generating model.
func WithModel(id, name string) func(*models.PromptItem) {
	return func(e *models.PromptItem) {
		e.ModelID = id
		e.Model = name
	}
}

// WithSource sets the entry's source attribution.
func WithSource(name, url string) func(*models.PromptItem) {
	return func(e *models.PromptItem) { e.Source = models.PromptSource{Name: name, URL: url} }
}

// WithPrompts sets the entry's prompt texts.
func WithPrompts(prompts ...string) func(*models.PromptItem) {
	return func(e *models.PromptItem) { e.Prompts = prompts }
}

// WithTimes sets the create and update timestamps in epoch milliseconds.
func WithTimes(createMs, updateMs int64) func(*models.PromptItem) {
	return func(e *models.PromptItem) {
		e.CreateTime = createMs
		e.UpdateTime = updateMs
	}
}

// WithLikes sets the entry's like count.
func WithLikes(n int64) func(*models.PromptItem) {
	return func(e *models.PromptItem) { e.Likes = n }
}
