// Package models defines the shared data types for the PromptVault catalog.
package models

// PromptSource identifies where a prompt record was collected from.
type PromptSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PromptItem is one normalized catalog entry. After normalization an item is
// immutable: ID and Title are always set, Tags and Prompts are never nil,
// and Source always has a name and URL.
type PromptItem struct {
	ID         int64        `json:"id"`
	Slug       string       `json:"slug,omitempty"`
	Title      string       `json:"title"`
	Source     PromptSource `json:"source"`
	Images     []string     `json:"images"`
	Prompts    []string     `json:"prompts"`
	Tags       []string     `json:"tags"`
	CoverImage string       `json:"coverImage"`
	Examples   []string     `json:"examples,omitempty"`
	Notes      []string     `json:"notes,omitempty"`

	// Model is the resolved display name (e.g. "GPT-4o"); ModelID keeps the
	// raw identifier from the source data when one was present. ModelID is
	// preferred for model-category matching.
	Model   string `json:"model,omitempty"`
	ModelID string `json:"modelId,omitempty"`

	// Epoch milliseconds. Zero means the source carried no timestamp.
	CreateTime int64 `json:"create_time,omitempty"`
	UpdateTime int64 `json:"update_time,omitempty"`

	Likes int64  `json:"likes"`
	Ratio string `json:"ratio,omitempty"`
}

// HasTimestamp reports whether the item carries any time information.
func (p PromptItem) HasTimestamp() bool {
	return p.CreateTime != 0 || p.UpdateTime != 0
}

// Timestamp returns the item's effective time for date filtering:
// create time, falling back to update time, else zero.
func (p PromptItem) Timestamp() int64 {
	if p.CreateTime != 0 {
		return p.CreateTime
	}
	return p.UpdateTime
}
