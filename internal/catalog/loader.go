// Package catalog loads the raw prompt data batches and normalizes them
// into the immutable in-memory catalog the filter engine runs over.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/junxiaopang/promptvault/pkg/models"
)

// RawRecord is one loosely-typed record as it appears in a source batch
// file. Every field may be absent; normalization fills the gaps.
type RawRecord struct {
	ID         int64                `json:"id"`
	Slug       string               `json:"slug"`
	Title      string               `json:"title"`
	Source     *models.PromptSource `json:"source"`
	Images     []string             `json:"images"`
	Prompts    []string             `json:"prompts"`
	Tags       []string             `json:"tags"`
	CoverImage string               `json:"coverImage"`
	Examples   []string             `json:"examples"`
	Notes      []string             `json:"notes"`
	Model      string               `json:"model"`
	ModelID    string               `json:"modelId"`
	CreateTime int64                `json:"create_time"`
	UpdateTime int64                `json:"update_time"`
	Likes      int64                `json:"likes"`
	Ratio      string               `json:"ratio"`
}

// Loader reads prompt batch files from a directory.
type Loader struct {
	dir    string
	logger *zap.Logger
}

// NewLoader creates a Loader for the given data directory.
func NewLoader(dir string, logger *zap.Logger) *Loader {
	return &Loader{dir: dir, logger: logger}
}

// Load reads every *.json batch file in the data directory and concatenates
// their records in sorted filename order, so identical inputs always
// concatenate identically. A file whose top level is not a JSON array is
// skipped with a warning; a missing directory yields an empty result.
// Load never fails on malformed data, only on unreadable directories other
// than not-exist.
func (l *Loader) Load() ([]RawRecord, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("data directory missing, starting with empty catalog",
				zap.String("dir", l.dir))
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir %q: %w", l.dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	var all []RawRecord
	for _, name := range files {
		path := filepath.Join(l.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("skipping unreadable batch file",
				zap.String("file", name), zap.Error(err))
			continue
		}

		var batch []RawRecord
		if err := json.Unmarshal(data, &batch); err != nil {
			l.logger.Warn("skipping malformed batch file",
				zap.String("file", name), zap.Error(err))
			continue
		}

		l.logger.Debug("loaded batch",
			zap.String("file", name), zap.Int("records", len(batch)))
		all = append(all, batch...)
	}

	return all, nil
}
