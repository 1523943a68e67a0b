package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ypscraper/pkg/logger"
	"ypscraper/pkg/models"
)

// Manager persists per-channel post sets as JSON files in one output folder.
type Manager struct {
	outputDir string
	logger    logger.Logger
}

// NewManager creates a storage manager, creating the output folder if needed.
func NewManager(outputDir string, log logger.Logger) (*Manager, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{outputDir: outputDir, logger: log}, nil
}

// Path returns the absolute location of a channel's output file.
func (m *Manager) Path(fileName string) string {
	return filepath.Join(m.outputDir, fileName)
}

// Load reads a previously persisted post set. A missing file returns an
// empty set and no error; update mode degrades to a fresh write.
func (m *Manager) Load(fileName string) ([]models.PostRecord, error) {
	data, err := os.ReadFile(m.Path(fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
	}

	var records []models.PostRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fileName, err)
	}
	return records, nil
}

// Save writes the full record sequence, overwriting any previous content.
// Output is human-indented UTF-8 with non-ASCII characters preserved.
func (m *Manager) Save(fileName string, records []models.PostRecord) error {
	// A channel with zero records still gets a JSON array, never null.
	if records == nil {
		records = []models.PostRecord{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	// Write through a temp file so a crash never leaves a truncated set.
	path := m.Path(fileName)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", fileName, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.logger.DebugWithFields("post set written", map[string]interface{}{
		"file":  fileName,
		"posts": len(records),
	})
	return nil
}

// Merge combines freshly scraped records with a previously persisted set.
// Old records always win on conflict: any fresh record whose post_link is
// already persisted is dropped, and the surviving fresh records are
// appended after the old sequence. Returns the merged sequence and the
// number of genuinely new records.
func Merge(old, fresh []models.PostRecord) ([]models.PostRecord, int) {
	if len(old) == 0 {
		return fresh, len(fresh)
	}

	seen := make(map[string]struct{}, len(old))
	for _, record := range old {
		seen[record.PostLink] = struct{}{}
	}

	merged := make([]models.PostRecord, 0, len(old)+len(fresh))
	merged = append(merged, old...)
	added := 0
	for _, record := range fresh {
		if _, dup := seen[record.PostLink]; dup {
			continue
		}
		merged = append(merged, record)
		added++
	}
	return merged, added
}

// Reverse flips a record sequence in place.
func Reverse(records []models.PostRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}

// PersistOptions control how a freshly scraped sequence is written.
type PersistOptions struct {
	// Reverse flips the fresh sequence before any merge. Combined with
	// Update this yields a mixed ordering; that behavior is documented and
	// kept as-is.
	Reverse bool
	// Update merges with the channel's existing file instead of replacing it.
	Update bool
}

// Persist applies reverse and update handling to a freshly scraped,
// oldest-first sequence and writes the result. Returns the number of new
// records written.
func (m *Manager) Persist(fileName string, fresh []models.PostRecord, opts PersistOptions) (int, error) {
	if opts.Reverse {
		Reverse(fresh)
	}

	final := fresh
	added := len(fresh)
	if opts.Update {
		old, err := m.Load(fileName)
		if err != nil {
			return 0, err
		}
		final, added = Merge(old, fresh)
	}

	if err := m.Save(fileName, final); err != nil {
		return 0, err
	}
	return added, nil
}
