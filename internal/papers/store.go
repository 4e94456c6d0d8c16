// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package papers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/toolservers/internal/toolkit"
	"github.com/pdiddy/toolservers/pkg/types"
)

// cacheFile is the per-topic cache file name inside each topic directory.
const cacheFile = "papers_info.json"

// Store persists paper records grouped by normalized topic. Upsert is a
// read-modify-write merge; callers serialize concurrent upserts per topic.
type Store interface {
	// Topic returns every record cached for topic. A missing or malformed
	// cache yields an empty map.
	Topic(ctx context.Context, topic string) (map[string]types.PaperRecord, error)

	// Upsert merges records into the topic cache, overwriting same-ID entries
	// and keeping all others.
	Upsert(ctx context.Context, topic string, records map[string]types.PaperRecord) error

	// Find returns the first cached record for id across all topics.
	Find(ctx context.Context, id string) (types.PaperRecord, bool, error)

	// Ping verifies the store is usable.
	Ping(ctx context.Context) error

	Close() error
}

// FileStore keeps one pretty-printed JSON file per topic directory:
// <dir>/<topic>/papers_info.json.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created lazily.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store's base directory.
func (s *FileStore) Dir() string { return s.dir }

// topicDir maps a normalized topic to its directory, keeping it inside the
// base directory.
func (s *FileStore) topicDir(topic string) (string, error) {
	if err := ValidateTopic(topic); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, topicDirName(topic)), nil
}

func topicDirName(topic string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(topic)
}

// ValidateTopic rejects normalized topics that cannot name a cache
// directory, such as "." and "..".
func ValidateTopic(topic string) error {
	switch topicDirName(topic) {
	case "", ".", "..":
		return toolkit.InvalidInput("invalid topic %q", topic)
	}
	return nil
}

// Topic reads the topic's cache file.
func (s *FileStore) Topic(_ context.Context, topic string) (map[string]types.PaperRecord, error) {
	dir, err := s.topicDir(topic)
	if err != nil {
		return nil, err
	}
	records, err := readCacheFile(filepath.Join(dir, cacheFile))
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Upsert merges records into the topic's cache file and rewrites it.
func (s *FileStore) Upsert(ctx context.Context, topic string, records map[string]types.PaperRecord) error {
	dir, err := s.topicDir(topic)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating topic directory: %w", err)
	}

	existing, err := s.Topic(ctx, topic)
	if err != nil {
		return err
	}
	for id, r := range records {
		existing[id] = r
	}
	return writeCacheFile(filepath.Join(dir, cacheFile), existing)
}

// Find scans topic directories in lexical order; the first cache containing
// id wins. Unreadable or malformed caches are skipped.
func (s *FileStore) Find(_ context.Context, id string) (types.PaperRecord, bool, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.PaperRecord{}, false, nil
		}
		return types.PaperRecord{}, false, fmt.Errorf("reading cache directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		records, err := readCacheFile(filepath.Join(s.dir, entry.Name(), cacheFile))
		if err != nil {
			continue
		}
		if r, ok := records[id]; ok {
			return r, true, nil
		}
	}
	return types.PaperRecord{}, false, nil
}

// Ping checks that the base directory exists or can be created and is writable.
func (s *FileStore) Ping(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	f, err := os.CreateTemp(s.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("cache directory not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }

// readCacheFile loads a cache file. A missing file or malformed JSON yields
// an empty map; other I/O errors are returned.
func readCacheFile(path string) (map[string]types.PaperRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]types.PaperRecord{}, nil
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}
	records := map[string]types.PaperRecord{}
	if err := json.Unmarshal(data, &records); err != nil || records == nil {
		return map[string]types.PaperRecord{}, nil
	}
	return records, nil
}

// writeCacheFile writes records with 2-space indentation through a temp file
// renamed into place, so readers never see a partial file.
func writeCacheFile(path string, records map[string]types.PaperRecord) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".papers-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	encErr := enc.Encode(records)
	closeErr := tmp.Close()
	if encErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("encoding cache file: %w", encErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
