package geocache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/peterg4059/savannah-restaurant-map/internal/atomicfile"
	"github.com/peterg4059/savannah-restaurant-map/internal/domain"
)

// FileStore maps addresses to coordinates for the whole run and, when it has
// a path, across runs as a JSON object:
//
//	{"109 martin luther king jr blvd": {"lat": 32.081, "lng": -81.095}}
//
// Keys are normalized addresses, so "1 Bull St" and " 1 BULL st" share an entry.
type FileStore struct {
	path string

	mu      sync.Mutex
	entries map[string]domain.Geo
	dirty   bool
}

// NewMemoryStore returns a store that is never written to disk.
func NewMemoryStore() *FileStore {
	return &FileStore{entries: make(map[string]domain.Geo)}
}

// OpenFileStore loads the store at path. A missing file is an empty store.
// Keys written verbatim by older caches are normalized on load; when two
// collapse to one key the lexically first original wins.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, entries: make(map[string]domain.Geo)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read geocode cache: %w", err)
	}

	var raw map[string]domain.Geo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse geocode cache %s: %w", path, err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		nk := normalizeAddress(k)
		if _, ok := s.entries[nk]; ok {
			continue
		}
		s.entries[nk] = raw[k]
		if nk != k {
			s.dirty = true
		}
	}
	return s, nil
}

// Len returns the number of cached addresses.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *FileStore) get(address string) (domain.Geo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.entries[normalizeAddress(address)]
	return g, ok
}

func (s *FileStore) put(address string, g domain.Geo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := normalizeAddress(address)
	if old, ok := s.entries[key]; ok && old == g {
		return
	}
	s.entries[key] = g
	s.dirty = true
}

// Save writes the store back if anything changed. Memory stores are never
// written. The file is replaced atomically and keys are sorted, so an
// unchanged cache produces no diff.
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" || !s.dirty {
		return nil
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode geocode cache: %w", err)
	}
	if err := atomicfile.Write(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write geocode cache: %w", err)
	}
	s.dirty = false
	return nil
}

// normalizeAddress lowercases and collapses whitespace.
func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
