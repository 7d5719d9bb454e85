package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
)

// Slots is a small key/value store for layout records and flags.
type Slots interface {
	// Get returns the value under key. A missing key is not an error.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileSlots keeps one file per key under a directory.
type FileSlots struct {
	dir string
}

// NewFileSlots returns slots stored in the data directory under dir.
func NewFileSlots(dir string) *FileSlots {
	return &FileSlots{dir: filepath.Join(DataDir(dir), slotsDirName)}
}

func (s *FileSlots) path(key string) string {
	return filepath.Join(s.dir, slotFileName(key))
}

// slotFileName keeps the key readable and appends a digest of the raw key,
// since sanitizing alone maps different keys to the same name.
func slotFileName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return safeFileNameSegment(key) + "-" + hex.EncodeToString(sum[:8]) + ".json"
}

func (s *FileSlots) Get(key string) ([]byte, bool, error) {
	bytes, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return bytes, true, nil
}

func (s *FileSlots) Set(key string, value []byte) error {
	if err := writeFileAtomic(s.path(key), value); err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

func (s *FileSlots) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

// MemorySlots is an in-memory Slots used by tests and dry runs.
type MemorySlots struct {
	values map[string][]byte
}

func NewMemorySlots() *MemorySlots {
	return &MemorySlots{values: make(map[string][]byte)}
}

func (s *MemorySlots) Get(key string) ([]byte, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemorySlots) Set(key string, value []byte) error {
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemorySlots) Delete(key string) error {
	delete(s.values, key)
	return nil
}

// Values returns a copy of the stored values.
func (s *MemorySlots) Values() map[string][]byte {
	return maps.Clone(s.values)
}
