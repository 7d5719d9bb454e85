package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"sigs.k8s.io/yaml"
)

const (
	DataDirName      = ".switch-panel"
	ConfigFileName   = "panel.yaml"
	StatesFileName   = "states.yaml"
	MarkdownFileName = "PANEL.md"

	slotsDirName = "slots"
)

// DataDir returns the data directory under dir.
func DataDir(dir string) string {
	return filepath.Join(dir, DataDirName)
}

// LoadConfig reads, normalizes and validates a panel configuration file.
func LoadConfig(path string) (*domain.Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg := &domain.Config{}
	if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path using an atomic rename.
func SaveConfig(path string, cfg *domain.Config) error {
	return writeYAML(path, cfg)
}

// LoadStates reads a host state snapshot: a map of entity id to state.
func LoadStates(path string) (domain.States, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	states := domain.States{}
	if err := yaml.Unmarshal(bytes, &states); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return states, nil
}

// SaveStates writes states to path using an atomic rename.
func SaveStates(path string, states domain.States) error {
	return writeYAML(path, states)
}

func writeYAML(fileName string, v interface{}) error {
	bytes, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %T: %w", v, err)
	}
	return writeFileAtomic(fileName, bytes)
}

// writeFileAtomic writes to a sibling temp file and renames it over fileName.
func writeFileAtomic(fileName string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(fileName), err)
	}
	tmp := fileName + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, fileName); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s to %s: %w", tmp, fileName, err)
	}
	return nil
}

// safeFileNameSegment sanitizes a string for use as a filename.
func safeFileNameSegment(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "item"
	}
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, trimmed)
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "item"
	}
	return safe
}
