// Package settings persists the showcase preferences between runs.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cristianoliveira/toastq/internal/config"
	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the preferences file inside config_dir.
const FileName = "demo" + config.FileExtTOML

// MaxVisible bounds the cards drawn per anchor.
const MaxVisible = 10

// Settings holds the showcase preferences persisted to disk.
//
// TOML layout:
//
//	position = "bottom-right"
//	visible = 3
//	full_help = false
type Settings struct {
	// Position is the anchor new toasts start at.
	Position string `toml:"position"`
	// Visible caps the cards drawn per anchor.
	Visible int `toml:"visible"`
	// FullHelp lists every key binding instead of the short help line.
	FullHelp bool `toml:"full_help"`
}

// DefaultSettings returns settings seeded from the loaded configuration.
func DefaultSettings() *Settings {
	position := config.Get("default_position", string(domain.PositionBottomRight))
	if _, err := domain.ParsePosition(position); err != nil {
		position = string(domain.PositionBottomRight)
	}
	visible := config.GetInt("visible_toasts", 3)
	if visible < 1 || visible > MaxVisible {
		visible = 3
	}
	return &Settings{Position: position, Visible: visible}
}

// Path returns where settings are stored.
func Path() string {
	return filepath.Join(config.Get("config_dir", ""), FileName)
}

// Load reads settings from Path. A missing file yields the defaults; keys
// absent from the file keep their default values.
func Load() (*Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(Path())
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := toml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Save writes s to Path, creating config_dir when needed.
func Save(s *Settings) error {
	if s == nil {
		return errors.New("settings cannot be nil")
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	dir := config.Get("config_dir", "")
	if dir == "" {
		return errors.New("config_dir not configured")
	}
	if err := os.MkdirAll(dir, config.FileModeDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(Path(), data, config.FileModeFile); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Validate checks that every value is usable.
func (s *Settings) Validate() error {
	if _, err := domain.ParsePosition(s.Position); err != nil {
		return err
	}
	if s.Visible < 1 || s.Visible > MaxVisible {
		return fmt.Errorf("visible must be between 1 and %d, got %d", MaxVisible, s.Visible)
	}
	return nil
}

// PositionValue returns Position as a domain value. Call after Validate.
func (s *Settings) PositionValue() domain.Position {
	return domain.Position(s.Position)
}
