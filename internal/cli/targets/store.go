// Package targets provides saved deployment target storage for graphd-verify.
package targets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultConfigDir is the default directory for graphd CLI configuration.
	DefaultConfigDir = "graphd"
	// ConfigFileName is the name of the targets file.
	ConfigFileName = "targets.json"
	// FilePermissions for config files (read/write for owner only).
	FilePermissions = 0600
	// DirPermissions for config directories.
	DirPermissions = 0700
)

var (
	// ErrNoCurrentTarget indicates no target is currently selected.
	ErrNoCurrentTarget = errors.New("no current target set")
	// ErrTargetNotFound indicates the requested target doesn't exist.
	ErrTargetNotFound = errors.New("target not found")
)

// Target represents a deployment that graphd-verify can be pointed at.
type Target struct {
	BaseURL  string    `json:"base_url"`
	Neo4jURI string    `json:"neo4j_uri,omitempty"`
	AddedAt  time.Time `json:"added_at,omitempty"`
}

// Preferences represents user preferences for verification output.
type Preferences struct {
	DefaultOutput string `json:"default_output,omitempty"` // table, json, yaml
	Color         string `json:"color,omitempty"`          // auto, always, never
}

// Config represents the complete targets file.
type Config struct {
	CurrentTarget string             `json:"current_target"`
	Targets       map[string]*Target `json:"targets"`
	Preferences   Preferences        `json:"preferences,omitempty"`
}

// Store manages target storage and retrieval.
type Store struct {
	configPath string
	config     *Config
}

// NewStore creates a new target store.
func NewStore() (*Store, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	store := &Store{
		configPath: configPath,
	}

	// Load existing config or create new
	if err := store.load(); err != nil {
		// If file doesn't exist, create empty config
		if os.IsNotExist(err) {
			store.config = &Config{
				Targets: make(map[string]*Target),
			}
		} else {
			return nil, err
		}
	}

	return store, nil
}

// getConfigPath returns the path to the targets file.
func getConfigPath() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise ~/.config
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}

	return filepath.Join(configHome, DefaultConfigDir, ConfigFileName), nil
}

// load reads the targets file from disk.
func (s *Store) load() error {
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}

	s.config = &Config{}
	return json.Unmarshal(data, s.config)
}

// save writes the targets file to disk.
func (s *Store) save() error {
	// Ensure directory exists
	dir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(s.config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.configPath, data, FilePermissions)
}

// GetCurrentTarget returns the current target.
func (s *Store) GetCurrentTarget() (*Target, error) {
	if s.config.CurrentTarget == "" {
		return nil, ErrNoCurrentTarget
	}

	target, ok := s.config.Targets[s.config.CurrentTarget]
	if !ok {
		return nil, ErrTargetNotFound
	}

	return target, nil
}

// GetCurrentTargetName returns the name of the current target.
func (s *Store) GetCurrentTargetName() string {
	return s.config.CurrentTarget
}

// GetTarget returns a specific target by name.
func (s *Store) GetTarget(name string) (*Target, error) {
	target, ok := s.config.Targets[name]
	if !ok {
		return nil, ErrTargetNotFound
	}
	return target, nil
}

// ListTargets returns all target names.
func (s *Store) ListTargets() []string {
	names := make([]string, 0, len(s.config.Targets))
	for name := range s.config.Targets {
		names = append(names, name)
	}
	return names
}

// SetTarget creates or updates a target. The first target added becomes
// the current target.
func (s *Store) SetTarget(name string, target *Target) error {
	if s.config.Targets == nil {
		s.config.Targets = make(map[string]*Target)
	}
	if target.AddedAt.IsZero() {
		target.AddedAt = time.Now()
	}
	s.config.Targets[name] = target
	if s.config.CurrentTarget == "" {
		s.config.CurrentTarget = name
	}
	return s.save()
}

// UseTarget switches to a different target.
func (s *Store) UseTarget(name string) error {
	if _, ok := s.config.Targets[name]; !ok {
		return ErrTargetNotFound
	}
	s.config.CurrentTarget = name
	return s.save()
}

// DeleteTarget removes a target.
func (s *Store) DeleteTarget(name string) error {
	if _, ok := s.config.Targets[name]; !ok {
		return ErrTargetNotFound
	}

	delete(s.config.Targets, name)

	if s.config.CurrentTarget == name {
		s.config.CurrentTarget = ""
	}

	return s.save()
}

// GetPreferences returns the user preferences.
func (s *Store) GetPreferences() Preferences {
	return s.config.Preferences
}

// SetPreferences updates the user preferences.
func (s *Store) SetPreferences(prefs Preferences) error {
	s.config.Preferences = prefs
	return s.save()
}

// ConfigPath returns the path to the targets file.
func (s *Store) ConfigPath() string {
	return s.configPath
}
