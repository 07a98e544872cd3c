package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"github.com/example/folio/internal/core/item"
	"github.com/example/folio/internal/core/zone"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// Config represents the .folio/config.toml project configuration.
type Config struct {
	Version string        `toml:"version"`
	Storage StorageConfig `toml:"storage"`
	Zones   []ZoneConfig  `toml:"zones"`
}

// StorageConfig locates the saved-section database and the asset tree.
// Both paths may start with ~.
type StorageConfig struct {
	DBPath   string `toml:"db_path"`
	AssetDir string `toml:"asset_dir"`
}

// ZoneConfig declares one zone. A zone without a capacity is unbounded;
// capacity = 0 declares a zone that refuses every item.
type ZoneConfig struct {
	ID       string   `toml:"id"`
	Accepts  []string `toml:"accepts,omitempty"`
	Capacity *int     `toml:"capacity,omitempty"`
	Library  bool     `toml:"library,omitempty"`
}

// DefaultConfig returns the configuration of a one-page portfolio template.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Storage: StorageConfig{
			DBPath:   "~/.folio/folio.db",
			AssetDir: "~/.folio/assets",
		},
		Zones: []ZoneConfig{
			{ID: "hero", Accepts: []string{"text", "richText", "media"}, Capacity: item.Ptr(1)},
			{ID: "about", Accepts: []string{"text", "richText", "media"}, Capacity: item.Ptr(3)},
			{ID: "projects", Accepts: []string{"media", "links", "richText"}},
			{ID: "contact", Accepts: []string{"links", "text"}, Capacity: item.Ptr(2)},
			{ID: "library", Library: true},
		},
	}
}

// LoadConfig reads .folio/config.toml from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".folio", "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.toml to directory
func SaveConfig(dir string, cfg *Config) error {
	folioDir := filepath.Join(dir, ".folio")
	if err := os.MkdirAll(folioDir, 0755); err != nil {
		return fmt.Errorf("failed to create .folio dir: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(folioDir, "config.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Registry validates the zone declarations and builds the zone registry.
func (c *Config) Registry() (*zone.Registry, error) {
	zones := make([]zone.Zone, 0, len(c.Zones))
	for _, zc := range c.Zones {
		capacity := zone.Unbounded
		if zc.Capacity != nil {
			capacity = *zc.Capacity
		}
		if zc.Library {
			if len(zc.Accepts) > 0 {
				return nil, fmt.Errorf("zone %q: the library accepts every kind, drop its accepts list", zc.ID)
			}
			zones = append(zones, zone.NewLibrary(zc.ID, capacity))
			continue
		}

		kinds := make([]item.Kind, 0, len(zc.Accepts))
		for _, s := range zc.Accepts {
			k, err := item.ParseKind(s)
			if err != nil {
				return nil, fmt.Errorf("zone %q: %w", zc.ID, err)
			}
			kinds = append(kinds, k)
		}
		zones = append(zones, zone.New(zc.ID, capacity, kinds...))
	}
	return zone.NewRegistry(zones...)
}

// DBPath returns the expanded database path.
func (c *Config) DBPath() (string, error) {
	return homedir.Expand(c.Storage.DBPath)
}

// AssetDir returns the expanded asset directory.
func (c *Config) AssetDir() (string, error) {
	return homedir.Expand(c.Storage.AssetDir)
}
