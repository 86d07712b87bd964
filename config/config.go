// Package config loads the render manifest describing which filter
// lists to assemble and where include targets come from.
package config

import (
	"fmt"
	"time"
)

// Config is the top-level render manifest.
type Config struct {
	// Top is the entry filter list target, e.g. "easylist.txt" or
	// "web:easylist.txt".
	Top string `yaml:"top" toml:"top"`
	// Output is the rendered list path; "-" means stdout.
	Output string `yaml:"output,omitempty" toml:"output,omitempty"`
	// Interval is the re-render period for watch mode, e.g. "12h".
	Interval string `yaml:"interval,omitempty" toml:"interval,omitempty"`
	// CacheDir holds cached downloads of web sources.
	CacheDir string `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`
	// Sources define the protocol prefixes usable in %include% targets.
	Sources []Source `yaml:"sources" toml:"sources"`

	interval time.Duration
}

// Source is one content source for include targets. Exactly one of
// Path and URLPrefix must be set.
type Source struct {
	// Name is the protocol prefix, e.g. "web" for "%include web:x%".
	// An empty name is the default source for protocol-less targets.
	Name string `yaml:"name" toml:"name"`
	// Path is a local directory holding filter lists.
	Path string `yaml:"path,omitempty" toml:"path,omitempty"`
	// URLPrefix is prepended to include paths and fetched over HTTP.
	URLPrefix string `yaml:"url_prefix,omitempty" toml:"url_prefix,omitempty"`
}

// RefreshInterval returns the parsed watch-mode interval, zero when
// the manifest does not set one.
func (c *Config) RefreshInterval() time.Duration { return c.interval }

// HasWebSources reports whether any source fetches over HTTP.
func (c *Config) HasWebSources() bool {
	for _, s := range c.Sources {
		if s.URLPrefix != "" {
			return true
		}
	}
	return false
}

// Validate checks manifest consistency and parses the interval.
func (c *Config) Validate() error {
	if c.Top == "" {
		return fmt.Errorf("manifest: top is required")
	}
	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if seen[s.Name] {
			return fmt.Errorf("manifest: duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
		if (s.Path == "") == (s.URLPrefix == "") {
			return fmt.Errorf("manifest: source %q needs exactly one of path and url_prefix", s.Name)
		}
	}
	if c.Interval != "" {
		d, err := time.ParseDuration(c.Interval)
		if err != nil {
			return fmt.Errorf("manifest: interval: %w", err)
		}
		c.interval = d
	}
	return nil
}
