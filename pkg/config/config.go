// Package config loads parser settings from a YAML file: extra tags,
// element overrides, leaf markup and the policy for unknown tags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Dahie/rbbcode/pkg/bbcode"
	"gopkg.in/yaml.v3"
)

type Tag struct {
	Name      string `yaml:"name"`
	Category  string `yaml:"category"`
	Parameter bool   `yaml:"parameter"`
	Container string `yaml:"container"`
}

type Config struct {
	// UnknownTags is "text" (default) or "drop"
	UnknownTags string            `yaml:"unknown_tags"`
	Tags        []Tag             `yaml:"tags"`
	Elements    map[string]string `yaml:"elements"`
	Leaves      map[string]string `yaml:"leaves"`

	schema  *bbcode.Schema
	unknown bbcode.UnknownTags
}

// Load reads the config file at path. An empty path gives the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch strings.ToLower(cfg.UnknownTags) {
	case "", "text":
		cfg.unknown = bbcode.KeepText
	case "drop":
		cfg.unknown = bbcode.DropTags
	default:
		return nil, fmt.Errorf("invalid unknown_tags %q, expected \"text\" or \"drop\"", cfg.UnknownTags)
	}

	cfg.schema = bbcode.DefaultSchema()
	for i, tag := range cfg.Tags {
		if tag.Name == "" {
			return nil, fmt.Errorf("tag #%d has no name", i+1)
		}
		for _, name := range []string{tag.Name, tag.Container} {
			if name != "" && !validName(name) {
				return nil, fmt.Errorf("invalid tag name %q, only ASCII letters or \"*\" are allowed", name)
			}
		}
		category := bbcode.Inline
		if tag.Category != "" {
			c, err := bbcode.ParseCategory(tag.Category)
			if err != nil {
				return nil, fmt.Errorf("tag %s: %w", tag.Name, err)
			}
			category = c
		}
		cfg.schema.Allow(tag.Name, bbcode.TagSpec{
			Category:       category,
			TakesParameter: tag.Parameter,
			Container:      tag.Container,
		})
	}
	return cfg, nil
}

// validName reports whether the scanner can match name in a tag
func validName(name string) bool {
	if name == "*" {
		return true
	}
	for i := 0; i < len(name); i++ {
		if !bbcode.IsLetter(name[i]) {
			return false
		}
	}
	return true
}

// Schema returns the default schema extended with the configured tags.
func (c *Config) Schema() *bbcode.Schema {
	return c.schema
}

// Renderer returns an HTML maker with the configured overrides.
func (c *Config) Renderer() *bbcode.HTMLMaker {
	maker := bbcode.NewHTMLMaker()
	for tag, element := range c.Elements {
		maker.SetElement(tag, element)
	}
	for tag, markup := range c.Leaves {
		maker.SetLeaf(tag, markup)
	}
	return maker
}

// Options returns parser options for the configuration.
func (c *Config) Options() []func(*bbcode.Parser) {
	return []func(*bbcode.Parser){
		bbcode.WithSchema(c.Schema()),
		bbcode.WithRenderer(c.Renderer()),
		bbcode.WithUnknownTags(c.unknown),
	}
}
