package config

import (
	"github.com/mvp-joe/codedoc/internal/render"
	"github.com/mvp-joe/codedoc/internal/walker"
)

// Config represents the complete codedoc configuration.
// It can be loaded from .codedoc/config.yml with environment variable and flag overrides.
type Config struct {
	Root        string   `yaml:"root" mapstructure:"root"`                                 // directory to scan
	Output      string   `yaml:"output" mapstructure:"output" validate:"required"`         // markdown destination
	Style       string   `yaml:"style" mapstructure:"style" validate:"style"`              // "detailed" or "brief"
	Suffix      string   `yaml:"suffix" mapstructure:"suffix" validate:"required"`         // source file suffix
	Concurrency int      `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=0"`  // 0 means one worker per CPU
	Title       string   `yaml:"title" mapstructure:"title"`                               // document title
	Ignore      []string `yaml:"ignore" mapstructure:"ignore" validate:"dive,globpattern"` // glob patterns to skip
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Root:        ".",
		Output:      "documentation.md",
		Style:       render.Detailed.String(),
		Suffix:      walker.DefaultSuffix,
		Concurrency: 0,
		Title:       render.DefaultTitle,
		Ignore: []string{
			".git/**",
			"__pycache__/**",
			".venv/**",
			"venv/**",
			"node_modules/**",
		},
	}
}

// RenderStyle returns the parsed render style. Validate guarantees it parses.
func (c *Config) RenderStyle() render.Style {
	style, err := render.ParseStyle(c.Style)
	if err != nil {
		return render.Detailed
	}
	return style
}

// WalkerOptions converts the configuration into walker options.
// Reporter and Progress are left for the caller to fill in.
func (c *Config) WalkerOptions() walker.Options {
	return walker.Options{
		Suffix:      c.Suffix,
		Ignore:      c.Ignore,
		Concurrency: c.Concurrency,
	}
}

// RenderOptions converts the configuration into renderer options.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Style: c.RenderStyle(),
		Title: c.Title,
	}
}
