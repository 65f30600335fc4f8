// Package config reads and writes the photomark RC file.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/photomark/internal/export"
	"github.com/example/photomark/internal/hittest"
	"github.com/example/photomark/internal/palette"
	"github.com/example/photomark/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Send bool
	Save bool
	Copy bool
}

// Config holds the application configuration. Zero numeric fields mean
// "use the built-in default".
type Config struct {
	Theme        string
	SaveDir      string
	OutputFormat string
	JPEGQuality  int

	StrokeWidth    float64
	FontSize       float64
	MinHitRadius   float64
	HitRadiusRatio float64
	// MinShapeSize is nil when unset; an explicit zero keeps every shape.
	MinShapeSize   *float64

	// Palette replaces the preset colours when non-empty.
	Palette []palette.Entry
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Themes: make(map[string]*theme.Theme),
	}
}

// Scale returns the hit tolerance scaling with configured overrides.
func (c *Config) Scale() hittest.Scale {
	s := hittest.DefaultScale
	if c.MinHitRadius > 0 {
		s.MinHit = c.MinHitRadius
	}
	if c.HitRadiusRatio > 0 {
		s.Ratio = c.HitRadiusRatio
	}
	return s
}

// ExportOptions returns the configured encoding.
func (c *Config) ExportOptions() (export.Options, error) {
	opts := export.DefaultOptions()
	if c.OutputFormat != "" {
		f, err := export.ParseFormat(c.OutputFormat)
		if err != nil {
			return opts, err
		}
		opts.Format = f
	}
	if c.JPEGQuality > 0 {
		opts.Quality = c.JPEGQuality
	}
	return opts, nil
}

// NewPalette returns the configured presets, or the defaults.
func (c *Config) NewPalette() *palette.Palette {
	return palette.New(c.Palette...)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	root := []struct {
		key, value string
	}{
		{"theme", c.Theme},
		{"save_dir", c.SaveDir},
		{"output_format", c.OutputFormat},
		{"jpeg_quality", formatInt(c.JPEGQuality)},
		{"stroke_width", formatFloat(c.StrokeWidth)},
		{"font_size", formatFloat(c.FontSize)},
		{"min_hit_radius", formatFloat(c.MinHitRadius)},
		{"hit_radius_ratio", formatFloat(c.HitRadiusRatio)},
		{"min_shape_size", formatOptFloat(c.MinShapeSize)},
	}
	for _, kv := range root {
		if kv.value != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv.key, kv.value)
		}
	}
	sb.WriteString("\n")

	if len(c.Palette) > 0 {
		sb.WriteString("[palette]\n")
		for _, e := range c.Palette {
			fmt.Fprintf(&sb, "%s = %s\n", e.Name, palette.Hex(e.Color))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "send = %v\n", c.Notify.Send)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, palette.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
