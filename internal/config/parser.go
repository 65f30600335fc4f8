package config

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/example/photomark/internal/palette"
	"github.com/example/photomark/internal/theme"
)

// Parse reads configuration from an io.Reader. Unknown keys are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				// start from defaults so missing keys are fine
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		key, value, ok := cutKeyValue(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case current != nil:
			err = theme.Set(current, key, value)
		case section == "palette":
			err = addPaletteEntry(cfg, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			where := "root section"
			if section != "" {
				where = "section [" + section + "]"
			}
			return nil, fmt.Errorf("line %d: error in %s: %w", lineNo, where, err)
		}
	}

	return cfg, scanner.Err()
}

// cutKeyValue splits "key = value" or "key: value". The first separator
// wins so hex colours and paths keep their characters.
func cutKeyValue(line string) (string, string, bool) {
	i := strings.IndexAny(line, "=:")
	if i < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:i])
	value := strings.TrimSpace(line[i+1:])
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		value = value[1 : len(value)-1]
	}
	return key, value, key != ""
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "output_format":
		cfg.OutputFormat = value
	case "jpeg_quality":
		cfg.JPEGQuality, err = strconv.Atoi(value)
		if err == nil && (cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100) {
			err = fmt.Errorf("jpeg_quality %d outside 1..100", cfg.JPEGQuality)
		}
	case "stroke_width":
		cfg.StrokeWidth, err = parsePositive(key, value)
	case "font_size":
		cfg.FontSize, err = parsePositive(key, value)
	case "min_hit_radius":
		cfg.MinHitRadius, err = parsePositive(key, value)
	case "hit_radius_ratio":
		cfg.HitRadiusRatio, err = parsePositive(key, value)
	case "min_shape_size":
		var v float64
		if v, err = parsePositive(key, value); err == nil {
			cfg.MinShapeSize = &v
		}
	}
	return err
}

func parsePositive(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("key %s must be a finite non-negative number", key)
	}
	return v, nil
}

func addPaletteEntry(cfg *Config, name, value string) error {
	col, err := palette.ParseHex(value)
	if err != nil {
		return fmt.Errorf("invalid color for %s: %w", name, err)
	}
	cfg.Palette = append(cfg.Palette, palette.Entry{Name: name, Color: col})
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "send":
		n.Send = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}
