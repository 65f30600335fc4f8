// Package palette holds the preset annotation colours and colour parsing.
package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/colornames"
)

// Entry is one named preset.
type Entry struct {
	Name  string
	Color color.RGBA
}

// Defaults are the preset colours offered in the toolbar.
var Defaults = []Entry{
	{"Red", color.RGBA{0xEF, 0x44, 0x44, 0xFF}},
	{"Amber", color.RGBA{0xF5, 0x9E, 0x0B, 0xFF}},
	{"Emerald", color.RGBA{0x10, 0xB9, 0x81, 0xFF}},
	{"Blue", color.RGBA{0x3B, 0x82, 0xF6, 0xFF}},
	{"White", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
}

// Palette is an ordered, growable set of presets safe for concurrent use.
type Palette struct {
	mu      sync.RWMutex
	entries []Entry
}

// New returns a palette holding entries, or Defaults when entries is empty.
func New(entries ...Entry) *Palette {
	if len(entries) == 0 {
		entries = Defaults
	}
	return &Palette{entries: append([]Entry(nil), entries...)}
}

// Entries returns a copy of the presets.
func (p *Palette) Entries() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Entry(nil), p.entries...)
}

// Len reports the number of presets.
func (p *Palette) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// At returns the preset at idx clamped into range.
func (p *Palette) At(idx int) Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.entries) == 0 {
		return Entry{}
	}
	idx = max(0, min(idx, len(p.entries)-1))
	return p.entries[idx]
}

// Index returns the position of col, or -1.
func (p *Palette) Index(col color.RGBA) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i, e := range p.entries {
		if e.Color == col {
			return i
		}
	}
	return -1
}

// Ensure makes sure col is present and returns its index.
func (p *Palette) Ensure(col color.RGBA, name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	for idx, existing := range p.entries {
		if existing.Color == col {
			if name != "" && existing.Name == "" {
				p.entries[idx].Name = name
			}
			return idx
		}
	}
	if name == "" {
		name = Hex(col)
	}
	p.entries = append(p.entries, Entry{Name: name, Color: col})
	return len(p.entries) - 1
}

// Lookup resolves s against the preset names.
func (p *Palette) Lookup(s string) (color.RGBA, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, e := range p.entries {
		if strings.EqualFold(e.Name, strings.TrimSpace(s)) {
			return e.Color, true
		}
	}
	return color.RGBA{}, false
}

// Parse resolves a colour given as a preset name, an SVG colour name or a
// #RRGGBB / #RRGGBBAA hex string.
func (p *Palette) Parse(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if p != nil {
		if c, ok := p.Lookup(spec); ok {
			return c, nil
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	return ParseHex(spec)
}

// ParseHex parses #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (color.RGBA, error) {
	spec := strings.TrimSpace(s)
	if !strings.HasPrefix(spec, "#") || (len(spec) != 7 && len(spec) != 9) {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	val, err := strconv.ParseUint(spec[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(spec) == 7 {
		return color.RGBA{uint8(val >> 16), uint8(val >> 8), uint8(val), 255}, nil
	}
	return color.RGBA{uint8(val >> 24), uint8(val >> 16), uint8(val >> 8), uint8(val)}, nil
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when it is translucent.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
