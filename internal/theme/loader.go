package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// EnvTheme names the environment variable that selects a theme when the
// configuration does not.
const EnvTheme = "PHOTOMARK_THEME"

// Loader resolves themes from a file path, the embedded set, the user's
// config directory and the system directory, in that order.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "photomark", "themes"),
		SystemDir: "/usr/share/photomark/themes",
	}
}

// Load returns the theme called name. An empty name yields Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if _, err := os.Stat(name); err == nil {
		return parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	if t, err := parseFile(EmbeddedThemes, path.Join("defaults", filename)); err == nil {
		return t, nil
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, filename)); err != nil {
			continue
		}
		return parseFile(os.DirFS(dir), filename)
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

// Resolve picks the theme named by the configuration, then the
// PHOTOMARK_THEME environment variable, falling back to Default when the
// name cannot be loaded.
func (l *Loader) Resolve(configured string, custom map[string]*Theme) (*Theme, error) {
	name := strings.TrimSpace(configured)
	if name == "" {
		name = strings.TrimSpace(os.Getenv(EnvTheme))
	}
	if t, ok := custom[name]; ok && t != nil {
		return t, nil
	}
	t, err := l.Load(name)
	if err != nil {
		return Default(), err
	}
	return t, nil
}

// Names lists the embedded theme names without their extension.
func Names() []string {
	entries, err := fs.ReadDir(EmbeddedThemes, "defaults")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".theme"); ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func parseFile(fsys fs.FS, name string) (*Theme, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
