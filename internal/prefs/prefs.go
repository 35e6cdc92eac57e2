// Package prefs handles haven user preferences persistence.
// Preferences are stored in ~/.config/haven/prefs.toml.
package prefs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Prefs holds user preferences for haven.
type Prefs struct {
	Theme           string `toml:"theme"`
	ArticlePageSize int    `toml:"article_page_size"`
	ArticleCategory int64  `toml:"article_category"`
}

const (
	defaultPrefsPath       = "~/.config/haven/prefs.toml"
	defaultTheme           = "Nightfox"
	defaultArticlePageSize = 6
	maxArticlePageSize     = 50
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, ArticlePageSize: defaultArticlePageSize}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path. A missing file yields defaults
// and no error. An unreadable or malformed file yields defaults and the error.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), errors.Wrap(err, "resolve path")
	}

	file, err := os.Open(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), errors.Wrap(err, "open prefs")
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Default(), errors.Wrap(err, "read prefs")
	}

	prefs := Default()
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), errors.Wrapf(err, "parse %s", resolved)
	}
	return prefs.normalize(), nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return errors.Wrap(err, "resolve path")
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return errors.Wrap(err, "create prefs dir")
	}

	bytes, err := toml.Marshal(p.normalize())
	if err != nil {
		return errors.Wrap(err, "marshal prefs")
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return errors.Wrap(err, "write prefs")
	}
	return nil
}

func (p Prefs) normalize() Prefs {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if p.ArticlePageSize <= 0 {
		p.ArticlePageSize = defaultArticlePageSize
	}
	if p.ArticlePageSize > maxArticlePageSize {
		p.ArticlePageSize = maxArticlePageSize
	}
	if p.ArticleCategory < 0 {
		p.ArticleCategory = 0
	}
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
