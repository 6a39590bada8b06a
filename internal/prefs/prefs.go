// Package prefs loads, saves and watches the user preference file.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/zenithax-cc/hwlens/internal/export"
	"github.com/zenithax-cc/hwlens/pkg/cpuclass"
)

const (
	LanguageEnglish    = "en"
	LanguagePortuguese = "pt"

	ThemeDark  = "dark"
	ThemeLight = "light"

	DefaultAccent = "#4fc3f7"
)

var regexAccent = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Prefs struct {
	Language string `json:"language"`
	Theme    string `json:"theme"`
	Accent   string `json:"accent"`
}

func Default() Prefs {
	return Prefs{
		Language: LanguageEnglish,
		Theme:    ThemeDark,
		Accent:   DefaultAccent,
	}
}

// Markers returns the classifier markers for the preferred language.
func (p Prefs) Markers() cpuclass.Markers {
	return cpuclass.MarkersFor(p.Language)
}

// normalize replaces invalid values with their defaults.
func (p Prefs) normalize() Prefs {
	d := Default()

	p.Language = cpuclass.LanguageCode(p.Language)
	switch p.Language {
	case LanguageEnglish, LanguagePortuguese:
	default:
		p.Language = d.Language
	}

	switch p.Theme {
	case ThemeDark, ThemeLight:
	default:
		p.Theme = d.Theme
	}

	if !regexAccent.MatchString(p.Accent) {
		p.Accent = d.Accent
	}

	return p
}

// Load reads path. A missing file yields the defaults and no error; a file
// that cannot be decoded yields the defaults and the decode error.
func Load(path string) (Prefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read prefs %s: %w", path, err)
	}

	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("decode prefs %s: %w", path, err)
	}

	return p.normalize(), nil
}

func Save(path string, p Prefs) error {
	return export.WriteJSON(path, p.normalize())
}

// Watch calls fn with the reloaded preferences every time path is written
// or replaced, until ctx is done. The parent directory is watched so that
// atomic replacements are seen.
func Watch(ctx context.Context, path string, log *zap.Logger, fn func(Prefs, error)) error {
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err = watcher.Add(dir); err != nil {
		if err2 := watcher.Close(); err2 != nil {
			err = errors.Join(err, fmt.Errorf("failed to close watcher: %w", err2))
		}

		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			err := ctx.Err()
			if err2 := watcher.Close(); err2 != nil {
				err = errors.Join(err, fmt.Errorf("failed to close watcher: %w", err2))
			}

			return err
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != abs {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Debug("preferences changed", zap.String("path", abs), zap.Stringer("op", event.Op))
				fn(Load(abs))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("preference watcher error", zap.Error(err))
		}
	}
}
