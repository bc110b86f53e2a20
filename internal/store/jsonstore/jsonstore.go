package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSON-backed UI preferences. Single file, human-readable, portable.
// No locking; the TUI and CLI write it only on an explicit toggle.

const prefsFileName = "prefs.json"

// Language codes.
const (
	LangEnglish = "en"
	LangFrench  = "fr"
)

// Theme names.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Prefs is what survives between runs. Values are literal strings so the
// file stays readable and other tools can set them.
type Prefs struct {
	Language string `json:"language,omitempty"`
	Theme    string `json:"klaboard-theme,omitempty"`
}

// Defaults are used for missing or unknown values.
func Defaults() Prefs {
	return Prefs{Language: LangEnglish, Theme: ThemeSystem}
}

// Normalize replaces unknown values with the defaults.
func (p Prefs) Normalize() Prefs {
	d := Defaults()
	if !ValidLanguage(p.Language) {
		p.Language = d.Language
	}
	if !ValidTheme(p.Theme) {
		p.Theme = d.Theme
	}
	return p
}

func ValidLanguage(s string) bool { return s == LangEnglish || s == LangFrench }

func ValidTheme(s string) bool {
	return s == ThemeLight || s == ThemeDark || s == ThemeSystem
}

// Path is the prefs file inside dir.
func Path(dir string) string { return filepath.Join(dir, prefsFileName) }

// Load reads prefs from dir. A missing file yields the defaults.
func Load(dir string) (Prefs, error) {
	b, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("read file: %w", err)
	}
	var p Prefs
	if err := json.Unmarshal(b, &p); err != nil {
		return Defaults(), fmt.Errorf("json unmarshal: %w", err)
	}
	return p.Normalize(), nil
}

// Save writes prefs to dir, creating it if needed.
func Save(dir string, p Prefs) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(p.Normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(Path(dir), b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Update loads prefs, applies fn and saves the result.
func Update(dir string, fn func(*Prefs)) (Prefs, error) {
	p, err := Load(dir)
	if err != nil {
		return p, err
	}
	fn(&p)
	if err := Save(dir, p); err != nil {
		return p, err
	}
	return p.Normalize(), nil
}
