package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/IceRain5491/WaterQualityClassifier/internal/domain"
)

var hexColorRe = regexp.MustCompile(`^[0-9A-F]{6}$`)

// paletteFile is the on-disk shape of PALETTE_FILE:
//
//	colors:
//	  III类: "#7FFF7F"
//	  TP: "#3366FF"
//	synonyms:
//	  达标: I类
type paletteFile struct {
	Colors   map[string]string `yaml:"colors"`
	Synonyms map[string]string `yaml:"synonyms"`
}

// Display is the presentation configuration shared by the HTTP adapter, the
// report writer and the CLI.
type Display struct {
	Palette    domain.Palette
	Categories *domain.CategoryNormalizer
}

// DefaultDisplay returns the built-in palette and synonym table.
func DefaultDisplay() Display {
	return Display{
		Palette:    domain.DefaultPalette(),
		Categories: domain.NewCategoryNormalizer(domain.DefaultSynonyms()),
	}
}

// LoadDisplay reads the YAML file at path and layers it over DefaultDisplay.
// An empty path returns the defaults.
func LoadDisplay(path string) (Display, error) {
	display := DefaultDisplay()
	if path == "" {
		return display, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Display{}, fmt.Errorf("read palette file: %w", err)
	}
	var file paletteFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Display{}, fmt.Errorf("parse palette file %s: %w", path, err)
	}

	overrides := make(domain.Palette, len(file.Colors))
	for key, raw := range file.Colors {
		color, ok := NormalizeHexColor(raw)
		if !ok {
			return Display{}, fmt.Errorf("palette file %s: invalid color %q for %q", path, raw, key)
		}
		overrides[key] = color
	}
	display.Palette = display.Palette.Merge(overrides)

	synonyms := domain.DefaultSynonyms()
	for text, raw := range file.Synonyms {
		c := domain.NormalizeCategory(raw)
		if c == "" {
			return Display{}, fmt.Errorf("palette file %s: synonym %q maps to unknown category %q", path, text, raw)
		}
		synonyms[text] = c
	}
	display.Categories = domain.NewCategoryNormalizer(synonyms)

	return display, nil
}

// NormalizeHexColor converts "#rgb", "rrggbb" or "#rrggbb" to "#RRGGBB".
func NormalizeHexColor(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if !hexColorRe.MatchString(s) {
		return "", false
	}
	return "#" + s, true
}
