package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/just-scribblig/solar-challenge-week0/engine"
)

// DefaultPattern is the file naming convention of the cleaned country files.
const DefaultPattern = "{name}_clean.csv"

// Source is one labeled tabular input.
type Source struct {
	Label    string `json:"label" yaml:"label" mapstructure:"label"`
	Location string `json:"location" yaml:"location" mapstructure:"location"`
}

func (s Source) String() string {
	return fmt.Sprintf("%s (%s)", s.Label, s.Location)
}

// SourcesFromPattern builds one source per name. The location is pattern
// with {name} replaced, under dir; the label is the capitalized name
// ("benin" → "Benin").
func SourcesFromPattern(dir, pattern string, names []string) []Source {
	if pattern == "" {
		pattern = DefaultPattern
	}
	out := make([]Source, 0, len(names))
	for _, name := range names {
		file := strings.ReplaceAll(pattern, "{name}", name)
		out = append(out, Source{
			Label:    engine.LabelForDimension(name),
			Location: joinLocation(dir, file),
		})
	}
	return out
}

func joinLocation(dir, file string) string {
	if dir == "" {
		return file
	}
	if strings.Contains(dir, "://") {
		return strings.TrimRight(dir, "/") + "/" + file
	}
	return filepath.Join(dir, file)
}

// ValidateSources rejects source lists the loader cannot label unambiguously.
func ValidateSources(sources []Source) error {
	seen := make(map[string]bool, len(sources))
	for i, s := range sources {
		if strings.TrimSpace(s.Label) == "" {
			return engine.NewConfigError("sources", fmt.Sprintf("#%d", i), engine.ErrInvalidSelection)
		}
		if strings.TrimSpace(s.Location) == "" {
			return engine.NewConfigError("sources", s.Label, engine.ErrInvalidSelection)
		}
		if seen[s.Label] {
			return engine.NewConfigError("sources", s.Label, fmt.Errorf("duplicate label: %w", engine.ErrInvalidSelection))
		}
		seen[s.Label] = true
	}
	return nil
}

// Key identifies an ordered source list for caching.
func Key(sources []Source) string {
	var b strings.Builder
	for _, s := range sources {
		b.WriteString(s.Label)
		b.WriteByte(0x1f)
		b.WriteString(s.Location)
		b.WriteByte(0x1e)
	}
	return b.String()
}
