// Package codec reads and writes player rosters. A roster is the list of
// players that seeds the local directory used by name search.
package codec

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"shotchart/internal/domain"
)

// Importer parses a roster from a given format
type Importer interface {
	Parse(r io.Reader) ([]domain.Player, error)
	Format() string
}

// Exporter writes a roster in a given format
type Exporter interface {
	Export(players []domain.Player, w io.Writer) error
	Format() string
}

// Codec is both an Importer and an Exporter
type Codec interface {
	Importer
	Exporter
}

//go:embed roster.yaml
var defaultRoster []byte

// DefaultRoster returns the built-in seed roster
func DefaultRoster() ([]domain.Player, error) {
	players, err := NewYAMLCodec().Parse(bytes.NewReader(defaultRoster))
	if err != nil {
		return nil, fmt.Errorf("failed to parse built-in roster: %w", err)
	}
	return players, nil
}

// ForFormat returns the codec registered for a format name
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported roster format: %q", format)
	}
}

// ForPath picks a codec from the file extension
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("cannot infer roster format from %q", path)
	}
	return ForFormat(ext)
}

// normalize fills derived fields and drops entries that cannot be selected
func normalize(in []domain.Player) ([]domain.Player, error) {
	out := make([]domain.Player, 0, len(in))
	seen := make(map[int]bool, len(in))
	for i, p := range in {
		p.Normalize()
		if !p.Valid() {
			return nil, fmt.Errorf("roster entry %d: id and name are required", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("roster entry %d: duplicate player id %d", i, p.ID)
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out, nil
}
