package codec

import (
	"fmt"
	"io"

	"shotchart/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML rosters
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlRoster is the on-disk shape of a roster file
type yamlRoster struct {
	Version string          `yaml:"version,omitempty"`
	Players []domain.Player `yaml:"players"`
}

// Parse reads a roster from YAML
func (c *YAMLCodec) Parse(r io.Reader) ([]domain.Player, error) {
	var yr yamlRoster
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&yr); err != nil {
		if err == io.EOF {
			return []domain.Player{}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return normalize(yr.Players)
}

// Export writes a roster as YAML
func (c *YAMLCodec) Export(players []domain.Player, w io.Writer) error {
	yr := yamlRoster{
		Version: "1",
		Players: make([]domain.Player, 0, len(players)),
	}
	for _, p := range players {
		// The headshot URL is derived on load.
		p.ImageURL = ""
		yr.Players = append(yr.Players, p)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yr); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
