package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"shotchart/internal/domain"
)

// JSONCodec handles JSON rosters
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

type jsonRoster struct {
	Players []domain.Player `json:"players"`
}

// Parse reads a roster from JSON. Both {"players": [...]} and a bare array
// are accepted.
func (c *JSONCodec) Parse(r io.Reader) ([]domain.Player, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	var players []domain.Player
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &players); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else {
		var jr jsonRoster
		if err := json.Unmarshal(raw, &jr); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		players = jr.Players
	}

	return normalize(players)
}

// Export writes a roster as JSON
func (c *JSONCodec) Export(players []domain.Player, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if players == nil {
		players = []domain.Player{}
	}
	if err := encoder.Encode(jsonRoster{Players: players}); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
