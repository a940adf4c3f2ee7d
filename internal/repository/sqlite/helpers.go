package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"shotchart/internal/domain"
)

// ============================================================================
// Scanning Helpers
// ============================================================================

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlayer reads one row selected with playerColumns
func scanPlayer(s rowScanner) (domain.Player, error) {
	var (
		p      domain.Player
		active int
	)
	if err := s.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.FullName,
		&p.TeamID, &p.TeamName, &p.Position, &p.JerseyNumber,
		&active,
	); err != nil {
		return domain.Player{}, err
	}
	p.IsActive = active != 0
	p.Normalize()
	return p, nil
}

// scanPlayers drains rows into a slice
func scanPlayers(rows *sql.Rows) ([]domain.Player, error) {
	players := []domain.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

// ============================================================================
// Conversion Helpers
// ============================================================================

// boolToInt converts a bool to SQLite's integer representation
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
