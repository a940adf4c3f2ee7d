package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shotchart/internal/domain"

	_ "modernc.org/sqlite"
)

// Repository implements repository.PlayerRepository using SQLite
type Repository struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates it
func New(dbPath string) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps :memory: databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		full_name TEXT NOT NULL,
		team_id INTEGER NOT NULL DEFAULT 0,
		team_name TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		jersey_number TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_players_full_name ON players(full_name COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_players_last_name ON players(last_name COLLATE NOCASE);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// Ping verifies the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const playerColumns = `id, first_name, last_name, full_name, team_id, team_name, position, jersey_number, is_active`

// SearchPlayers returns players whose full, first or last name contains
// query, case-insensitively. Active players sort first.
func (r *Repository) SearchPlayers(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+playerColumns+`
		FROM players
		WHERE full_name LIKE ?1 ESCAPE '\'
		   OR first_name LIKE ?1 ESCAPE '\'
		   OR last_name LIKE ?1 ESCAPE '\'
		ORDER BY is_active DESC, full_name COLLATE NOCASE
		LIMIT ?2
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// GetPlayer loads one player. It returns domain.ErrPlayerNotFound when the id
// is unknown.
func (r *Repository) GetPlayer(ctx context.Context, id int) (domain.Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)

	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	if err != nil {
		return domain.Player{}, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return p, nil
}

// ListPlayers returns the whole directory ordered by name
func (r *Repository) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY full_name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// CountPlayers returns the directory size
func (r *Repository) CountPlayers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}

// UpsertPlayers inserts or updates players in one transaction and returns
// how many rows were written. Invalid entries are skipped.
func (r *Repository) UpsertPlayers(ctx context.Context, players []domain.Player) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			full_name = excluded.full_name,
			team_id = excluded.team_id,
			team_name = excluded.team_name,
			position = excluded.position,
			jersey_number = excluded.jersey_number,
			is_active = excluded.is_active,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, p := range players {
		p.Normalize()
		if !p.Valid() {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.FirstName, p.LastName, p.FullName,
			p.TeamID, p.TeamName, p.Position, p.JerseyNumber,
			boolToInt(p.IsActive),
		); err != nil {
			return 0, fmt.Errorf("failed to upsert player %d: %w", p.ID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit players: %w", err)
	}
	return written, nil
}

// DeletePlayer removes a player from the directory
func (r *Repository) DeletePlayer(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

// GetMeta reads a metadata value
func (r *Repository) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get metadata %s: %w", key, err)
	}
	return value, true, nil
}

// SetMeta writes a metadata value
func (r *Repository) SetMeta(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata %s: %w", key, err)
	}
	return nil
}
