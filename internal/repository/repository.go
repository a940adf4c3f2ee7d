package repository

import (
	"context"

	"shotchart/internal/domain"
)

// PlayerRepository stores the player directory.
type PlayerRepository interface {
	// Read operations
	SearchPlayers(ctx context.Context, query string, limit int) ([]domain.Player, error)
	GetPlayer(ctx context.Context, id int) (domain.Player, error)
	ListPlayers(ctx context.Context) ([]domain.Player, error)
	CountPlayers(ctx context.Context) (int, error)

	// Write operations
	UpsertPlayers(ctx context.Context, players []domain.Player) (int, error)
	DeletePlayer(ctx context.Context, id int) error

	// Metadata
	GetMeta(ctx context.Context, key string) (string, bool, error)
	SetMeta(ctx context.Context, key, value string) error

	Ping(ctx context.Context) error
	Close() error
}
