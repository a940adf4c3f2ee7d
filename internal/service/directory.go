package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"shotchart/internal/codec"
	"shotchart/internal/domain"
)

// Directory metadata keys
const (
	MetaRosterSource   = "roster_source"
	MetaRosterLoadedAt = "roster_loaded_at"
)

// ImportRoster parses a roster with imp and upserts it into the directory.
// It returns the number of players written.
func (s *PlayerService) ImportRoster(ctx context.Context, imp codec.Importer, r io.Reader, source string) (int, error) {
	players, err := imp.Parse(r)
	if err != nil {
		return 0, fmt.Errorf("import %s roster: %w", imp.Format(), err)
	}
	return s.storeRoster(ctx, players, source)
}

// ImportRosterFile imports a YAML or JSON roster file, picking the codec
// from its extension.
func (s *PlayerService) ImportRosterFile(ctx context.Context, path string) (int, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	return s.ImportRoster(ctx, c, f, path)
}

// ExportRoster writes the whole directory with exp
func (s *PlayerService) ExportRoster(ctx context.Context, exp codec.Exporter, w io.Writer) (int, error) {
	players, err := s.dir.ListPlayers(ctx)
	if err != nil {
		return 0, err
	}
	if err := exp.Export(players, w); err != nil {
		return 0, fmt.Errorf("export %s roster: %w", exp.Format(), err)
	}
	return len(players), nil
}

// SyncDirectory loads the upstream player index for season into the
// directory. With currentOnly only players on a roster that season are
// fetched.
func (s *PlayerService) SyncDirectory(ctx context.Context, season string, currentOnly bool) (int, error) {
	if err := domain.ValidateSeason(season); err != nil {
		return 0, err
	}
	if s.stats == nil {
		return 0, fmt.Errorf("sync directory: no stats source configured")
	}

	players, err := s.stats.AllPlayers(ctx, season, currentOnly)
	if err != nil {
		return 0, fmt.Errorf("sync directory: %w", err)
	}
	return s.storeRoster(ctx, players, "upstream:"+season)
}

// Bootstrap seeds the directory. A configured seed file is always imported;
// otherwise the built-in roster is imported when the directory is empty.
func (s *PlayerService) Bootstrap(ctx context.Context, seedPath string) (int, error) {
	if seedPath != "" {
		return s.ImportRosterFile(ctx, seedPath)
	}

	n, err := s.dir.CountPlayers(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "player directory ready", "players", n)
		return 0, nil
	}

	players, err := codec.DefaultRoster()
	if err != nil {
		return 0, err
	}
	return s.storeRoster(ctx, players, "builtin")
}

// ReloadRoster re-imports a seed file after it changed on disk. Failures are
// logged and the previous directory content is kept.
func (s *PlayerService) ReloadRoster(path string) func(ctx context.Context) {
	return func(ctx context.Context) {
		n, err := s.ImportRosterFile(ctx, path)
		if err != nil {
			s.logger.ErrorContext(ctx, "roster reload failed", "path", path, "error", err)
			return
		}
		s.logger.InfoContext(ctx, "roster reloaded", "path", path, "players", n)
	}
}

func (s *PlayerService) storeRoster(ctx context.Context, players []domain.Player, source string) (int, error) {
	n, err := s.dir.UpsertPlayers(ctx, players)
	if err != nil {
		return 0, err
	}
	if err := s.dir.SetMeta(ctx, MetaRosterSource, source); err != nil {
		return n, err
	}
	if err := s.dir.SetMeta(ctx, MetaRosterLoadedAt, s.now().UTC().Format(time.RFC3339)); err != nil {
		return n, err
	}

	s.logger.InfoContext(ctx, "roster imported", "source", source, "players", n)
	return n, nil
}
