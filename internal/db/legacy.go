package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/elektrobil/bulutvizyon/internal/engine"
)

// Legacy-reference lookups for the identifier normalizer. These go away
// with the legacy_ref columns once the one-time migration is complete.

func (s *pgStore) lookupByLegacyRef(ctx context.Context, table, ref string, notFound error) (int, error) {
	var id int
	err := s.db.GetContext(ctx, &id, `SELECT id FROM `+table+` WHERE legacy_ref = $1;`, ref)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, notFound
	}
	return id, err
}

func (s *pgStore) MediaIDByLegacyRef(ctx context.Context, ref string) (int, error) {
	return s.lookupByLegacyRef(ctx, "media", ref, engine.ErrMediaNotFound)
}

func (s *pgStore) PlaylistIDByLegacyRef(ctx context.Context, ref string) (int, error) {
	return s.lookupByLegacyRef(ctx, "playlists", ref, engine.ErrPlaylistNotFound)
}

func (s *pgStore) ScreenIDByLegacyRef(ctx context.Context, ref string) (int, error) {
	return s.lookupByLegacyRef(ctx, "screens", ref, engine.ErrScreenNotFound)
}
