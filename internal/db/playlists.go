package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

const uniqueViolation = "23505"

func (s *pgStore) CreatePlaylist(ctx context.Context, name string, description *string, isPublic bool, createdBy int) (model.Playlist, error) {
	var p model.Playlist
	const q = `
	INSERT INTO playlists (name, description, is_public, status, media_count, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, 'active', 0, $4, now(), now())
	RETURNING id, legacy_ref, name, description, status, is_public, media_count,
	          created_by, created_at, updated_at;`
	if err := s.db.GetContext(ctx, &p, q, name, description, isPublic, createdBy); err != nil {
		log.Error().Err(err).Msg("[db] CreatePlaylist failed")
		return model.Playlist{}, err
	}
	return p, nil
}

func (s *pgStore) GetPlaylist(ctx context.Context, id int) (model.Playlist, error) {
	var p model.Playlist
	const q = `
	SELECT id, legacy_ref, name, description, status, is_public, media_count,
	       created_by, created_at, updated_at
	  FROM playlists
	 WHERE id = $1;`
	if err := s.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Playlist{}, engine.ErrPlaylistNotFound
		}
		log.Error().Err(err).Int("playlist_id", id).Msg("[db] GetPlaylist failed")
		return model.Playlist{}, err
	}
	return p, nil
}

func (s *pgStore) ListPlaylists(ctx context.Context) ([]model.Playlist, error) {
	var out []model.Playlist
	const q = `
	SELECT id, legacy_ref, name, description, status, is_public, media_count,
	       created_by, created_at, updated_at
	  FROM playlists
	 ORDER BY id;`
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		log.Error().Err(err).Msg("[db] ListPlaylists failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) ListPlaylistIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := s.db.SelectContext(ctx, &ids, `SELECT id FROM playlists ORDER BY id;`); err != nil {
		log.Error().Err(err).Msg("[db] ListPlaylistIDs failed")
		return nil, err
	}
	return ids, nil
}

func (s *pgStore) UpdatePlaylist(ctx context.Context, id int, name, description *string, isPublic *bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE playlists
		   SET name        = COALESCE($2, name),
		       description = COALESCE($3, description),
		       is_public   = COALESCE($4, is_public),
		       updated_at  = now()
		 WHERE id = $1;`, id, name, description, isPublic)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("[db] UpdatePlaylist failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrPlaylistNotFound
	}
	return nil
}

func (s *pgStore) DeletePlaylist(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("[db] DeletePlaylist failed")
	}
	return err
}

func (s *pgStore) SetMediaCount(ctx context.Context, playlistID, count int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE playlists
		   SET media_count = $2,
		       updated_at  = now()
		 WHERE id = $1;`, playlistID, count)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] SetMediaCount failed")
	}
	return err
}

// ListItems returns membership ordered by (position, media_id) so ties on
// position stay deterministic.
func (s *pgStore) ListItems(ctx context.Context, playlistID int) ([]model.PlaylistItem, error) {
	var items []model.PlaylistItem
	const q = `
	SELECT id, playlist_id, media_id, position, display_time, created_at
	  FROM playlist_items
	 WHERE playlist_id = $1
	 ORDER BY position, media_id;`
	if err := s.db.SelectContext(ctx, &items, q, playlistID); err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] ListItems failed")
		return nil, err
	}
	return items, nil
}

func (s *pgStore) InsertItem(ctx context.Context, playlistID, mediaID, position int, displayTime *int) (model.PlaylistItem, error) {
	var it model.PlaylistItem
	const q = `
	INSERT INTO playlist_items (playlist_id, media_id, position, display_time, created_at)
	VALUES ($1, $2, $3, $4, now())
	RETURNING id, playlist_id, media_id, position, display_time, created_at;`
	if err := s.db.GetContext(ctx, &it, q, playlistID, mediaID, position, displayTime); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.PlaylistItem{}, engine.ErrDuplicateItem
		}
		log.Error().Err(err).Int("playlist_id", playlistID).Int("media_id", mediaID).
			Msg("[db] InsertItem failed")
		return model.PlaylistItem{}, err
	}
	return it, nil
}

func (s *pgStore) UpdateItemDisplayTime(ctx context.Context, playlistID, mediaID int, displayTime *int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE playlist_items
		   SET display_time = $3
		 WHERE playlist_id = $1
		   AND media_id = $2;`, playlistID, mediaID, displayTime)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Int("media_id", mediaID).
			Msg("[db] UpdateItemDisplayTime failed")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *pgStore) DeleteItem(ctx context.Context, playlistID, mediaID int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_items
		 WHERE playlist_id = $1
		   AND media_id = $2;`, playlistID, mediaID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Int("media_id", mediaID).
			Msg("[db] DeleteItem failed")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *pgStore) DeleteItems(ctx context.Context, playlistID int) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlist_items WHERE playlist_id = $1;`, playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] DeleteItems failed")
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// DeleteItemsForMedia removes every membership pointing at the media and
// returns the distinct playlists that held one.
func (s *pgStore) DeleteItemsForMedia(ctx context.Context, mediaID int) ([]int, error) {
	var ids []int
	const q = `
	DELETE FROM playlist_items
	 WHERE media_id = $1
	RETURNING playlist_id;`
	if err := s.db.SelectContext(ctx, &ids, q, mediaID); err != nil {
		log.Error().Err(err).Int("media_id", mediaID).Msg("[db] DeleteItemsForMedia failed")
		return nil, err
	}
	return dedupe(ids), nil
}

// SetItemPositions shifts every item past the incoming list, then assigns
// listed media ids positions 0..n-1 in order. Unlisted items keep their
// relative order after the listed ones.
func (s *pgStore) SetItemPositions(ctx context.Context, playlistID int, mediaIDs []int) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		UPDATE playlist_items
		   SET position = position + $1
		 WHERE playlist_id = $2;`, len(mediaIDs), playlistID); err != nil {
		return 0, err
	}

	updated := 0
	for idx, mediaID := range mediaIDs {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			UPDATE playlist_items
			   SET position = $1
			 WHERE playlist_id = $2
			   AND media_id = $3;`, idx, playlistID, mediaID)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			updated++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return updated, nil
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
