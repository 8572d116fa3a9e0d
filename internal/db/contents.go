package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

// ListContents returns the live generation of a screen's rows in display
// order. Rows from an in-flight replacement are invisible until the screen
// is repointed.
func (s *pgStore) ListContents(ctx context.Context, screenID int) ([]model.Content, error) {
	var out []model.Content
	const q = `
	SELECT c.id, c.screen_id, c.media_id, c.position, c.display_time,
	       c.source_item_id, c.generation, c.created_at
	  FROM contents c
	  JOIN screens s ON s.id = c.screen_id
	 WHERE c.screen_id = $1
	   AND c.generation = s.content_generation
	 ORDER BY c.position, c.id;`
	if err := s.db.SelectContext(ctx, &out, q, screenID); err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("[db] ListContents failed")
		return nil, err
	}
	return out, nil
}

// ReplaceContents swaps a screen's content set atomically for readers:
// the new rows land under generation g+1, the screen is repointed, and only
// then are older generations deleted. A reader either sees the full old
// list or the full new one.
func (s *pgStore) ReplaceContents(ctx context.Context, screenID int, rows []model.Content) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var gen int
	err = tx.GetContext(ctx, &gen,
		`SELECT content_generation FROM screens WHERE id = $1 FOR UPDATE;`, screenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = engine.ErrScreenNotFound
		}
		return 0, err
	}
	gen++

	for _, r := range rows {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO contents
			(screen_id, media_id, position, display_time, source_item_id, generation, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, now());`,
			screenID, r.MediaID, r.Position, r.DisplayTime, r.SourceItemID, gen); err != nil {
			return 0, err
		}
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE screens
		   SET content_generation = $2,
		       updated_at = now()
		 WHERE id = $1;`, screenID, gen); err != nil {
		return 0, err
	}
	if _, err = tx.ExecContext(ctx, `
		DELETE FROM contents
		 WHERE screen_id = $1
		   AND generation < $2;`, screenID, gen); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *pgStore) ClearContents(ctx context.Context, screenID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM contents WHERE screen_id = $1;`, screenID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("[db] ClearContents failed")
	}
	return err
}

// InsertContent adds one ad-hoc row into the screen's live generation.
func (s *pgStore) InsertContent(ctx context.Context, row model.Content) (model.Content, error) {
	var out model.Content
	const q = `
	INSERT INTO contents
	(screen_id, media_id, position, display_time, source_item_id, generation, created_at)
	VALUES ($1, $2, $3, $4, $5,
	        (SELECT content_generation FROM screens WHERE id = $1), now())
	RETURNING id, screen_id, media_id, position, display_time, source_item_id, generation, created_at;`
	if err := s.db.GetContext(ctx, &out, q,
		row.ScreenID, row.MediaID, row.Position, row.DisplayTime, row.SourceItemID); err != nil {
		log.Error().Err(err).Int("screen_id", row.ScreenID).Msg("[db] InsertContent failed")
		return model.Content{}, err
	}
	return out, nil
}

func (s *pgStore) DeleteContent(ctx context.Context, screenID, contentID int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM contents
		 WHERE id = $1
		   AND screen_id = $2;`, contentID, screenID)
	if err != nil {
		log.Error().Err(err).Int("content_id", contentID).Msg("[db] DeleteContent failed")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *pgStore) UpdateContentDisplayTime(ctx context.Context, screenID, contentID int, displayTime *int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE contents
		   SET display_time = $3
		 WHERE id = $1
		   AND screen_id = $2;`, contentID, screenID, displayTime)
	if err != nil {
		log.Error().Err(err).Int("content_id", contentID).Msg("[db] UpdateContentDisplayTime failed")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetContentPositions mirrors the playlist reorder: shift everything, then
// assign listed ids positions 0..n-1.
func (s *pgStore) SetContentPositions(ctx context.Context, screenID int, contentIDs []int) (int, error) {
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
		UPDATE contents
		   SET position = position + $1
		 WHERE screen_id = $2;`, len(contentIDs), screenID); err != nil {
		return 0, err
	}

	updated := 0
	for idx, contentID := range contentIDs {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			UPDATE contents
			   SET position = $1
			 WHERE id = $2
			   AND screen_id = $3;`, idx, contentID, screenID)
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

// DeleteContentsForMedia removes ad-hoc rows referencing the media and
// returns the screens they were on. Materialized rows are left to the
// per-playlist resync that follows a media deletion.
func (s *pgStore) DeleteContentsForMedia(ctx context.Context, mediaID int) ([]int, error) {
	var ids []int
	const q = `
	DELETE FROM contents
	 WHERE media_id = $1
	   AND source_item_id IS NULL
	RETURNING screen_id;`
	if err := s.db.SelectContext(ctx, &ids, q, mediaID); err != nil {
		log.Error().Err(err).Int("media_id", mediaID).Msg("[db] DeleteContentsForMedia failed")
		return nil, err
	}
	return dedupe(ids), nil
}
