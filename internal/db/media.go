package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

func (s *pgStore) GetMedia(ctx context.Context, id int) (model.Media, error) {
	var m model.Media
	const q = `
	SELECT id, legacy_ref, title, kind, status, file_url, width, height,
	       duration, display_time, is_public, created_by, created_at, updated_at
	  FROM media
	 WHERE id = $1;`
	if err := s.db.GetContext(ctx, &m, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Media{}, engine.ErrMediaNotFound
		}
		log.Error().Err(err).Int("media_id", id).Msg("[db] GetMedia failed")
		return model.Media{}, err
	}
	return m, nil
}

func (s *pgStore) SetMediaStatus(ctx context.Context, id int, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE media
		   SET status = $2,
		       updated_at = now()
		 WHERE id = $1;`, id, status)
	if err != nil {
		log.Error().Err(err).Int("media_id", id).Msg("[db] SetMediaStatus failed")
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return engine.ErrMediaNotFound
	}
	return nil
}

func (s *pgStore) CreateMedia(ctx context.Context, m model.Media) (model.Media, error) {
	var out model.Media
	const q = `
	INSERT INTO media
	(legacy_ref, title, kind, status, file_url, width, height, duration,
	 display_time, is_public, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
	RETURNING id, legacy_ref, title, kind, status, file_url, width, height,
	          duration, display_time, is_public, created_by, created_at, updated_at;`
	if err := s.db.GetContext(ctx, &out, q,
		m.LegacyRef, m.Title, m.Kind, m.Status, m.FileURL, m.Width, m.Height,
		m.Duration, m.DisplayTime, m.IsPublic, m.CreatedBy,
	); err != nil {
		log.Error().Err(err).Msg("[db] CreateMedia failed")
		return model.Media{}, err
	}
	return out, nil
}

func (s *pgStore) ListMedia(ctx context.Context) ([]model.Media, error) {
	var out []model.Media
	const q = `
	SELECT id, legacy_ref, title, kind, status, file_url, width, height,
	       duration, display_time, is_public, created_by, created_at, updated_at
	  FROM media
	 WHERE status <> 'deleted'
	 ORDER BY id;`
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		log.Error().Err(err).Msg("[db] ListMedia failed")
		return nil, err
	}
	return out, nil
}
