package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

const screenColumns = `
	id, legacy_ref, name, location, api_key, orientation, resolution,
	refresh_rate, status, content_generation, created_by, created_at, updated_at`

func (s *pgStore) GetScreen(ctx context.Context, id int) (model.Screen, error) {
	var sc model.Screen
	if err := s.db.GetContext(ctx, &sc,
		`SELECT `+screenColumns+` FROM screens WHERE id = $1;`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Screen{}, engine.ErrScreenNotFound
		}
		log.Error().Err(err).Int("screen_id", id).Msg("[db] GetScreen failed")
		return model.Screen{}, err
	}
	return sc, nil
}

func (s *pgStore) GetScreenByAPIKey(ctx context.Context, apiKey string) (model.Screen, error) {
	var sc model.Screen
	if err := s.db.GetContext(ctx, &sc,
		`SELECT `+screenColumns+` FROM screens WHERE api_key = $1;`, apiKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Screen{}, engine.ErrScreenNotFound
		}
		log.Error().Err(err).Msg("[db] GetScreenByAPIKey failed")
		return model.Screen{}, err
	}
	return sc, nil
}

func (s *pgStore) ListScreens(ctx context.Context) ([]model.Screen, error) {
	var out []model.Screen
	if err := s.db.SelectContext(ctx, &out,
		`SELECT `+screenColumns+` FROM screens ORDER BY id;`); err != nil {
		log.Error().Err(err).Msg("[db] ListScreens failed")
		return nil, err
	}
	return out, nil
}

func (s *pgStore) CreateScreen(ctx context.Context, name string, location *string, orientation, resolution string, refreshRate, createdBy int) (model.Screen, error) {
	var sc model.Screen
	const q = `
	INSERT INTO screens
	(name, location, api_key, orientation, resolution, refresh_rate, status,
	 content_generation, created_by, created_at, updated_at)
	VALUES ($1, $2, encode(gen_random_bytes(24), 'hex'), $3, $4, $5, 'active', 0, $6, now(), now())
	RETURNING ` + screenColumns + `;`
	if err := s.db.GetContext(ctx, &sc, q, name, location, orientation, resolution, refreshRate, createdBy); err != nil {
		log.Error().Err(err).Msg("[db] CreateScreen failed")
		return model.Screen{}, err
	}
	return sc, nil
}

func (s *pgStore) DeleteScreen(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM screens WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("screen_id", id).Msg("[db] DeleteScreen failed")
	}
	return err
}

func (s *pgStore) GetBinding(ctx context.Context, screenID int) (model.ScreenBinding, error) {
	var b model.ScreenBinding
	const q = `
	SELECT id, screen_id, playlist_id, assigned_at
	  FROM screen_bindings
	 WHERE screen_id = $1;`
	if err := s.db.GetContext(ctx, &b, q, screenID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ScreenBinding{}, engine.ErrBindingNotFound
		}
		log.Error().Err(err).Int("screen_id", screenID).Msg("[db] GetBinding failed")
		return model.ScreenBinding{}, err
	}
	return b, nil
}

func (s *pgStore) ListBindings(ctx context.Context, playlistID int) ([]model.ScreenBinding, error) {
	var out []model.ScreenBinding
	const q = `
	SELECT id, screen_id, playlist_id, assigned_at
	  FROM screen_bindings
	 WHERE playlist_id = $1
	 ORDER BY screen_id;`
	if err := s.db.SelectContext(ctx, &out, q, playlistID); err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] ListBindings failed")
		return nil, err
	}
	return out, nil
}

// UpsertBinding replaces any existing assignment; a screen has at most one
// bound playlist.
func (s *pgStore) UpsertBinding(ctx context.Context, screenID, playlistID int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO screen_bindings (screen_id, playlist_id, assigned_at)
		VALUES ($1, $2, now())
		ON CONFLICT (screen_id)
		DO UPDATE SET playlist_id = EXCLUDED.playlist_id,
		              assigned_at = now();`, screenID, playlistID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Int("playlist_id", playlistID).
			Msg("[db] UpsertBinding failed")
	}
	return err
}

func (s *pgStore) DeleteBinding(ctx context.Context, screenID int) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM screen_bindings WHERE screen_id = $1;`, screenID)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("[db] DeleteBinding failed")
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
