// Store is the persistence boundary: everything above it works with typed
// model entities, never raw rows.
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

type Store interface {
	// engine ports
	engine.MediaAdmin
	engine.PlaylistRepo
	engine.ScreenRepo
	engine.ContentRepo
	engine.LegacyRefStore

	// media administration
	CreateMedia(ctx context.Context, m model.Media) (model.Media, error)
	ListMedia(ctx context.Context) ([]model.Media, error)

	// playlist administration
	CreatePlaylist(ctx context.Context, name string, description *string, isPublic bool, createdBy int) (model.Playlist, error)
	ListPlaylists(ctx context.Context) ([]model.Playlist, error)
	UpdatePlaylist(ctx context.Context, id int, name, description *string, isPublic *bool) error

	// screen administration
	CreateScreen(ctx context.Context, name string, location *string, orientation, resolution string, refreshRate, createdBy int) (model.Screen, error)
	ListScreens(ctx context.Context) ([]model.Screen, error)
	GetScreenByAPIKey(ctx context.Context, apiKey string) (model.Screen, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

// NewStore wraps an injected connection; no module-level handle exists.
func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
