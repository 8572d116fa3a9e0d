package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

func TestResync_MaterializesBoundScreens(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	banner := f.store.SeedMedia(image("banner", nil))      // falls back to 10
	menu := f.store.SeedMedia(image("menu", ptr(8)))       // media default 8
	promo := f.store.SeedMedia(video("promo"))             // videos get nil
	lobby := f.store.SeedPlaylist(model.Playlist{Name: "Lobby"})
	screen := f.store.SeedScreen(model.Screen{Name: "Entrance"})

	_, err := f.store.InsertItem(ctx, lobby.ID, banner.ID, 0, nil)
	require.NoError(t, err)
	_, err = f.store.InsertItem(ctx, lobby.ID, menu.ID, 1, ptr(5))
	require.NoError(t, err)
	_, err = f.store.InsertItem(ctx, lobby.ID, promo.ID, 2, ptr(5))
	require.NoError(t, err)
	require.NoError(t, f.store.UpsertBinding(ctx, screen.ID, lobby.ID))

	result, err := f.materializer.Resync(ctx, lobby.ID)
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, 1, result.ScreensUpdated)
	assert.Equal(t, 3, result.ItemsWritten)
	assert.Equal(t, 0, result.ItemsSkipped)

	rows, err := f.store.ListContents(ctx, screen.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, banner.ID, rows[0].MediaID)
	assert.Equal(t, 0, rows[0].Position)
	require.NotNil(t, rows[0].DisplayTime)
	assert.Equal(t, 10, *rows[0].DisplayTime)

	assert.Equal(t, menu.ID, rows[1].MediaID)
	assert.Equal(t, 1, rows[1].Position)
	require.NotNil(t, rows[1].DisplayTime)
	assert.Equal(t, 5, *rows[1].DisplayTime)

	assert.Equal(t, promo.ID, rows[2].MediaID)
	assert.Equal(t, 2, rows[2].Position)
	assert.Nil(t, rows[2].DisplayTime, "videos run for their natural length")

	for _, row := range rows {
		require.NotNil(t, row.SourceItemID, "materialized rows trace back to their item")
	}
}

func TestResync_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.store.SeedMedia(image("a", nil))
	b := f.store.SeedMedia(image("b", ptr(8)))
	pl := f.store.SeedPlaylist(model.Playlist{Name: "Loop"})
	screen := f.store.SeedScreen(model.Screen{Name: "Hall"})

	_, err := f.store.InsertItem(ctx, pl.ID, a.ID, 0, nil)
	require.NoError(t, err)
	_, err = f.store.InsertItem(ctx, pl.ID, b.ID, 1, nil)
	require.NoError(t, err)
	require.NoError(t, f.store.UpsertBinding(ctx, screen.ID, pl.ID))

	_, err = f.materializer.Resync(ctx, pl.ID)
	require.NoError(t, err)
	first, err := f.store.ListContents(ctx, screen.ID)
	require.NoError(t, err)

	_, err = f.materializer.Resync(ctx, pl.ID)
	require.NoError(t, err)
	second, err := f.store.ListContents(ctx, screen.ID)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].MediaID, second[i].MediaID)
		assert.Equal(t, first[i].Position, second[i].Position)
		assert.Equal(t, first[i].DisplayTime, second[i].DisplayTime)
	}
}

func TestResync_SkipsMissingMedia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.store.SeedMedia(image("a", nil))
	b := f.store.SeedMedia(image("b", nil))
	c := f.store.SeedMedia(image("c", nil))
	pl := f.store.SeedPlaylist(model.Playlist{Name: "Loop"})
	screen := f.store.SeedScreen(model.Screen{Name: "Hall"})

	for pos, m := range []model.Media{a, b, c} {
		_, err := f.store.InsertItem(ctx, pl.ID, m.ID, pos, nil)
		require.NoError(t, err)
	}
	require.NoError(t, f.store.UpsertBinding(ctx, screen.ID, pl.ID))

	// media vanished underneath its membership
	delete(f.store.Media, b.ID)

	result, err := f.materializer.Resync(ctx, pl.ID)
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, 2, result.ItemsWritten)
	assert.Equal(t, 1, result.ItemsSkipped)

	rows, err := f.store.ListContents(ctx, screen.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, a.ID, rows[0].MediaID)
	assert.Equal(t, c.ID, rows[1].MediaID)
	// positions close ranks, no gap where b was
	assert.Equal(t, 0, rows[0].Position)
	assert.Equal(t, 1, rows[1].Position)
}

func TestResync_SkipsUnusableMedia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.store.SeedMedia(image("a", nil))
	b := f.store.SeedMedia(image("b", nil))
	pl := f.store.SeedPlaylist(model.Playlist{Name: "Loop"})
	screen := f.store.SeedScreen(model.Screen{Name: "Hall"})

	_, err := f.store.InsertItem(ctx, pl.ID, a.ID, 0, nil)
	require.NoError(t, err)
	_, err = f.store.InsertItem(ctx, pl.ID, b.ID, 1, nil)
	require.NoError(t, err)
	require.NoError(t, f.store.UpsertBinding(ctx, screen.ID, pl.ID))
	require.NoError(t, f.store.SetMediaStatus(ctx, b.ID, model.MediaStatusInactive))

	result, err := f.materializer.Resync(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsWritten)
	assert.Equal(t, 1, result.ItemsSkipped)
}

func TestResync_PerScreenFailureIsolation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.store.SeedMedia(image("a", nil))
	pl := f.store.SeedPlaylist(model.Playlist{Name: "Loop"})
	healthy := f.store.SeedScreen(model.Screen{Name: "Healthy"})
	broken := f.store.SeedScreen(model.Screen{Name: "Broken"})

	_, err := f.store.InsertItem(ctx, pl.ID, a.ID, 0, nil)
	require.NoError(t, err)
	require.NoError(t, f.store.UpsertBinding(ctx, healthy.ID, pl.ID))
	require.NoError(t, f.store.UpsertBinding(ctx, broken.ID, pl.ID))

	f.store.ReplaceErr[broken.ID] = errors.New("disk full")

	result, err := f.materializer.Resync(ctx, pl.ID)
	require.NoError(t, err, "one screen's storage failure must not fail the pass")
	assert.False(t, result.Success())
	assert.Equal(t, 1, result.ScreensUpdated)
	assert.Equal(t, 1, result.ScreensFailed)

	require.Len(t, result.Screens, 2)
	for _, sr := range result.Screens {
		if sr.ScreenID == broken.ID {
			assert.EqualError(t, sr.Err, "disk full")
		} else {
			assert.NoError(t, sr.Err)
			assert.Equal(t, 1, sr.Written)
		}
	}

	rows, err := f.store.ListContents(ctx, healthy.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestResync_PlaylistNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.materializer.Resync(context.Background(), 404)
	assert.ErrorIs(t, err, engine.ErrPlaylistNotFound)
}

func TestResync_NoBoundScreens(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.store.SeedMedia(image("a", nil))
	pl := f.store.SeedPlaylist(model.Playlist{Name: "Loop"})
	_, err := f.store.InsertItem(ctx, pl.ID, a.ID, 0, nil)
	require.NoError(t, err)

	result, err := f.materializer.Resync(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ScreensUpdated)
	assert.Equal(t, 0, result.ItemsWritten)
}

func TestBindScreen_ReplacesPreviousPlaylist(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	oldMedia := f.store.SeedMedia(image("old", nil))
	newMedia := f.store.SeedMedia(image("new", nil))
	p1 := f.store.SeedPlaylist(model.Playlist{Name: "P1"})
	p2 := f.store.SeedPlaylist(model.Playlist{Name: "P2"})
	screen := f.store.SeedScreen(model.Screen{Name: "Lobby"})

	_, err := f.store.InsertItem(ctx, p1.ID, oldMedia.ID, 0, nil)
	require.NoError(t, err)
	_, err = f.store.InsertItem(ctx, p2.ID, newMedia.ID, 0, nil)
	require.NoError(t, err)

	_, err = f.materializer.BindScreen(ctx, screen.ID, p1.ID)
	require.NoError(t, err)
	_, err = f.materializer.BindScreen(ctx, screen.ID, p2.ID)
	require.NoError(t, err)

	binding, err := f.store.GetBinding(ctx, screen.ID)
	require.NoError(t, err)
	assert.Equal(t, p2.ID, binding.PlaylistID)

	rows, err := f.store.ListContents(ctx, screen.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, newMedia.ID, rows[0].MediaID)
	for _, c := range f.store.Contents {
		assert.NotEqual(t, oldMedia.ID, c.MediaID, "no residual rows from the previous playlist")
	}
}

func TestBindScreen_Validates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	screen := f.store.SeedScreen(model.Screen{Name: "Lobby"})
	pl := f.store.SeedPlaylist(model.Playlist{Name: "P"})

	_, err := f.materializer.BindScreen(ctx, 404, pl.ID)
	assert.ErrorIs(t, err, engine.ErrScreenNotFound)

	_, err = f.materializer.BindScreen(ctx, screen.ID, 404)
	assert.ErrorIs(t, err, engine.ErrPlaylistNotFound)
}

func TestUnbindScreen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.store.SeedMedia(image("a", nil))
	pl := f.store.SeedPlaylist(model.Playlist{Name: "P"})
	screen := f.store.SeedScreen(model.Screen{Name: "Lobby"})
	_, err := f.store.InsertItem(ctx, pl.ID, a.ID, 0, nil)
	require.NoError(t, err)
	_, err = f.materializer.BindScreen(ctx, screen.ID, pl.ID)
	require.NoError(t, err)

	require.NoError(t, f.materializer.UnbindScreen(ctx, screen.ID))

	_, err = f.store.GetBinding(ctx, screen.ID)
	assert.ErrorIs(t, err, engine.ErrBindingNotFound)
	rows, err := f.store.ListContents(ctx, screen.ID)
	require.NoError(t, err)
	assert.Empty(t, rows, "an unbound screen goes dark until edited explicitly")

	assert.ErrorIs(t, f.materializer.UnbindScreen(ctx, screen.ID), engine.ErrBindingNotFound)
}
