package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

func TestCascade_DeleteMedia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	doomed := f.store.SeedMedia(image("doomed", nil))
	keeper := f.store.SeedMedia(image("keeper", nil))
	pl := f.store.SeedPlaylist(model.Playlist{Name: "Loop"})
	bound := f.store.SeedScreen(model.Screen{Name: "Bound"})
	adhoc := f.store.SeedScreen(model.Screen{Name: "AdHoc"})

	_, err := f.materializer.BindScreen(ctx, bound.ID, pl.ID)
	require.NoError(t, err)
	_, err = f.playlists.AddMedia(ctx, pl.ID, doomed.ID, nil)
	require.NoError(t, err)
	_, err = f.playlists.AddMedia(ctx, pl.ID, keeper.ID, nil)
	require.NoError(t, err)
	_, err = f.screens.AddContent(ctx, adhoc.ID, doomed.ID, nil)
	require.NoError(t, err)

	report, err := f.cascades.DeleteMedia(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 1, report.PlaylistsTouched)
	assert.Equal(t, 1, report.ScreensTouched)

	m, err := f.store.GetMedia(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MediaStatusDeleted, m.Status)

	items, err := f.playlists.Membership(ctx, pl.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, keeper.ID, items[0].MediaID)

	got, err := f.store.GetPlaylist(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MediaCount)

	rows, err := f.store.ListContents(ctx, bound.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, keeper.ID, rows[0].MediaID)

	rows, err = f.store.ListContents(ctx, adhoc.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCascade_DeleteMediaNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.cascades.DeleteMedia(context.Background(), 404)
	assert.ErrorIs(t, err, engine.ErrMediaNotFound)
}

func TestCascade_DeletePlaylist(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.store.SeedMedia(image("a", nil))
	pl := f.store.SeedPlaylist(model.Playlist{Name: "Loop"})
	s1 := f.store.SeedScreen(model.Screen{Name: "One"})
	s2 := f.store.SeedScreen(model.Screen{Name: "Two"})

	_, err := f.materializer.BindScreen(ctx, s1.ID, pl.ID)
	require.NoError(t, err)
	_, err = f.materializer.BindScreen(ctx, s2.ID, pl.ID)
	require.NoError(t, err)
	_, err = f.playlists.AddMedia(ctx, pl.ID, a.ID, nil)
	require.NoError(t, err)

	report, err := f.cascades.DeletePlaylist(ctx, pl.ID)
	require.NoError(t, err)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 2, report.ScreensTouched)

	_, err = f.store.GetPlaylist(ctx, pl.ID)
	assert.ErrorIs(t, err, engine.ErrPlaylistNotFound)

	for _, id := range []int{s1.ID, s2.ID} {
		_, err = f.store.GetBinding(ctx, id)
		assert.ErrorIs(t, err, engine.ErrBindingNotFound)
		rows, err := f.store.ListContents(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, rows)
	}
	assert.Empty(t, f.store.Items, "membership rows deleted with their playlist")
}

func TestCascade_DeleteScreen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.store.SeedMedia(image("a", nil))
	pl := f.store.SeedPlaylist(model.Playlist{Name: "Loop"})
	screen := f.store.SeedScreen(model.Screen{Name: "Lobby"})
	_, err := f.materializer.BindScreen(ctx, screen.ID, pl.ID)
	require.NoError(t, err)
	_, err = f.playlists.AddMedia(ctx, pl.ID, a.ID, nil)
	require.NoError(t, err)

	report, err := f.cascades.DeleteScreen(ctx, screen.ID)
	require.NoError(t, err)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 1, report.ScreensTouched)

	_, err = f.store.GetScreen(ctx, screen.ID)
	assert.ErrorIs(t, err, engine.ErrScreenNotFound)
	assert.Empty(t, f.store.Contents)
	assert.Empty(t, f.store.Bindings)

	// the playlist and its membership survive their screen
	items, err := f.playlists.Membership(ctx, pl.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
