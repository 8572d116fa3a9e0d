package tv_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrobil/bulutvizyon/internal/api/tv"
	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/engine/enginetest"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

type playerView struct {
	Screen struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		Orientation string `json:"orientation"`
		Resolution  string `json:"resolution"`
		RefreshRate int    `json:"refresh_rate"`
	} `json:"screen"`
	Items []struct {
		MediaID     int    `json:"media_id"`
		Kind        string `json:"kind"`
		FileURL     string `json:"file_url"`
		DisplayTime *int   `json:"display_time"`
		Position    int    `json:"position"`
	} `json:"items"`
}

func newRouter(store *enginetest.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tv.RegisterPlayerRoutes(r, store, nil)
	return r
}

func intptr(v int) *int { return &v }

func TestPlayerContent(t *testing.T) {
	store := enginetest.NewStore()
	ctx := context.Background()

	banner := store.SeedMedia(model.Media{
		Title:       "banner",
		Kind:        model.MediaKindImage,
		FileURL:     "https://cdn.example.com/banner.png",
		DisplayTime: intptr(8),
	})
	clip := store.SeedMedia(model.Media{
		Title:   "clip",
		Kind:    model.MediaKindVideo,
		FileURL: "https://cdn.example.com/clip.mp4",
	})
	pl := store.SeedPlaylist(model.Playlist{Name: "Lobby"})
	screen := store.SeedScreen(model.Screen{
		Name:        "Entrance",
		APIKey:      "key-entrance",
		Orientation: "horizontal",
		Resolution:  "1920x1080",
		RefreshRate: 60,
	})

	_, err := store.InsertItem(ctx, pl.ID, banner.ID, 0, nil)
	require.NoError(t, err)
	_, err = store.InsertItem(ctx, pl.ID, clip.ID, 1, nil)
	require.NoError(t, err)

	materializer := engine.NewMaterializer(store, store, store, store, nil, nil)
	_, err = materializer.BindScreen(ctx, screen.ID, pl.ID)
	require.NoError(t, err)

	r := newRouter(store)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/screen/key-entrance/content", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var view playerView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Equal(t, screen.ID, view.Screen.ID)
	assert.Equal(t, "1920x1080", view.Screen.Resolution)
	require.Len(t, view.Items, 2)
	assert.Equal(t, banner.ID, view.Items[0].MediaID)
	require.NotNil(t, view.Items[0].DisplayTime)
	assert.Equal(t, 8, *view.Items[0].DisplayTime)
	assert.Equal(t, clip.ID, view.Items[1].MediaID)
	assert.Nil(t, view.Items[1].DisplayTime)
}

func TestPlayerContent_InvalidKey(t *testing.T) {
	r := newRouter(enginetest.NewStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/screen/no-such-key/content", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlayerContent_InactiveScreen(t *testing.T) {
	store := enginetest.NewStore()
	store.SeedScreen(model.Screen{
		Name:   "Dark",
		APIKey: "key-dark",
		Status: model.ScreenStatusInactive,
	})
	r := newRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/screen/key-dark/content", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPlayerContent_SkipsDeactivatedMedia(t *testing.T) {
	store := enginetest.NewStore()
	ctx := context.Background()

	banner := store.SeedMedia(model.Media{
		Title: "banner", Kind: model.MediaKindImage,
		FileURL: "https://cdn.example.com/banner.png",
	})
	stale := store.SeedMedia(model.Media{
		Title: "stale", Kind: model.MediaKindImage,
		FileURL: "https://cdn.example.com/stale.png",
	})
	pl := store.SeedPlaylist(model.Playlist{Name: "Lobby"})
	screen := store.SeedScreen(model.Screen{Name: "Entrance", APIKey: "key-entrance"})

	_, err := store.InsertItem(ctx, pl.ID, banner.ID, 0, nil)
	require.NoError(t, err)
	_, err = store.InsertItem(ctx, pl.ID, stale.ID, 1, nil)
	require.NoError(t, err)

	materializer := engine.NewMaterializer(store, store, store, store, nil, nil)
	_, err = materializer.BindScreen(ctx, screen.ID, pl.ID)
	require.NoError(t, err)

	// deactivated after the last resync; the view must not serve it
	require.NoError(t, store.SetMediaStatus(ctx, stale.ID, model.MediaStatusInactive))

	r := newRouter(store)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/screen/key-entrance/content", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var view playerView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, banner.ID, view.Items[0].MediaID)
}
