package admin_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrobil/bulutvizyon/internal/api/admin"
	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/engine/enginetest"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

type harness struct {
	store  *enginetest.Store
	router *gin.Engine
}

func newHarness() *harness {
	gin.SetMode(gin.TestMode)
	store := enginetest.NewStore()
	materializer := engine.NewMaterializer(store, store, store, store, nil, nil)
	counters := engine.NewCounterMaintainer(store)
	playlists := engine.NewPlaylistService(store, store, materializer, counters)
	screens := engine.NewScreenService(store, store, store, nil, nil)
	cascades := engine.NewCascadeService(store, store, store, store, materializer, counters)
	normalizer := engine.NewNormalizer(store, store, store, store)

	r := gin.New()
	admin.RegisterPlaylistRoutes(r, store, playlists, counters, cascades, normalizer)
	admin.RegisterScreenRoutes(r, store, screens, materializer, cascades, normalizer)
	admin.RegisterMediaRoutes(r, store, cascades, normalizer)
	return &harness{store: store, router: r}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestAddItem(t *testing.T) {
	h := newHarness()
	m := h.store.SeedMedia(model.Media{Title: "banner", Kind: model.MediaKindImage, FileURL: "x"})
	pl := h.store.SeedPlaylist(model.Playlist{Name: "Lobby"})

	w := h.do(t, http.MethodPost, fmt.Sprintf("/playlists/%d/items", pl.ID), gin.H{
		"media_ref":    fmt.Sprint(m.ID),
		"display_time": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item model.PlaylistItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, m.ID, item.MediaID)
	require.NotNil(t, item.DisplayTime)
	assert.Equal(t, 5, *item.DisplayTime)
}

func TestAddItem_DuplicateIsConflict(t *testing.T) {
	h := newHarness()
	m := h.store.SeedMedia(model.Media{Title: "banner", Kind: model.MediaKindImage, FileURL: "x"})
	pl := h.store.SeedPlaylist(model.Playlist{Name: "Lobby"})

	path := fmt.Sprintf("/playlists/%d/items", pl.ID)
	body := gin.H{"media_ref": fmt.Sprint(m.ID)}
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, path, body).Code)
	assert.Equal(t, http.StatusConflict, h.do(t, http.MethodPost, path, body).Code)
}

func TestAddItem_UnknownPlaylist(t *testing.T) {
	h := newHarness()
	m := h.store.SeedMedia(model.Media{Title: "banner", Kind: model.MediaKindImage, FileURL: "x"})

	w := h.do(t, http.MethodPost, "/playlists/404/items", gin.H{"media_ref": fmt.Sprint(m.ID)})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetItemDisplayTime(t *testing.T) {
	h := newHarness()
	m := h.store.SeedMedia(model.Media{Title: "banner", Kind: model.MediaKindImage, FileURL: "x"})
	pl := h.store.SeedPlaylist(model.Playlist{Name: "Lobby"})
	itemsPath := fmt.Sprintf("/playlists/%d/items", pl.ID)
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, itemsPath, gin.H{"media_ref": fmt.Sprint(m.ID)}).Code)

	w := h.do(t, http.MethodPut, fmt.Sprintf("%s/%d", itemsPath, m.ID), gin.H{"display_time": 20})
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = h.do(t, http.MethodGet, itemsPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []model.PlaylistItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.NotNil(t, items[0].DisplayTime)
	assert.Equal(t, 20, *items[0].DisplayTime)
}

func TestLegacyRefRouting(t *testing.T) {
	h := newHarness()
	ref := "64f1a2b3c4d5e6f7a8b9c0d1"
	pl := h.store.SeedPlaylist(model.Playlist{Name: "Imported", LegacyRef: &ref})

	w := h.do(t, http.MethodGet, "/playlists/"+ref, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Playlist
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, pl.ID, got.ID)
}

func TestAdHocEditOnBoundScreenIsConflict(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	m := h.store.SeedMedia(model.Media{Title: "banner", Kind: model.MediaKindImage, FileURL: "x"})
	pl := h.store.SeedPlaylist(model.Playlist{Name: "Lobby"})
	sc := h.store.SeedScreen(model.Screen{Name: "Entrance"})
	require.NoError(t, h.store.UpsertBinding(ctx, sc.ID, pl.ID))

	w := h.do(t, http.MethodPost, fmt.Sprintf("/screens/%d/contents", sc.ID), gin.H{
		"media_ref": fmt.Sprint(m.ID),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeletePlaylistCascades(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	m := h.store.SeedMedia(model.Media{Title: "banner", Kind: model.MediaKindImage, FileURL: "x"})
	pl := h.store.SeedPlaylist(model.Playlist{Name: "Lobby"})
	sc := h.store.SeedScreen(model.Screen{Name: "Entrance"})
	require.NoError(t, h.store.UpsertBinding(ctx, sc.ID, pl.ID))
	require.Equal(t, http.StatusCreated,
		h.do(t, http.MethodPost, fmt.Sprintf("/playlists/%d/items", pl.ID), gin.H{"media_ref": fmt.Sprint(m.ID)}).Code)

	w := h.do(t, http.MethodDelete, fmt.Sprintf("/playlists/%d", pl.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, fmt.Sprintf("/playlists/%d", pl.ID), nil).Code)
	rows, err := h.store.ListContents(ctx, sc.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRecountAll(t *testing.T) {
	h := newHarness()
	h.store.SeedPlaylist(model.Playlist{Name: "Drifted", MediaCount: 9})

	w := h.do(t, http.MethodPost, "/playlists/recount", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report engine.RepairReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.PlaylistsChecked)
	assert.Equal(t, 1, report.PlaylistsRepaired)
}
