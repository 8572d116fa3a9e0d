package engine_test

import (
	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/engine/enginetest"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

func ptr(v int) *int { return &v }

func strptr(v string) *string { return &v }

// fixture wires the full engine over the in-memory store, the same way
// cmd/server does over Postgres.
type fixture struct {
	store        *enginetest.Store
	materializer *engine.Materializer
	counters     *engine.CounterMaintainer
	playlists    *engine.PlaylistService
	screens      *engine.ScreenService
	cascades     *engine.CascadeService
}

func newFixture() *fixture {
	st := enginetest.NewStore()
	m := engine.NewMaterializer(st, st, st, st, nil, nil)
	c := engine.NewCounterMaintainer(st)
	return &fixture{
		store:        st,
		materializer: m,
		counters:     c,
		playlists:    engine.NewPlaylistService(st, st, m, c),
		screens:      engine.NewScreenService(st, st, st, nil, nil),
		cascades:     engine.NewCascadeService(st, st, st, st, m, c),
	}
}

func image(title string, defaultSeconds *int) model.Media {
	return model.Media{
		Title:       title,
		Kind:        model.MediaKindImage,
		Status:      model.MediaStatusActive,
		FileURL:     "https://cdn.example.com/" + title + ".png",
		DisplayTime: defaultSeconds,
	}
}

func video(title string) model.Media {
	return model.Media{
		Title:    title,
		Kind:     model.MediaKindVideo,
		Status:   model.MediaStatusActive,
		FileURL:  "https://cdn.example.com/" + title + ".mp4",
		Duration: ptr(42),
	}
}
