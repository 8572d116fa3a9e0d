// Package tv serves the player-facing view: the materialized, ordered
// content of one screen. Players poll this endpoint; the MQTT refresh ping
// only makes them poll sooner.
package tv

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/elektrobil/bulutvizyon/internal/cache"
	"github.com/elektrobil/bulutvizyon/internal/db"
	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

type screenDescriptor struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Orientation string `json:"orientation"`
	Resolution  string `json:"resolution"`
	RefreshRate int    `json:"refresh_rate"`
}

type playerItem struct {
	ID          int    `json:"id"`
	MediaID     int    `json:"media_id"`
	Title       string `json:"title"`
	Kind        string `json:"kind"`
	FileURL     string `json:"file_url"`
	Width       *int   `json:"width,omitempty"`
	Height      *int   `json:"height,omitempty"`
	Duration    *int   `json:"duration,omitempty"`
	DisplayTime *int   `json:"display_time"` // null: play for natural length
	Position    int    `json:"position"`
}

type playerView struct {
	Screen    screenDescriptor `json:"screen"`
	Items     []playerItem     `json:"items"`
	Timestamp time.Time        `json:"timestamp"`
}

type PlayerController struct {
	store db.Store
	views *cache.Views
}

func RegisterPlayerRoutes(r gin.IRoutes, store db.Store, views *cache.Views) {
	ctl := &PlayerController{store: store, views: views}
	r.GET("/screen/:api_key/content", ctl.content)
}

func (p *PlayerController) content(ctx *gin.Context) {
	screen, err := p.store.GetScreenByAPIKey(ctx.Request.Context(), ctx.Param("api_key"))
	if err != nil {
		if errors.Is(err, engine.ErrScreenNotFound) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if screen.Status != model.ScreenStatusActive {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "screen is not active"})
		return
	}

	if data, ok := p.views.GetView(ctx.Request.Context(), screen.ID); ok {
		ctx.Data(http.StatusOK, "application/json", data)
		return
	}

	rows, err := p.store.ListContents(ctx.Request.Context(), screen.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	view := playerView{
		Screen: screenDescriptor{
			ID:          screen.ID,
			Name:        screen.Name,
			Orientation: screen.Orientation,
			Resolution:  screen.Resolution,
			RefreshRate: screen.RefreshRate,
		},
		Items:     make([]playerItem, 0, len(rows)),
		Timestamp: time.Now().UTC(),
	}

	// Rows can reference media that vanished or was deactivated since the
	// last resync; the view tolerates those the same way the resync does.
	for _, row := range rows {
		media, err := p.store.GetMedia(ctx.Request.Context(), row.MediaID)
		if err != nil || !engine.IsUsable(media) {
			log.Debug().Int("screen_id", screen.ID).Int("media_id", row.MediaID).
				Msg("[tv] skipping unusable media in player view")
			continue
		}
		view.Items = append(view.Items, playerItem{
			ID:          row.ID,
			MediaID:     media.ID,
			Title:       media.Title,
			Kind:        media.Kind,
			FileURL:     media.FileURL,
			Width:       media.Width,
			Height:      media.Height,
			Duration:    media.Duration,
			DisplayTime: row.DisplayTime,
			Position:    row.Position,
		})
	}

	data, err := json.Marshal(view)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	p.views.SetView(ctx.Request.Context(), screen.ID, data)
	ctx.Data(http.StatusOK, "application/json", data)
}
