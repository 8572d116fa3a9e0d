package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/elektrobil/bulutvizyon/internal/db"
	"github.com/elektrobil/bulutvizyon/internal/engine"
)

type PlaylistController struct {
	store      db.Store
	playlists  *engine.PlaylistService
	counters   *engine.CounterMaintainer
	cascades   *engine.CascadeService
	normalizer *engine.Normalizer
}

func RegisterPlaylistRoutes(r gin.IRoutes, store db.Store, playlists *engine.PlaylistService, counters *engine.CounterMaintainer, cascades *engine.CascadeService, normalizer *engine.Normalizer) {
	ctl := &PlaylistController{
		store:      store,
		playlists:  playlists,
		counters:   counters,
		cascades:   cascades,
		normalizer: normalizer,
	}

	r.GET("/playlists", ctl.list)
	r.POST("/playlists", ctl.create)
	r.GET("/playlists/:ref", ctl.get)
	r.PUT("/playlists/:ref", ctl.update)
	r.DELETE("/playlists/:ref", ctl.remove)

	r.GET("/playlists/:ref/items", ctl.listItems)
	r.POST("/playlists/:ref/items", ctl.addItem)
	r.PUT("/playlists/:ref/items", ctl.reorderItems)
	r.PUT("/playlists/:ref/items/:media_ref", ctl.setItemDisplayTime)
	r.DELETE("/playlists/:ref/items/:media_ref", ctl.removeItem)

	r.POST("/playlists/recount", ctl.recountAll)
}

func (p *PlaylistController) resolve(ctx *gin.Context) (int, bool) {
	id, err := p.normalizer.PlaylistID(ctx.Request.Context(), ctx.Param("ref"))
	if err != nil {
		respondError(ctx, err)
		return 0, false
	}
	return id, true
}

func (p *PlaylistController) list(ctx *gin.Context) {
	all, err := p.store.ListPlaylists(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, all)
}

func (p *PlaylistController) create(ctx *gin.Context) {
	var req createPlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pl, err := p.store.CreatePlaylist(ctx.Request.Context(), req.Name, req.Description, req.IsPublic, 0)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, pl)
}

func (p *PlaylistController) get(ctx *gin.Context) {
	id, ok := p.resolve(ctx)
	if !ok {
		return
	}
	pl, err := p.store.GetPlaylist(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	items, err := p.playlists.Membership(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	pl.Items = items
	ctx.JSON(http.StatusOK, pl)
}

func (p *PlaylistController) update(ctx *gin.Context) {
	id, ok := p.resolve(ctx)
	if !ok {
		return
	}
	var req updatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := p.store.UpdatePlaylist(ctx.Request.Context(), id, req.Name, req.Description, req.IsPublic); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (p *PlaylistController) remove(ctx *gin.Context) {
	id, ok := p.resolve(ctx)
	if !ok {
		return
	}
	report, err := p.cascades.DeletePlaylist(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

func (p *PlaylistController) listItems(ctx *gin.Context) {
	id, ok := p.resolve(ctx)
	if !ok {
		return
	}
	items, err := p.playlists.Membership(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

func (p *PlaylistController) addItem(ctx *gin.Context) {
	id, ok := p.resolve(ctx)
	if !ok {
		return
	}
	var req addItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mediaID, err := p.normalizer.MediaID(ctx.Request.Context(), req.MediaRef)
	if err != nil {
		respondError(ctx, err)
		return
	}
	item, err := p.playlists.AddMedia(ctx.Request.Context(), id, mediaID, req.DisplayTime)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, item)
}

func (p *PlaylistController) setItemDisplayTime(ctx *gin.Context) {
	id, ok := p.resolve(ctx)
	if !ok {
		return
	}
	mediaID, err := p.normalizer.MediaID(ctx.Request.Context(), ctx.Param("media_ref"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	var req displayTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := p.playlists.SetItemDisplayTime(ctx.Request.Context(), id, mediaID, req.DisplayTime); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (p *PlaylistController) removeItem(ctx *gin.Context) {
	id, ok := p.resolve(ctx)
	if !ok {
		return
	}
	mediaID, err := p.normalizer.MediaID(ctx.Request.Context(), ctx.Param("media_ref"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	removed, err := p.playlists.RemoveMedia(ctx.Request.Context(), id, mediaID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (p *PlaylistController) reorderItems(ctx *gin.Context) {
	id, ok := p.resolve(ctx)
	if !ok {
		return
	}
	var req reorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mediaIDs := make([]int, 0, len(req.MediaRefs))
	for _, ref := range req.MediaRefs {
		mediaID, err := p.normalizer.MediaID(ctx.Request.Context(), ref)
		if err != nil {
			// unknown refs are skipped by Reorder anyway; resolve what we can
			log.Warn().Str("media_ref", ref).Msg("[playlists] reorder: unresolvable media ref")
			continue
		}
		mediaIDs = append(mediaIDs, mediaID)
	}
	skipped, err := p.playlists.Reorder(ctx.Request.Context(), id, mediaIDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	skipped += len(req.MediaRefs) - len(mediaIDs)
	ctx.JSON(http.StatusOK, gin.H{"skipped": skipped})
}

func (p *PlaylistController) recountAll(ctx *gin.Context) {
	report, err := p.counters.RecountAll(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}
