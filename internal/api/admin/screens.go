package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/elektrobil/bulutvizyon/internal/db"
	"github.com/elektrobil/bulutvizyon/internal/engine"
)

type ScreenController struct {
	store        db.Store
	screens      *engine.ScreenService
	materializer *engine.Materializer
	cascades     *engine.CascadeService
	normalizer   *engine.Normalizer
}

func RegisterScreenRoutes(r gin.IRoutes, store db.Store, screens *engine.ScreenService, materializer *engine.Materializer, cascades *engine.CascadeService, normalizer *engine.Normalizer) {
	ctl := &ScreenController{
		store:        store,
		screens:      screens,
		materializer: materializer,
		cascades:     cascades,
		normalizer:   normalizer,
	}

	r.GET("/screens", ctl.list)
	r.POST("/screens", ctl.create)
	r.GET("/screens/:ref", ctl.get)
	r.DELETE("/screens/:ref", ctl.remove)

	r.POST("/screens/:ref/playlist", ctl.bindPlaylist)
	r.DELETE("/screens/:ref/playlist", ctl.unbindPlaylist)

	r.GET("/screens/:ref/contents", ctl.listContents)
	r.POST("/screens/:ref/contents", ctl.addContent)
	r.PUT("/screens/:ref/contents", ctl.reorderContents)
	r.PUT("/screens/:ref/contents/:content_id", ctl.setContentDisplayTime)
	r.DELETE("/screens/:ref/contents/:content_id", ctl.removeContent)
}

func (s *ScreenController) resolve(ctx *gin.Context) (int, bool) {
	id, err := s.normalizer.ScreenID(ctx.Request.Context(), ctx.Param("ref"))
	if err != nil {
		respondError(ctx, err)
		return 0, false
	}
	return id, true
}

func contentIDParam(ctx *gin.Context) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("content_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid content id"})
		return 0, false
	}
	return id, true
}

func (s *ScreenController) list(ctx *gin.Context) {
	all, err := s.store.ListScreens(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, all)
}

func (s *ScreenController) create(ctx *gin.Context) {
	var req createScreenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Orientation == "" {
		req.Orientation = "horizontal"
	}
	if req.Resolution == "" {
		req.Resolution = "1920x1080"
	}
	if req.RefreshRate <= 0 {
		req.RefreshRate = 60
	}
	sc, err := s.store.CreateScreen(ctx.Request.Context(), req.Name, req.Location, req.Orientation, req.Resolution, req.RefreshRate, 0)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, sc)
}

func (s *ScreenController) get(ctx *gin.Context) {
	id, ok := s.resolve(ctx)
	if !ok {
		return
	}
	sc, err := s.store.GetScreen(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sc)
}

func (s *ScreenController) remove(ctx *gin.Context) {
	id, ok := s.resolve(ctx)
	if !ok {
		return
	}
	report, err := s.cascades.DeleteScreen(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

func (s *ScreenController) bindPlaylist(ctx *gin.Context) {
	id, ok := s.resolve(ctx)
	if !ok {
		return
	}
	var req bindPlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	playlistID, err := s.normalizer.PlaylistID(ctx.Request.Context(), req.PlaylistRef)
	if err != nil {
		respondError(ctx, err)
		return
	}
	result, err := s.materializer.BindScreen(ctx.Request.Context(), id, playlistID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (s *ScreenController) unbindPlaylist(ctx *gin.Context) {
	id, ok := s.resolve(ctx)
	if !ok {
		return
	}
	if err := s.materializer.UnbindScreen(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (s *ScreenController) listContents(ctx *gin.Context) {
	id, ok := s.resolve(ctx)
	if !ok {
		return
	}
	rows, err := s.store.ListContents(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rows)
}

func (s *ScreenController) addContent(ctx *gin.Context) {
	id, ok := s.resolve(ctx)
	if !ok {
		return
	}
	var req addScreenContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mediaID, err := s.normalizer.MediaID(ctx.Request.Context(), req.MediaRef)
	if err != nil {
		respondError(ctx, err)
		return
	}
	row, err := s.screens.AddContent(ctx.Request.Context(), id, mediaID, req.DisplayTime)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, row)
}

func (s *ScreenController) removeContent(ctx *gin.Context) {
	id, ok := s.resolve(ctx)
	if !ok {
		return
	}
	contentID, ok := contentIDParam(ctx)
	if !ok {
		return
	}
	removed, err := s.screens.RemoveContent(ctx.Request.Context(), id, contentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (s *ScreenController) setContentDisplayTime(ctx *gin.Context) {
	id, ok := s.resolve(ctx)
	if !ok {
		return
	}
	contentID, ok := contentIDParam(ctx)
	if !ok {
		return
	}
	var req displayTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.screens.SetContentDisplayTime(ctx.Request.Context(), id, contentID, req.DisplayTime); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (s *ScreenController) reorderContents(ctx *gin.Context) {
	id, ok := s.resolve(ctx)
	if !ok {
		return
	}
	var req reorderContentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	skipped, err := s.screens.ReorderContents(ctx.Request.Context(), id, req.ContentIDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"skipped": skipped})
}
