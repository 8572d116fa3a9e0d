package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elektrobil/bulutvizyon/internal/db"
	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

// MediaController is a thin surface over the catalog. Upload and
// processing happen in the external storage pipeline; rows created here
// start pending until that pipeline marks them active.
type MediaController struct {
	store      db.Store
	cascades   *engine.CascadeService
	normalizer *engine.Normalizer
}

func RegisterMediaRoutes(r gin.IRoutes, store db.Store, cascades *engine.CascadeService, normalizer *engine.Normalizer) {
	ctl := &MediaController{store: store, cascades: cascades, normalizer: normalizer}

	r.GET("/media", ctl.list)
	r.POST("/media", ctl.create)
	r.GET("/media/:ref", ctl.get)
	r.POST("/media/:ref/activate", ctl.activate)
	r.DELETE("/media/:ref", ctl.remove)
}

func (m *MediaController) resolve(ctx *gin.Context) (int, bool) {
	id, err := m.normalizer.MediaID(ctx.Request.Context(), ctx.Param("ref"))
	if err != nil {
		respondError(ctx, err)
		return 0, false
	}
	return id, true
}

func (m *MediaController) list(ctx *gin.Context) {
	all, err := m.store.ListMedia(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, all)
}

func (m *MediaController) create(ctx *gin.Context) {
	var req createMediaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := m.store.CreateMedia(ctx.Request.Context(), model.Media{
		Title:       req.Title,
		Kind:        req.Kind,
		Status:      model.MediaStatusPending,
		FileURL:     req.FileURL,
		Width:       req.Width,
		Height:      req.Height,
		Duration:    req.Duration,
		DisplayTime: req.DisplayTime,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

func (m *MediaController) get(ctx *gin.Context) {
	id, ok := m.resolve(ctx)
	if !ok {
		return
	}
	media, err := m.store.GetMedia(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, media)
}

// activate is the callback the processing pipeline hits once a media file
// is ready to serve.
func (m *MediaController) activate(ctx *gin.Context) {
	id, ok := m.resolve(ctx)
	if !ok {
		return
	}
	if err := m.store.SetMediaStatus(ctx.Request.Context(), id, model.MediaStatusActive); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (m *MediaController) remove(ctx *gin.Context) {
	id, ok := m.resolve(ctx)
	if !ok {
		return
	}
	report, err := m.cascades.DeleteMedia(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, report)
}
