package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elektrobil/bulutvizyon/internal/engine"
)

// respondError maps the engine's error taxonomy onto HTTP statuses:
// missing entities are 404, conflicts 409, everything else a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case engine.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrDuplicateItem), errors.Is(err, engine.ErrScreenBound):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
