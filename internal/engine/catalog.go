package engine

import (
	"context"

	"github.com/elektrobil/bulutvizyon/internal/model"
)

// DefaultDisplaySeconds applies when neither the item override nor the
// media default yields a usable value.
const DefaultDisplaySeconds = 10

// MediaCatalog is the read-only media lookup this engine consumes. The
// upload/processing pipeline that fills it lives outside this service.
type MediaCatalog interface {
	GetMedia(ctx context.Context, id int) (model.Media, error)
}

// IsUsable reports whether media may be served to a screen.
func IsUsable(m model.Media) bool {
	return m.Status == model.MediaStatusActive
}

// ResolveDisplaySeconds returns the media's own default display duration.
func ResolveDisplaySeconds(m model.Media) int {
	if m.DisplayTime != nil && *m.DisplayTime > 0 {
		return *m.DisplayTime
	}
	return DefaultDisplaySeconds
}

// EffectiveDisplaySeconds resolves the duration a player should show an
// item for. Videos always run for their natural length (nil), no matter
// what override is set. For everything else a positive override wins over
// the media default.
func EffectiveDisplaySeconds(m model.Media, override *int) *int {
	if m.Kind == model.MediaKindVideo {
		return nil
	}
	if override != nil && *override > 0 {
		v := *override
		return &v
	}
	v := ResolveDisplaySeconds(m)
	return &v
}
