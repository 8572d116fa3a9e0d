package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/elektrobil/bulutvizyon/internal/model"
)

// MediaAdmin extends the read-only catalog with the status write the
// deletion cascade needs.
type MediaAdmin interface {
	MediaCatalog
	SetMediaStatus(ctx context.Context, id int, status string) error
}

// CascadeReport tells the caller what a deletion touched and which steps
// failed. Partial failure is reported, not hidden: committed steps stay
// committed and failed ones are listed.
type CascadeReport struct {
	PlaylistsTouched int      `json:"playlists_touched"`
	ScreensTouched   int      `json:"screens_touched"`
	Failures         []string `json:"failures,omitempty"`
}

func (r *CascadeReport) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// CascadeService is the single owner of aggregate deletions. Each root has
// one routine with a defined child order, replacing the scattered cleanup
// calls the legacy system spread across its models.
type CascadeService struct {
	media        MediaAdmin
	playlists    PlaylistRepo
	screens      ScreenRepo
	contents     ContentRepo
	materializer *Materializer
	counters     *CounterMaintainer
}

func NewCascadeService(media MediaAdmin, playlists PlaylistRepo, screens ScreenRepo, contents ContentRepo, materializer *Materializer, counters *CounterMaintainer) *CascadeService {
	return &CascadeService{
		media:        media,
		playlists:    playlists,
		screens:      screens,
		contents:     contents,
		materializer: materializer,
		counters:     counters,
	}
}

// DeleteMedia soft-deletes the media and removes every reference to it:
// playlist memberships first, then ad-hoc screen rows, then a resync and
// recount per affected playlist so bound screens drop the media too.
func (c *CascadeService) DeleteMedia(ctx context.Context, mediaID int) (CascadeReport, error) {
	var report CascadeReport

	if _, err := c.media.GetMedia(ctx, mediaID); err != nil {
		return report, err
	}
	if err := c.media.SetMediaStatus(ctx, mediaID, model.MediaStatusDeleted); err != nil {
		return report, fmt.Errorf("soft-delete media %d: %w", mediaID, err)
	}

	playlistIDs, err := c.playlists.DeleteItemsForMedia(ctx, mediaID)
	if err != nil {
		return report, fmt.Errorf("remove memberships for media %d: %w", mediaID, err)
	}

	screenIDs, err := c.contents.DeleteContentsForMedia(ctx, mediaID)
	if err != nil {
		report.fail("remove ad-hoc contents: %v", err)
	} else {
		report.ScreensTouched = len(screenIDs)
		if c.materializer.invalidator != nil && len(screenIDs) > 0 {
			c.materializer.invalidator.InvalidateScreens(ctx, screenIDs)
		}
		for _, id := range screenIDs {
			if c.materializer.notifier != nil {
				c.materializer.notifier.ScreenRefreshed(id)
			}
		}
	}

	for _, pid := range playlistIDs {
		report.PlaylistsTouched++
		if _, err := c.materializer.Resync(ctx, pid); err != nil {
			report.fail("resync playlist %d: %v", pid, err)
			continue
		}
		if _, err := c.counters.Recount(ctx, pid); err != nil {
			report.fail("recount playlist %d: %v", pid, err)
		}
	}

	log.Info().Int("media_id", mediaID).Int("playlists", report.PlaylistsTouched).
		Int("screens", report.ScreensTouched).Int("failures", len(report.Failures)).
		Msg("media deleted")
	return report, nil
}

// DeletePlaylist unbinds and clears every bound screen, deletes the
// membership, then the playlist row.
func (c *CascadeService) DeletePlaylist(ctx context.Context, playlistID int) (CascadeReport, error) {
	var report CascadeReport

	if _, err := c.playlists.GetPlaylist(ctx, playlistID); err != nil {
		return report, err
	}

	bindings, err := c.screens.ListBindings(ctx, playlistID)
	if err != nil {
		return report, fmt.Errorf("list bindings for playlist %d: %w", playlistID, err)
	}
	for _, b := range bindings {
		report.ScreensTouched++
		if err := c.materializer.UnbindScreen(ctx, b.ScreenID); err != nil && !errors.Is(err, ErrBindingNotFound) {
			report.fail("unbind screen %d: %v", b.ScreenID, err)
		}
	}

	if _, err := c.playlists.DeleteItems(ctx, playlistID); err != nil {
		report.fail("delete items: %v", err)
		return report, fmt.Errorf("delete items for playlist %d: %w", playlistID, err)
	}
	if err := c.playlists.DeletePlaylist(ctx, playlistID); err != nil {
		return report, fmt.Errorf("delete playlist %d: %w", playlistID, err)
	}

	log.Info().Int("playlist_id", playlistID).Int("screens", report.ScreensTouched).
		Msg("playlist deleted")
	return report, nil
}

// DeleteScreen removes the binding, the screen's content rows, then the
// screen itself.
func (c *CascadeService) DeleteScreen(ctx context.Context, screenID int) (CascadeReport, error) {
	var report CascadeReport

	if _, err := c.screens.GetScreen(ctx, screenID); err != nil {
		return report, err
	}
	if _, err := c.screens.DeleteBinding(ctx, screenID); err != nil {
		report.fail("delete binding: %v", err)
	}
	if err := c.contents.ClearContents(ctx, screenID); err != nil {
		report.fail("clear contents: %v", err)
	}
	if err := c.screens.DeleteScreen(ctx, screenID); err != nil {
		return report, fmt.Errorf("delete screen %d: %w", screenID, err)
	}
	report.ScreensTouched = 1
	if c.materializer.invalidator != nil {
		c.materializer.invalidator.InvalidateScreens(ctx, []int{screenID})
	}

	log.Info().Int("screen_id", screenID).Msg("screen deleted")
	return report, nil
}
