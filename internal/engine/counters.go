package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// CounterMaintainer keeps playlists.media_count equal to the live item
// count. In the steady state mutators recount inline; RecountAll exists as
// a repair operation for drift after partial failures.
type CounterMaintainer struct {
	playlists PlaylistRepo
}

func NewCounterMaintainer(playlists PlaylistRepo) *CounterMaintainer {
	return &CounterMaintainer{playlists: playlists}
}

// RepairReport summarizes a RecountAll sweep.
type RepairReport struct {
	PlaylistsChecked  int `json:"playlists_checked"`
	PlaylistsRepaired int `json:"playlists_repaired"`
	TotalItems        int `json:"total_items"`
}

// Recount recomputes and persists one playlist's media count.
func (c *CounterMaintainer) Recount(ctx context.Context, playlistID int) (int, error) {
	if _, err := c.playlists.GetPlaylist(ctx, playlistID); err != nil {
		return 0, err
	}
	items, err := c.playlists.ListItems(ctx, playlistID)
	if err != nil {
		return 0, fmt.Errorf("list items for playlist %d: %w", playlistID, err)
	}
	if err := c.playlists.SetMediaCount(ctx, playlistID, len(items)); err != nil {
		return 0, fmt.Errorf("set media count for playlist %d: %w", playlistID, err)
	}
	return len(items), nil
}

// RecountAll sweeps every playlist and repairs counters that drifted from
// the live membership count.
func (c *CounterMaintainer) RecountAll(ctx context.Context) (RepairReport, error) {
	var report RepairReport

	ids, err := c.playlists.ListPlaylistIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("list playlists: %w", err)
	}

	for _, id := range ids {
		p, err := c.playlists.GetPlaylist(ctx, id)
		if err != nil {
			return report, err
		}
		items, err := c.playlists.ListItems(ctx, id)
		if err != nil {
			return report, fmt.Errorf("list items for playlist %d: %w", id, err)
		}
		report.PlaylistsChecked++
		report.TotalItems += len(items)
		if p.MediaCount != len(items) {
			if err := c.playlists.SetMediaCount(ctx, id, len(items)); err != nil {
				return report, fmt.Errorf("set media count for playlist %d: %w", id, err)
			}
			log.Warn().Int("playlist_id", id).Int("was", p.MediaCount).Int("now", len(items)).
				Msg("repaired drifted media count")
			report.PlaylistsRepaired++
		}
	}

	log.Info().Int("checked", report.PlaylistsChecked).Int("repaired", report.PlaylistsRepaired).
		Int("total_items", report.TotalItems).Msg("playlist counter sweep finished")
	return report, nil
}
