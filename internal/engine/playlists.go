package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/elektrobil/bulutvizyon/internal/model"
)

// PlaylistService owns playlist membership mutations. Every successful
// mutation synchronously resyncs bound screens and recounts the playlist's
// denormalized media_count as one logical unit of work; validation errors
// return before either side effect runs.
type PlaylistService struct {
	playlists    PlaylistRepo
	catalog      MediaCatalog
	materializer *Materializer
	counters     *CounterMaintainer
}

func NewPlaylistService(playlists PlaylistRepo, catalog MediaCatalog, materializer *Materializer, counters *CounterMaintainer) *PlaylistService {
	return &PlaylistService{
		playlists:    playlists,
		catalog:      catalog,
		materializer: materializer,
		counters:     counters,
	}
}

// cascade runs the resync+recount pair after a successful mutation.
func (s *PlaylistService) cascade(ctx context.Context, playlistID int) error {
	if _, err := s.materializer.Resync(ctx, playlistID); err != nil {
		return fmt.Errorf("resync playlist %d: %w", playlistID, err)
	}
	if _, err := s.counters.Recount(ctx, playlistID); err != nil {
		return fmt.Errorf("recount playlist %d: %w", playlistID, err)
	}
	return nil
}

// AddMedia appends media to the playlist. A duplicate (playlist, media)
// pair is a Conflict (ErrDuplicateItem), never a silent overwrite of the
// existing item's override; use SetItemDisplayTime for that.
func (s *PlaylistService) AddMedia(ctx context.Context, playlistID, mediaID int, displayTime *int) (model.PlaylistItem, error) {
	if _, err := s.playlists.GetPlaylist(ctx, playlistID); err != nil {
		return model.PlaylistItem{}, err
	}
	if _, err := s.catalog.GetMedia(ctx, mediaID); err != nil {
		return model.PlaylistItem{}, err
	}

	items, err := s.playlists.ListItems(ctx, playlistID)
	if err != nil {
		return model.PlaylistItem{}, fmt.Errorf("list items for playlist %d: %w", playlistID, err)
	}
	position := 0
	for _, it := range items {
		if it.Position >= position {
			position = it.Position + 1
		}
	}

	item, err := s.playlists.InsertItem(ctx, playlistID, mediaID, position, displayTime)
	if err != nil {
		return model.PlaylistItem{}, err
	}
	log.Info().Int("playlist_id", playlistID).Int("media_id", mediaID).
		Int("position", position).Msg("media added to playlist")
	return item, s.cascade(ctx, playlistID)
}

// SetItemDisplayTime updates an existing item's display-time override.
// This is the explicit counterpart to what AddMedia refuses to do silently.
func (s *PlaylistService) SetItemDisplayTime(ctx context.Context, playlistID, mediaID int, displayTime *int) error {
	if _, err := s.playlists.GetPlaylist(ctx, playlistID); err != nil {
		return err
	}
	found, err := s.playlists.UpdateItemDisplayTime(ctx, playlistID, mediaID, displayTime)
	if err != nil {
		return fmt.Errorf("update item display time: %w", err)
	}
	if !found {
		return ErrItemNotFound
	}
	return s.cascade(ctx, playlistID)
}

// RemoveMedia deletes the membership. Removing an absent pair is a no-op
// reported as false.
func (s *PlaylistService) RemoveMedia(ctx context.Context, playlistID, mediaID int) (bool, error) {
	if _, err := s.playlists.GetPlaylist(ctx, playlistID); err != nil {
		return false, err
	}
	removed, err := s.playlists.DeleteItem(ctx, playlistID, mediaID)
	if err != nil {
		return false, fmt.Errorf("remove media %d from playlist %d: %w", mediaID, playlistID, err)
	}
	if !removed {
		return false, nil
	}
	log.Info().Int("playlist_id", playlistID).Int("media_id", mediaID).Msg("media removed from playlist")
	return true, s.cascade(ctx, playlistID)
}

// Reorder assigns new positions following the given media id order. Ids not
// in the playlist are skipped with a warning; items not mentioned keep
// their relative order after the listed ones.
func (s *PlaylistService) Reorder(ctx context.Context, playlistID int, mediaIDs []int) (int, error) {
	if _, err := s.playlists.GetPlaylist(ctx, playlistID); err != nil {
		return 0, err
	}
	updated, err := s.playlists.SetItemPositions(ctx, playlistID, mediaIDs)
	if err != nil {
		return 0, fmt.Errorf("reorder playlist %d: %w", playlistID, err)
	}
	skipped := len(mediaIDs) - updated
	if skipped > 0 {
		log.Warn().Int("playlist_id", playlistID).Int("skipped", skipped).
			Msg("reorder referenced media not in playlist")
	}
	return skipped, s.cascade(ctx, playlistID)
}

// Membership returns the playlist's items sorted by (position, media_id).
func (s *PlaylistService) Membership(ctx context.Context, playlistID int) ([]model.PlaylistItem, error) {
	if _, err := s.playlists.GetPlaylist(ctx, playlistID); err != nil {
		return nil, err
	}
	return s.playlists.ListItems(ctx, playlistID)
}
