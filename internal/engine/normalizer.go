package engine

import (
	"context"
	"fmt"
	"strconv"
)

// LegacyRefStore looks entities up by the hex references the legacy system
// stored alongside (and sometimes instead of) canonical ids.
type LegacyRefStore interface {
	MediaIDByLegacyRef(ctx context.Context, ref string) (int, error)
	PlaylistIDByLegacyRef(ctx context.Context, ref string) (int, error)
	ScreenIDByLegacyRef(ctx context.Context, ref string) (int, error)
}

// Normalizer resolves an entity reference that may arrive either as the
// canonical integer id or as the legacy hex string into the canonical id.
//
// This is a compatibility shim for the migration window: once imported data
// is rewritten to canonical ids everywhere, callers switch to plain
// strconv.Atoi and this type goes away.
type Normalizer struct {
	media     MediaCatalog
	playlists PlaylistRepo
	screens   ScreenRepo
	legacy    LegacyRefStore
}

func NewNormalizer(media MediaCatalog, playlists PlaylistRepo, screens ScreenRepo, legacy LegacyRefStore) *Normalizer {
	return &Normalizer{media: media, playlists: playlists, screens: screens, legacy: legacy}
}

// MediaID resolves ref to a canonical media id or fails ErrMediaNotFound.
func (n *Normalizer) MediaID(ctx context.Context, ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		if _, err := n.media.GetMedia(ctx, id); err != nil {
			return 0, err
		}
		return id, nil
	}
	return n.legacy.MediaIDByLegacyRef(ctx, ref)
}

// PlaylistID resolves ref to a canonical playlist id or fails
// ErrPlaylistNotFound.
func (n *Normalizer) PlaylistID(ctx context.Context, ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		if _, err := n.playlists.GetPlaylist(ctx, id); err != nil {
			return 0, err
		}
		return id, nil
	}
	return n.legacy.PlaylistIDByLegacyRef(ctx, ref)
}

// ScreenID resolves ref to a canonical screen id or fails ErrScreenNotFound.
func (n *Normalizer) ScreenID(ctx context.Context, ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		if _, err := n.screens.GetScreen(ctx, id); err != nil {
			return 0, err
		}
		return id, nil
	}
	return n.legacy.ScreenIDByLegacyRef(ctx, ref)
}

// DualMatch builds a SQL predicate matching a text column that may hold
// either the canonical id rendering or the legacy hex reference. argPos is
// the 1-based index of the first placeholder.
func DualMatch(column string, id int, legacyRef string, argPos int) (string, []any) {
	clause := fmt.Sprintf("(%s = $%d OR %s = $%d)", column, argPos, column, argPos+1)
	return clause, []any{strconv.Itoa(id), legacyRef}
}
