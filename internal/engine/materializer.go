package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/elektrobil/bulutvizyon/internal/model"
)

// resyncFanout bounds how many screens one pass replaces concurrently.
const resyncFanout = 4

// PlaylistRepo owns playlist rows and their membership. Items come back
// sorted by (position, media_id) so materialization is deterministic even
// when positions collide.
type PlaylistRepo interface {
	GetPlaylist(ctx context.Context, id int) (model.Playlist, error)
	ListPlaylistIDs(ctx context.Context) ([]int, error)
	ListItems(ctx context.Context, playlistID int) ([]model.PlaylistItem, error)
	InsertItem(ctx context.Context, playlistID, mediaID, position int, displayTime *int) (model.PlaylistItem, error)
	UpdateItemDisplayTime(ctx context.Context, playlistID, mediaID int, displayTime *int) (bool, error)
	DeleteItem(ctx context.Context, playlistID, mediaID int) (bool, error)
	DeleteItems(ctx context.Context, playlistID int) (int, error)
	DeleteItemsForMedia(ctx context.Context, mediaID int) ([]int, error)
	SetItemPositions(ctx context.Context, playlistID int, mediaIDs []int) (int, error)
	SetMediaCount(ctx context.Context, playlistID, count int) error
	DeletePlaylist(ctx context.Context, id int) error
}

// ScreenRepo owns screens and their playlist bindings.
type ScreenRepo interface {
	GetScreen(ctx context.Context, id int) (model.Screen, error)
	GetBinding(ctx context.Context, screenID int) (model.ScreenBinding, error)
	ListBindings(ctx context.Context, playlistID int) ([]model.ScreenBinding, error)
	UpsertBinding(ctx context.Context, screenID, playlistID int) error
	DeleteBinding(ctx context.Context, screenID int) (bool, error)
	DeleteScreen(ctx context.Context, id int) error
}

// ContentRepo owns the materialized per-screen rows. ReplaceContents must
// be all-or-nothing from a reader's point of view: implementations write a
// new generation, repoint the screen, then drop the old rows.
type ContentRepo interface {
	ListContents(ctx context.Context, screenID int) ([]model.Content, error)
	ReplaceContents(ctx context.Context, screenID int, rows []model.Content) (int, error)
	ClearContents(ctx context.Context, screenID int) error
	InsertContent(ctx context.Context, row model.Content) (model.Content, error)
	DeleteContent(ctx context.Context, screenID, contentID int) (bool, error)
	UpdateContentDisplayTime(ctx context.Context, screenID, contentID int, displayTime *int) (bool, error)
	SetContentPositions(ctx context.Context, screenID int, contentIDs []int) (int, error)
	DeleteContentsForMedia(ctx context.Context, mediaID int) ([]int, error)
}

// Invalidator drops cached player views after a screen's content changed.
type Invalidator interface {
	InvalidateScreens(ctx context.Context, screenIDs []int)
}

// Notifier nudges players to poll again. Content never travels this way.
type Notifier interface {
	ScreenRefreshed(screenID int)
}

// ScreenResult reports one screen's replacement inside a resync pass.
type ScreenResult struct {
	ScreenID int    `json:"screen_id"`
	Written  int    `json:"written"`
	Err      error  `json:"-"`
	Error    string `json:"error,omitempty"`
}

// ResyncResult summarizes one materialization pass. ItemsSkipped counts
// membership items dropped because their media was missing or unusable;
// ItemsWritten counts content rows written across all updated screens.
type ResyncResult struct {
	PlaylistID     int            `json:"playlist_id"`
	ScreensUpdated int            `json:"screens_updated"`
	ScreensFailed  int            `json:"screens_failed"`
	ItemsWritten   int            `json:"items_written"`
	ItemsSkipped   int            `json:"items_skipped"`
	Screens        []ScreenResult `json:"screens,omitempty"`
}

// Success reports whether every bound screen was replaced.
func (r ResyncResult) Success() bool { return r.ScreensFailed == 0 }

// Materializer regenerates per-screen content from playlist membership.
// It is the only writer of content rows for bound screens.
type Materializer struct {
	catalog     MediaCatalog
	playlists   PlaylistRepo
	screens     ScreenRepo
	contents    ContentRepo
	invalidator Invalidator
	notifier    Notifier

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewMaterializer(catalog MediaCatalog, playlists PlaylistRepo, screens ScreenRepo, contents ContentRepo, invalidator Invalidator, notifier Notifier) *Materializer {
	return &Materializer{
		catalog:     catalog,
		playlists:   playlists,
		screens:     screens,
		contents:    contents,
		invalidator: invalidator,
		notifier:    notifier,
		locks:       map[int]*sync.Mutex{},
	}
}

// playlistLock serializes resync passes per playlist so a stale pass can
// never overwrite a newer result.
func (m *Materializer) playlistLock(playlistID int) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[playlistID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[playlistID] = l
	}
	return l
}

// materialize builds the ordered content rows for a playlist, without a
// screen assigned yet. Items whose media is missing or unusable are
// skipped; a single dangling reference must not blank the whole screen.
func (m *Materializer) materialize(ctx context.Context, playlistID int) ([]model.Content, int, error) {
	items, err := m.playlists.ListItems(ctx, playlistID)
	if err != nil {
		return nil, 0, fmt.Errorf("list items for playlist %d: %w", playlistID, err)
	}

	rows := make([]model.Content, 0, len(items))
	skipped := 0
	for _, it := range items {
		media, err := m.catalog.GetMedia(ctx, it.MediaID)
		if err != nil {
			if errors.Is(err, ErrMediaNotFound) {
				log.Warn().Int("playlist_id", playlistID).Int("media_id", it.MediaID).
					Msg("playlist item points at missing media, skipping")
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("resolve media %d: %w", it.MediaID, err)
		}
		if !IsUsable(media) {
			log.Debug().Int("playlist_id", playlistID).Int("media_id", it.MediaID).
				Str("status", media.Status).Msg("skipping unusable media")
			skipped++
			continue
		}

		item := it
		rows = append(rows, model.Content{
			MediaID:      it.MediaID,
			Position:     len(rows),
			DisplayTime:  EffectiveDisplaySeconds(media, it.DisplayTime),
			SourceItemID: &item.ID,
		})
	}
	return rows, skipped, nil
}

// Resync replaces the content of every screen bound to the playlist.
// Screens are replaced independently; one screen's storage failure is
// reported in its ScreenResult and does not stop the others.
func (m *Materializer) Resync(ctx context.Context, playlistID int) (ResyncResult, error) {
	lock := m.playlistLock(playlistID)
	lock.Lock()
	defer lock.Unlock()

	result := ResyncResult{PlaylistID: playlistID}

	if _, err := m.playlists.GetPlaylist(ctx, playlistID); err != nil {
		return result, err
	}

	rows, skipped, err := m.materialize(ctx, playlistID)
	if err != nil {
		return result, err
	}
	result.ItemsSkipped = skipped

	bindings, err := m.screens.ListBindings(ctx, playlistID)
	if err != nil {
		return result, fmt.Errorf("list bindings for playlist %d: %w", playlistID, err)
	}
	if len(bindings) == 0 {
		return result, nil
	}

	var (
		resMu   sync.Mutex
		results = make([]ScreenResult, 0, len(bindings))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resyncFanout)
	for _, b := range bindings {
		binding := b
		g.Go(func() error {
			sr := m.replaceScreen(gctx, binding.ScreenID, rows)
			resMu.Lock()
			results = append(results, sr)
			resMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].ScreenID < results[j].ScreenID })
	for _, sr := range results {
		if sr.Err != nil {
			result.ScreensFailed++
		} else {
			result.ScreensUpdated++
			result.ItemsWritten += sr.Written
		}
	}
	result.Screens = results

	log.Info().Int("playlist_id", playlistID).
		Int("screens_updated", result.ScreensUpdated).
		Int("screens_failed", result.ScreensFailed).
		Int("items_written", result.ItemsWritten).
		Int("items_skipped", result.ItemsSkipped).
		Msg("playlist resynced")
	return result, nil
}

// replaceScreen swaps one screen's content for the given rows.
func (m *Materializer) replaceScreen(ctx context.Context, screenID int, rows []model.Content) ScreenResult {
	screenRows := make([]model.Content, len(rows))
	copy(screenRows, rows)
	for i := range screenRows {
		screenRows[i].ScreenID = screenID
	}

	written, err := m.contents.ReplaceContents(ctx, screenID, screenRows)
	if err != nil {
		log.Error().Err(err).Int("screen_id", screenID).Msg("failed to replace screen contents")
		return ScreenResult{ScreenID: screenID, Err: err, Error: err.Error()}
	}
	m.afterContentChange(ctx, screenID)
	return ScreenResult{ScreenID: screenID, Written: written}
}

func (m *Materializer) afterContentChange(ctx context.Context, screenID int) {
	if m.invalidator != nil {
		m.invalidator.InvalidateScreens(ctx, []int{screenID})
	}
	if m.notifier != nil {
		m.notifier.ScreenRefreshed(screenID)
	}
}

// BindScreen assigns the playlist to the screen, drops any prior ad-hoc
// content and materializes the playlist onto that screen only.
func (m *Materializer) BindScreen(ctx context.Context, screenID, playlistID int) (ResyncResult, error) {
	result := ResyncResult{PlaylistID: playlistID}

	if _, err := m.screens.GetScreen(ctx, screenID); err != nil {
		return result, err
	}
	if _, err := m.playlists.GetPlaylist(ctx, playlistID); err != nil {
		return result, err
	}

	lock := m.playlistLock(playlistID)
	lock.Lock()
	defer lock.Unlock()

	if err := m.screens.UpsertBinding(ctx, screenID, playlistID); err != nil {
		return result, fmt.Errorf("bind screen %d to playlist %d: %w", screenID, playlistID, err)
	}

	rows, skipped, err := m.materialize(ctx, playlistID)
	if err != nil {
		return result, err
	}
	result.ItemsSkipped = skipped

	sr := m.replaceScreen(ctx, screenID, rows)
	result.Screens = []ScreenResult{sr}
	if sr.Err != nil {
		result.ScreensFailed = 1
		return result, sr.Err
	}
	result.ScreensUpdated = 1
	result.ItemsWritten = sr.Written

	log.Info().Int("screen_id", screenID).Int("playlist_id", playlistID).
		Int("items_written", sr.Written).Msg("screen bound to playlist")
	return result, nil
}

// UnbindScreen removes the binding and clears the screen. The screen stays
// empty; ad-hoc mode resumes only through explicit screen-level edits.
func (m *Materializer) UnbindScreen(ctx context.Context, screenID int) error {
	if _, err := m.screens.GetScreen(ctx, screenID); err != nil {
		return err
	}
	removed, err := m.screens.DeleteBinding(ctx, screenID)
	if err != nil {
		return fmt.Errorf("unbind screen %d: %w", screenID, err)
	}
	if !removed {
		return ErrBindingNotFound
	}
	if err := m.contents.ClearContents(ctx, screenID); err != nil {
		return fmt.Errorf("clear contents for screen %d: %w", screenID, err)
	}
	m.afterContentChange(ctx, screenID)
	log.Info().Int("screen_id", screenID).Msg("screen unbound from playlist")
	return nil
}
