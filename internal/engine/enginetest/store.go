// Package enginetest provides an in-memory store implementing the engine's
// persistence ports and the full db.Store surface, for tests that exercise
// the synchronization logic and the API layer without Postgres.
package enginetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/elektrobil/bulutvizyon/internal/db"
	"github.com/elektrobil/bulutvizyon/internal/engine"
	"github.com/elektrobil/bulutvizyon/internal/model"
)

// Store keeps everything in maps and mirrors the ordering and error
// contracts of the Postgres store, including generation-swapped content
// replacement. ReplaceErr lets tests inject a per-screen storage failure.
type Store struct {
	mu sync.Mutex

	Media     map[int]model.Media
	Playlists map[int]model.Playlist
	Items     []model.PlaylistItem
	Screens   map[int]model.Screen
	Bindings  map[int]model.ScreenBinding // keyed by screen id
	Contents  []model.Content

	ReplaceErr map[int]error // screen id -> error to fail ReplaceContents with

	nextID int
}

var _ engine.MediaAdmin = (*Store)(nil)
var _ engine.PlaylistRepo = (*Store)(nil)
var _ engine.ScreenRepo = (*Store)(nil)
var _ engine.ContentRepo = (*Store)(nil)
var _ engine.LegacyRefStore = (*Store)(nil)
var _ db.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		Media:      map[int]model.Media{},
		Playlists:  map[int]model.Playlist{},
		Screens:    map[int]model.Screen{},
		Bindings:   map[int]model.ScreenBinding{},
		ReplaceErr: map[int]error{},
	}
}

func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

// ----- seeding helpers -----

func (s *Store) SeedMedia(m model.Media) model.Media {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.id()
	}
	if m.Status == "" {
		m.Status = model.MediaStatusActive
	}
	s.Media[m.ID] = m
	return m
}

func (s *Store) SeedPlaylist(p model.Playlist) model.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.id()
	}
	if p.Status == "" {
		p.Status = model.PlaylistStatusActive
	}
	s.Playlists[p.ID] = p
	return p
}

func (s *Store) SeedScreen(sc model.Screen) model.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.ID == 0 {
		sc.ID = s.id()
	}
	if sc.Status == "" {
		sc.Status = model.ScreenStatusActive
	}
	s.Screens[sc.ID] = sc
	return sc
}

// ----- MediaAdmin -----

func (s *Store) GetMedia(_ context.Context, id int) (model.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.Media[id]
	if !ok {
		return model.Media{}, engine.ErrMediaNotFound
	}
	return m, nil
}

func (s *Store) SetMediaStatus(_ context.Context, id int, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.Media[id]
	if !ok {
		return engine.ErrMediaNotFound
	}
	m.Status = status
	s.Media[id] = m
	return nil
}

// ----- PlaylistRepo -----

func (s *Store) GetPlaylist(_ context.Context, id int) (model.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Playlists[id]
	if !ok {
		return model.Playlist{}, engine.ErrPlaylistNotFound
	}
	return p, nil
}

func (s *Store) ListPlaylistIDs(_ context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.Playlists))
	for id := range s.Playlists {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *Store) ListItems(_ context.Context, playlistID int) ([]model.PlaylistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.PlaylistItem
	for _, it := range s.Items {
		if it.PlaylistID == playlistID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].MediaID < out[j].MediaID
	})
	return out, nil
}

func (s *Store) InsertItem(_ context.Context, playlistID, mediaID, position int, displayTime *int) (model.PlaylistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.Items {
		if it.PlaylistID == playlistID && it.MediaID == mediaID {
			return model.PlaylistItem{}, engine.ErrDuplicateItem
		}
	}
	item := model.PlaylistItem{
		ID:          s.id(),
		PlaylistID:  playlistID,
		MediaID:     mediaID,
		Position:    position,
		DisplayTime: displayTime,
		CreatedAt:   time.Now(),
	}
	s.Items = append(s.Items, item)
	return item, nil
}

func (s *Store) UpdateItemDisplayTime(_ context.Context, playlistID, mediaID int, displayTime *int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.Items {
		if it.PlaylistID == playlistID && it.MediaID == mediaID {
			s.Items[i].DisplayTime = displayTime
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteItem(_ context.Context, playlistID, mediaID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.Items {
		if it.PlaylistID == playlistID && it.MediaID == mediaID {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteItems(_ context.Context, playlistID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.Items[:0]
	removed := 0
	for _, it := range s.Items {
		if it.PlaylistID == playlistID {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	s.Items = kept
	return removed, nil
}

func (s *Store) DeleteItemsForMedia(_ context.Context, mediaID int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.Items[:0]
	seen := map[int]bool{}
	var playlists []int
	for _, it := range s.Items {
		if it.MediaID == mediaID {
			if !seen[it.PlaylistID] {
				seen[it.PlaylistID] = true
				playlists = append(playlists, it.PlaylistID)
			}
			continue
		}
		kept = append(kept, it)
	}
	s.Items = kept
	sort.Ints(playlists)
	return playlists, nil
}

func (s *Store) SetItemPositions(_ context.Context, playlistID int, mediaIDs []int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.Items {
		if it.PlaylistID == playlistID {
			s.Items[i].Position += len(mediaIDs)
		}
	}
	updated := 0
	for idx, mediaID := range mediaIDs {
		for i, it := range s.Items {
			if it.PlaylistID == playlistID && it.MediaID == mediaID {
				s.Items[i].Position = idx
				updated++
			}
		}
	}
	return updated, nil
}

func (s *Store) SetMediaCount(_ context.Context, playlistID, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Playlists[playlistID]
	if !ok {
		return engine.ErrPlaylistNotFound
	}
	p.MediaCount = count
	s.Playlists[playlistID] = p
	return nil
}

func (s *Store) DeletePlaylist(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Playlists, id)
	return nil
}

// ----- ScreenRepo -----

func (s *Store) GetScreen(_ context.Context, id int) (model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.Screens[id]
	if !ok {
		return model.Screen{}, engine.ErrScreenNotFound
	}
	return sc, nil
}

func (s *Store) GetBinding(_ context.Context, screenID int) (model.ScreenBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.Bindings[screenID]
	if !ok {
		return model.ScreenBinding{}, engine.ErrBindingNotFound
	}
	return b, nil
}

func (s *Store) ListBindings(_ context.Context, playlistID int) ([]model.ScreenBinding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ScreenBinding
	for _, b := range s.Bindings {
		if b.PlaylistID == playlistID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScreenID < out[j].ScreenID })
	return out, nil
}

func (s *Store) UpsertBinding(_ context.Context, screenID, playlistID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.Bindings[screenID]
	if !ok {
		b = model.ScreenBinding{ID: s.id(), ScreenID: screenID}
	}
	b.PlaylistID = playlistID
	b.AssignedAt = time.Now()
	s.Bindings[screenID] = b
	return nil
}

func (s *Store) DeleteBinding(_ context.Context, screenID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Bindings[screenID]; !ok {
		return false, nil
	}
	delete(s.Bindings, screenID)
	return true, nil
}

func (s *Store) DeleteScreen(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Screens, id)
	return nil
}

// ----- ContentRepo -----

func (s *Store) ListContents(_ context.Context, screenID int) ([]model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveContentsLocked(screenID), nil
}

func (s *Store) liveContentsLocked(screenID int) []model.Content {
	gen := s.Screens[screenID].ContentGeneration
	var out []model.Content
	for _, c := range s.Contents {
		if c.ScreenID == screenID && c.Generation == gen {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) ReplaceContents(_ context.Context, screenID int, rows []model.Content) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ReplaceErr[screenID]; err != nil {
		return 0, err
	}
	sc, ok := s.Screens[screenID]
	if !ok {
		return 0, engine.ErrScreenNotFound
	}
	gen := sc.ContentGeneration + 1
	for _, r := range rows {
		r.ID = s.id()
		r.ScreenID = screenID
		r.Generation = gen
		r.CreatedAt = time.Now()
		s.Contents = append(s.Contents, r)
	}
	sc.ContentGeneration = gen
	s.Screens[screenID] = sc
	kept := s.Contents[:0]
	for _, c := range s.Contents {
		if c.ScreenID == screenID && c.Generation < gen {
			continue
		}
		kept = append(kept, c)
	}
	s.Contents = kept
	return len(rows), nil
}

func (s *Store) ClearContents(_ context.Context, screenID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.Contents[:0]
	for _, c := range s.Contents {
		if c.ScreenID != screenID {
			kept = append(kept, c)
		}
	}
	s.Contents = kept
	return nil
}

func (s *Store) InsertContent(_ context.Context, row model.Content) (model.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.Screens[row.ScreenID]
	if !ok {
		return model.Content{}, engine.ErrScreenNotFound
	}
	row.ID = s.id()
	row.Generation = sc.ContentGeneration
	row.CreatedAt = time.Now()
	s.Contents = append(s.Contents, row)
	return row, nil
}

func (s *Store) DeleteContent(_ context.Context, screenID, contentID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.Contents {
		if c.ID == contentID && c.ScreenID == screenID {
			s.Contents = append(s.Contents[:i], s.Contents[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateContentDisplayTime(_ context.Context, screenID, contentID int, displayTime *int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.Contents {
		if c.ID == contentID && c.ScreenID == screenID {
			s.Contents[i].DisplayTime = displayTime
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SetContentPositions(_ context.Context, screenID int, contentIDs []int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.Contents {
		if c.ScreenID == screenID {
			s.Contents[i].Position += len(contentIDs)
		}
	}
	updated := 0
	for idx, contentID := range contentIDs {
		for i, c := range s.Contents {
			if c.ScreenID == screenID && c.ID == contentID {
				s.Contents[i].Position = idx
				updated++
			}
		}
	}
	return updated, nil
}

func (s *Store) DeleteContentsForMedia(_ context.Context, mediaID int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.Contents[:0]
	seen := map[int]bool{}
	var screens []int
	for _, c := range s.Contents {
		if c.MediaID == mediaID && c.SourceItemID == nil {
			if !seen[c.ScreenID] {
				seen[c.ScreenID] = true
				screens = append(screens, c.ScreenID)
			}
			continue
		}
		kept = append(kept, c)
	}
	s.Contents = kept
	sort.Ints(screens)
	return screens, nil
}

// ----- administration surface -----

func (s *Store) CreateMedia(_ context.Context, m model.Media) (model.Media, error) {
	return s.SeedMedia(m), nil
}

func (s *Store) ListMedia(_ context.Context) ([]model.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Media, 0, len(s.Media))
	for _, m := range s.Media {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreatePlaylist(_ context.Context, name string, description *string, isPublic bool, createdBy int) (model.Playlist, error) {
	return s.SeedPlaylist(model.Playlist{
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
		CreatedBy:   createdBy,
	}), nil
}

func (s *Store) ListPlaylists(_ context.Context) ([]model.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Playlist, 0, len(s.Playlists))
	for _, p := range s.Playlists {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdatePlaylist(_ context.Context, id int, name, description *string, isPublic *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Playlists[id]
	if !ok {
		return engine.ErrPlaylistNotFound
	}
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = description
	}
	if isPublic != nil {
		p.IsPublic = *isPublic
	}
	s.Playlists[id] = p
	return nil
}

func (s *Store) CreateScreen(_ context.Context, name string, location *string, orientation, resolution string, refreshRate, createdBy int) (model.Screen, error) {
	sc := s.SeedScreen(model.Screen{
		Name:        name,
		Location:    location,
		Orientation: orientation,
		Resolution:  resolution,
		RefreshRate: refreshRate,
		CreatedBy:   createdBy,
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	sc.APIKey = fmt.Sprintf("key-%08x", sc.ID)
	s.Screens[sc.ID] = sc
	return sc, nil
}

func (s *Store) ListScreens(_ context.Context) ([]model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Screen, 0, len(s.Screens))
	for _, sc := range s.Screens {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetScreenByAPIKey(_ context.Context, apiKey string) (model.Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.Screens {
		if sc.APIKey == apiKey {
			return sc, nil
		}
	}
	return model.Screen{}, engine.ErrScreenNotFound
}

// ----- LegacyRefStore -----

func (s *Store) MediaIDByLegacyRef(_ context.Context, ref string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.Media {
		if m.LegacyRef != nil && *m.LegacyRef == ref {
			return id, nil
		}
	}
	return 0, engine.ErrMediaNotFound
}

func (s *Store) PlaylistIDByLegacyRef(_ context.Context, ref string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.Playlists {
		if p.LegacyRef != nil && *p.LegacyRef == ref {
			return id, nil
		}
	}
	return 0, engine.ErrPlaylistNotFound
}

func (s *Store) ScreenIDByLegacyRef(_ context.Context, ref string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sc := range s.Screens {
		if sc.LegacyRef != nil && *sc.LegacyRef == ref {
			return id, nil
		}
	}
	return 0, engine.ErrScreenNotFound
}
