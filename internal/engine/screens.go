package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/elektrobil/bulutvizyon/internal/model"
)

// ScreenService edits the content of unbound screens directly (ad-hoc
// mode). While a playlist binding exists the materializer owns the rows and
// every operation here fails with ErrScreenBound.
type ScreenService struct {
	screens     ScreenRepo
	contents    ContentRepo
	catalog     MediaCatalog
	invalidator Invalidator
	notifier    Notifier
}

func NewScreenService(screens ScreenRepo, contents ContentRepo, catalog MediaCatalog, invalidator Invalidator, notifier Notifier) *ScreenService {
	return &ScreenService{
		screens:     screens,
		contents:    contents,
		catalog:     catalog,
		invalidator: invalidator,
		notifier:    notifier,
	}
}

func (s *ScreenService) ensureUnbound(ctx context.Context, screenID int) error {
	if _, err := s.screens.GetScreen(ctx, screenID); err != nil {
		return err
	}
	_, err := s.screens.GetBinding(ctx, screenID)
	if err == nil {
		return ErrScreenBound
	}
	if errors.Is(err, ErrBindingNotFound) {
		return nil
	}
	return fmt.Errorf("check binding for screen %d: %w", screenID, err)
}

func (s *ScreenService) afterChange(ctx context.Context, screenID int) {
	if s.invalidator != nil {
		s.invalidator.InvalidateScreens(ctx, []int{screenID})
	}
	if s.notifier != nil {
		s.notifier.ScreenRefreshed(screenID)
	}
}

// AddContent appends one media to the screen's ad-hoc list. The display
// time follows the same resolution rules as materialized rows.
func (s *ScreenService) AddContent(ctx context.Context, screenID, mediaID int, displayTime *int) (model.Content, error) {
	if err := s.ensureUnbound(ctx, screenID); err != nil {
		return model.Content{}, err
	}
	media, err := s.catalog.GetMedia(ctx, mediaID)
	if err != nil {
		return model.Content{}, err
	}

	existing, err := s.contents.ListContents(ctx, screenID)
	if err != nil {
		return model.Content{}, fmt.Errorf("list contents for screen %d: %w", screenID, err)
	}

	row, err := s.contents.InsertContent(ctx, model.Content{
		ScreenID:    screenID,
		MediaID:     mediaID,
		Position:    len(existing),
		DisplayTime: EffectiveDisplaySeconds(media, displayTime),
	})
	if err != nil {
		return model.Content{}, fmt.Errorf("insert content for screen %d: %w", screenID, err)
	}
	s.afterChange(ctx, screenID)
	log.Info().Int("screen_id", screenID).Int("media_id", mediaID).Msg("content added to screen")
	return row, nil
}

// RemoveContent deletes one ad-hoc row; absent rows are a false no-op.
func (s *ScreenService) RemoveContent(ctx context.Context, screenID, contentID int) (bool, error) {
	if err := s.ensureUnbound(ctx, screenID); err != nil {
		return false, err
	}
	removed, err := s.contents.DeleteContent(ctx, screenID, contentID)
	if err != nil {
		return false, fmt.Errorf("delete content %d: %w", contentID, err)
	}
	if removed {
		s.afterChange(ctx, screenID)
	}
	return removed, nil
}

// SetContentDisplayTime re-resolves one ad-hoc row's display time against
// the media's kind and default (videos stay unbounded).
func (s *ScreenService) SetContentDisplayTime(ctx context.Context, screenID, contentID int, displayTime *int) error {
	if err := s.ensureUnbound(ctx, screenID); err != nil {
		return err
	}
	rows, err := s.contents.ListContents(ctx, screenID)
	if err != nil {
		return fmt.Errorf("list contents for screen %d: %w", screenID, err)
	}
	var row *model.Content
	for i := range rows {
		if rows[i].ID == contentID {
			row = &rows[i]
			break
		}
	}
	if row == nil {
		return ErrContentNotFound
	}
	media, err := s.catalog.GetMedia(ctx, row.MediaID)
	if err != nil {
		return err
	}
	found, err := s.contents.UpdateContentDisplayTime(ctx, screenID, contentID, EffectiveDisplaySeconds(media, displayTime))
	if err != nil {
		return fmt.Errorf("update content %d display time: %w", contentID, err)
	}
	if !found {
		return ErrContentNotFound
	}
	s.afterChange(ctx, screenID)
	return nil
}

// ReorderContents assigns new positions following the given content id
// order; unknown ids are skipped with a warning.
func (s *ScreenService) ReorderContents(ctx context.Context, screenID int, contentIDs []int) (int, error) {
	if err := s.ensureUnbound(ctx, screenID); err != nil {
		return 0, err
	}
	updated, err := s.contents.SetContentPositions(ctx, screenID, contentIDs)
	if err != nil {
		return 0, fmt.Errorf("reorder contents for screen %d: %w", screenID, err)
	}
	skipped := len(contentIDs) - updated
	if skipped > 0 {
		log.Warn().Int("screen_id", screenID).Int("skipped", skipped).
			Msg("reorder referenced contents not on screen")
	}
	s.afterChange(ctx, screenID)
	return skipped, nil
}
