package model

import "time"

// Content is one materialized row of a screen's ordered view. For a bound
// screen the rows are a pure derivation of the playlist's items
// (SourceItemID set); for an unbound screen they are ad-hoc rows edited
// directly (SourceItemID nil). DisplayTime nil means the player runs the
// media for its natural length (videos).
type Content struct {
	ID           int       `db:"id"             json:"id"`
	ScreenID     int       `db:"screen_id"      json:"screen_id"`
	MediaID      int       `db:"media_id"       json:"media_id"`
	Position     int       `db:"position"       json:"position"`
	DisplayTime  *int      `db:"display_time"   json:"display_time,omitempty"`
	SourceItemID *int      `db:"source_item_id" json:"source_item_id,omitempty"`
	Generation   int       `db:"generation"     json:"-"`
	CreatedAt    time.Time `db:"created_at"     json:"created_at"`
}
