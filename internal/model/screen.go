package model

import "time"

const (
	ScreenStatusActive   = "active"
	ScreenStatusInactive = "inactive"
)

// Screen is a display endpoint. ContentGeneration selects which generation
// of content rows is live for the screen; replacement passes write a new
// generation and repoint it so readers never see a half-written list.
type Screen struct {
	ID                int       `db:"id"                 json:"id"`
	LegacyRef         *string   `db:"legacy_ref"         json:"legacy_ref,omitempty"`
	Name              string    `db:"name"               json:"name"`
	Location          *string   `db:"location"           json:"location,omitempty"`
	APIKey            string    `db:"api_key"            json:"-"`
	Orientation       string    `db:"orientation"        json:"orientation"`
	Resolution        string    `db:"resolution"         json:"resolution"`
	RefreshRate       int       `db:"refresh_rate"       json:"refresh_rate"`
	Status            string    `db:"status"             json:"status"`
	ContentGeneration int       `db:"content_generation" json:"-"`
	CreatedBy         int       `db:"created_by"         json:"created_by"`
	CreatedAt         time.Time `db:"created_at"         json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"         json:"updated_at"`
}

// ScreenBinding assigns a playlist to a screen. While a binding exists the
// screen's content rows are owned by the materializer; ad-hoc screen-level
// edits are rejected.
type ScreenBinding struct {
	ID         int       `db:"id"          json:"id"`
	ScreenID   int       `db:"screen_id"   json:"screen_id"`
	PlaylistID int       `db:"playlist_id" json:"playlist_id"`
	AssignedAt time.Time `db:"assigned_at" json:"assigned_at"`
}
