package model

import "time"

const (
	PlaylistStatusActive   = "active"
	PlaylistStatusInactive = "inactive"
)

// Playlist is a named, owned, ordered collection of media references.
// MediaCount is denormalized; every successful membership mutation recounts
// it, and CounterMaintainer can repair it if it ever drifts.
type Playlist struct {
	ID          int            `db:"id"          json:"id"`
	LegacyRef   *string        `db:"legacy_ref"  json:"legacy_ref,omitempty"`
	Name        string         `db:"name"        json:"name"`
	Description *string        `db:"description" json:"description,omitempty"`
	Status      string         `db:"status"      json:"status"`
	IsPublic    bool           `db:"is_public"   json:"is_public"`
	MediaCount  int            `db:"media_count" json:"media_count"`
	CreatedBy   int            `db:"created_by"  json:"created_by"`
	CreatedAt   time.Time      `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"  json:"updated_at"`
	Items       []PlaylistItem `db:"-"           json:"items,omitempty"`
}

// PlaylistItem is one (playlist, media) membership. At most one item may
// exist per pair. DisplayTime overrides the media default when set.
type PlaylistItem struct {
	ID          int       `db:"id"           json:"id"`
	PlaylistID  int       `db:"playlist_id"  json:"playlist_id"`
	MediaID     int       `db:"media_id"     json:"media_id"`
	Position    int       `db:"position"     json:"position"`
	DisplayTime *int      `db:"display_time" json:"display_time,omitempty"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}
