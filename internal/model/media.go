package model

import "time"

// Media kinds.
const (
	MediaKindImage   = "image"
	MediaKindVideo   = "video"
	MediaKindWebpage = "webpage"
	MediaKindCustom  = "custom"
)

// Media statuses. Only active media is served to screens.
const (
	MediaStatusActive     = "active"
	MediaStatusPending    = "pending"
	MediaStatusInactive   = "inactive"
	MediaStatusProcessing = "processing"
	MediaStatusDeleted    = "deleted"
)

// Media is a content asset. Upload and post-processing live outside this
// service; rows arrive already populated and flip to active when usable.
type Media struct {
	ID          int       `db:"id"           json:"id"`
	LegacyRef   *string   `db:"legacy_ref"   json:"legacy_ref,omitempty"`
	Title       string    `db:"title"        json:"title"`
	Kind        string    `db:"kind"         json:"kind"`
	Status      string    `db:"status"       json:"status"`
	FileURL     string    `db:"file_url"     json:"file_url"`
	Width       *int      `db:"width"        json:"width,omitempty"`
	Height      *int      `db:"height"       json:"height,omitempty"`
	Duration    *int      `db:"duration"     json:"duration,omitempty"`
	DisplayTime *int      `db:"display_time" json:"display_time,omitempty"`
	IsPublic    bool      `db:"is_public"    json:"is_public"`
	CreatedBy   int       `db:"created_by"   json:"created_by"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}
