package admin

// Request payloads for the authoring surface. Entity references in URLs and
// bodies are strings so the identifier normalizer can accept either the
// canonical id or a legacy reference during the migration window.

type createPlaylistRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	IsPublic    bool    `json:"is_public"`
}

type updatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

type addItemRequest struct {
	MediaRef    string `json:"media_ref" binding:"required"`
	DisplayTime *int   `json:"display_time"`
}

type displayTimeRequest struct {
	DisplayTime *int `json:"display_time"`
}

type reorderRequest struct {
	MediaRefs []string `json:"media_refs" binding:"required"`
}

type createMediaRequest struct {
	Title       string `json:"title" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=image video webpage custom"`
	FileURL     string `json:"file_url" binding:"required"`
	Width       *int   `json:"width"`
	Height      *int   `json:"height"`
	Duration    *int   `json:"duration"`
	DisplayTime *int   `json:"display_time"`
	IsPublic    bool   `json:"is_public"`
}

type createScreenRequest struct {
	Name        string  `json:"name" binding:"required"`
	Location    *string `json:"location"`
	Orientation string  `json:"orientation"`
	Resolution  string  `json:"resolution"`
	RefreshRate int     `json:"refresh_rate"`
}

type bindPlaylistRequest struct {
	PlaylistRef string `json:"playlist_ref" binding:"required"`
}

type addScreenContentRequest struct {
	MediaRef    string `json:"media_ref" binding:"required"`
	DisplayTime *int   `json:"display_time"`
}

type reorderContentsRequest struct {
	ContentIDs []int `json:"content_ids" binding:"required"`
}
