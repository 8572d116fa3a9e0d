package engine

import "errors"

// Validation errors are returned before any materialization is attempted.
// Referential gaps found during a resync are never errors; they only show
// up in the ResyncResult counters.
var (
	ErrMediaNotFound    = errors.New("media not found")
	ErrPlaylistNotFound = errors.New("playlist not found")
	ErrScreenNotFound   = errors.New("screen not found")
	ErrItemNotFound     = errors.New("playlist item not found")
	ErrContentNotFound  = errors.New("content not found")
	ErrBindingNotFound  = errors.New("screen has no playlist bound")

	// Conflicts: the caller decides whether to retry or switch operation.
	ErrDuplicateItem = errors.New("media already in playlist")
	ErrScreenBound   = errors.New("screen is bound to a playlist")
)

// IsNotFound reports whether err is any of the missing-entity errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMediaNotFound) ||
		errors.Is(err, ErrPlaylistNotFound) ||
		errors.Is(err, ErrScreenNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrContentNotFound) ||
		errors.Is(err, ErrBindingNotFound)
}
