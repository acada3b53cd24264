package models

// RowAction identifies the intent a tapped row raises.
type RowAction int

const (
	RowActionPlay RowAction = iota // raise PlayMedia with the row uri
	RowActionOpen                  // raise OpenPlaylist with the row id
)

func (a RowAction) String() string {
	switch a {
	case RowActionPlay:
		return "play_media"
	case RowActionOpen:
		return "open_playlist"
	default:
		return ""
	}
}

// TableRow is the display-ready projection of one media item.
//
// Rows are recomputed in full on every settle and replace the prior sequence
// atomically in the store; they are never mutated in place.
type TableRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"img"`
	Description string    `json:"description"`
	URI         string    `json:"uri"`
	IsActive    bool      `json:"is_active"`
	Liked       bool      `json:"liked"`   // like-toggle affordance, tracks only
	Playing     bool      `json:"playing"` // play/pause affordance, playlist rows only
	Action      RowAction `json:"row_action"`
}

// Listing is the structural union the table builder accepts: exactly one of
// Tracks or Playlists is expected to be non-nil. There is no explicit type
// discriminator; shape is detected by presence, mirroring the wire payloads.
type Listing struct {
	Tracks    []Track
	Playlists []PlaylistEntry
}

// TrackListing wraps a tracks payload as a Listing.
func TrackListing(r *TracksResponse) Listing {
	if r == nil {
		return Listing{}
	}
	return Listing{Tracks: r.Tracks}
}

// ViewListing wraps a browsing view payload as a Listing.
func ViewListing(r *ViewResponse) Listing {
	if r == nil {
		return Listing{}
	}
	return Listing{Playlists: r.Playlists}
}
