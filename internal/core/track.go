package core

// Track holds the metadata the player needs for one playable track.
// A Track is treated as immutable once handed to a Player; selecting a
// different track replaces it wholesale.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	CoverURL string `json:"cover_url"`
	MediaURL string `json:"media_url"`
}

// Equal reports whether two tracks carry identical metadata.
// Two nil tracks are equal.
func (t *Track) Equal(other *Track) bool {
	if t == nil || other == nil {
		return t == nil && other == nil
	}
	return *t == *other
}

// DisplayName returns "Artist - Title", or just the title when the artist is unknown.
func (t *Track) DisplayName() string {
	if t == nil {
		return ""
	}
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}
