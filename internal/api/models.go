package api

import "time"

// TrackDTO is a track as returned by /Tracks. Field matching is
// case-insensitive, so both PascalCase and camelCase payloads decode.
type TrackDTO struct {
	ID            string  `json:"Id"`
	Title         string  `json:"Title"`
	Description   string  `json:"Description"`
	FileURL       string  `json:"FileUrl"`
	PreviewURL    string  `json:"PreviewUrl"`
	Duration      float64 `json:"Duration"`
	UploadedAt    string  `json:"UploadedAt"`
	UserID        string  `json:"UserId"`
	GenreID       string  `json:"GenreId"`
	ListenCount   int     `json:"ListenCount"`
	DownloadCount int     `json:"DownloadCount"`
	Likes         int     `json:"Likes"`
	Comments      int     `json:"Comments"`
	GenreName     string  `json:"GenreName"`
	UserName      string  `json:"UserName"`
}

// Uploaded parses UploadedAt.
func (t *TrackDTO) Uploaded() (time.Time, bool) {
	return parseTimestamp(t.UploadedAt)
}

// SearchTrack is a track hit in search results.
type SearchTrack struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	FileURL     string  `json:"fileUrl,omitempty"`
	PreviewURL  string  `json:"previewUrl,omitempty"`
	Duration    float64 `json:"duration,omitempty"`
	UserID      string  `json:"userId,omitempty"`
}

// SearchUser is a user hit in search results.
type SearchUser struct {
	ID        string  `json:"id"`
	UserName  string  `json:"userName"`
	AvatarURL *string `json:"avatarUrl"`
}

// SearchPlaylist is a playlist hit in search results.
type SearchPlaylist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	UserID      string  `json:"userId"`
	CoverURL    *string `json:"coverUrl,omitempty"`
}

// SearchResults is the response of /Search.
type SearchResults struct {
	Tracks    []SearchTrack    `json:"tracks"`
	Users     []SearchUser     `json:"users"`
	Playlists []SearchPlaylist `json:"playlists"`
}

// Empty reports whether the search found nothing.
func (r *SearchResults) Empty() bool {
	return len(r.Tracks) == 0 && len(r.Users) == 0 && len(r.Playlists) == 0
}

// Genre is an entry of /Genres.
type Genre struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"trackCount"`
}

// Playlist is a playlist summary on a user profile.
type Playlist struct {
	ID          string `json:"Id"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	UserID      string `json:"UserId"`
	CreatedAt   string `json:"CreatedAt"`
	UserName    string `json:"UserName"`
	TrackCount  int    `json:"TrackCount"`
}

// Created parses CreatedAt.
func (p *Playlist) Created() (time.Time, bool) {
	return parseTimestamp(p.CreatedAt)
}

// UserProfile is the response of /Users/{id}.
type UserProfile struct {
	ID              string     `json:"id"`
	UserName        string     `json:"userName"`
	AvatarURL       *string    `json:"avatarUrl"`
	Bio             *string    `json:"bio"`
	FollowersCount  int        `json:"followersCount"`
	FollowingsCount int        `json:"followingsCount"`
	Playlists       []Playlist `json:"playlists"`
	Tracks          []TrackDTO `json:"tracks"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts RFC 3339 and the zone-less forms the backend emits.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
