package api

import (
	"context"
	"strings"
)

// Search finds tracks, users and playlists matching query. A blank query
// returns empty results without contacting the server.
func (c *Client) Search(ctx context.Context, query string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResults{Tracks: []SearchTrack{}, Users: []SearchUser{}, Playlists: []SearchPlaylist{}}, nil
	}

	var resp SearchResults
	if err := c.Get(ctx, BuildURL("/Search", map[string]string{"query": query}), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
