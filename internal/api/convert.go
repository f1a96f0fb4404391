package api

import (
	"net/url"

	"github.com/samber/lo"

	"github.com/tessro/encore/internal/core"
)

// TrackFromDTO converts a track record into player metadata. Relative
// file and cover URLs are resolved against the API base URL.
func (c *Client) TrackFromDTO(dto *TrackDTO) *core.Track {
	return &core.Track{
		ID:       dto.ID,
		Title:    dto.Title,
		Artist:   dto.UserName,
		CoverURL: c.absolute(dto.PreviewURL),
		MediaURL: c.absolute(dto.FileURL),
	}
}

// TrackFromSearch converts a search hit. Search hits carry no artist name.
func (c *Client) TrackFromSearch(hit SearchTrack) *core.Track {
	return &core.Track{
		ID:       hit.ID,
		Title:    hit.Title,
		CoverURL: c.absolute(hit.PreviewURL),
		MediaURL: c.absolute(hit.FileURL),
	}
}

// TracksFromProfile converts the tracks on a profile, filling in the
// profile's user name where the records omit it.
func (c *Client) TracksFromProfile(p *UserProfile) []*core.Track {
	return lo.Map(p.Tracks, func(dto TrackDTO, _ int) *core.Track {
		if dto.UserName == "" {
			dto.UserName = p.UserName
		}
		return c.TrackFromDTO(&dto)
	})
}

func (c *Client) absolute(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	return c.baseURL.ResolveReference(u).String()
}
