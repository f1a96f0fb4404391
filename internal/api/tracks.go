package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tessro/encore/internal/core"
	apperrors "github.com/tessro/encore/internal/errors"
)

// TrackLookup resolves track IDs to playable metadata.
type TrackLookup interface {
	LookupTrack(ctx context.Context, id string) (*core.Track, error)
}

var _ TrackLookup = (*Client)(nil)

// GetTrack returns the raw track record.
func (c *Client) GetTrack(ctx context.Context, id string) (*TrackDTO, error) {
	if id == "" {
		return nil, fmt.Errorf("track id cannot be empty")
	}

	var dto TrackDTO
	if err := c.Get(ctx, "/Tracks/"+url.PathEscape(id), &dto); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("track %s: %w", id, apperrors.ErrTrackNotFound)
		}
		return nil, err
	}
	return &dto, nil
}

// LookupTrack returns playable metadata for id. Tracks without a media
// file are rejected with ErrNoMediaURL.
func (c *Client) LookupTrack(ctx context.Context, id string) (*core.Track, error) {
	dto, err := c.GetTrack(ctx, id)
	if err != nil {
		return nil, err
	}
	track := c.TrackFromDTO(dto)
	if track.MediaURL == "" {
		return nil, fmt.Errorf("track %s: %w", id, apperrors.ErrNoMediaURL)
	}
	return track, nil
}

// ReportListen records one listen of the track. Like every POST it is
// sent once, so a failed report is never counted twice.
func (c *Client) ReportListen(ctx context.Context, id string) error {
	if err := c.Post(ctx, "/Tracks/"+url.PathEscape(id)+"/listen", nil, nil); err != nil {
		if IsNotFound(err) {
			return fmt.Errorf("track %s: %w", id, apperrors.ErrTrackNotFound)
		}
		return err
	}
	return nil
}
