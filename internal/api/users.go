package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	apperrors "github.com/tessro/encore/internal/errors"
)

// Genres lists every genre with its track count.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var genres []Genre
	if err := c.Get(ctx, "/Genres", &genres); err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	return genres, nil
}

// Profile returns a user's public profile. It requires a token.
func (c *Client) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	if c.token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var profile UserProfile
	if err := c.Get(ctx, "/Users/"+url.PathEscape(userID), &profile); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnauthorized):
			return nil, err
		case IsNotFound(err):
			return nil, fmt.Errorf("user %s: %w", userID, apperrors.ErrUserNotFound)
		}
		return nil, err
	}
	return &profile, nil
}
