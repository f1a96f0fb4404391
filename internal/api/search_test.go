package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	apperrors "github.com/tessro/encore/internal/errors"
)

func TestSearch(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(`{
			"tracks": [{"id":"t1","title":"Blue","fileUrl":"media/t1.mp3"}],
			"users": [{"id":"u1","userName":"bluesman","avatarUrl":null}],
			"playlists": [{"id":"p1","name":"Blues","description":null,"userId":"u1"}]
		}`))
	}, "")

	res, err := c.Search(context.Background(), "  blue note ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotQuery != "blue note" {
		t.Errorf("query = %q, want %q", gotQuery, "blue note")
	}
	if len(res.Tracks) != 1 || len(res.Users) != 1 || len(res.Playlists) != 1 {
		t.Fatalf("Search() = %+v, want one of each", res)
	}
	if res.Users[0].AvatarURL != nil {
		t.Errorf("AvatarURL = %v, want nil", *res.Users[0].AvatarURL)
	}

	track := c.TrackFromSearch(res.Tracks[0])
	if track.MediaURL != c.BaseURL()+"media/t1.mp3" {
		t.Errorf("MediaURL = %q, want resolved against %q", track.MediaURL, c.BaseURL())
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, "")

	res, err := c.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if called {
		t.Error("Search() with empty query contacted the server")
	}
	if !res.Empty() || res.Tracks == nil {
		t.Errorf("Search() = %+v, want empty non-nil lists", res)
	}
}

func TestProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Users/u1":
			w.Write([]byte(`{
				"id":"u1","userName":"bluesman","bio":"hi","followersCount":10,"followingsCount":2,
				"playlists":[{"Id":"p1","Name":"Blues","TrackCount":3,"CreatedAt":"2024-01-02T03:04:05Z"}],
				"tracks":[{"Id":"t1","Title":"Blue","FileUrl":"https://cdn.example.com/t1.mp3"}]
			}`))
		case "/api/Users/private":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Unauthorized"}`))
		default:
			http.NotFound(w, r)
		}
	}, "tok")

	profile, err := c.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.UserName != "bluesman" || profile.FollowersCount != 10 || len(profile.Playlists) != 1 {
		t.Errorf("Profile() = %+v", profile)
	}
	if _, ok := profile.Playlists[0].Created(); !ok {
		t.Error("Created() ok = false for RFC 3339 timestamp")
	}

	tracks := c.TracksFromProfile(profile)
	if len(tracks) != 1 || tracks[0].Artist != "bluesman" {
		t.Errorf("TracksFromProfile() = %+v, want artist filled from profile", tracks)
	}

	if _, err := c.Profile(context.Background(), "private"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Profile(private) error = %v, want %v", err, apperrors.ErrUnauthorized)
	}
	if _, err := c.Profile(context.Background(), "ghost"); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("Profile(ghost) error = %v, want %v", err, apperrors.ErrUserNotFound)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Profile() without token contacted the server")
	}, "")

	if _, err := c.Profile(context.Background(), "u1"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Profile() error = %v, want %v", err, apperrors.ErrUnauthorized)
	}
}
