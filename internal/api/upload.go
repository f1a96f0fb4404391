package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/tessro/encore/internal/errors"
)

// UploadRequest describes a local audio file to publish as a track.
type UploadRequest struct {
	Path        string
	Title       string // file name without extension when empty
	Description string
	Genre       string
}

// UploadTrack publishes a local audio file as a new track. It requires a
// token and is sent once.
func (c *Client) UploadTrack(ctx context.Context, req UploadRequest) (*TrackDTO, error) {
	if c.token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	body, err := uploadPayload(req)
	if err != nil {
		return nil, err
	}

	var dto TrackDTO
	if err := c.do(ctx, http.MethodPost, "/Tracks", body, &dto); err != nil {
		return nil, fmt.Errorf("upload %s: %w", filepath.Base(req.Path), err)
	}
	return &dto, nil
}

// UploadTracks uploads each request in order. Failures are collected and
// the remaining files are still sent, unless ctx ends.
func (c *Client) UploadTracks(ctx context.Context, reqs []UploadRequest) *apperrors.PartialResult[[]*TrackDTO] {
	res := &apperrors.PartialResult[[]*TrackDTO]{}
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			res.AddError(err)
			break
		}
		dto, err := c.UploadTrack(ctx, req)
		if err != nil {
			c.log.Debug("upload failed", "path", req.Path, "error", err)
			res.AddError(err)
			continue
		}
		res.Data = append(res.Data, dto)
	}
	return res
}

// uploadPayload encodes req as multipart form data with the file under
// "file" and the metadata as "title", "description" and "genre".
func uploadPayload(req UploadRequest) (*payload, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer f.Close()

	title := strings.TrimSpace(req.Title)
	if title == "" {
		base := filepath.Base(req.Path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"title", title},
		{"description", req.Description},
		{"genre", req.Genre},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, fmt.Errorf("upload: %w", err)
		}
	}

	part, err := w.CreateFormFile("file", filepath.Base(req.Path))
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("upload: read %s: %w", req.Path, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	return &payload{contentType: w.FormDataContentType(), data: buf.Bytes()}, nil
}
