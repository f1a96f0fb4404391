package beepaudio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"github.com/tessro/encore/internal/media"
)

// maxSourceBytes caps how much of a remote source is buffered in memory.
const maxSourceBytes = 256 << 20

// fetch reads a source fully. Sources are http(s) URLs, file:// URLs or
// plain filesystem paths.
func fetch(ctx context.Context, client *http.Client, src string) ([]byte, error) {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare paths, including Windows drive letters.
		return os.ReadFile(src)
	}

	switch u.Scheme {
	case "file":
		return os.ReadFile(u.Path)
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported source scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", src, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}
	if len(data) > maxSourceBytes {
		return nil, fmt.Errorf("fetch %s: source larger than %d bytes", src, maxSourceBytes)
	}
	return data, nil
}

// decode picks a decoder from the data's magic bytes, falling back to the
// source extension.
func decode(data []byte, src string) (beep.StreamSeekCloser, beep.Format, error) {
	rc := nopCloser{bytes.NewReader(data)}

	switch {
	case isWAV(data):
		return wav.Decode(rc)
	case isMP3(data):
		return mp3.Decode(rc)
	}

	switch strings.ToLower(path.Ext(stripQuery(src))) {
	case ".wav":
		return wav.Decode(rc)
	case ".mp3":
		return mp3.Decode(rc)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %s", media.ErrUnsupportedFormat, src)
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

func isMP3(data []byte) bool {
	if len(data) >= 3 && string(data[:3]) == "ID3" {
		return true
	}
	// MPEG frame sync.
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

func stripQuery(src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		return src[:i]
	}
	return src
}

// gain maps a linear volume in [0,1] onto effects.Volume's base-2 scale.
func gain(volume float64) (level float64, silent bool) {
	if volume <= 0 {
		return 0, true
	}
	if volume > 1 {
		volume = 1
	}
	return math.Log2(volume), false
}

// nopCloser wraps a bytes.Reader to implement io.ReadCloser.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
