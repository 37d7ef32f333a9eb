// Package media resolves artifact content for providers that need inline bytes.
//
// An artifact carries a URL, inline data or a local path. Loader reads whichever
// is set, downloading URLs over https only with a size limit and a content-type
// check against the artifact kind.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/skosovsky/unifai"
)

// DefaultMaxBodySize is the default limit for media content (10 MiB).
const DefaultMaxBodySize = 10 << 20

var (
	// ErrUnsafeScheme is returned when the URL scheme is not https.
	ErrUnsafeScheme = errors.New("media: only https scheme is allowed")
	// ErrBodyTooLarge is returned when the content exceeds the size limit.
	ErrBodyTooLarge = errors.New("media: content exceeds size limit")
	// ErrUnsupportedType is returned when the content type does not match the artifact kind.
	ErrUnsupportedType = errors.New("media: unsupported content type")
	// ErrNoContent is returned for an artifact without URL, data or path.
	ErrNoContent = errors.New("media: artifact has no content")
)

// Loader reads artifact content. Safe for concurrent use.
type Loader struct {
	client   *http.Client
	maxBytes int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for URL downloads. Nil is ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithMaxBytes sets the content size limit. Values <= 0 keep the default.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// NewLoader returns a Loader using http.DefaultClient and a 10 MiB limit.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{client: http.DefaultClient, maxBytes: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Bytes returns the artifact content and its MIME type. Inline data wins over
// a path, a path over a URL. An empty declared MIME type is detected from the content.
func (l *Loader) Bytes(ctx context.Context, a unifai.Artifact) ([]byte, unifai.MimeType, error) {
	var (
		data     []byte
		declared = a.MimeType
		err      error
	)
	switch {
	case len(a.Data) > 0:
		data = a.Data
		if int64(len(data)) > l.maxBytes {
			return nil, "", ErrBodyTooLarge
		}
	case strings.TrimSpace(a.Path) != "":
		data, err = l.readFile(a.Path)
	case strings.TrimSpace(a.URL) != "":
		var contentType string
		data, contentType, err = l.fetch(ctx, a.URL, a.Kind)
		if declared == "" {
			declared = unifai.MimeType(contentType)
		}
	default:
		return nil, "", ErrNoContent
	}
	if err != nil {
		return nil, "", err
	}
	if declared == "" {
		declared = DetectMimeType(data)
	}
	return data, declared, nil
}

// Inline returns a copy of a holding its content as Data, with URL and Path cleared.
func (l *Loader) Inline(ctx context.Context, a unifai.Artifact) (unifai.Artifact, error) {
	data, mime, err := l.Bytes(ctx, a)
	if err != nil {
		return unifai.Artifact{}, err
	}
	a.Data = data
	a.MimeType = mime
	a.URL = ""
	a.Path = ""
	return a, nil
}

// DataURL returns a data: URL for the artifact. A URL-only artifact is returned
// as is, without a download.
func (l *Loader) DataURL(ctx context.Context, a unifai.Artifact) (string, error) {
	if strings.TrimSpace(a.URL) != "" && len(a.Data) == 0 && strings.TrimSpace(a.Path) == "" {
		return a.URL, nil
	}
	data, mime, err := l.Bytes(ctx, a)
	if err != nil {
		return "", err
	}
	return "data:" + string(mime) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the caller's artifact
	if err != nil {
		return nil, fmt.Errorf("media: open: %w", err)
	}
	defer func() { _ = f.Close() }()
	return l.readLimited(f)
}

func (l *Loader) fetch(ctx context.Context, rawURL string, kind unifai.MediaKind) (data []byte, contentType string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("media: parse URL: %w", err)
	}
	if u.Scheme != "https" {
		return nil, "", ErrUnsafeScheme
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("media: new request: %w", err)
	}
	resp, err := l.client.Do(req) // #nosec G704 -- https only, caller-supplied artifact URL
	if err != nil {
		return nil, "", fmt.Errorf("media: do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("media: status %s", resp.Status)
	}
	contentType = resp.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if contentType != "" && !allowed(contentType, kind) {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	data, err = l.readLimited(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("media: read: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, ErrBodyTooLarge
	}
	return data, nil
}

// allowed reports whether contentType fits kind. An empty kind accepts any media type.
func allowed(contentType string, kind unifai.MediaKind) bool {
	if kind != "" {
		return strings.HasPrefix(contentType, string(kind)+"/")
	}
	for _, k := range []unifai.MediaKind{unifai.MediaImage, unifai.MediaVideo, unifai.MediaAudio} {
		if strings.HasPrefix(contentType, string(k)+"/") {
			return true
		}
	}
	return false
}
