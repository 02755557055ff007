package device

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	// Register decoders for the formats the device serves.
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/tinytelemetry/dronepanel/internal/model"
)

const (
	pathVideoOn        = "app/isvideoon"
	pathFrameAvailable = "app/isframeavailable"
	pathVideoFrame     = "app/videoframe"
	pathPhoto          = "app/photo"

	// maxStatusBody bounds how much of a status response is read.
	maxStatusBody = 64
	// maxImageBody bounds a single frame or photo download (16 MB).
	maxImageBody = 16 << 20
)

// ErrNotFound is returned by LoadImage when the device has no image at the URL.
var ErrNotFound = errors.New("device: image not found")

// Client talks to the device-control backend over HTTP.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
}

// NewClient creates a client for the backend rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("device: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("device: base url %q must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("device: base url %q has no host", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	return &Client{
		base:    u,
		http:    &http.Client{},
		timeout: timeout,
	}, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// IsVideoOn reports whether the device is streaming video.
func (c *Client) IsVideoOn(ctx context.Context) bool {
	return c.yes(ctx, pathVideoOn)
}

// IsFrameAvailable reports whether the device has a frame ready.
func (c *Client) IsFrameAvailable(ctx context.Context) bool {
	return c.yes(ctx, pathFrameAvailable)
}

// yes folds the status endpoint into a bool. Only a 2xx body of exactly
// "yes" is true.
func (c *Client) yes(ctx context.Context, path string) bool {
	body, err := c.getStatus(ctx, path)
	if err != nil {
		slog.Debug("device: status query failed", "path", path, "err", err)
		return false
	}
	slog.Debug("device: status", "path", path, "body", body)
	return body == "yes"
}

func (c *Client) getStatus(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path, nil), nil)
	if err != nil {
		return "", fmt.Errorf("device: build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("device: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("device: get %s: status %d", path, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusBody))
	if err != nil {
		return "", fmt.Errorf("device: read %s: %w", path, err)
	}
	return string(data), nil
}

// FrameURL returns the cache-busted URL of the current video frame.
func (c *Client) FrameURL(token int64) string {
	return c.resolve(pathVideoFrame, tokenQuery(token))
}

// PhotoURL returns the cache-busted URL of the still photo in slot index.
func (c *Client) PhotoURL(index int, token int64) string {
	return c.resolve(pathPhoto+"/"+strconv.Itoa(index), tokenQuery(token))
}

// LoadImage downloads and decodes the image at rawURL.
func (c *Client) LoadImage(ctx context.Context, rawURL string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("device: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("device: get image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("device: get image: status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxImageBody), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("device: decode image: %w", err)
	}
	return img, nil
}

// ProbeImage reports whether rawURL loads as an image.
func (c *Client) ProbeImage(ctx context.Context, rawURL string) bool {
	_, err := c.LoadImage(ctx, rawURL)
	return err == nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: path})
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func tokenQuery(token int64) url.Values {
	return url.Values{"t": []string{strconv.FormatInt(token, 10)}}
}

var _ model.Device = (*Client)(nil)
