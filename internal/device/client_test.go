package device

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/dronepanel/internal/devicesim"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSimulator(t *testing.T, videoOn bool) (*devicesim.Device, *Client) {
	t.Helper()
	sc := devicesim.DefaultScenario()
	sc.VideoOn = videoOn
	sc.FrameWidth, sc.FrameHeight = 16, 12
	dev, err := devicesim.NewDevice(sc)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	ts := httptest.NewServer(devicesim.NewServer("", dev).Handler())
	t.Cleanup(ts.Close)

	c, err := NewClient(ts.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return dev, c
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "ftp://host", "http://", "::not a url"} {
		if _, err := NewClient(raw, 0); err == nil {
			t.Errorf("NewClient(%q) succeeded, want error", raw)
		}
	}
}

func TestURLs(t *testing.T) {
	t.Parallel()

	c, err := NewClient("http://drone.local:9000/panel", 0)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if got, want := c.FrameURL(42), "http://drone.local:9000/panel/app/videoframe?t=42"; got != want {
		t.Errorf("FrameURL = %q, want %q", got, want)
	}
	if got, want := c.PhotoURL(3, 7), "http://drone.local:9000/panel/app/photo/3?t=7"; got != want {
		t.Errorf("PhotoURL = %q, want %q", got, want)
	}
}

func TestStatus_Simulator(t *testing.T) {
	t.Parallel()

	dev, c := newSimulator(t, true)
	ctx := context.Background()

	if !c.IsVideoOn(ctx) {
		t.Error("IsVideoOn = false, want true")
	}
	if c.IsFrameAvailable(ctx) {
		t.Error("IsFrameAvailable = true before any capture")
	}
	if err := dev.CaptureFrame(); err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	if !c.IsFrameAvailable(ctx) {
		t.Error("IsFrameAvailable = false after capture")
	}

	dev.SetVideo(false)
	if c.IsVideoOn(ctx) || c.IsFrameAvailable(ctx) {
		t.Error("status still true after video off")
	}
}

func TestStatus_OnlyExactYesIsTrue(t *testing.T) {
	t.Parallel()

	bodies := map[string]bool{
		"yes":   true,
		"Yes":   false,
		"yes\n": false,
		"no":    false,
		"":      false,
		"true":  false,
	}
	for body, want := range bodies {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		c, err := NewClient(ts.URL, time.Second)
		if err != nil {
			t.Fatalf("NewClient: %v", err)
		}
		if got := c.IsVideoOn(context.Background()); got != want {
			t.Errorf("body %q: IsVideoOn = %v, want %v", body, got, want)
		}
		ts.Close()
	}
}

func TestStatus_FailuresFoldToFalse(t *testing.T) {
	t.Parallel()

	errSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("yes"))
	}))
	defer errSrv.Close()

	c, err := NewClient(errSrv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.IsVideoOn(context.Background()) {
		t.Error("500 with body yes reported true")
	}

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()
	c, err = NewClient(closedURL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.IsFrameAvailable(context.Background()) {
		t.Error("transport error reported true")
	}
}

func TestStatus_TimeoutFoldsToFalse(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte("yes"))
	}))
	defer ts.Close()
	defer close(release)

	c, err := NewClient(ts.URL, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.IsVideoOn(context.Background()) {
		t.Error("hung request reported true")
	}
}

func TestLoadImage(t *testing.T) {
	t.Parallel()

	dev, c := newSimulator(t, true)
	ctx := context.Background()

	if _, err := c.LoadImage(ctx, c.FrameURL(1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadImage before capture err = %v, want ErrNotFound", err)
	}
	if err := dev.CaptureFrame(); err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	img, err := c.LoadImage(ctx, c.FrameURL(2))
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Fatalf("frame bounds = %v, want 16x12", b)
	}
}

func TestProbeImage_SlotThreeMissing(t *testing.T) {
	t.Parallel()

	dev, c := newSimulator(t, true)
	if err := dev.CaptureFrame(); err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	for i := range dev.Slots() {
		if i == 3 {
			continue
		}
		if err := dev.SetPhoto(i, dev.Frame()); err != nil {
			t.Fatalf("SetPhoto(%d): %v", i, err)
		}
	}

	ctx := context.Background()
	for i := range dev.Slots() {
		got := c.ProbeImage(ctx, c.PhotoURL(i, 99))
		if got != (i != 3) {
			t.Errorf("ProbeImage slot %d = %v", i, got)
		}
	}
}

func TestProbeImage_UndecodableBody(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte(strings.Repeat("x", 128)))
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.ProbeImage(context.Background(), c.PhotoURL(0, 1)) {
		t.Error("garbage body probed as an image")
	}
}
