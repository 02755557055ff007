package devicesim

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// Device is an in-memory camera device: a video stream that can be switched
// on and off, the last encoded frame, and a fixed grid of still photos.
type Device struct {
	mu        sync.RWMutex
	videoOn   bool
	lastFrame []byte
	frameSeq  uint64
	photos    [][]byte
	nextPhoto int

	width    int
	height   int
	interval time.Duration
}

// NewDevice builds a device from a scenario.
func NewDevice(sc Scenario) (*Device, error) {
	if err := sc.normalize(); err != nil {
		return nil, err
	}
	photos, err := loadPhotos(sc.PhotoDir, sc.Slots)
	if err != nil {
		return nil, err
	}
	return &Device{
		videoOn:  sc.VideoOn,
		photos:   photos,
		width:    sc.FrameWidth,
		height:   sc.FrameHeight,
		interval: sc.FrameInterval,
	}, nil
}

// Run produces frames while video is on until ctx is cancelled.
func (d *Device) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !d.VideoOn() {
				continue
			}
			if err := d.CaptureFrame(); err != nil {
				slog.Warn("devicesim: capture failed", "err", err)
			}
		}
	}
}

// CaptureFrame renders and stores the next test-pattern frame.
func (d *Device) CaptureFrame() error {
	d.mu.RLock()
	seq := d.frameSeq + 1
	d.mu.RUnlock()

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, testPattern(d.width, d.height, seq), imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return fmt.Errorf("devicesim: encode frame: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.videoOn {
		return nil
	}
	d.frameSeq = seq
	d.lastFrame = buf.Bytes()
	return nil
}

// SetVideo switches streaming on or off. Switching off drops the last frame.
func (d *Device) SetVideo(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.videoOn = on
	if !on {
		d.lastFrame = nil
	}
}

// VideoOn reports whether video streaming is enabled.
func (d *Device) VideoOn() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.videoOn
}

// FrameAvailable reports whether a frame has been captured since video was enabled.
func (d *Device) FrameAvailable() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.videoOn && len(d.lastFrame) > 0
}

// Frame returns the last captured frame, or nil.
func (d *Device) Frame() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastFrame
}

// Slots returns the number of photo slots.
func (d *Device) Slots() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.photos)
}

// Photo returns the photo in slot i, or nil when the slot is empty or out of range.
func (d *Device) Photo(i int) []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i < 0 || i >= len(d.photos) {
		return nil
	}
	return d.photos[i]
}

// SetPhoto stores data in slot i.
func (d *Device) SetPhoto(i int, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.photos) {
		return fmt.Errorf("devicesim: slot %d out of range", i)
	}
	d.photos[i] = data
	return nil
}

// DeletePhoto empties slot i.
func (d *Device) DeletePhoto(i int) error {
	return d.SetPhoto(i, nil)
}

// TakePicture copies the current frame into the next slot, wrapping around
// when the grid is full. It returns the slot written.
func (d *Device) TakePicture() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.lastFrame) == 0 {
		return -1, fmt.Errorf("devicesim: no frame available")
	}
	slot := d.nextPhoto
	for i := range d.photos {
		if d.photos[i] == nil {
			slot = i
			break
		}
	}
	d.photos[slot] = append([]byte(nil), d.lastFrame...)
	d.nextPhoto = (slot + 1) % len(d.photos)
	return slot, nil
}

// testPattern draws colour bars with a bright band that moves with seq.
func testPattern(w, h int, seq uint64) image.Image {
	bars := []color.NRGBA{
		{192, 192, 192, 255},
		{192, 192, 0, 255},
		{0, 192, 192, 255},
		{0, 192, 0, 255},
		{192, 0, 192, 255},
		{192, 0, 0, 255},
		{0, 0, 192, 255},
	}
	img := imaging.New(w, h, color.NRGBA{0, 0, 0, 255})
	barWidth := max(1, w/len(bars))
	band := int(seq*4) % h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := bars[min(x/barWidth, len(bars)-1)]
			if y >= band && y < band+h/12 {
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
