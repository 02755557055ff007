package devicesim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tinytelemetry/dronepanel/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	defaultFrameInterval = 100 * time.Millisecond
	defaultFrameWidth    = 320
	defaultFrameHeight   = 240
)

// Scenario describes the initial state of a simulated device.
type Scenario struct {
	VideoOn       bool          `yaml:"video_on"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	FrameWidth    int           `yaml:"frame_width"`
	FrameHeight   int           `yaml:"frame_height"`
	Slots         int           `yaml:"slots"`
	PhotoDir      string        `yaml:"photo_dir"`
}

// DefaultScenario is a device with video on and an empty photo grid.
func DefaultScenario() Scenario {
	return Scenario{
		VideoOn:       true,
		FrameInterval: defaultFrameInterval,
		FrameWidth:    defaultFrameWidth,
		FrameHeight:   defaultFrameHeight,
		Slots:         model.DefaultPhotoSlots,
	}
}

// LoadScenario reads a YAML scenario file on top of DefaultScenario.
// An empty path returns the defaults.
func LoadScenario(path string) (Scenario, error) {
	sc := DefaultScenario()
	if strings.TrimSpace(path) == "" {
		return sc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, fmt.Errorf("devicesim: read scenario: %w", err)
	}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return sc, fmt.Errorf("devicesim: parse scenario: %w", err)
	}
	if sc.PhotoDir != "" && !filepath.IsAbs(sc.PhotoDir) {
		sc.PhotoDir = filepath.Join(filepath.Dir(path), sc.PhotoDir)
	}
	return sc, sc.normalize()
}

func (sc *Scenario) normalize() error {
	if sc.FrameInterval <= 0 {
		sc.FrameInterval = defaultFrameInterval
	}
	if sc.FrameWidth <= 0 {
		sc.FrameWidth = defaultFrameWidth
	}
	if sc.FrameHeight <= 0 {
		sc.FrameHeight = defaultFrameHeight
	}
	if sc.Slots == 0 {
		sc.Slots = model.DefaultPhotoSlots
	}
	if sc.Slots < 1 || sc.Slots > model.MaxPhotoSlots {
		return fmt.Errorf("devicesim: slots must be between 1 and %d, got %d", model.MaxPhotoSlots, sc.Slots)
	}
	return nil
}

// loadPhotos reads <index>.jpg files from dir. Missing files leave the slot empty.
func loadPhotos(dir string, slots int) ([][]byte, error) {
	photos := make([][]byte, slots)
	if dir == "" {
		return photos, nil
	}
	for i := range slots {
		data, err := os.ReadFile(filepath.Join(dir, strconv.Itoa(i)+".jpg"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("devicesim: read photo %d: %w", i, err)
		}
		photos[i] = data
	}
	return photos, nil
}
