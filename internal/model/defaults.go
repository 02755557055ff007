package model

import "time"

// Shared defaults used by the panel and the simulator binaries.
const (
	DefaultVideoActiveInterval      = 50 * time.Millisecond
	DefaultVideoInactiveInterval    = 2 * time.Second
	DefaultPhotoInterval            = 2 * time.Second
	DefaultPictureOnMonitorInterval = 2 * time.Second
	DefaultPinnedPolicy             = PinnedPolicyLong
	DefaultPhotoSlots               = 9
	MaxPhotoSlots                   = 9
	DefaultBaseURL                  = "http://127.0.0.1:9000"
	DefaultRequestTimeout           = 5 * time.Second
	DefaultLogLevel                 = "off"
	DefaultAPIAddr                  = "127.0.0.1:3000"
	DefaultSimulatorAddr            = "127.0.0.1:9000"
)

// PlaceholderSource is the static image shown while no live frame is available.
const PlaceholderSource = "assets/images/novideo.jpg"
