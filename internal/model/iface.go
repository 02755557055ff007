package model

import (
	"context"
	"image"
)

// StatusChecker answers the two device status questions. Any failure is
// reported as false.
type StatusChecker interface {
	IsVideoOn(ctx context.Context) bool
	IsFrameAvailable(ctx context.Context) bool
}

// ImageLoader fetches and decodes an image by URL.
type ImageLoader interface {
	LoadImage(ctx context.Context, url string) (image.Image, error)
}

// URLBuilder builds cache-busted resource URLs for the device endpoints.
type URLBuilder interface {
	FrameURL(token int64) string
	PhotoURL(index int, token int64) string
}

// Device is the full backend contract the panel consumes.
type Device interface {
	StatusChecker
	ImageLoader
	URLBuilder
}
