package geo

import (
	"context"
	"time"
)

// Position is a raw device fix
type Position struct {
	Latitude  float64
	Longitude float64
	Timestamp time.Time
}

// Options configure a position request
type Options struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration
}

// DeviceError is a failure reported by the device capability, identified by
// its W3C error code
type DeviceError struct {
	Code int
}

func (e *DeviceError) Error() string {
	return FromDeviceCode(e.Code).Message
}

// Provider is the device geolocation capability. A nil provider means the
// capability is absent (Unsupported).
type Provider interface {
	// CurrentPosition resolves the device's position once, or fails with a
	// *DeviceError carrying the device code.
	CurrentPosition(ctx context.Context, opts Options) (Position, error)
}
