package geo

import (
	"context"
	"errors"
	"time"

	"healthmate-be/internal/domain"
	"healthmate-be/pkg/logger"
)

// PositionFunc adapts a function to the Provider interface
type PositionFunc func(ctx context.Context, opts Options) (Position, error)

func (f PositionFunc) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	return f(ctx, opts)
}

// Capturer obtains a device's current coordinates and a best-effort address.
// It is pure request/response: persistence of the result is the caller's
// responsibility.
type Capturer struct {
	geocoder Geocoder
	opts     Options
	logger   *logger.Logger
}

// NewCapturer creates a location capturer
func NewCapturer(geocoder Geocoder, timeout, maximumAge time.Duration, logger *logger.Logger) *Capturer {
	return &Capturer{
		geocoder: geocoder,
		opts: Options{
			EnableHighAccuracy: true,
			Timeout:            timeout,
			MaximumAge:         maximumAge,
		},
		logger: logger,
	}
}

// Capture requests the device position once and attempts a single
// reverse-geocode lookup. A geocode failure never fails the capture; the
// address degrades to the formatted "lat, lon" string. No retries are made;
// re-prompting is the caller's decision. A nil provider models an absent
// device capability.
func (c *Capturer) Capture(ctx context.Context, provider Provider) (domain.Location, *Error) {
	if provider == nil {
		return domain.Location{}, ErrUnsupported()
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	pos, err := provider.CurrentPosition(ctx, c.opts)
	if err != nil {
		var devErr *DeviceError
		if errors.As(err, &devErr) {
			capErr := FromDeviceCode(devErr.Code)
			c.logger.WithFields(map[string]interface{}{
				"code": devErr.Code,
				"kind": string(capErr.Kind),
			}).Warn("Device position request failed")
			return domain.Location{}, capErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.Location{}, FromDeviceCode(CodeTimeout)
		}
		c.logger.WithError(err).Warn("Device position request failed")
		return domain.Location{}, FromDeviceCode(CodePositionUnavailable)
	}

	location := domain.Location{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Timestamp: time.Now().UTC(),
	}

	address, err := c.geocoder.Reverse(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		// Best-effort only: degrade the address, never the capture
		c.logger.WithError(err).Debug("Reverse geocode failed, using coordinate string")
		location.Address = location.CoordinateString()
	} else {
		location.Address = address
	}

	return location, nil
}
