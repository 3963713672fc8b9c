package domain

import (
	"strconv"
	"time"
)

// Location is a captured device position. Latitude and longitude are always
// present together; a new capture produces a new value, never an in-place
// update. Address is best-effort and may be a formatted coordinate string.
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CoordinateString formats the position the way it is shown when no
// human-readable address is available
func (l Location) CoordinateString() string {
	return strconv.FormatFloat(l.Latitude, 'f', -1, 64) + ", " +
		strconv.FormatFloat(l.Longitude, 'f', -1, 64)
}

// RoundedLatitude returns the latitude rounded to 6 decimal places for display
func (l Location) RoundedLatitude() string {
	return strconv.FormatFloat(l.Latitude, 'f', 6, 64)
}

// RoundedLongitude returns the longitude rounded to 6 decimal places for display
func (l Location) RoundedLongitude() string {
	return strconv.FormatFloat(l.Longitude, 'f', 6, 64)
}
