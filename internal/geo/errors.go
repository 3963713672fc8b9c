package geo

// ErrorKind is the typed failure taxonomy of a location capture
type ErrorKind string

const (
	KindPermissionDenied    ErrorKind = "PermissionDenied"
	KindPositionUnavailable ErrorKind = "PositionUnavailable"
	KindTimeout             ErrorKind = "Timeout"
	KindUnsupported         ErrorKind = "Unsupported"
)

// W3C device error codes reported by the geolocation capability
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

// Error is a capture failure with a distinct, user-displayable message.
// A capture resolves exactly once: with coordinates or with one Error.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// FromDeviceCode maps a device error code to its typed failure
func FromDeviceCode(code int) *Error {
	switch code {
	case CodePermissionDenied:
		return &Error{
			Kind:    KindPermissionDenied,
			Message: "Location access denied. Please enable location services.",
		}
	case CodePositionUnavailable:
		return &Error{
			Kind:    KindPositionUnavailable,
			Message: "Location information unavailable.",
		}
	case CodeTimeout:
		return &Error{
			Kind:    KindTimeout,
			Message: "Location request timed out.",
		}
	default:
		return &Error{
			Kind:    KindPositionUnavailable,
			Message: "Unable to get your location.",
		}
	}
}

// ErrUnsupported is returned when no device geolocation capability exists
func ErrUnsupported() *Error {
	return &Error{
		Kind:    KindUnsupported,
		Message: "Geolocation is not supported on this device.",
	}
}
