package dragbind

import "errors"

var (
	// ErrInvalidArgument is returned when Bind receives a nil element.
	ErrInvalidArgument = errors.New("dragbind: invalid argument")
	// ErrUnsupportedPosition is returned when the element is not positioned,
	// so left/top offsets would have no effect.
	ErrUnsupportedPosition = errors.New("dragbind: element is not positioned")
	// ErrUnsupportedPlatform is logged when the platform exposes no way to
	// subscribe to events. Subscriptions degrade to no-ops.
	ErrUnsupportedPlatform = errors.New("dragbind: platform cannot bind events")
)
