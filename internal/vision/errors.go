package vision

import "errors"

var (
	// ErrNoObjectsDetected is returned by compositing operations that
	// need at least one detection to work with.
	ErrNoObjectsDetected = errors.New("no_objects_detected")
	// ErrInvalidSelection is returned when a caller references object
	// labels that were not part of the detection set.
	ErrInvalidSelection = errors.New("invalid_selection")
)
