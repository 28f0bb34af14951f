package attendance

import "errors"

var (
	ErrAlreadyCheckedIn = errors.New("you are already checked in, please check out first")
	ErrOutsideGeofence  = errors.New("you are outside all office areas")
	ErrNoOpenSession    = errors.New("no active check-in found to check out from")
)
