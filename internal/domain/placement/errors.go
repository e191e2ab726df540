package placement

import "errors"

var (
	ErrPlacementNotFound     = errors.New("placement not found")
	ErrNoCurrentPlacement    = errors.New("employee has no current placement")
	ErrOpenPlacementConflict = errors.New("employee already has an open placement")
	ErrValidFromNotAfterOpen = errors.New("valid_from must be after the start of the current placement")
)
