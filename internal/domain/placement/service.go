package placement

import (
	"context"
	"time"
)

type PlacementService interface {
	CurrentPlacement(ctx context.Context, employeeID string) (PlacementResponse, error)
	PlacementEffectiveOn(ctx context.Context, employeeID string, date time.Time) (PlacementResponse, error)
	ListPlacements(ctx context.Context, employeeID string) ([]PlacementResponse, error)

	// AddPlacement closes the open placement (if any) the day before
	// req.ValidFrom and inserts the new one, atomically.
	AddPlacement(ctx context.Context, req AddPlacementRequest) (PlacementResponse, error)
}
