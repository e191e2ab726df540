package placement

import (
	"context"
	"time"
)

type PlacementRepository interface {
	// GetCurrent returns the open placement or ErrPlacementNotFound.
	GetCurrent(ctx context.Context, employeeID string) (Placement, error)
	// GetEffectiveOn returns the placement covering date or ErrPlacementNotFound.
	GetEffectiveOn(ctx context.Context, employeeID string, date time.Time) (Placement, error)
	// ListEffectiveOn resolves the covering placement of every employee, keyed by employee id.
	ListEffectiveOn(ctx context.Context, date time.Time) (map[string]Placement, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Placement, error)
	Create(ctx context.Context, p Placement) (Placement, error)
	Close(ctx context.Context, id string, validTo time.Time) error
}
