package stock

import (
	"context"
	"time"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/internal/core/security"
)

// Service answers stock queries from the projection and the ledger.
// Read-only: no method has side effects.
type Service struct {
	repo Repository

	now func() time.Time
}

// NewService creates a stock query service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Positions lists projection rows filtered by any subset of the key.
func (s *Service) Positions(ctx context.Context, f PositionFilter) ([]Position, int64, error) {
	return s.repo.Positions(ctx, f)
}

// ExpiringRelative lists positions expiring inside a window defined in
// months from today: (today+fromMonths, today+fromMonths+rangeMonths].
func (s *Service) ExpiringRelative(ctx context.Context, fromMonths, rangeMonths, limit, offset int) ([]Position, int64, error) {
	if fromMonths < 0 {
		return nil, 0, apperror.NewValidation("from_months must not be negative")
	}
	if rangeMonths < 1 {
		return nil, 0, apperror.NewValidation("range_months must be at least 1")
	}

	today := Today(s.now)
	start := AddMonths(today, fromMonths)
	end := AddMonths(start, rangeMonths)

	return s.repo.PositionsExpiring(ctx, ExpirationWindow{Start: start, End: end}, limit, offset)
}

// ExpiringBetween lists positions expiring inside an explicit date range.
func (s *Service) ExpiringBetween(ctx context.Context, from, to time.Time, limit, offset int) ([]Position, int64, error) {
	if to.Before(from) {
		return nil, 0, apperror.NewValidation("date_to must not precede date_from")
	}
	return s.repo.PositionsExpiring(ctx, ExpirationWindow{Start: from, End: to}, limit, offset)
}

// WarehouseDetail sums quantity per product for one warehouse.
func (s *Service) WarehouseDetail(ctx context.Context, warehouseID id.ID) ([]WarehouseProductTotal, error) {
	return s.repo.TotalsByProductInWarehouse(ctx, warehouseID)
}

// WarehouseTotals sums quantity per warehouse.
func (s *Service) WarehouseTotals(ctx context.Context) ([]WarehouseTotal, error) {
	return s.repo.TotalsByWarehouse(ctx)
}

// ProductTotals sums one product's quantity per warehouse.
func (s *Service) ProductTotals(ctx context.Context, productID id.ID, limit, offset int) ([]ProductWarehouseTotal, int64, error) {
	return s.repo.TotalsForProduct(ctx, productID, limit, offset)
}

// CategoryTotals sums quantity per product category.
func (s *Service) CategoryTotals(ctx context.Context) ([]CategoryTotal, error) {
	return s.repo.TotalsByCategory(ctx)
}

// CategoryDetail sums quantity per product within one category.
func (s *Service) CategoryDetail(ctx context.Context, categoryID id.ID) ([]CategoryProductTotal, error) {
	return s.repo.TotalsByProductInCategory(ctx, categoryID)
}

// AvailableLots lists lots with remaining stock for a (product,
// warehouse) pair, soonest expiration first, no-expiration lots last.
func (s *Service) AvailableLots(ctx context.Context, productID, warehouseID id.ID) ([]AvailableLot, error) {
	if id.IsNil(productID) || id.IsNil(warehouseID) {
		return nil, apperror.NewValidation("product and warehouse are required")
	}
	return s.repo.AvailableLots(ctx, productID, warehouseID)
}

// SemaphoreTotals buckets all unexpired stock by proximity to expiration.
func (s *Service) SemaphoreTotals(ctx context.Context) (Semaphore, error) {
	today := Today(s.now)
	return s.repo.SemaphoreTotals(ctx, today, AddMonths(today, 1), AddMonths(today, 6))
}

// History returns the flattened movement-line view. Non-admin actors see
// only lines of movements they own.
func (s *Service) History(ctx context.Context, f HistoryFilter) ([]HistoryEntry, int64, error) {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return nil, 0, apperror.NewUnauthorized("no authenticated actor")
	}

	if !actor.IsAdmin() {
		owner := actor.ID
		f.UserID = &owner
	}

	return s.repo.History(ctx, f)
}

// VerifyProjection replays the ledger and compares it against the live
// projection. A recovery/consistency check, not a serving path; admin
// only.
func (s *Service) VerifyProjection(ctx context.Context) (ConsistencyReport, error) {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return ConsistencyReport{}, apperror.NewUnauthorized("no authenticated actor")
	}
	if !actor.IsAdmin() {
		return ConsistencyReport{}, apperror.NewForbidden("consistency check requires the admin role")
	}

	mismatches, err := s.repo.VerifyProjection(ctx)
	if err != nil {
		return ConsistencyReport{}, err
	}
	if mismatches == nil {
		mismatches = []Mismatch{}
	}

	return ConsistencyReport{
		Consistent: len(mismatches) == 0,
		Mismatches: mismatches,
	}, nil
}
