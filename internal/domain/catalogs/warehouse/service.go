package warehouse

import (
	"context"

	"warestock/internal/core/id"
	"warestock/pkg/logger"
)

// Service provides business operations for the warehouse catalog.
type Service struct {
	repo Repository
}

// NewService creates a warehouse service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new warehouse.
func (s *Service) Create(ctx context.Context, description string) (*Warehouse, error) {
	w := New(description)
	if err := w.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return nil, err
	}

	logger.Info(ctx, "warehouse created", "warehouse_id", w.ID)
	return w, nil
}

// GetByID retrieves a warehouse.
func (s *Service) GetByID(ctx context.Context, warehouseID id.ID) (*Warehouse, error) {
	return s.repo.GetByID(ctx, warehouseID)
}

// Update modifies an existing warehouse.
func (s *Service) Update(ctx context.Context, w *Warehouse) error {
	if err := w.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, w)
}

// SetActive toggles a warehouse's eligibility for new movement lines.
func (s *Service) SetActive(ctx context.Context, warehouseID id.ID, active bool) error {
	if err := s.repo.SetActive(ctx, warehouseID, active); err != nil {
		return err
	}
	logger.Info(ctx, "warehouse activity changed", "warehouse_id", warehouseID, "is_active", active)
	return nil
}

// List retrieves warehouses with optional filtering.
func (s *Service) List(ctx context.Context, search string, isActive *bool, limit, offset int) ([]Warehouse, int64, error) {
	return s.repo.List(ctx, search, isActive, limit, offset)
}
