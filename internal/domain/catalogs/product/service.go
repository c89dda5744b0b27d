package product

import (
	"context"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/pkg/logger"
)

// Service provides business operations for the product catalog.
type Service struct {
	repo Repository
}

// NewService creates a product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new product with a unique SKU.
func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsBySKU(ctx, p.SKU)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("product", "sku", p.SKU)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "product created", "product_id", p.ID, "sku", p.SKU)
	return nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// Update modifies an existing product.
func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// SetActive toggles a product's eligibility for new movement lines.
// Historical lines referencing a deactivated product remain valid.
func (s *Service) SetActive(ctx context.Context, productID id.ID, active bool) error {
	if err := s.repo.SetActive(ctx, productID, active); err != nil {
		return err
	}
	logger.Info(ctx, "product activity changed", "product_id", productID, "is_active", active)
	return nil
}

// List retrieves products with filtering.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Product, int64, error) {
	return s.repo.List(ctx, f)
}
