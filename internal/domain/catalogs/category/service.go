package category

import (
	"context"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/pkg/logger"
)

// Service provides business operations for the category catalog.
type Service struct {
	repo Repository
}

// NewService creates a category service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new category. Names are normalized before the
// uniqueness check so accent or case variants collapse.
func (s *Service) Create(ctx context.Context, name string) (*Category, error) {
	c := New(name)
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.NewDuplicate("category", "name", c.Name)
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "category created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

// GetByID retrieves a category.
func (s *Service) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	return s.repo.GetByID(ctx, categoryID)
}

// Rename updates a category's name, normalizing it first.
func (s *Service) Rename(ctx context.Context, categoryID id.ID, name string) (*Category, error) {
	c, err := s.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	c.Name = NormalizeName(name)
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a category. Categories still referenced by products are
// protected by the foreign key and surface as an integrity error.
func (s *Service) Delete(ctx context.Context, categoryID id.ID) error {
	return s.repo.Delete(ctx, categoryID)
}

// List retrieves categories with optional name search.
func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]Category, int64, error) {
	return s.repo.List(ctx, search, limit, offset)
}
