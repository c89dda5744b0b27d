package category

import (
	"context"

	"warestock/internal/core/id"
)

// Repository defines storage operations for categories.
type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, categoryID id.ID) error
	List(ctx context.Context, search string, limit, offset int) ([]Category, int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}
