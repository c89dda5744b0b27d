package movements

import (
	"context"

	"warestock/internal/core/id"
)

// ActiveIDLookup is the catalog-side primitive the gate is built from.
type ActiveIDLookup func(ctx context.Context, ids []id.ID) ([]id.ID, error)

type catalogGate struct {
	warehouses ActiveIDLookup
	products   ActiveIDLookup
}

// NewReferenceGate builds a ReferenceGate from catalog lookups.
func NewReferenceGate(warehouses, products ActiveIDLookup) ReferenceGate {
	return &catalogGate{warehouses: warehouses, products: products}
}

func (g *catalogGate) ActiveWarehouseIDs(ctx context.Context, ids []id.ID) ([]id.ID, error) {
	return g.warehouses(ctx, ids)
}

func (g *catalogGate) ActiveProductIDs(ctx context.Context, ids []id.ID) ([]id.ID, error) {
	return g.products(ctx, ids)
}
