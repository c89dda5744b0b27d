package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
)

type fakeRepo struct {
	Repository

	existingSKU map[string]bool
	created     *Product
}

func (f *fakeRepo) Create(_ context.Context, p *Product) error {
	f.created = p
	return nil
}

func (f *fakeRepo) ExistsBySKU(_ context.Context, sku string) (bool, error) {
	return f.existingSKU[sku], nil
}

func TestValidate(t *testing.T) {
	categoryID := id.New()

	tests := []struct {
		name    string
		mutate  func(p *Product)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *Product) {}},
		{name: "missing sku", mutate: func(p *Product) { p.SKU = "" }, wantErr: true},
		{name: "missing short name", mutate: func(p *Product) { p.ShortName = "" }, wantErr: true},
		{name: "missing category", mutate: func(p *Product) { p.CategoryID = id.Nil() }, wantErr: true},
		{name: "negative price", mutate: func(p *Product) { p.UnitPrice = decimal.NewFromInt(-1) }, wantErr: true},
		{name: "zero price allowed", mutate: func(p *Product) { p.UnitPrice = decimal.Zero }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("SKU-1", "Widget", categoryID, decimal.NewFromFloat(9.99))
			tt.mutate(p)

			err := p.Validate(context.Background())

			if tt.wantErr {
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_TrimsFields(t *testing.T) {
	p := New("  SKU-1 ", " Widget  ", id.New(), decimal.Zero)

	assert.Equal(t, "SKU-1", p.SKU)
	assert.Equal(t, "Widget", p.ShortName)
	assert.True(t, p.IsActive)
}

func TestCreate_DuplicateSKU(t *testing.T) {
	repo := &fakeRepo{existingSKU: map[string]bool{"SKU-1": true}}
	svc := NewService(repo)
	p := New("SKU-1", "Widget", id.New(), decimal.Zero)

	err := svc.Create(context.Background(), p)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	assert.Nil(t, repo.created)
}

func TestCreate_Success(t *testing.T) {
	repo := &fakeRepo{existingSKU: map[string]bool{}}
	svc := NewService(repo)
	p := New("SKU-1", "Widget", id.New(), decimal.NewFromFloat(12.50))

	err := svc.Create(context.Background(), p)

	require.NoError(t, err)
	assert.Same(t, p, repo.created)
}
