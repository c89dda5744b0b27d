// Package category provides the product category catalog.
package category

import (
	"context"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
)

// Category groups products for reporting and stock-by-category queries.
type Category struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// New creates a category with a normalized name.
func New(name string) *Category {
	return &Category{
		ID:        id.New(),
		Name:      NormalizeName(name),
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks required fields.
func (c *Category) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("category name is required").
			WithDetail("field", "name")
	}
	return nil
}

var stripAccents = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeName trims whitespace, removes accents and capitalizes the
// first letter, so "  electrónica " and "Electronica" name the same
// category.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if stripped, _, err := transform.String(stripAccents, name); err == nil {
		name = stripped
	}
	if name == "" {
		return name
	}
	lower := strings.ToLower(name)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
