// Package domain provides types shared by all domain services.
package domain

// DefaultPageLimit is applied when a request does not specify a limit.
const DefaultPageLimit = 10

// PageRequest contains pagination parameters for list operations.
type PageRequest struct {
	Limit  int
	Offset int
}

// Normalize applies defaults and bounds: limit defaults to
// DefaultPageLimit and is clamped to [1, maxLimit]; offset is never
// negative.
func (p *PageRequest) Normalize(maxLimit int) {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ListResult is the paginated response envelope for every list endpoint.
type ListResult[T any] struct {
	Data   []T   `json:"data"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// NewListResult builds an envelope, guaranteeing a non-nil data slice.
func NewListResult[T any](data []T, total int64, page PageRequest) ListResult[T] {
	if data == nil {
		data = []T{}
	}
	return ListResult[T]{
		Data:   data,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}
