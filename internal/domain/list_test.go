package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		in         PageRequest
		maxLimit   int
		wantLimit  int
		wantOffset int
	}{
		{name: "zero limit gets default", in: PageRequest{}, maxLimit: 1000, wantLimit: DefaultPageLimit},
		{name: "negative limit gets default", in: PageRequest{Limit: -5}, maxLimit: 1000, wantLimit: DefaultPageLimit},
		{name: "limit clamped to max", in: PageRequest{Limit: 5000}, maxLimit: 1000, wantLimit: 1000},
		{name: "limit inside bounds kept", in: PageRequest{Limit: 50, Offset: 20}, maxLimit: 1000, wantLimit: 50, wantOffset: 20},
		{name: "negative offset zeroed", in: PageRequest{Limit: 10, Offset: -1}, maxLimit: 1000, wantLimit: 10},
		{name: "no max keeps large limit", in: PageRequest{Limit: 5000}, maxLimit: 0, wantLimit: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize(tt.maxLimit)

			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewListResult_NeverNilData(t *testing.T) {
	res := NewListResult[string](nil, 0, PageRequest{Limit: 10})

	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, int64(0), res.Total)
}

func TestNewListResult_EchoesPage(t *testing.T) {
	res := NewListResult([]int{1, 2, 3}, 42, PageRequest{Limit: 25, Offset: 50})

	assert.Equal(t, []int{1, 2, 3}, res.Data)
	assert.Equal(t, int64(42), res.Total)
	assert.Equal(t, 25, res.Limit)
	assert.Equal(t, 50, res.Offset)
}
