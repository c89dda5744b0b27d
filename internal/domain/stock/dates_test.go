package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{
			name:   "plain month step",
			start:  date(2025, time.March, 15),
			months: 1,
			want:   date(2025, time.April, 15),
		},
		{
			name:   "clamps Jan 31 to Feb 28",
			start:  date(2025, time.January, 31),
			months: 1,
			want:   date(2025, time.February, 28),
		},
		{
			name:   "clamps to Feb 29 in a leap year",
			start:  date(2024, time.January, 31),
			months: 1,
			want:   date(2024, time.February, 29),
		},
		{
			name:   "clamps May 31 to Jun 30",
			start:  date(2025, time.May, 31),
			months: 1,
			want:   date(2025, time.June, 30),
		},
		{
			name:   "crosses year boundary",
			start:  date(2025, time.October, 10),
			months: 6,
			want:   date(2026, time.April, 10),
		},
		{
			name:   "zero months is identity",
			start:  date(2025, time.July, 4),
			months: 0,
			want:   date(2025, time.July, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}

func TestToday_TruncatesToCalendarDate(t *testing.T) {
	now := func() time.Time {
		return time.Date(2025, time.June, 15, 23, 59, 59, 123, time.UTC)
	}

	assert.Equal(t, date(2025, time.June, 15), Today(now))
}
