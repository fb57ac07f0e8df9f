package datewindows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyWindows(t *testing.T) {
	t.Run("Uneven range snaps the oldest window to fromDate", func(t *testing.T) {
		dw := New(date(2024, time.March, 5), date(2024, time.January, 10))
		windows := dw.Monthly()

		assert.Len(t, windows, 2)

		// newest first
		assert.Equal(t, date(2024, time.February, 6), windows[0].Start)
		assert.Equal(t, time.Date(2024, time.March, 5, 23, 59, 59, 999000000, time.UTC), windows[0].End)

		assert.Equal(t, date(2024, time.January, 10), windows[1].Start)
		assert.Equal(t, time.Date(2024, time.February, 5, 23, 59, 59, 999000000, time.UTC), windows[1].End)
	})

	t.Run("Windows are contiguous and non-overlapping", func(t *testing.T) {
		dw := New(date(2024, time.June, 30), date(2024, time.January, 1))
		windows := dw.Monthly()

		assert.NotEmpty(t, windows)
		for i := 0; i < len(windows)-1; i++ {
			newer, older := windows[i], windows[i+1]
			// the newer window starts the instant after the older one ends
			assert.Equal(t, newer.Start, startOfDay(older.End.AddDate(0, 0, 1)))
			assert.True(t, newer.Start.After(older.End))
		}
		assert.Equal(t, date(2024, time.January, 1), windows[len(windows)-1].Start)
	})

	t.Run("Equal bounds produce a single day-long window", func(t *testing.T) {
		day := date(2024, time.May, 15)
		dw := New(day, day)
		windows := dw.Monthly()

		assert.Len(t, windows, 1)
		assert.Equal(t, day, windows[0].Start)
		assert.Equal(t, time.Date(2024, time.May, 15, 23, 59, 59, 999000000, time.UTC), windows[0].End)
	})

	t.Run("fromDate after toDate produces no windows", func(t *testing.T) {
		dw := New(date(2024, time.January, 1), date(2024, time.February, 1))
		assert.Empty(t, dw.Monthly())
	})
}

func TestDailyWindows(t *testing.T) {
	dw := New(date(2024, time.March, 3), date(2024, time.March, 1))
	windows := dw.Daily()

	assert.Len(t, windows, 3)
	assert.Equal(t, date(2024, time.March, 3), windows[0].Start)
	assert.Equal(t, date(2024, time.March, 2), windows[1].Start)
	assert.Equal(t, date(2024, time.March, 1), windows[2].Start)
	for _, w := range windows {
		assert.Equal(t, w.Start.Year(), w.End.Year())
		assert.Equal(t, w.Start.YearDay(), w.End.YearDay())
	}
}

func TestWeeklyWindows(t *testing.T) {
	dw := New(date(2024, time.March, 28), date(2024, time.March, 1))
	windows := dw.Weekly()

	assert.Len(t, windows, 4)
	assert.Equal(t, date(2024, time.March, 22), windows[0].Start)
	assert.Equal(t, date(2024, time.March, 1), windows[3].Start)
}

func TestLookback(t *testing.T) {
	dw := NewLookback(date(2024, time.June, 30), 0, 6, 0)

	assert.Equal(t, date(2024, time.January, 1), dw.FromDate())
	assert.Len(t, dw.Monthly(), 6)
}

func TestMemoization(t *testing.T) {
	t.Run("Repeated calls reuse the memoized slice", func(t *testing.T) {
		dw := New(date(2024, time.June, 30), date(2024, time.January, 1))

		first := dw.Monthly()
		second := dw.Monthly()

		assert.Equal(t, first, second)
		if assert.NotEmpty(t, first) {
			assert.Same(t, &first[0], &second[0])
		}
	})

	t.Run("Mutating a bound drops memoized windows", func(t *testing.T) {
		dw := New(date(2024, time.June, 30), date(2024, time.January, 1))
		assert.Len(t, dw.Monthly(), 6)

		dw.SetFromDate(date(2024, time.June, 1))
		assert.Len(t, dw.Monthly(), 1)
	})
}

func TestIncrementFromDate(t *testing.T) {
	dw := New(date(2024, time.March, 31), date(2024, time.March, 31))
	dw.IncrementFromDate(0, 0, 1)

	// lower bound moved past the upper bound, nothing left to sync
	assert.Empty(t, dw.Monthly())

	dw.SetToDate(date(2024, time.April, 30))
	assert.Len(t, dw.Monthly(), 1)
	assert.Equal(t, date(2024, time.April, 1), dw.Monthly()[0].Start)
}

func TestBoundsNormalization(t *testing.T) {
	dw := New(
		time.Date(2024, time.March, 5, 14, 30, 12, 0, time.UTC),
		time.Date(2024, time.January, 10, 9, 15, 0, 0, time.UTC),
	)

	assert.Equal(t, date(2024, time.January, 10), dw.FromDate())
	assert.Equal(t, time.Date(2024, time.March, 5, 23, 59, 59, 999000000, time.UTC), dw.ToDate())
}
