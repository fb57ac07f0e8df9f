package datewindows

import (
	"time"
)

// Granularity selects the step size used when splitting a sync range.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Window is one bounded UTC time range used to scope a remote query.
// Start is inclusive at 00:00:00.000, End is inclusive at 23:59:59.999.
type Window struct {
	Start time.Time
	End   time.Time
}

// DateWindows splits the range [fromDate, toDate] into contiguous,
// non-overlapping windows ordered newest-first. Results are memoized per
// granularity; mutating either bound drops all memoized results.
type DateWindows struct {
	fromDate time.Time
	toDate   time.Time
	cache    map[Granularity][]Window
}

// New creates a DateWindows covering [fromDate, toDate].
func New(toDate, fromDate time.Time) *DateWindows {
	d := &DateWindows{cache: make(map[Granularity][]Window)}
	d.SetToDate(toDate)
	d.SetFromDate(fromDate)
	return d
}

// NewLookback creates a DateWindows covering the given number of years,
// months and days back from toDate.
func NewLookback(toDate time.Time, years, months, days int) *DateWindows {
	d := &DateWindows{cache: make(map[Granularity][]Window)}
	d.SetToDate(toDate)
	from := startOfDay(d.toDate.AddDate(0, 0, 1)).AddDate(-years, -months, -days)
	d.SetFromDate(from)
	return d
}

// SetToDate moves the upper bound to the end of the given day and
// invalidates memoized windows.
func (d *DateWindows) SetToDate(t time.Time) {
	d.cache = make(map[Granularity][]Window)
	d.toDate = endOfDay(t.UTC())
}

// SetFromDate moves the lower bound to the start of the given day and
// invalidates memoized windows.
func (d *DateWindows) SetFromDate(t time.Time) {
	d.cache = make(map[Granularity][]Window)
	d.fromDate = startOfDay(t.UTC())
}

// IncrementFromDate shifts the lower bound forward.
func (d *DateWindows) IncrementFromDate(years, months, days int) {
	d.SetFromDate(d.fromDate.AddDate(years, months, days))
}

func (d *DateWindows) FromDate() time.Time {
	return d.fromDate
}

func (d *DateWindows) ToDate() time.Time {
	return d.toDate
}

// Windows returns the memoized window sequence for the given granularity.
// An unknown granularity falls back to monthly.
func (d *DateWindows) Windows(g Granularity) []Window {
	if windows, ok := d.cache[g]; ok {
		return windows
	}

	var windows []Window
	switch g {
	case Daily:
		windows = d.build(0, 0, 1)
	case Weekly:
		windows = d.build(0, 0, 7)
	case Yearly:
		windows = d.build(1, 0, 0)
	default:
		windows = d.build(0, 1, 0)
	}

	d.cache[g] = windows
	return windows
}

// Daily returns daily windows.
func (d *DateWindows) Daily() []Window { return d.Windows(Daily) }

// Weekly returns weekly windows.
func (d *DateWindows) Weekly() []Window { return d.Windows(Weekly) }

// Monthly returns monthly windows.
func (d *DateWindows) Monthly() []Window { return d.Windows(Monthly) }

// Yearly returns yearly windows.
func (d *DateWindows) Yearly() []Window { return d.Windows(Yearly) }

// build walks backwards from toDate one step at a time. The final window's
// start is snapped to fromDate so an uneven range loses nothing at the
// boundary. A fromDate after toDate produces no windows.
func (d *DateWindows) build(years, months, days int) []Window {
	start := startOfDay(d.toDate.AddDate(0, 0, 1))
	end := d.toDate
	var windows []Window

	for start.After(d.fromDate) {
		start = startOfDay(start.AddDate(-years, -months, -days))
		windows = append(windows, Window{Start: start, End: end})
		end = endOfDay(end.AddDate(-years, -months, -days))
	}

	if len(windows) > 0 {
		windows[len(windows)-1].Start = d.fromDate
	}

	return windows
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, time.UTC)
}
