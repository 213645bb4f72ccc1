package hilbert

import "math"

// Progress is one M73 annotation.
type Progress struct {
	PercentDone      int
	MinutesRemaining int
}

// ProgressTracker turns elapsed print time into progress records. Elapsed
// time is the sum of the constant-time events seen so far (dwells, and
// distance / feed rate for every move that is not a curve step) plus curve
// steps / steps per minute.
type ProgressTracker struct {
	totalMinutes   float64
	stepsPerMinute float64

	fixedMinutes float64
	steps        int

	last    Progress
	started bool
}

func NewProgressTracker(totalMinutes, stepsPerMinute float64) *ProgressTracker {
	return &ProgressTracker{
		totalMinutes:   totalMinutes,
		stepsPerMinute: stepsPerMinute,
	}
}

// Elapsed returns the elapsed print time in minutes.
func (pt *ProgressTracker) Elapsed() float64 {
	return pt.fixedMinutes + float64(pt.steps)/pt.stepsPerMinute
}

// Steps returns the number of curve steps taken so far.
func (pt *ProgressTracker) Steps() int { return pt.steps }

// Start returns the record for the beginning of the print and makes it the
// reference for later de-duplication.
func (pt *ProgressTracker) Start() Progress {
	pt.last = pt.current()
	pt.started = true
	return pt.last
}

// Advance adds a constant-time event.
func (pt *ProgressTracker) Advance(minutes float64) (Progress, bool) {
	pt.fixedMinutes += minutes
	return pt.emit()
}

// Step adds one curve step.
func (pt *ProgressTracker) Step() (Progress, bool) {
	pt.steps++
	return pt.emit()
}

// Update sets the number of curve steps taken so far.
func (pt *ProgressTracker) Update(stepIndex int) (Progress, bool) {
	pt.steps = stepIndex
	return pt.emit()
}

// emit returns the current record if either rounded value differs from the
// last one returned.
func (pt *ProgressTracker) emit() (Progress, bool) {
	p := pt.current()
	if pt.started && p == pt.last {
		return p, false
	}
	pt.last = p
	pt.started = true
	return p, true
}

func (pt *ProgressTracker) current() Progress {
	elapsed := pt.Elapsed()

	pct := 100
	if pt.totalMinutes > 0 {
		pct = int(math.Round(100 * elapsed / pt.totalMinutes))
	}
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}

	remaining := int(math.Round(pt.totalMinutes - elapsed))
	if remaining < 0 {
		remaining = 0
	}
	return Progress{PercentDone: pct, MinutesRemaining: remaining}
}
