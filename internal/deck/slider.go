package deck

import "strconv"

// Slider is the session duration control in whole minutes.
type Slider struct {
	Min   int
	Max   int
	Step  int
	value int
}

// NewSlider creates a slider over [lo, hi] set to value (clamped).
// A non-positive step becomes 1.
func NewSlider(lo, hi, step, value int) Slider {
	if step <= 0 {
		step = 1
	}
	s := Slider{Min: lo, Max: hi, Step: step}
	s.Set(value)
	return s
}

// Set clamps v into range and returns the stored value.
func (s *Slider) Set(v int) int {
	s.value = max(s.Min, min(s.Max, v))
	return s.value
}

// Inc moves one step up.
func (s *Slider) Inc() int { return s.Set(s.value + s.Step) }

// Dec moves one step down.
func (s *Slider) Dec() int { return s.Set(s.value - s.Step) }

// Value returns the current minutes.
func (s Slider) Value() int { return s.value }

// Label mirrors the value as "<n>m".
func (s Slider) Label() string { return strconv.Itoa(s.value) + "m" }

// Fraction reports the position within the range in [0, 1].
func (s Slider) Fraction() float64 {
	if s.Max <= s.Min {
		return 1
	}
	return float64(s.value-s.Min) / float64(s.Max-s.Min)
}
