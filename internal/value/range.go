package value

import "slate/internal/errors"

// Range is (start, end, step, exclusive), all values drawn from the
// numeric lattice (spec §3.5). Direction is fixed at creation from the
// sign of step; step == 0 is rejected at construction with a RangeError,
// never deferred to iteration time.
type Range struct {
	refcountEmbed
	Start     Value
	End       Value
	Step      Value
	Exclusive bool
	Positive  bool // true if step > 0
}

func NewRange(start, end, step Value, exclusive bool, loc *DebugLoc) (*Range, error) {
	stepF := ToFloat64(step)
	if stepF == 0 {
		return nil, errors.New(errors.RangeError, locOf(loc), "range step must not be zero")
	}
	r := &Range{
		Start:     Retain(start),
		End:       Retain(end),
		Step:      Retain(step),
		Exclusive: exclusive,
		Positive:  stepF > 0,
	}
	r.init()
	return r, nil
}

func (r *Range) Retain() *Range { r.retain(); return r }

func (r *Range) Release() {
	if r.release() {
		Release(r.Start)
		Release(r.End)
		Release(r.Step)
	}
}

func locOf(loc *DebugLoc) errors.Location {
	if loc == nil {
		return errors.Location{}
	}
	return errors.Location{File: loc.File, Line: loc.Line, Column: loc.Column}
}

// finished reports whether cur has passed end per r's direction and
// exclusivity (spec §4.5's iteration-protocol termination rule).
func (r *Range) finished(cur Value) bool {
	c := Compare(cur, r.End)
	if r.Positive {
		if r.Exclusive {
			return c >= 0
		}
		return c > 0
	}
	if r.Exclusive {
		return c <= 0
	}
	return c < 0
}
