package domain

import (
	"encoding/json"
)

const (
	ratioNotApplicableSentinel = float64(-1)
	ratioInfiniteSentinel      = float64(99)
)

type ratioKind int

const (
	kindNotApplicable ratioKind = iota
	kindInfinite
	kindValue
)

// Ratio is a growth or efficiency ratio that may be undefined. It keeps the
// three cases distinct in code while serializing to the sentinel convention
// the dashboard consumes: -1 for not applicable, 99 for infinite, otherwise
// the plain value.
type Ratio struct {
	kind  ratioKind
	value float64
}

func RatioValue(v float64) Ratio {
	return Ratio{kind: kindValue, value: v}
}

func RatioNotApplicable() Ratio {
	return Ratio{kind: kindNotApplicable}
}

func RatioInfinite() Ratio {
	return Ratio{kind: kindInfinite}
}

func (r Ratio) IsNotApplicable() bool {
	return r.kind == kindNotApplicable
}

func (r Ratio) IsInfinite() bool {
	return r.kind == kindInfinite
}

// Value returns the numeric ratio and whether it carries one.
func (r Ratio) Value() (float64, bool) {
	if r.kind != kindValue {
		return 0, false
	}
	return r.value, true
}

// Sentinel flattens the ratio to its wire representation.
func (r Ratio) Sentinel() float64 {
	switch r.kind {
	case kindNotApplicable:
		return ratioNotApplicableSentinel
	case kindInfinite:
		return ratioInfiniteSentinel
	default:
		return r.value
	}
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Sentinel())
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	var raw float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case ratioNotApplicableSentinel:
		*r = RatioNotApplicable()
	case ratioInfiniteSentinel:
		*r = RatioInfinite()
	default:
		*r = RatioValue(raw)
	}
	return nil
}
