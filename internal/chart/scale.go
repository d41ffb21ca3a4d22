// Package chart prepares numeric series for charts: it picks one display
// unit per series and formats values, ticks and tooltips with it.
package chart

import (
	"fmt"
	"math"

	"github.com/Dan9191/finpyme/internal/currency"
	"golang.org/x/text/language"
)

// Scale is the display unit of a series
type Scale int

const (
	Units Scale = iota
	Thousands
	Millions
)

// Factor is the divisor applied to raw values
func (s Scale) Factor() float64 {
	switch s {
	case Millions:
		return 1_000_000
	case Thousands:
		return 1_000
	default:
		return 1
	}
}

// Suffix is appended to scaled values
func (s Scale) Suffix() string {
	switch s {
	case Millions:
		return "M"
	case Thousands:
		return "K"
	default:
		return ""
	}
}

func (s Scale) String() string {
	switch s {
	case Millions:
		return "millions"
	case Thousands:
		return "thousands"
	default:
		return "units"
	}
}

// MarshalText encodes the scale by name
func (s Scale) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a scale name written by MarshalText
func (s *Scale) UnmarshalText(text []byte) error {
	switch string(text) {
	case "units":
		*s = Units
	case "thousands":
		*s = Thousands
	case "millions":
		*s = Millions
	default:
		return fmt.Errorf("unknown scale %q", text)
	}
	return nil
}

// DetermineScale picks the unit from the largest absolute value. NaN values
// are ignored and an empty series uses units.
func DetermineScale(values []float64) Scale {
	max := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	switch {
	case max >= 1_000_000:
		return Millions
	case max >= 1_000:
		return Thousands
	default:
		return Units
	}
}

// Options controls value formatting
type Options struct {
	Locale       language.Tag
	Symbol       string // currency prefix, empty for plain numbers
	UnitDecimals int    // fraction digits when the scale is Units
	Decimals     int    // fraction digits for K and M values
}

// OptionsFor returns money formatting options for a display currency
func OptionsFor(code currency.Code) Options {
	return Options{
		Locale:       code.Locale(),
		Symbol:       code.Symbol(),
		UnitDecimals: code.Decimals(),
		Decimals:     1,
	}
}

func (o Options) decimals(s Scale) int {
	if s == Units {
		return o.UnitDecimals
	}
	return o.Decimals
}

// FormatValueWithScale divides value by the scale factor and formats it with
// suffix and optional symbol. The sign always precedes the symbol. NaN
// renders as "0".
func FormatValueWithScale(value float64, s Scale, opts Options) string {
	return formatScaled(value, s, opts, opts.decimals(s))
}

func formatScaled(value float64, s Scale, opts Options, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	scaled := value / s.Factor()

	sign := ""
	if scaled < 0 {
		sign = "-"
		scaled = -scaled
	}
	text := currency.FormatNumber(opts.Locale, scaled, decimals)
	if text == currency.FormatNumber(opts.Locale, 0, decimals) {
		sign = ""
	}
	return sign + opts.Symbol + text + s.Suffix()
}

// TickFormatter returns an axis label formatter sharing one scale for the
// whole series. NaN ticks render as "".
func TickFormatter(values []float64, opts Options) func(float64) string {
	s := DetermineScale(values)
	return func(v float64) string {
		if math.IsNaN(v) {
			return ""
		}
		return FormatValueWithScale(v, s, opts)
	}
}

// TooltipFormatter is like TickFormatter with one extra fraction digit
func TooltipFormatter(values []float64, opts Options) func(float64) string {
	s := DetermineScale(values)
	return func(v float64) string {
		if math.IsNaN(v) {
			return ""
		}
		return formatScaled(v, s, opts, opts.decimals(s)+1)
	}
}

// Series is a chart-ready list of values and their labels
type Series struct {
	Name   string    `json:"name"`
	Scale  Scale     `json:"scale"`
	Values []float64 `json:"values"`
	Labels []string  `json:"labels"`
}

// BuildSeries formats every value of a series with a common scale
func BuildSeries(name string, values []float64, opts Options) Series {
	format := TickFormatter(values, opts)
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = format(v)
	}
	return Series{Name: name, Scale: DetermineScale(values), Values: values, Labels: labels}
}
