package rates

import (
	"time"

	"github.com/Dan9191/finpyme/internal/models"
)

// Source tells whether a quote came from the live feed or the fallback table
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Fallback quotes in ARS per USD, used when a source is unreachable
var fallbackRates = map[models.DollarType]float64{
	models.DollarOficial: 1050,
	models.DollarBlue:    1250,
	models.DollarMEP:     1200,
}

// FallbackRate returns the fixed quote for t
func FallbackRate(t models.DollarType) float64 {
	return fallbackRates[t]
}

// Result is the outcome of fetching a single quote
type Result struct {
	Type   models.DollarType `json:"type"`
	Rate   float64           `json:"rate"`
	Source Source            `json:"source"`
	Reason string            `json:"reason,omitempty"`
}

// Live builds a successful result
func Live(t models.DollarType, rate float64) Result {
	return Result{Type: t, Rate: rate, Source: SourceLive}
}

// Fallback builds a result carrying the fixed quote for t and why it was used
func Fallback(t models.DollarType, reason error) Result {
	r := Result{Type: t, Rate: FallbackRate(t), Source: SourceFallback}
	if reason != nil {
		r.Reason = reason.Error()
	}
	return r
}

// IsFallback reports whether the result replaced a failed fetch
func (r Result) IsFallback() bool {
	return r.Source == SourceFallback
}

// Snapshot is a full set of quotes plus how each one was obtained
type Snapshot struct {
	models.RateSnapshot
	Results []Result `json:"results"`
}

// NewSnapshot assembles a snapshot from per-quote results. Missing types
// take their fallback value.
func NewSnapshot(results []Result, at time.Time) Snapshot {
	byType := make(map[models.DollarType]Result, len(results))
	for _, r := range results {
		byType[r.Type] = r
	}

	s := Snapshot{RateSnapshot: models.RateSnapshot{UpdatedAt: at}}
	for _, t := range models.DollarTypes {
		r, ok := byType[t]
		if !ok {
			r = Fallback(t, nil)
		}
		switch t {
		case models.DollarOficial:
			s.Oficial = r.Rate
		case models.DollarBlue:
			s.Blue = r.Rate
		case models.DollarMEP:
			s.MEP = r.Rate
		}
		s.Results = append(s.Results, r)
	}
	return s
}

// DefaultSnapshot is the snapshot used before the first refresh
func DefaultSnapshot() Snapshot {
	return NewSnapshot(nil, time.Time{})
}
