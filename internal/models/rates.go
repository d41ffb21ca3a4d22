package models

import "time"

// DollarType identifies one of the parallel USD quotes of the peso market
type DollarType string

const (
	DollarOficial DollarType = "oficial"
	DollarBlue    DollarType = "blue"
	DollarMEP     DollarType = "mep"
)

// DollarTypes lists the quotes in display order
var DollarTypes = []DollarType{DollarOficial, DollarBlue, DollarMEP}

// RateSnapshot holds ARS-per-USD quotes. Values are always positive.
type RateSnapshot struct {
	Oficial   float64   `json:"oficial"`
	Blue      float64   `json:"blue"`
	MEP       float64   `json:"mep"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rate returns the quote for the given dollar type, defaulting to oficial
func (s RateSnapshot) Rate(t DollarType) float64 {
	switch t {
	case DollarBlue:
		return s.Blue
	case DollarMEP:
		return s.MEP
	default:
		return s.Oficial
	}
}

// InflationRate is the latest published monthly inflation figure
type InflationRate struct {
	Period      string  `json:"period"`
	MonthlyRate float64 `json:"monthly_rate"`
	Source      string  `json:"source"`
}
