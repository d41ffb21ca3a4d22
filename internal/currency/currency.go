// Package currency converts and formats amounts between pesos and dollars.
//
// Stored amounts are always in ARS. A Converter is built per request from
// immutable Settings and the current rate snapshot, so nothing here holds
// global state.
package currency

import (
	"math"
	"strings"

	"github.com/Dan9191/finpyme/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Code is a supported display currency
type Code string

const (
	ARS Code = "ARS"
	USD Code = "USD"
)

// Symbol returns the prefix used when showing amounts
func (c Code) Symbol() string {
	if c == USD {
		return "US$"
	}
	return "$"
}

// Decimals returns the number of fraction digits displayed
func (c Code) Decimals() int {
	if c == USD {
		return 2
	}
	return 0
}

// Locale returns the formatting locale for the currency
func (c Code) Locale() language.Tag {
	if c == USD {
		return language.AmericanEnglish
	}
	return language.MustParse("es-AR")
}

// Settings is the display preference of a user
type Settings struct {
	Display    Code              `json:"currency"`
	DollarType models.DollarType `json:"dollar_type"`
}

// DefaultSettings shows pesos using the official quote
func DefaultSettings() Settings {
	return Settings{Display: ARS, DollarType: models.DollarOficial}
}

// ParseSettings builds settings from user input. Unknown values keep the
// defaults.
func ParseSettings(currency, dollarType string) Settings {
	s := DefaultSettings()
	if Code(strings.ToUpper(currency)) == USD {
		s.Display = USD
	}
	switch dt := models.DollarType(strings.ToLower(dollarType)); dt {
	case models.DollarBlue, models.DollarMEP:
		s.DollarType = dt
	}
	return s
}

// Converter converts and formats amounts for one set of settings
type Converter struct {
	settings Settings
	rates    models.RateSnapshot
}

// NewConverter creates a converter over a fixed snapshot
func NewConverter(settings Settings, rates models.RateSnapshot) *Converter {
	return &Converter{settings: settings, rates: rates}
}

// Settings returns the converter's display settings
func (c *Converter) Settings() Settings {
	return c.settings
}

// Rate returns the ARS-per-USD quote selected by the settings
func (c *Converter) Rate() float64 {
	return c.rates.Rate(c.settings.DollarType)
}

// Convert moves amount between ARS and USD using the selected quote.
// Other pairs are returned unchanged. Invalid input or a missing quote
// yields 0.
func (c *Converter) Convert(amount float64, from, to Code) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	if from == to {
		return amount
	}

	rate := c.Rate()
	switch {
	case from == ARS && to == USD:
		if rate <= 0 {
			return 0
		}
		return amount / rate
	case from == USD && to == ARS:
		if rate <= 0 {
			return 0
		}
		return amount * rate
	}
	return amount
}

// ToDisplay converts a stored ARS amount to the display currency
func (c *Converter) ToDisplay(amount float64) float64 {
	return c.Convert(amount, ARS, c.settings.Display)
}

// Format parses a stored amount and formats it in the display currency.
// Non-numeric input is treated as 0.
func (c *Converter) Format(amount string, showSymbol bool) string {
	return c.FormatAmount(ParseAmount(amount), showSymbol)
}

// FormatAmount formats a stored ARS amount in the display currency
func (c *Converter) FormatAmount(amount float64, showSymbol bool) string {
	code := c.settings.Display
	value := c.ToDisplay(amount)
	if !showSymbol {
		return FormatNumber(code.Locale(), value, code.Decimals())
	}
	return FormatMoney(code, value)
}

// ParseAmount parses a decimal string, returning 0 when it is not a number
func ParseAmount(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// FormatMoney renders value with symbol and code, e.g. "-$1.500 ARS"
func FormatMoney(code Code, value float64) string {
	sign, abs := splitSign(value, code.Decimals())
	return sign + code.Symbol() + FormatNumber(code.Locale(), abs, code.Decimals()) + " " + string(code)
}

// FormatNumber formats v with locale grouping and a fixed number of
// fraction digits. NaN and infinities render as zero.
func FormatNumber(tag language.Tag, v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	sign, abs := splitSign(v, decimals)
	p := message.NewPrinter(tag)
	return sign + p.Sprint(number.Decimal(abs,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
}

// splitSign separates the sign so callers can place it before a symbol.
// Values that round to zero carry no sign.
func splitSign(v float64, decimals int) (string, float64) {
	scale := math.Pow(10, float64(decimals))
	if math.Round(math.Abs(v)*scale) == 0 {
		return "", 0
	}
	if v < 0 {
		return "-", -v
	}
	return "", v
}
