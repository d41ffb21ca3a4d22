package service

import (
	"strings"

	"github.com/Dan9191/finpyme/internal/currency"
	"github.com/Dan9191/finpyme/internal/models"
	"github.com/Dan9191/finpyme/internal/preferences"
)

var themes = map[string]bool{"light": true, "dark": true, "system": true}

// GetPreferences returns the stored preferences of userID
func (s *Service) GetPreferences(userID int64) (map[string]string, error) {
	return s.prefs.Get(userID)
}

// UpdatePreferences validates and merges preference values
func (s *Service) UpdatePreferences(userID int64, values map[string]string) (map[string]string, error) {
	var v ValidationError
	for key, value := range values {
		if value == "" {
			if !preferences.AllowedKey(key) {
				v.Add(key, "is not a known preference")
			}
			continue
		}
		switch key {
		case preferences.KeyCurrency:
			if c := currency.Code(strings.ToUpper(value)); c != currency.ARS && c != currency.USD {
				v.Add(key, "must be ARS or USD")
			} else {
				values[key] = string(c)
			}
		case preferences.KeyDollarType:
			dt := models.DollarType(strings.ToLower(value))
			if dt != models.DollarOficial && dt != models.DollarBlue && dt != models.DollarMEP {
				v.Add(key, "must be oficial, blue or mep")
			} else {
				values[key] = string(dt)
			}
		case preferences.KeyTheme:
			if !themes[value] {
				v.Add(key, "must be light, dark or system")
			}
		default:
			v.Add(key, "is not a known preference")
		}
	}
	if v.HasErrors() {
		return nil, &v
	}

	prefs, err := s.prefs.Update(userID, values)
	if err != nil {
		return nil, err
	}
	s.log.Infof("Preferences updated for user %d", userID)
	return prefs, nil
}

// settingsFor resolves display settings: explicit request values win over
// stored preferences, which win over defaults
func (s *Service) settingsFor(userID int64, currencyParam, dollarParam string) currency.Settings {
	if currencyParam == "" || dollarParam == "" {
		prefs, err := s.prefs.Get(userID)
		if err != nil {
			s.log.Warnf("Failed to read preferences for user %d: %v", userID, err)
		} else {
			if currencyParam == "" {
				currencyParam = prefs[preferences.KeyCurrency]
			}
			if dollarParam == "" {
				dollarParam = prefs[preferences.KeyDollarType]
			}
		}
	}
	return currency.ParseSettings(currencyParam, dollarParam)
}

// converterFor builds a converter over the current rate snapshot
func (s *Service) converterFor(userID int64, currencyParam, dollarParam string) *currency.Converter {
	return currency.NewConverter(s.settingsFor(userID, currencyParam, dollarParam), s.rates.Current().RateSnapshot)
}
