// Package vpn provides VPN connection management functionality.
// This file contains the Catalog of selectable exit countries.
package vpn

import (
	"fmt"
	"sort"
)

// Catalog is an immutable mapping from country name to two-letter country
// code. It is built once at startup and shared by the controller and the UI.
type Catalog struct {
	codes map[string]string
	names []string
}

// defaultCountries are the exit countries offered by the VPN client.
var defaultCountries = map[string]string{
	"Australia":     "AU",
	"Armenia":       "AM",
	"Argentina":     "AR",
	"Belgium":       "BE",
	"Bulgaria":      "BG",
	"Brazil":        "BR",
	"Canada":        "CA",
	"Switzerland":   "CH",
	"Chile":         "CL",
	"China":         "CN",
	"Colombia":      "CO",
	"Czechia":       "CZ",
	"Germany":       "DE",
	"Denmark":       "DK",
	"Estonia":       "EE",
	"Kazakhstan":    "KZ",
	"Pakistan":      "PK",
	"Qatar":         "QA",
	"Ukraine":       "UA",
	"United States": "US",
}

// NewCatalog builds a catalog from name → code pairs. The input map is
// copied; later changes to it do not affect the catalog.
func NewCatalog(countries map[string]string) (*Catalog, error) {
	if len(countries) == 0 {
		return nil, fmt.Errorf("country catalog is empty")
	}

	c := &Catalog{
		codes: make(map[string]string, len(countries)),
		names: make([]string, 0, len(countries)),
	}

	for name, code := range countries {
		if name == "" {
			return nil, fmt.Errorf("country catalog: empty name for code %q", code)
		}
		if !isCountryCode(code) {
			return nil, fmt.Errorf("country catalog: invalid code %q for %s", code, name)
		}
		c.codes[name] = code
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	return c, nil
}

// DefaultCatalog returns the catalog of countries supported by the client.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultCountries)
	if err != nil {
		panic(err)
	}
	return c
}

// Code resolves a country name to its code.
func (c *Catalog) Code(name string) (string, bool) {
	code, ok := c.codes[name]
	return code, ok
}

// NameForCode returns the country name registered for code.
func (c *Catalog) NameForCode(code string) (string, bool) {
	for _, name := range c.names {
		if c.codes[name] == code {
			return name, true
		}
	}
	return "", false
}

// Names returns the country names in alphabetical order.
// The returned slice is a copy.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Len returns the number of countries.
func (c *Catalog) Len() int {
	return len(c.names)
}

func isCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < 2; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
