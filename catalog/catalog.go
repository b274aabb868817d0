// Package catalog lists the cities, districts and positions a profile or
// match may use.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed cities.yaml
var defaultCatalog []byte

// City is a city with its districts.
type City struct {
	Name      string   `yaml:"name" json:"name"`
	Districts []string `yaml:"districts" json:"districts"`
}

// Catalog holds the selectable locations and positions.
type Catalog struct {
	Positions []string `yaml:"positions" json:"positions"`
	Cities    []City   `yaml:"cities" json:"cities"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(c.Cities) == 0 {
		return nil, fmt.Errorf("catalog has no cities")
	}
	return &c, nil
}

// HasPosition reports whether position is offered, ignoring case.
func (c *Catalog) HasPosition(position string) bool {
	for _, p := range c.Positions {
		if strings.EqualFold(p, position) {
			return true
		}
	}
	return false
}

// HasLocation reports whether the district belongs to the city, ignoring case.
func (c *Catalog) HasLocation(city, district string) bool {
	for _, ct := range c.Cities {
		if !strings.EqualFold(ct.Name, city) {
			continue
		}
		for _, d := range ct.Districts {
			if strings.EqualFold(d, district) {
				return true
			}
		}
		return false
	}
	return false
}
