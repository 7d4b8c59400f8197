package repository

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"weather-assistant/internal/models"
)

//go:embed locations.json
var locationsJSON []byte

type directoryEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// LocationDirectory is the static city→district→{code,name} reference data.
// It is packaged with the binary and read-only at runtime.
type LocationDirectory struct {
	cities map[string]map[string]directoryEntry
	byCode map[string]models.Location
}

// NewLocationDirectory parses the packaged directory file.
func NewLocationDirectory() (*LocationDirectory, error) {
	var cities map[string]map[string]directoryEntry
	if err := json.Unmarshal(locationsJSON, &cities); err != nil {
		return nil, fmt.Errorf("failed to parse location directory: %w", err)
	}

	byCode := make(map[string]models.Location)
	for city, districts := range cities {
		for district, entry := range districts {
			byCode[entry.Code] = models.Location{
				City:     city,
				District: district,
				Code:     entry.Code,
				Name:     entry.Name,
			}
		}
	}

	return &LocationDirectory{cities: cities, byCode: byCode}, nil
}

// ResolveCode looks up a location by its provider code.
func (d *LocationDirectory) ResolveCode(code string) (models.Location, bool) {
	loc, ok := d.byCode[code]
	return loc, ok
}

// Find looks up a location by city and district name.
func (d *LocationDirectory) Find(city, district string) (models.Location, bool) {
	districts, ok := d.cities[city]
	if !ok {
		return models.Location{}, false
	}
	entry, ok := districts[district]
	if !ok {
		return models.Location{}, false
	}
	return models.Location{City: city, District: district, Code: entry.Code, Name: entry.Name}, true
}

// Cities returns all top-level region names, sorted.
func (d *LocationDirectory) Cities() []string {
	cities := make([]string, 0, len(d.cities))
	for city := range d.cities {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

// Districts returns all districts of a city, sorted by code. The second
// return value is false for an unknown city.
func (d *LocationDirectory) Districts(city string) ([]models.Location, bool) {
	districts, ok := d.cities[city]
	if !ok {
		return nil, false
	}
	locations := make([]models.Location, 0, len(districts))
	for district, entry := range districts {
		locations = append(locations, models.Location{
			City:     city,
			District: district,
			Code:     entry.Code,
			Name:     entry.Name,
		})
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].Code < locations[j].Code })
	return locations, true
}
