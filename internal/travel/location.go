package travel

import (
	"encoding/json"
	"errors"
	"strings"

	"skysdk/pkg/logger"
)

// Normalizer maps raw upstream JSON onto the canonical domain model.
// Bad records in list payloads are dropped with a warning; detail payloads
// fail hard.
type Normalizer struct {
	logger logger.Client
}

func NewNormalizer(logger logger.Client) *Normalizer {
	return &Normalizer{logger: logger}
}

// rawLocation carries every location field any known upstream shape uses.
// Which fields are populated decides the mapping variant.
type rawLocation struct {
	EntityID    string `json:"entityId"`
	SkyID       string `json:"skyId"`
	ID          string `json:"id"`
	Code        string `json:"code"`
	DisplayCode string `json:"displayCode"`
	Name        string `json:"name"`
	Type        string `json:"type"`

	Presentation *struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
	} `json:"presentation"`
	Navigation *struct {
		EntityType    string `json:"entityType"`
		LocalizedName string `json:"localizedName"`
	} `json:"navigation"`

	City *struct {
		Name string `json:"name"`
	} `json:"city"`
	Region *struct {
		Name string `json:"name"`
	} `json:"region"`
	Country *struct {
		Name string `json:"name"`
	} `json:"country"`
	DistanceToCity *struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	} `json:"distanceToCity"`

	RegionName  string `json:"regionName"`
	CountryName string `json:"countryName"`
	CityName    string `json:"cityName"`
}

// Location normalizes one raw place record. The shape is detected by key
// probing, in priority order: v1 search-airport, places, flat.
func (n *Normalizer) Location(raw json.RawMessage) (Location, error) {
	var rl rawLocation
	if err := json.Unmarshal(raw, &rl); err != nil {
		return Location{}, err
	}

	var loc Location
	switch {
	case rl.Presentation != nil || rl.Navigation != nil:
		loc = mapSearchAirportShape(rl)
	case rl.City != nil || rl.Region != nil || rl.Country != nil || rl.DistanceToCity != nil || rl.DisplayCode != "":
		loc = mapPlacesShape(rl)
	default:
		loc = mapFlatShape(rl)
	}

	if loc.Code == "" && loc.EntityID != "" {
		loc.Code = codeFromEntityID(loc.EntityID)
	}
	if loc.Type == LocationTypeCity && loc.CityName == "" {
		loc.CityName = loc.Name
	}

	if loc.EntityID == "" || loc.Code == "" {
		return Location{}, errors.New("location record missing entity id or code")
	}

	return loc, nil
}

// mapSearchAirportShape handles the v1 searchAirport response item:
// {entityId, skyId, presentation:{title, subtitle}, navigation:{entityType, localizedName}}.
func mapSearchAirportShape(rl rawLocation) Location {
	loc := Location{
		EntityID: rl.EntityID,
		Code:     rl.SkyID,
	}
	if rl.Presentation != nil {
		loc.Name = rl.Presentation.Title
		loc.CountryName = rl.Presentation.Subtitle
	}
	if rl.Navigation != nil {
		loc.Type = rl.Navigation.EntityType
		loc.CityName = rl.Navigation.LocalizedName
	}
	return loc
}

// mapPlacesShape handles the places response item with nested city/region/
// country objects and an optional distanceToCity pair.
func mapPlacesShape(rl rawLocation) Location {
	entityID := rl.EntityID
	if entityID == "" {
		entityID = rl.ID
	}
	code := rl.DisplayCode
	if code == "" {
		code = rl.Code
	}

	loc := Location{
		EntityID: entityID,
		Code:     code,
		Name:     rl.Name,
		Type:     rl.Type,
	}
	if rl.City != nil {
		loc.CityName = rl.City.Name
	}
	if rl.Region != nil {
		loc.RegionName = rl.Region.Name
	}
	if rl.Country != nil {
		loc.CountryName = rl.Country.Name
	}
	if rl.DistanceToCity != nil {
		v := rl.DistanceToCity.Value
		loc.DistanceToCityValue = &v
		loc.DistanceToCityUnit = rl.DistanceToCity.Unit
	}
	return loc
}

// mapFlatShape handles records that were already flattened upstream:
// {id, code, name, type, cityName, regionName, countryName}.
func mapFlatShape(rl rawLocation) Location {
	entityID := rl.ID
	if entityID == "" {
		entityID = rl.EntityID
	}
	return Location{
		EntityID:    entityID,
		Code:        rl.Code,
		Name:        rl.Name,
		Type:        rl.Type,
		CityName:    rl.CityName,
		RegionName:  rl.RegionName,
		CountryName: rl.CountryName,
	}
}

// codeFromEntityID takes the first dot-separated segment of an entity id,
// e.g. "SDF.AIRPORT" -> "SDF".
func codeFromEntityID(entityID string) string {
	if i := strings.Index(entityID, "."); i > 0 {
		return entityID[:i]
	}
	return entityID
}

// LocationList normalizes a whole location response. It accepts
// {"data": [...]}, {"places": [...]}, a bare list, or a single object,
// because the wrapper key differs between upstream API versions.
// Records that fail to normalize are dropped, not fatal.
func (n *Normalizer) LocationList(raw json.RawMessage) []Location {
	items := unwrapLocationItems(raw)

	locations := make([]Location, 0, len(items))
	for _, item := range items {
		loc, err := n.Location(item)
		if err != nil {
			n.logger.Warn("dropping unparseable location record", logger.Err(err))
			continue
		}
		locations = append(locations, loc)
	}
	return locations
}

func unwrapLocationItems(raw json.RawMessage) []json.RawMessage {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err == nil {
		if wrapped, ok := object["data"]; ok {
			return asItemList(wrapped)
		}
		if wrapped, ok := object["places"]; ok {
			return asItemList(wrapped)
		}
		// Single bare object: treat it as a one-element list.
		return []json.RawMessage{raw}
	}

	return asItemList(raw)
}

func asItemList(raw json.RawMessage) []json.RawMessage {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return []json.RawMessage{raw}
}
