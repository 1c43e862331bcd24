package model

import "strings"

// Unit identifies one of the physical barbershop locations.
type Unit string

const (
	UnitForte       Unit = "forte"
	UnitGuadalajara Unit = "guadalajara"
)

// UnitAll is the filter value that selects every unit.
const UnitAll = "all"

var unitLabels = map[Unit]string{
	UnitForte:       "Av. do Forte n° 1825",
	UnitGuadalajara: "Rua Guadalajara n° 350",
}

// Units lists the known units in display order.
var Units = []Unit{UnitForte, UnitGuadalajara}

func (u Unit) String() string { return string(u) }

func (u Unit) Valid() bool {
	_, ok := unitLabels[u]
	return ok
}

// Label returns the street address shown for the unit, or the raw value when unknown.
func (u Unit) Label() string {
	if l, ok := unitLabels[u]; ok {
		return l
	}
	return string(u)
}

// ParseUnit normalizes input. Returns (value, true) if it names a known unit.
func ParseUnit(s string) (Unit, bool) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	return u, u.Valid()
}

// IsAllUnits reports whether a unit filter means "no filter".
func IsAllUnits(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, UnitAll)
}

// UnitInfo is the API view of a unit.
type UnitInfo struct {
	Value Unit   `json:"value"`
	Label string `json:"label"`
}

func UnitCatalog() []UnitInfo {
	out := make([]UnitInfo, 0, len(Units))
	for _, u := range Units {
		out = append(out, UnitInfo{Value: u, Label: u.Label()})
	}
	return out
}
