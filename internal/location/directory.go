// Package location holds the known pin codes and areas served by the feed.
package location

import (
	"sort"

	"hyperlocal/internal/model"
)

// Defaults are the region fields applied when a profile leaves them empty.
type Defaults struct {
	Country  string `json:"country"`
	State    string `json:"state"`
	District string `json:"district"`
}

// PinCode lists the areas that belong to one pin code.
type PinCode struct {
	PinCode string   `json:"pin_code"`
	Areas   []string `json:"areas"`
}

// Directory is a read-only listing of supported locations.
type Directory struct {
	defaults Defaults
	areas    map[string][]string
}

// knownAreas mirrors the pin codes offered during profile setup.
var knownAreas = map[string][]string{
	"400072": {"Jari Mari", "Safed Pool"},
	"400087": {"Powai", "Filter Pada", "Murarji Nagar"},
}

// NewDirectory builds the directory with the given region defaults.
func NewDirectory(defaults Defaults) *Directory {
	areas := make(map[string][]string, len(knownAreas))
	for pin, list := range knownAreas {
		areas[pin] = append([]string(nil), list...)
	}
	return &Directory{defaults: defaults, areas: areas}
}

// Defaults returns the region defaults.
func (d *Directory) Defaults() Defaults {
	return d.defaults
}

// PinCodes returns every pin code with its areas, sorted by pin code.
func (d *Directory) PinCodes() []PinCode {
	out := make([]PinCode, 0, len(d.areas))
	for pin, areas := range d.areas {
		out = append(out, PinCode{PinCode: pin, Areas: append([]string(nil), areas...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PinCode < out[j].PinCode })
	return out
}

// Known reports whether loc is a listed (pin code, area) pair.
func (d *Directory) Known(loc model.Location) bool {
	for _, area := range d.areas[loc.PinCode] {
		if area == loc.Area {
			return true
		}
	}
	return false
}

// All returns every known location key.
func (d *Directory) All() []model.Location {
	var out []model.Location
	for _, pc := range d.PinCodes() {
		for _, area := range pc.Areas {
			out = append(out, model.Location{PinCode: pc.PinCode, Area: area})
		}
	}
	return out
}
