package checklist

import (
	"errors"
	"fmt"
)

// Item is a single checklist line with its fixed point value.
type Item struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Category groups items inside a sector.
type Category struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Sector is an operational area of a franchise that is inspected independently.
type Sector struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// TotalPoints is the sum of every item in the sector.
func (s Sector) TotalPoints() int {
	total := 0
	for _, c := range s.Categories {
		for _, it := range c.Items {
			total += it.Points
		}
	}
	return total
}

// Catalog is the ordered list of sectors shown on the inspection form.
type Catalog []Sector

// Sectors returns a copy of the catalog in display order.
func (c Catalog) Sectors() []Sector {
	return c.Clone()
}

// Clone copies the catalog down to the item slices.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for i, s := range c {
		cats := make([]Category, len(s.Categories))
		for j, cat := range s.Categories {
			cats[j] = Category{Title: cat.Title, Items: append([]Item(nil), cat.Items...)}
		}
		s.Categories = cats
		out[i] = s
	}
	return out
}

func (c Catalog) SectorByID(id string) (Sector, bool) {
	for _, s := range c {
		if s.ID == id {
			return s, true
		}
	}
	return Sector{}, false
}

// Validate checks the catalog invariants: unique sector ids, unique item
// names within a category and strictly positive points.
func (c Catalog) Validate() error {
	var errs []error
	seenSector := make(map[string]bool, len(c))

	for _, s := range c {
		if s.ID == "" {
			errs = append(errs, errors.New("sector with empty id"))
		}
		if seenSector[s.ID] {
			errs = append(errs, fmt.Errorf("duplicate sector id %q", s.ID))
		}
		seenSector[s.ID] = true

		for _, cat := range s.Categories {
			seenItem := make(map[string]bool, len(cat.Items))
			for _, it := range cat.Items {
				if seenItem[it.Name] {
					errs = append(errs, fmt.Errorf("%s/%s: duplicate item %q", s.ID, cat.Title, it.Name))
				}
				seenItem[it.Name] = true
				if it.Points <= 0 {
					errs = append(errs, fmt.Errorf("%s/%s/%s: points must be positive, got %d", s.ID, cat.Title, it.Name, it.Points))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// Default returns a private copy of the franchise inspection catalog.
func Default() Catalog {
	return defaultCatalog.Clone()
}

var defaultCatalog = Catalog{
	{
		ID:   "kitchen",
		Name: "Kitchen",
		Categories: []Category{
			{
				Title: "Hygiene",
				Items: []Item{
					{Name: "Hands washed before handling food", Points: 10},
					{Name: "Work surfaces clean and sanitized", Points: 10},
					{Name: "Uniforms, caps and hair nets worn", Points: 5},
				},
			},
			{
				Title: "Storage",
				Items: []Item{
					{Name: "Refrigerator temperatures logged", Points: 10},
					{Name: "Raw and cooked food stored separately", Points: 10},
					{Name: "Products labeled with preparation date", Points: 5},
				},
			},
			{
				Title: "Equipment",
				Items: []Item{
					{Name: "Grills and ovens clean", Points: 5},
					{Name: "Exhaust hood free of grease", Points: 5},
				},
			},
		},
	},
	{
		ID:   "buffet",
		Name: "Buffet",
		Categories: []Category{
			{
				Title: "Temperature",
				Items: []Item{
					{Name: "Hot line above 60°C", Points: 10},
					{Name: "Cold line below 5°C", Points: 10},
				},
			},
			{
				Title: "Replenishment",
				Items: []Item{
					{Name: "Trays replenished promptly", Points: 5},
					{Name: "One serving utensil per tray", Points: 5},
					{Name: "Sneeze guards clean", Points: 5},
				},
			},
		},
	},
	{
		ID:   "churrasco",
		Name: "Churrasco",
		Categories: []Category{
			{
				Title: "Grill",
				Items: []Item{
					{Name: "Skewers cleaned between services", Points: 5},
					{Name: "Meat cut to standard portion", Points: 5},
					{Name: "Charcoal stock sufficient for the shift", Points: 5},
				},
			},
			{
				Title: "Table service",
				Items: []Item{
					{Name: "Passadores rotate through every table", Points: 5},
					{Name: "Cuts announced to guests", Points: 5},
				},
			},
		},
	},
	{
		ID:   "dining_room",
		Name: "Dining room",
		Categories: []Category{
			{
				Title: "Presentation",
				Items: []Item{
					{Name: "Tables set and clean", Points: 5},
					{Name: "Floor clean and dry", Points: 5},
					{Name: "Lighting and climate adequate", Points: 5},
				},
			},
			{
				Title: "Service",
				Items: []Item{
					{Name: "Guests greeted on arrival", Points: 5},
					{Name: "Staff uniforms clean and complete", Points: 5},
				},
			},
		},
	},
	{
		ID:   "restrooms",
		Name: "Restrooms",
		Categories: []Category{
			{
				Title: "Cleanliness",
				Items: []Item{
					{Name: "Toilets and sinks clean", Points: 5},
					{Name: "Soap and paper towels stocked", Points: 5},
					{Name: "Cleaning log up to date", Points: 5},
				},
			},
		},
	},
}
