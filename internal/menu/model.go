package menu

import "time"

const (
	CategoryBuffet    = "Buffet"
	CategorySushi     = "Sushi"
	CategoryDessert   = "Sobremesa"
	CategoryChurrasco = "Churrasco"
)

// Categories in the order the printed menu lists them.
var Categories = []string{CategoryBuffet, CategorySushi, CategoryChurrasco, CategoryDessert}

// Subcategories only apply to Churrasco.
var Subcategories = []string{"Pré-assada", "In natura", "Sobra"}

// MenuItem is one dish served on a given day.
type MenuItem struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryGroup is a section of the printable menu.
type CategoryGroup struct {
	Category string     `json:"category"`
	Items    []MenuItem `json:"items"`
}
