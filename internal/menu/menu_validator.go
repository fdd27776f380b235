package menu

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrInvalidItem = errors.New("invalid menu item")

const dateLayout = "2006-01-02"

func ValidateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrInvalidItem, date)
	}
	return nil
}

// Normalize trims text fields and drops a subcategory outside Churrasco.
func Normalize(item MenuItem) MenuItem {
	item.Date = strings.TrimSpace(item.Date)
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	item.Category = strings.TrimSpace(item.Category)
	item.Subcategory = strings.TrimSpace(item.Subcategory)
	if item.Category != CategoryChurrasco {
		item.Subcategory = ""
	}
	return item
}

// ValidateItem expects a normalized item.
func ValidateItem(item MenuItem) error {
	if err := ValidateDate(item.Date); err != nil {
		return err
	}
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if !slices.Contains(Categories, item.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidItem, item.Category)
	}
	if item.Subcategory != "" && !slices.Contains(Subcategories, item.Subcategory) {
		return fmt.Errorf("%w: unknown subcategory %q", ErrInvalidItem, item.Subcategory)
	}
	return nil
}
