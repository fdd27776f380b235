package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Dish is a menu item suggested by the model.
type Dish struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var ErrInvalidOutput = errors.New("invalid model output")

// ParseDish validates the single-dish reply of an image analysis.
func ParseDish(raw string) (Dish, error) {
	var d Dish
	if err := decodeStrict(raw, &d); err != nil {
		return Dish{}, err
	}
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	if d.Name == "" {
		return Dish{}, fmt.Errorf("%w: name missing", ErrInvalidOutput)
	}
	return d, nil
}

// ParseDishList validates the {"items": [...]} reply of a text analysis.
// Entries without a name are dropped.
func ParseDishList(raw string) ([]Dish, error) {
	var parsed struct {
		Items *[]Dish `json:"items"`
	}
	if err := decodeStrict(raw, &parsed); err != nil {
		return nil, err
	}
	if parsed.Items == nil {
		return nil, fmt.Errorf("%w: items array missing", ErrInvalidOutput)
	}

	out := make([]Dish, 0, len(*parsed.Items))
	for _, d := range *parsed.Items {
		d.Name = strings.TrimSpace(d.Name)
		d.Description = strings.TrimSpace(d.Description)
		if d.Name == "" {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func decodeStrict(raw string, v any) error {
	text := stripFences(raw)
	if !json.Valid([]byte(text)) {
		return fmt.Errorf("%w: not json", ErrInvalidOutput)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return nil
}

// stripFences removes ```json ... ``` wrappers some models add.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
