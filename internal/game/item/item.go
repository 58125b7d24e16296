// Package item provides the runtime item model and the YAML template
// registry for predefined items.
package item

import (
	"strings"

	"github.com/google/uuid"
)

// Category constants for Item.Category.
const (
	CategoryWeapon     = "weapon"
	CategoryArmor      = "armor"
	CategoryConsumable = "consumable"
	CategoryMaterial   = "material"
	CategoryQuest      = "quest"
	CategoryMisc       = "misc"
)

// validCategories is the set of valid item categories.
var validCategories = map[string]bool{
	CategoryWeapon:     true,
	CategoryArmor:      true,
	CategoryConsumable: true,
	CategoryMaterial:   true,
	CategoryQuest:      true,
	CategoryMisc:       true,
}

// ValidCategory reports whether c is a known item category.
func ValidCategory(c string) bool {
	return validCategories[c]
}

// Item is a runtime item instance held in an inventory, a room, or a corpse.
type Item struct {
	// ID uniquely identifies this item instance.
	ID string
	// Name is the display name.
	Name string
	// Category is one of the Category constants; unknown values fall back to misc.
	Category string
	// Stackable indicates multiple copies merge into one entry.
	Stackable bool
	// Quantity is the stack size; always >= 1 for stackable items, 1 otherwise.
	Quantity int
	// Properties is a free-form numeric/boolean bag (e.g. "healing", "damage",
	// "damageModifier"). Values are float64 or bool.
	Properties map[string]any
}

// New creates an item instance with a fresh ID and a normalized category.
//
// Precondition: name must be non-empty.
// Postcondition: Quantity >= 1; Category is a valid category constant.
func New(name, category string) *Item {
	if !validCategories[category] {
		category = CategoryMisc
	}
	return &Item{
		ID:       uuid.New().String(),
		Name:     name,
		Category: category,
		Quantity: 1,
	}
}

// NumProp returns the numeric property with the given key, or 0 if absent or
// not a number.
func (i *Item) NumProp(key string) float64 {
	switch v := i.Properties[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// BoolProp returns the boolean property with the given key, or false.
func (i *Item) BoolProp(key string) bool {
	v, _ := i.Properties[key].(bool)
	return v
}

// SetProp stores a property value, allocating the bag lazily.
func (i *Item) SetProp(key string, value any) {
	if i.Properties == nil {
		i.Properties = make(map[string]any)
	}
	i.Properties[key] = value
}

// Matches reports whether the item matches the given name: exact
// case-insensitive match, or case-insensitive substring match.
//
// Postcondition: Returns false for an empty name.
func (i *Item) Matches(name string) bool {
	if name == "" {
		return false
	}
	have := strings.ToLower(i.Name)
	want := strings.ToLower(name)
	return have == want || strings.Contains(have, want)
}

// MatchesExact reports whether the item's name equals name, ignoring case.
func (i *Item) MatchesExact(name string) bool {
	return name != "" && strings.EqualFold(i.Name, name)
}

// Clone returns a deep copy of the item with the same ID.
func (i *Item) Clone() *Item {
	out := *i
	if i.Properties != nil {
		out.Properties = make(map[string]any, len(i.Properties))
		for k, v := range i.Properties {
			out.Properties[k] = v
		}
	}
	return &out
}
