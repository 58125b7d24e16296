package item

import (
	"github.com/google/uuid"

	"github.com/karstgames/undercroft/internal/collab"
)

// FromSpec builds a runtime Item from a collaborator item spec, assigning a
// fresh instance ID when the spec carries none.
//
// Postcondition: Quantity >= 1; Category is a valid category constant.
func FromSpec(spec collab.ItemSpec) *Item {
	category := spec.Category
	if !validCategories[category] {
		category = CategoryMisc
	}
	id := spec.ID
	if id == "" {
		id = uuid.New().String()
	}
	qty := spec.Quantity
	if qty < 1 {
		qty = 1
	}
	it := &Item{
		ID:        id,
		Name:      spec.Name,
		Category:  category,
		Stackable: spec.Stackable,
		Quantity:  qty,
	}
	for k, v := range spec.Properties {
		it.SetProp(k, v)
	}
	return it
}

// ToSpec converts a runtime Item back into a collaborator item spec.
func (i *Item) ToSpec() collab.ItemSpec {
	props := make(map[string]any, len(i.Properties))
	for k, v := range i.Properties {
		props[k] = v
	}
	return collab.ItemSpec{
		ID:         i.ID,
		Name:       i.Name,
		Category:   i.Category,
		Stackable:  i.Stackable,
		Quantity:   i.Quantity,
		Properties: props,
	}
}
