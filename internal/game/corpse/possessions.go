package corpse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/karstgames/undercroft/internal/collab"
	"github.com/karstgames/undercroft/internal/game/dice"
	"github.com/karstgames/undercroft/internal/game/item"
)

// GenericRoll is one chance-gated generic possession entry.
type GenericRoll struct {
	Item   collab.ItemSpec `yaml:"item"`
	Chance float64         `yaml:"chance"`
}

// PossessionTable is the deterministic rule table deriving a dead humanoid's
// personal effects from its occupation, plus generic food/trinket rolls.
type PossessionTable struct {
	Occupations map[string][]collab.ItemSpec `yaml:"occupations"`
	Generic     []GenericRoll                `yaml:"generic"`
}

// DefaultPossessions returns the built-in possession table.
func DefaultPossessions() *PossessionTable {
	return &PossessionTable{
		Occupations: map[string][]collab.ItemSpec{
			"smith": {
				{Name: "smith's hammer", Category: item.CategoryWeapon, Properties: map[string]any{"damage": 3.0}},
				{Name: "iron tongs", Category: item.CategoryMisc},
				{Name: "iron ingot", Category: item.CategoryMaterial, Stackable: true, Quantity: 2},
			},
			"merchant": {
				{Name: "trade ledger", Category: item.CategoryMisc},
				{Name: "coin pouch", Category: item.CategoryMisc, Properties: map[string]any{"coins": 12.0}},
			},
			"healer": {
				{Name: "mortar and pestle", Category: item.CategoryMisc},
				{Name: "healing potion", Category: item.CategoryConsumable, Properties: map[string]any{"healing": 10.0}},
			},
			"guard": {
				{Name: "short sword", Category: item.CategoryWeapon, Properties: map[string]any{"damage": 4.0}},
				{Name: "guard's whistle", Category: item.CategoryMisc},
			},
			"scholar": {
				{Name: "worn journal", Category: item.CategoryMisc},
				{Name: "ink vial", Category: item.CategoryMaterial},
			},
		},
		Generic: []GenericRoll{
			{Item: collab.ItemSpec{Name: "stale bread", Category: item.CategoryConsumable, Properties: map[string]any{"healing": 2.0}}, Chance: 0.5},
			{Item: collab.ItemSpec{Name: "tarnished trinket", Category: item.CategoryMisc}, Chance: 0.3},
		},
	}
}

// Derive rolls the possessions for a dead NPC with the given occupation.
// Occupation matching is case-insensitive; unknown or empty occupations yield
// only generic rolls.
//
// Precondition: src must not be nil.
// Postcondition: every returned item has a fresh instance id.
func (t *PossessionTable) Derive(occupation string, src dice.Source) []*item.Item {
	var out []*item.Item
	for key, specs := range t.Occupations {
		if strings.EqualFold(key, occupation) {
			for _, spec := range specs {
				out = append(out, item.FromSpec(spec))
			}
			break
		}
	}
	for _, roll := range t.Generic {
		if dice.Chance(src, roll.Chance) {
			out = append(out, item.FromSpec(roll.Item))
		}
	}
	return out
}

// LoadPossessions reads all *.yaml and *.yml files from dir and merges their
// entries over the built-in defaults, later files winning per occupation.
//
// Precondition: dir is a readable directory path.
// Postcondition: Returns a non-nil PossessionTable or the first encountered error.
func LoadPossessions(dir string) (*PossessionTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading possessions dir %q: %w", dir, err)
	}
	table := DefaultPossessions()
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var loaded PossessionTable
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for occ, specs := range loaded.Occupations {
			table.Occupations[occ] = specs
		}
		if len(loaded.Generic) > 0 {
			table.Generic = loaded.Generic
		}
	}
	return table, nil
}
