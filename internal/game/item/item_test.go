package item_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karstgames/undercroft/internal/collab"
	"github.com/karstgames/undercroft/internal/game/item"
)

func TestNew_UnknownCategoryFallsBackToMisc(t *testing.T) {
	it := item.New("odd bauble", "artifact")
	assert.Equal(t, item.CategoryMisc, it.Category)
	assert.Equal(t, 1, it.Quantity)
	assert.NotEmpty(t, it.ID)
}

func TestMatches_ExactAndSubstring(t *testing.T) {
	it := item.New("Rusty Iron Sword", item.CategoryWeapon)
	assert.True(t, it.Matches("rusty iron sword"))
	assert.True(t, it.Matches("sword"))
	assert.False(t, it.Matches("axe"))
	assert.False(t, it.Matches(""))

	assert.True(t, it.MatchesExact("RUSTY IRON SWORD"))
	assert.False(t, it.MatchesExact("sword"))
}

func TestProps(t *testing.T) {
	it := item.New("healing draught", item.CategoryConsumable)
	it.SetProp("healing", float64(10))
	it.SetProp("blessed", true)

	assert.Equal(t, float64(10), it.NumProp("healing"))
	assert.True(t, it.BoolProp("blessed"))
	assert.Zero(t, it.NumProp("missing"))
	assert.False(t, it.BoolProp("missing"))
}

func TestClone_IsIndependent(t *testing.T) {
	it := item.New("lantern", item.CategoryMisc)
	it.SetProp("fuel", float64(3))

	copied := it.Clone()
	copied.SetProp("fuel", float64(0))

	assert.Equal(t, float64(3), it.NumProp("fuel"))
	assert.Equal(t, it.ID, copied.ID, "clones keep the instance id")
}

func TestFromSpec_DefaultsAndRoundTrip(t *testing.T) {
	it := item.FromSpec(collab.ItemSpec{Name: "rope", Category: "nonsense", Quantity: 0})
	assert.Equal(t, item.CategoryMisc, it.Category)
	assert.Equal(t, 1, it.Quantity)
	assert.NotEmpty(t, it.ID)

	spec := it.ToSpec()
	assert.Equal(t, it.ID, spec.ID)
	assert.Equal(t, "rope", spec.Name)
}

func TestTemplate_Validate(t *testing.T) {
	tpl := &item.Template{ID: "sword-iron", Name: "iron sword", Category: item.CategoryWeapon}
	assert.NoError(t, tpl.Validate())

	bad := &item.Template{Category: "artifact"}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID must not be empty")
}

func TestTemplate_InstantiateSharesNothing(t *testing.T) {
	tpl := &item.Template{
		ID:         "draught",
		Name:       "healing draught",
		Category:   item.CategoryConsumable,
		Stackable:  true,
		Properties: map[string]any{"healing": 10},
	}
	a := tpl.Instantiate()
	b := tpl.Instantiate()

	assert.NotEqual(t, a.ID, b.ID)
	a.SetProp("healing", 0)
	assert.Equal(t, float64(10), b.NumProp("healing"))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	good := `id: sword-iron
name: iron sword
category: weapon
properties:
  damage: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sword.yaml"), []byte(good), 0o644))

	reg, err := item.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	tpl, ok := reg.Get("sword-iron")
	require.True(t, ok)
	assert.Equal(t, "iron sword", tpl.Name)
	assert.Equal(t, float64(4), tpl.Instantiate().NumProp("damage"))
}

func TestLoadDirectory_RejectsInvalidTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: nameless\ncategory: weapon\n"), 0o644))

	_, err := item.LoadDirectory(dir)
	assert.Error(t, err)
}
