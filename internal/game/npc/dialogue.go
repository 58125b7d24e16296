package npc

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/karstgames/undercroft/internal/game/dice"
)

// DialogueTable holds short trait-conditioned lines spoken at disposition
// transitions. Keys are trait names; the "default" key is the fallback.
type DialogueTable struct {
	Surrender map[string][]string `yaml:"surrender"`
}

// DefaultDialogue returns the built-in dialogue table used when no YAML
// override directory is configured.
func DefaultDialogue() *DialogueTable {
	return &DialogueTable{
		Surrender: map[string][]string{
			"cowardly": {
				"Mercy! Take whatever you want!",
				"I yield, I yield! Please!",
			},
			"pragmatic": {
				"Enough. This fight profits neither of us.",
				"I know when the odds have turned. I yield.",
			},
			"proud": {
				"You... this changes nothing. I yield, for now.",
			},
			"default": {
				"I surrender! Spare me!",
				"No more! I give up!",
			},
		},
	}
}

// SurrenderLine picks a surrender line conditioned on the NPC's traits.
// The first trait with a table entry wins; otherwise the default entry is used.
//
// Precondition: src must not be nil.
// Postcondition: Returns a non-empty string when the table has a default entry.
func (t *DialogueTable) SurrenderLine(n *NPC, src dice.Source) string {
	for _, trait := range n.Traits {
		if lines, ok := t.Surrender[trait]; ok && len(lines) > 0 {
			return lines[src.Intn(len(lines))]
		}
	}
	lines := t.Surrender["default"]
	if len(lines) == 0 {
		return ""
	}
	return lines[src.Intn(len(lines))]
}

// LoadDialogue reads all *.yaml and *.yml files from dir and merges their
// surrender entries over the built-in defaults, later files winning per trait.
//
// Precondition: dir is a readable directory path.
// Postcondition: Returns a non-nil DialogueTable or the first encountered error.
func LoadDialogue(dir string) (*DialogueTable, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dialogue dir %q: %w", dir, err)
	}
	table := DefaultDialogue()
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
		var loaded DialogueTable
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for trait, lines := range loaded.Surrender {
			if len(lines) > 0 {
				table.Surrender[trait] = lines
			}
		}
	}
	return table, nil
}
