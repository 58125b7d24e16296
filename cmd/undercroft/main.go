// Package main provides the Undercroft binary: a line-based REPL that wires
// the turn engine to its collaborators and reads player commands from stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/karstgames/undercroft/internal/collab"
	"github.com/karstgames/undercroft/internal/config"
	"github.com/karstgames/undercroft/internal/engine"
	"github.com/karstgames/undercroft/internal/game/corpse"
	"github.com/karstgames/undercroft/internal/game/dice"
	"github.com/karstgames/undercroft/internal/game/item"
	"github.com/karstgames/undercroft/internal/game/npc"
	"github.com/karstgames/undercroft/internal/game/script"
	"github.com/karstgames/undercroft/internal/game/world"
	"github.com/karstgames/undercroft/internal/observability"
	"github.com/karstgames/undercroft/internal/session"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	playerName := flag.String("name", "Adventurer", "player character name")
	theme := flag.String("theme", "forgotten undercroft", "world generation theme")
	seed := flag.Int64("seed", 0, "randomness seed; 0 = time-based")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	src := dice.NewSource(*seed)

	deps, err := buildDeps(cfg, src, logger)
	if err != nil {
		logger.Fatal("building engine dependencies", zap.Error(err))
	}

	possessions := corpse.DefaultPossessions()
	if cfg.Game.PossessionsDir != "" {
		possessions, err = corpse.LoadPossessions(cfg.Game.PossessionsDir)
		if err != nil {
			logger.Fatal("loading possession tables", zap.Error(err))
		}
	}

	items := item.NewRegistry()
	if cfg.Game.ItemsDir != "" {
		items, err = item.LoadDirectory(cfg.Game.ItemsDir)
		if err != nil {
			logger.Fatal("loading item templates", zap.Error(err))
		}
	}

	state := newGame(*playerName, *theme, cfg.Game.MinutesPerTurn, items, logger)
	eng := engine.New(state, possessions, deps)

	runner := session.NewRunner(logger)
	sess, err := runner.Add("local", eng)
	if err != nil {
		logger.Fatal("creating session", zap.Error(err))
	}

	logger.Info("undercroft starting",
		zap.String("player", *playerName),
		zap.String("theme", *theme),
		zap.Int64("seed", *seed),
	)

	repl(sess, cfg.Narrator.Timeout)
}

// buildDeps assembles the engine's collaborators from configuration: either
// the Anthropic-backed clients or the deterministic static fallbacks.
func buildDeps(cfg config.Config, src dice.Source, logger *zap.Logger) (engine.Deps, error) {
	deps := engine.Deps{
		Dice:          src,
		Logger:        logger,
		ExplorationXP: cfg.Game.ExplorationXP,
		CraftingXP:    cfg.Game.CraftingXP,
	}

	if cfg.Narrator.Provider == "anthropic" {
		client := collab.NewAnthropicClient(
			cfg.Narrator.APIKey,
			cfg.Narrator.Model,
			cfg.Narrator.MaxTokens,
			cfg.Narrator.Timeout,
			logger,
		)
		deps.Interpreter = client
		deps.Generator = client
		deps.Oracle = client
		deps.Narrator = client
	}

	if cfg.Game.DialogueDir != "" {
		dialogue, err := npc.LoadDialogue(cfg.Game.DialogueDir)
		if err != nil {
			return engine.Deps{}, fmt.Errorf("loading dialogue tables: %w", err)
		}
		deps.Dialogue = dialogue
	}

	if cfg.Game.ScriptsDir != "" {
		hooks := script.NewHooks(0, logger)
		if err := hooks.Load(cfg.Game.ScriptsDir); err != nil {
			return engine.Deps{}, fmt.Errorf("loading room scripts: %w", err)
		}
		deps.Hooks = hooks
	}

	return deps, nil
}

// newGame builds the starting state: one entrance room with a hostile
// occupant, a healing draught on the floor, and unlinked exits for the graph
// to expand lazily.
func newGame(playerName, theme string, minutesPerTurn int, items *item.Registry, logger *zap.Logger) *engine.State {
	draught := spawnItem(items, "healing-draught", func() *item.Item {
		it := item.New("healing draught", item.CategoryConsumable)
		it.Stackable = true
		it.SetProp("healing", float64(10))
		return it
	})

	entrance := &world.Room{
		ID:          "entrance",
		Title:       "The Sunken Entrance",
		Description: "Broken steps descend into darkness. The air smells of wet stone and old rot.",
		Doors: []*world.Door{
			{Direction: world.North, Description: "a crumbling archway"},
			{Direction: world.Down, Description: "a stairwell choked with rubble"},
		},
		Visited: true,
	}
	entrance.Items = append(entrance.Items, draught)
	entrance.NPCs = append(entrance.NPCs, npc.NewHostile("giant rat", 8, 1))

	graph := world.NewGraph(entrance, theme, logger)
	player := engine.NewPlayer(playerName, entrance.ID, 100, 2)
	return engine.NewState(player, graph, time.Now(), minutesPerTurn)
}

// spawnItem instantiates a registered template, or the fallback when the
// template is not loaded.
func spawnItem(items *item.Registry, templateID string, fallback func() *item.Item) *item.Item {
	if tpl, ok := items.Get(templateID); ok {
		return tpl.Instantiate()
	}
	return fallback()
}

// repl reads player commands line by line until EOF, "quit", or game over.
func repl(sess *session.Session, turnTimeout time.Duration) {
	fmt.Println("You stand at the entrance to the undercroft. What do you do?")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		input := scanner.Text()
		if input == "quit" || input == "exit" {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		result, err := sess.ProcessTurn(ctx, input)
		cancel()
		if errors.Is(err, engine.ErrGameOver) {
			fmt.Println("The game is over.")
			return
		}

		if result != nil {
			for _, ev := range result.Events {
				fmt.Println(ev.Message)
			}
			if result.Over {
				return
			}
		}
	}
}
