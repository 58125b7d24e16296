package collab

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const interpreterSystem = `You are the narrative interpreter for a turn-based dungeon crawl.
Given the player's free-text action and a snapshot of the game state, respond
with ONLY a JSON object of the form:
{"narrative": "...", "success": true, "intents": [{...}]}
Each intent may contain: healthDelta, addStatuses, removeStatuses, addFeatures,
removeItems, addItems, pickup, use, move, attack, craft, searchCorpse,
customEffects. Never invent items the player does not plausibly have access to.`

const generatorSystem = `You generate rooms for a turn-based dungeon crawl.
Respond with ONLY a JSON object of the form:
{"title": "...", "description": "...", "exits": ["north"], "items": [], "npcs": [], "features": []}
Every required exit direction MUST appear in "exits".`

const craftingSystem = `You are the crafting oracle for a dungeon crawl. Given component
items, respond with ONLY a JSON object for the crafted item
{"name": "...", "category": "...", "properties": {}} or the literal null when
the components cannot be combined.`

const corpseSystem = `You narrate searching a corpse in a dungeon crawl. Respond with
ONLY a JSON object of the form:
{"items": [{"name": "...", "category": "misc", "quantity": 1}], "narration": "..."}
Keep finds small and mundane.`

// AnthropicClient implements all four collaborator contracts against the
// Anthropic Messages API.
type AnthropicClient struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAnthropicClient creates a client for the given model.
//
// Precondition: apiKey and model must be non-empty; maxTokens >= 1;
// timeout > 0; logger must not be nil.
func NewAnthropicClient(apiKey, model string, maxTokens int, timeout time.Duration, logger *zap.Logger) *AnthropicClient {
	return &AnthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     anthropic.Model(model),
		maxTokens: int64(maxTokens),
		timeout:   timeout,
		logger:    logger,
	}
}

// complete sends one user prompt under the given system prompt and returns the
// concatenated text blocks of the response.
func (c *AnthropicClient) complete(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	c.logger.Debug("collaborator completion",
		zap.String("model", string(c.model)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_chars", sb.Len()),
	)
	return sb.String(), nil
}

// extractJSON strips optional markdown code fences around a JSON payload.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// Interpret implements Interpreter.
//
// Postcondition: every returned intent has been normalized.
func (c *AnthropicClient) Interpret(ctx context.Context, req InterpretRequest) (InterpretResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return InterpretResult{}, fmt.Errorf("encoding interpret request: %w", err)
	}
	text, err := c.complete(ctx, interpreterSystem, string(payload))
	if err != nil {
		return InterpretResult{}, err
	}
	var result InterpretResult
	if err := json.Unmarshal([]byte(extractJSON(text)), &result); err != nil {
		return InterpretResult{}, fmt.Errorf("decoding interpret response: %w", err)
	}
	for i := range result.Intents {
		result.Intents[i].Normalize()
	}
	return result, nil
}

// GenerateRoom implements RoomGenerator.
func (c *AnthropicClient) GenerateRoom(ctx context.Context, req GenerateRequest) (*RoomDescriptor, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding generate request: %w", err)
	}
	text, err := c.complete(ctx, generatorSystem, string(payload))
	if err != nil {
		return nil, err
	}
	var desc RoomDescriptor
	if err := json.Unmarshal([]byte(extractJSON(text)), &desc); err != nil {
		return nil, fmt.Errorf("decoding room descriptor: %w", err)
	}
	if desc.Title == "" || desc.Description == "" {
		return nil, fmt.Errorf("room descriptor missing title or description")
	}
	return &desc, nil
}

// Craft implements CraftingOracle. A JSON null response means "cannot
// combine" and yields (nil, nil).
func (c *AnthropicClient) Craft(ctx context.Context, req CraftRequest) (*ItemSpec, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding craft request: %w", err)
	}
	text, err := c.complete(ctx, craftingSystem, string(payload))
	if err != nil {
		return nil, err
	}
	raw := extractJSON(text)
	if raw == "null" || raw == "" {
		return nil, nil
	}
	var spec ItemSpec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, fmt.Errorf("decoding crafted item: %w", err)
	}
	if spec.Name == "" {
		return nil, nil
	}
	return &spec, nil
}

// NarrateSearch implements CorpseNarrator.
func (c *AnthropicClient) NarrateSearch(ctx context.Context, req CorpseSearchRequest) (*CorpseSearchResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding corpse search request: %w", err)
	}
	text, err := c.complete(ctx, corpseSystem, string(payload))
	if err != nil {
		return nil, err
	}
	var result CorpseSearchResult
	if err := json.Unmarshal([]byte(extractJSON(text)), &result); err != nil {
		return nil, fmt.Errorf("decoding corpse search response: %w", err)
	}
	return &result, nil
}
