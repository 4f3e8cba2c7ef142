package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultResponsesURL = "https://api.openai.com/v1/responses"

const systemPrompt = `You are the dungeon master of a cooperative tabletop RPG.
Narrate the next beat of the story from the provided game state, then decide
what happens next. Respond with a single JSON object and nothing else, using
these fields:
  narration (string, required), need_dice_roll (bool),
  difficulty (int, when need_dice_roll), action_desc (string, when
  need_dice_roll), active_players (array of player ids expected to act),
  location_updates ([{character_name, location}]),
  item_updates ([{character_name, item, remove}]),
  plot_progress (int, index into the scenario outline),
  game_over (bool), game_result (string, when game_over).`

// OpenAIConfig configures the OpenAI narrator endpoint and HTTP behavior.
type OpenAIConfig struct {
	ResponsesURL string
	APIKey       string
	Model        string
	HTTPClient   *http.Client
}

type openAINarrator struct {
	cfg OpenAIConfig
}

// NewOpenAINarrator builds a narrator backed by the OpenAI Responses API.
func NewOpenAINarrator(cfg OpenAIConfig) Narrator {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = defaultResponsesURL
	}
	return &openAINarrator{cfg: cfg}
}

func (n *openAINarrator) Narrate(ctx context.Context, nc NarrationContext) (Narration, error) {
	apiKey := strings.TrimSpace(n.cfg.APIKey)
	model := strings.TrimSpace(n.cfg.Model)
	if apiKey == "" {
		return Narration{}, fmt.Errorf("api key is required")
	}
	if model == "" {
		return Narration{}, fmt.Errorf("model is required")
	}

	contextJSON, err := json.Marshal(nc)
	if err != nil {
		return Narration{}, fmt.Errorf("marshal narration context: %w", err)
	}
	requestBody, err := json.Marshal(map[string]any{
		"model":        model,
		"instructions": systemPrompt,
		"input":        string(contextJSON),
	})
	if err != nil {
		return Narration{}, fmt.Errorf("marshal narration request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return Narration{}, fmt.Errorf("build narration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material is sent only as an Authorization header and is
	// never echoed in errors or logs.
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := n.cfg.HTTPClient.Do(req)
	if err != nil {
		return Narration{}, fmt.Errorf("narration request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return Narration{}, fmt.Errorf("read narration error body: %w", err)
		}
		return Narration{}, fmt.Errorf("narration request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return Narration{}, fmt.Errorf("decode narration response: %w", err)
	}
	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if strings.TrimSpace(content.Text) != "" {
					outputText = strings.TrimSpace(content.Text)
					break
				}
			}
			if outputText != "" {
				break
			}
		}
	}
	if outputText == "" {
		return Narration{}, fmt.Errorf("narration response missing output text")
	}

	return parseNarration(outputText)
}

// parseNarration decodes the model's JSON reply, tolerating a markdown code
// fence around the object.
func parseNarration(outputText string) (Narration, error) {
	trimmed := strings.TrimSpace(outputText)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var narration Narration
	if err := json.Unmarshal([]byte(trimmed), &narration); err != nil {
		return Narration{}, fmt.Errorf("decode narration json: %w", err)
	}
	if strings.TrimSpace(narration.Narration) == "" {
		return Narration{}, fmt.Errorf("narration text is empty")
	}
	return narration, nil
}
