package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func narrationJSON() string {
	return `{"narration":"The doors slam shut.","need_dice_roll":true,"difficulty":12,"action_desc":"force the doors","active_players":["p1","p2"],"game_over":false}`
}

func TestNarrateParsesStructuredResponse(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["model"] != "gpt-test" {
			t.Errorf("expected model gpt-test, got %v", body["model"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"output_text": narrationJSON()})
	}))
	defer server.Close()

	narrator := NewOpenAINarrator(OpenAIConfig{
		ResponsesURL: server.URL,
		APIKey:       "sk-test",
		Model:        "gpt-test",
	})
	narration, err := narrator.Narrate(context.Background(), NarrationContext{CurrentScene: "entrance hall"})
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if !narration.NeedDiceRoll || narration.Difficulty != 12 {
		t.Fatalf("expected dice request parsed, got %+v", narration)
	}
	if len(narration.ActivePlayers) != 2 {
		t.Fatalf("expected active players parsed, got %+v", narration.ActivePlayers)
	}
}

func TestNarrateReadsNestedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []map[string]any{
				{"content": []map[string]any{{"type": "output_text", "text": narrationJSON()}}},
			},
		})
	}))
	defer server.Close()

	narrator := NewOpenAINarrator(OpenAIConfig{ResponsesURL: server.URL, APIKey: "sk", Model: "m"})
	narration, err := narrator.Narrate(context.Background(), NarrationContext{})
	if err != nil {
		t.Fatalf("narrate: %v", err)
	}
	if narration.Narration != "The doors slam shut." {
		t.Fatalf("unexpected narration %q", narration.Narration)
	}
}

func TestNarrateSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	narrator := NewOpenAINarrator(OpenAIConfig{ResponsesURL: server.URL, APIKey: "sk", Model: "m"})
	if _, err := narrator.Narrate(context.Background(), NarrationContext{}); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestParseNarrationStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + narrationJSON() + "\n```"
	narration, err := parseNarration(fenced)
	if err != nil {
		t.Fatalf("parse fenced narration: %v", err)
	}
	if narration.ActionDesc != "force the doors" {
		t.Fatalf("unexpected action desc %q", narration.ActionDesc)
	}
}

func TestParseNarrationRejectsEmpty(t *testing.T) {
	if _, err := parseNarration(`{"narration":"  "}`); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty narration rejected, got %v", err)
	}
}

func TestFallbackTargetsLivingPlayers(t *testing.T) {
	nc := NarrationContext{Players: []PlayerInfo{
		{ID: "p1", Alive: true},
		{ID: "p2", Alive: false},
		{ID: "p3", Alive: true},
	}}
	fallback := Fallback("the scene holds", nc)
	if fallback.Narration != "the scene holds" {
		t.Fatalf("unexpected narration %q", fallback.Narration)
	}
	if len(fallback.ActivePlayers) != 2 || fallback.ActivePlayers[0] != "p1" || fallback.ActivePlayers[1] != "p3" {
		t.Fatalf("expected living players only, got %v", fallback.ActivePlayers)
	}
	if fallback.NeedDiceRoll || fallback.GameOver {
		t.Fatal("expected plain action fallback")
	}
}
