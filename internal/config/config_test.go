package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wakeng/internal/domain"
)

func TestParseGameConfigKeepsDefaults(t *testing.T) {
	c, err := ParseGameConfig([]byte(`{"deck":"jokers","tiers":[{"id":"casual","base_bet":50},{"id":"high","base_bet":1000}]}`))
	if err != nil {
		t.Fatalf("ParseGameConfig() error = %v", err)
	}
	deck, err := c.DeckConfig()
	if err != nil {
		t.Fatalf("DeckConfig() error = %v", err)
	}
	if deck != domain.JokerDeck {
		t.Errorf("deck = %+v, want jokers preset", deck)
	}
	if c.BotMaxDelaySeconds != 3 || c.SettlementTimeoutSeconds != 20 {
		t.Errorf("defaults lost: %+v", c)
	}

	tests := []struct {
		tier string
		want int64
	}{
		{"", 50},
		{"high", 1000},
		{"missing", 50},
	}
	for _, tt := range tests {
		if got := c.BaseBet(tt.tier); got != tt.want {
			t.Errorf("BaseBet(%q) = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestParseGameConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"UnknownDeck", `{"deck":"pinochle"}`},
		{"InvertedDelays", `{"bot_min_delay_seconds":5,"bot_max_delay_seconds":2}`},
		{"NegativeTimeout", `{"settlement_timeout_seconds":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGameConfig([]byte(tt.data))
			if !errors.Is(err, domain.ErrConfig) {
				t.Fatalf("error = %v, want config error", err)
			}
		})
	}

	if _, err := ParseGameConfig([]byte(`{`)); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestWithEnv(t *testing.T) {
	c := Default().WithEnv(map[string]string{
		EnvBotsEnabled:      "false",
		EnvBotMinDelay:      "4",
		EnvBotAutoFillDelay: "nope",
		EnvBotDifficulty:    "hard",
		EnvDeck:             DeckNoHole,
	})
	if c.BotsEnabled {
		t.Error("bots should be disabled")
	}
	if c.BotMinDelaySeconds != 4 || c.BotMaxDelaySeconds != 4 {
		t.Errorf("delay window = [%d, %d], want [4, 4]", c.BotMinDelaySeconds, c.BotMaxDelaySeconds)
	}
	if c.BotAutoFillDelaySeconds != 5 {
		t.Errorf("bad value should be ignored, got %d", c.BotAutoFillDelaySeconds)
	}
	if c.BotDifficulty != "hard" || c.Deck != DeckNoHole {
		t.Errorf("overrides not applied: %+v", c)
	}
}

func TestLoadGameConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_config.json")
	if err := os.WriteFile(path, []byte(`{"default_tier":"casual","deck":"no_hole"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("LoadGameConfig() error = %v", err)
	}
	if got := GetGameConfig().Deck; got != DeckNoHole {
		t.Errorf("Deck = %q, want %q", got, DeckNoHole)
	}
	// Later loads are no-ops.
	if err := LoadGameConfig(filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Errorf("second load error = %v", err)
	}
}
