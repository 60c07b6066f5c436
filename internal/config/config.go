package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"wakeng/internal/domain"
)

// Env keys read from the Nakama runtime environment.
const (
	EnvBotsEnabled       = "wakeng_bots_enabled"
	EnvBotMinDelay       = "wakeng_bot_min_delay_sec"
	EnvBotMaxDelay       = "wakeng_bot_max_delay_sec"
	EnvBotAutoFillDelay  = "wakeng_bot_auto_fill_delay_sec"
	EnvSettlementTimeout = "wakeng_settlement_timeout_sec"
	EnvBotDifficulty     = "wakeng_bot_difficulty"
	EnvDeck              = "wakeng_deck"
)

// Deck presets accepted in the config file.
const (
	DeckStandard = "standard"
	DeckNoHole   = "no_hole"
	DeckJokers   = "jokers"
)

type BetTier struct {
	ID      string `json:"id"`
	BaseBet int64  `json:"base_bet"`
}

type GameConfig struct {
	DefaultTier string    `json:"default_tier"`
	Tiers       []BetTier `json:"tiers"`
	Deck        string    `json:"deck"`

	BotsEnabled   bool   `json:"bots_enabled"`
	BotDifficulty string `json:"bot_difficulty"`
	// BotMinDelaySeconds and BotMaxDelaySeconds bound how long a bot waits
	// before acting, so bot turns read like human ones.
	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding bots to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// SettlementTimeoutSeconds is how long the host has to pick a multiplier
	// before the hand settles at 1.
	SettlementTimeoutSeconds int    `json:"settlement_timeout_seconds"`
	BotIdentitiesPath        string `json:"bot_identities_path"`
}

const defaultBaseBet = 100

// Default returns the configuration used when no file is present.
func Default() GameConfig {
	return GameConfig{
		DefaultTier:              "casual",
		Tiers:                    []BetTier{{ID: "casual", BaseBet: defaultBaseBet}},
		Deck:                     DeckStandard,
		BotsEnabled:              true,
		BotDifficulty:            "normal",
		BotMinDelaySeconds:       1,
		BotMaxDelaySeconds:       3,
		BotAutoFillDelaySeconds:  5,
		SettlementTimeoutSeconds: 20,
		BotIdentitiesPath:        "data/bot_identities.json",
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Only the
// first call reads the file.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		c, err := ParseGameConfig(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// ParseGameConfig decodes a config file on top of the defaults.
func ParseGameConfig(data []byte) (GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}

// GetGameConfig returns the loaded configuration, or the defaults.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// Validate checks the deck preset and the bot delay window.
func (c GameConfig) Validate() error {
	if _, err := c.DeckConfig(); err != nil {
		return err
	}
	if c.BotMinDelaySeconds < 0 || c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		return fmt.Errorf("%w: bot delay window [%d, %d]", domain.ErrConfig, c.BotMinDelaySeconds, c.BotMaxDelaySeconds)
	}
	if c.SettlementTimeoutSeconds < 0 {
		return fmt.Errorf("%w: negative settlement timeout", domain.ErrConfig)
	}
	return nil
}

// DeckConfig maps the deck preset name.
func (c GameConfig) DeckConfig() (domain.DeckConfig, error) {
	switch c.Deck {
	case "", DeckStandard:
		return domain.StandardDeck, nil
	case DeckNoHole:
		return domain.NoHoleDeck, nil
	case DeckJokers:
		return domain.JokerDeck, nil
	}
	return domain.DeckConfig{}, fmt.Errorf("%w: unknown deck %q", domain.ErrConfig, c.Deck)
}

// BaseBet returns the base bet for a given tier ID, or the default if not found.
func (c GameConfig) BaseBet(tierID string) int64 {
	target := tierID
	if target == "" {
		target = c.DefaultTier
	}
	for _, tier := range c.Tiers {
		if tier.ID == target {
			return tier.BaseBet
		}
	}
	for _, tier := range c.Tiers {
		if tier.ID == c.DefaultTier {
			return tier.BaseBet
		}
	}
	return defaultBaseBet
}

// WithEnv returns a copy with runtime env overrides applied. Unparseable
// values are ignored.
func (c GameConfig) WithEnv(env map[string]string) GameConfig {
	if val, ok := env[EnvBotsEnabled]; ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.BotsEnabled = b
		}
	}
	intOverride := func(key string, dst *int) {
		if val, ok := env[key]; ok {
			if i, err := strconv.Atoi(val); err == nil && i >= 0 {
				*dst = i
			}
		}
	}
	intOverride(EnvBotMinDelay, &c.BotMinDelaySeconds)
	intOverride(EnvBotMaxDelay, &c.BotMaxDelaySeconds)
	intOverride(EnvBotAutoFillDelay, &c.BotAutoFillDelaySeconds)
	intOverride(EnvSettlementTimeout, &c.SettlementTimeoutSeconds)
	if val, ok := env[EnvBotDifficulty]; ok && val != "" {
		c.BotDifficulty = val
	}
	if val, ok := env[EnvDeck]; ok && val != "" {
		c.Deck = val
	}
	if c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		c.BotMaxDelaySeconds = c.BotMinDelaySeconds
	}
	return c
}
