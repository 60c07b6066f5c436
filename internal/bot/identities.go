package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one profile from the bot pool file.
type BotIdentity struct {
	DeviceID    string     `json:"device_id"`
	UserID      string     `json:"user_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Difficulty  Difficulty `json:"difficulty"`
	AvatarIndex int        `json:"avatar_index"`
}

// Roster is the pool of bot identities used to fill empty seats.
type Roster struct {
	mu         sync.RWMutex
	identities []BotIdentity
	byUserID   map[string]BotIdentity
}

// NewRoster returns an empty roster. Picks fall back to generated identities.
func NewRoster() *Roster {
	return &Roster{byUserID: make(map[string]BotIdentity)}
}

// LoadRoster reads bot profiles from a JSON file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot identities: %w", err)
	}
	return ParseRoster(data)
}

// ParseRoster decodes bot profiles and validates their difficulty.
func ParseRoster(data []byte) (*Roster, error) {
	var identities []BotIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	r := NewRoster()
	for _, id := range identities {
		d, err := ParseDifficulty(string(id.Difficulty))
		if err != nil {
			return nil, fmt.Errorf("bot %q: %w", id.Username, err)
		}
		id.Difficulty = d
		r.identities = append(r.identities, id)
		if id.UserID != "" {
			r.byUserID[id.UserID] = id
		}
	}
	return r, nil
}

// Provision ensures every profile with a device ID has a Nakama account
// flagged as a bot.
func (r *Roster) Provision(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.identities {
		identity := &r.identities[i]
		if identity.DeviceID == "" {
			continue
		}

		userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
		if err != nil {
			logger.Error("Provision: failed to authenticate bot %s: %v", identity.Username, err)
			continue
		}
		identity.UserID = userID
		identity.Username = username

		metadata := map[string]interface{}{
			"is_bot":       true,
			"difficulty":   string(identity.Difficulty),
			"avatar_index": identity.AvatarIndex,
		}
		if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
			logger.Warn("Provision: failed to update bot account %s: %v", userID, err)
		}
		r.byUserID[userID] = *identity
		logger.WithField("difficulty", identity.Difficulty).Info("Provision: bot %s (%s) is ready", identity.DisplayName, userID)
	}
}

// Pick returns an identity for a bot by index (mod pool size). An empty
// pool yields a fresh identity with a random user ID and normal difficulty.
func (r *Roster) Pick(index int) BotIdentity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.identities) == 0 {
		return BotIdentity{
			UserID:      "bot-" + uuid.NewString(),
			DisplayName: fmt.Sprintf("AI Player %d", index+1),
			Difficulty:  DifficultyNormal,
		}
	}
	return r.identities[index%len(r.identities)]
}

// Lookup returns the identity of a provisioned bot.
func (r *Roster) Lookup(userID string) (BotIdentity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUserID[userID]
	return id, ok
}

// Len reports the number of profiles in the pool.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.identities)
}
