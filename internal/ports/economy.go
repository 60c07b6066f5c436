package ports

import "context"

// WalletUpdate represents a single currency change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for managing game currency.
type EconomyPort interface {
	// GetBalance retrieves the current gold balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies multiple wallet changes.
	// This is used after a hand's settlement is committed.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}

// SettlementUpdates turns committed score deltas into wallet changes of
// delta × baseBet. Bots and empty seats are skipped, as are zero deltas.
func SettlementUpdates(seats []string, bots []bool, deltas []int, baseBet int64, metadata map[string]interface{}) []WalletUpdate {
	updates := make([]WalletUpdate, 0, len(deltas))
	for seat, delta := range deltas {
		if seat >= len(seats) || seats[seat] == "" || delta == 0 {
			continue
		}
		if seat < len(bots) && bots[seat] {
			continue
		}
		meta := make(map[string]interface{}, len(metadata)+2)
		for k, v := range metadata {
			meta[k] = v
		}
		meta["seat"] = seat
		meta["score_delta"] = delta
		updates = append(updates, WalletUpdate{
			UserID:   seats[seat],
			Amount:   int64(delta) * baseBet,
			Metadata: meta,
		})
	}
	return updates
}
