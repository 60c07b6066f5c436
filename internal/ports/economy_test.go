package ports

import "testing"

func TestSettlementUpdates(t *testing.T) {
	seats := []string{"alice", "bot-1", "bob", ""}
	bots := []bool{false, true, false, false}
	deltas := []int{6, -18, 0, 6}

	got := SettlementUpdates(seats, bots, deltas, 100, map[string]interface{}{"reason": "game_settlement"})
	if len(got) != 1 {
		t.Fatalf("len(updates) = %d, want 1: %+v", len(got), got)
	}
	u := got[0]
	if u.UserID != "alice" || u.Amount != 600 {
		t.Errorf("update = %+v, want alice +600", u)
	}
	if u.Metadata["reason"] != "game_settlement" || u.Metadata["seat"] != 0 || u.Metadata["score_delta"] != 6 {
		t.Errorf("metadata = %v", u.Metadata)
	}
}
