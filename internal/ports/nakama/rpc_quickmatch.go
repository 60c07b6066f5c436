package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"wakeng/internal/domain"
)

// QuickMatchRequest optionally picks the deck preset and bet tier of a new match.
type QuickMatchRequest struct {
	Deck string `json:"deck"`
	Tier string `json:"tier"`
}

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// ScoreboardRequest names the match whose history is requested.
type ScoreboardRequest struct {
	MatchID string `json:"match_id"`
}

func quickMatchQuery(deck string) string {
	q := fmt.Sprintf("+label.game:%s +label.%s:>=1 +label.phase:lobby", gameLabel, MatchLabelKeyOpen)
	if deck != "" {
		q += " +label.deck:" + deck
	}
	return q
}

func (mod *module) rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid quick match payload", 3)
		}
	}

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := domain.SeatCount - 1
	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, quickMatchQuery(req.Deck))
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchList error: %v", userID, err)
		return "", err
	}

	resp := QuickMatchResponse{}
	if len(matches) > 0 {
		resp.MatchID = matches[0].MatchId
		logger.Info("rpcQuickMatch [User:%s]: Found existing match %s", userID, resp.MatchID)
	} else {
		// Seat and host assignment happens in MatchJoin.
		params := map[string]interface{}{}
		if req.Deck != "" {
			params["deck"] = req.Deck
		}
		if req.Tier != "" {
			params["tier"] = req.Tier
		}
		resp.MatchID, err = nk.MatchCreate(ctx, MatchName, params)
		if err != nil {
			logger.Error("rpcQuickMatch [User:%s]: MatchCreate error: %v", userID, err)
			return "", err
		}
		resp.IsNew = true
		logger.Info("rpcQuickMatch [User:%s]: Created new match %s", userID, resp.MatchID)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (mod *module) rpcScoreboard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req ScoreboardRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", runtime.NewError("match_id is required", 3)
	}
	room, err := mod.rooms.Get(req.MatchID)
	if err != nil {
		return "", runtime.NewError(err.Error(), 5)
	}

	room.Mu.Lock()
	board := mod.service.Scoreboard(room)
	room.Mu.Unlock()

	b, err := json.Marshal(board)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
