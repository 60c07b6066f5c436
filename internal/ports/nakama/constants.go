package nakama

import "wakeng/internal/app"

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"
	// RpcScoreboard returns the settlement history of a live match.
	RpcScoreboard = "scoreboard"

	// MatchName is the authoritative match handler name registered with Nakama.
	MatchName = "wakeng_match"

	// MatchLabelKeyOpen is the label field holding the number of free seats.
	MatchLabelKeyOpen = "open"
	gameLabel         = "wakeng"
)

// Op codes for client messages and server events. Payloads are JSON.
const (
	// Client -> Server
	OpStartGame      int64 = 1
	OpBid            int64 = 2
	OpTakeHole       int64 = 3
	OpPlayCards      int64 = 4
	OpPass           int64 = 5
	OpUndo           int64 = 6
	OpSetMultiplier  int64 = 7
	OpReadyNextRound int64 = 8
	OpRequestState   int64 = 9

	// Server -> Client
	OpRoomState         int64 = 100 // send privately
	OpPlayerJoined      int64 = 101
	OpPlayerLeft        int64 = 102
	OpGameStarted       int64 = 103
	OpHandDealt         int64 = 104 // send privately
	OpBidPlaced         int64 = 105
	OpHoleRevealed      int64 = 106
	OpHoleTaken         int64 = 107
	OpCardsPlayed       int64 = 108
	OpMaxPlay           int64 = 109
	OpTurnPassed        int64 = 110
	OpTrickClosed       int64 = 111
	OpUndone            int64 = 112
	OpGameOver          int64 = 113
	OpSettlementApplied int64 = 114
	OpNextRoundReady    int64 = 115
	OpError             int64 = 199 // send privately
)

var eventOpCodes = map[app.EventKind]int64{
	app.EventGameStarted:       OpGameStarted,
	app.EventHandDealt:         OpHandDealt,
	app.EventBidPlaced:         OpBidPlaced,
	app.EventHoleRevealed:      OpHoleRevealed,
	app.EventHoleTaken:         OpHoleTaken,
	app.EventCardsPlayed:       OpCardsPlayed,
	app.EventMaxPlay:           OpMaxPlay,
	app.EventTurnPassed:        OpTurnPassed,
	app.EventTrickClosed:       OpTrickClosed,
	app.EventUndo:              OpUndone,
	app.EventGameOver:          OpGameOver,
	app.EventSettlementApplied: OpSettlementApplied,
	app.EventNextRoundReady:    OpNextRoundReady,
}
