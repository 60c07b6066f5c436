package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"wakeng/internal/app"
	"wakeng/internal/bot"
	"wakeng/internal/config"
	"wakeng/internal/domain"
	"wakeng/internal/ports"
)

const (
	tickRate = 5
	// decideTimeout bounds one bot decision, search budget included.
	decideTimeout = 5 * time.Second
)

func ticks(seconds int) int64 {
	return int64(seconds) * tickRate
}

type botResult struct {
	seat    int
	version uint64
	move    bot.Move
	err     error
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Room      *app.Room
	App       *app.Service
	Config    config.GameConfig
	BaseBet   int64
	Presences map[string]runtime.Presence // UserId -> Presence for targeted messaging
	Agents    map[int]*bot.Agent          // seat -> bot agent
	Economy   ports.EconomyPort
	Balances  map[string]int64 // UserId -> last known wallet balance

	Tick                 int64
	BotWaitUntil         int64 // tick when the pending bot turn starts thinking
	BotThinking          bool
	LastSinglePlayerTick int64 // tick when a single player started waiting
	SettleDeadline       int64 // tick when an unsettled hand settles at the default multiplier

	label   string
	results chan botResult
	ctx     context.Context
	cancel  context.CancelFunc
}

func newMatchState(room *app.Room, cfg config.GameConfig, economy ports.EconomyPort) *MatchState {
	ctx, cancel := context.WithCancel(context.Background())
	return &MatchState{
		Room:      room,
		App:       app.NewService(nil),
		Config:    cfg,
		BaseBet:   cfg.BaseBet(""),
		Presences: make(map[string]runtime.Presence),
		Agents:    make(map[int]*bot.Agent),
		Economy:   economy,
		Balances:  make(map[string]int64),
		results:   make(chan botResult, 1),
		ctx:       ctx,
		cancel:    cancel,
	}
}

type matchHandler struct {
	rooms  *app.Registry
	roster *bot.Roster
	cfg    config.GameConfig
}

func newMatchHandler(rooms *app.Registry, roster *bot.Roster, cfg config.GameConfig) *matchHandler {
	if roster == nil {
		roster = bot.NewRoster()
	}
	return &matchHandler{rooms: rooms, roster: roster, cfg: cfg}
}

// MatchInit is called when the match is created. Params may carry "deck"
// and "tier" to override the configured defaults.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := mh.cfg
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		cfg = cfg.WithEnv(env)
	}
	if deck, ok := params["deck"].(string); ok && deck != "" {
		cfg.Deck = deck
	}
	deckCfg, err := cfg.DeckConfig()
	if err != nil {
		logger.Error("MatchInit: %v", err)
		return nil, 0, ""
	}

	var room *app.Room
	if matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string); matchID != "" {
		room, err = mh.rooms.CreateWithID(matchID, deckCfg)
	} else {
		room, err = mh.rooms.Create(deckCfg)
	}
	if err != nil {
		logger.Error("MatchInit: failed to register room: %v", err)
		return nil, 0, ""
	}

	var economy ports.EconomyPort
	if nk != nil {
		economy = NewNakamaEconomyAdapter(nk)
	}
	state := newMatchState(room, cfg, economy)
	if tier, ok := params["tier"].(string); ok {
		state.BaseBet = cfg.BaseBet(tier)
	}

	label, err := mh.labelFor(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		mh.shutdown(state)
		return nil, 0, ""
	}
	state.label = label
	logger.WithField("room", room.ID).Debug("MatchInit: deck=%s base_bet=%d bots=%t", cfg.Deck, state.BaseBet, cfg.BotsEnabled)
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	ms, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	r := ms.Room
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if _, seated := r.SeatOf(presence.GetUserId()); seated {
		return ms, true, ""
	}
	if !r.Full() {
		return ms, true, ""
	}
	// A bot seat can be taken over between hands.
	if !r.Active() && botSeat(r) != domain.NoSeat {
		return ms, true, ""
	}
	return ms, false, "Match full"
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		ms.Presences[userID] = p
		seat, err := mh.seatHuman(ms, userID)
		if err != nil {
			logger.Warn("MatchJoin: User %s joined but no seat was available: %v", userID, err)
			continue
		}
		logger.Debug("MatchJoin: User %s sits at seat %d.", userID, seat)
		mh.loadBalance(ctx, ms, logger, userID)
	}

	mh.updateLabel(ms, dispatcher, logger)
	mh.broadcastPlayers(ms, dispatcher, logger, OpPlayerJoined)
	for _, p := range presences {
		mh.sendRoomState(ms, dispatcher, logger, p.GetUserId())
	}
	return ms
}

func (mh *matchHandler) loadBalance(ctx context.Context, ms *MatchState, logger runtime.Logger, userID string) {
	if ms.Economy == nil {
		return
	}
	balance, err := ms.Economy.GetBalance(ctx, userID)
	if err != nil {
		logger.Warn("MatchJoin: Could not read wallet of %s: %v", userID, err)
		return
	}
	ms.Balances[userID] = balance
}

func (mh *matchHandler) seatHuman(ms *MatchState, userID string) (int, error) {
	r := ms.Room
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if seat, ok := r.SeatOf(userID); ok {
		return seat, nil
	}
	if r.Full() && !r.Active() {
		if seat := botSeat(r); seat != domain.NoSeat {
			r.Leave(r.Seats[seat])
			delete(ms.Agents, seat)
		}
	}
	return r.Sit(userID, false)
}

// MatchLeave frees the leaving players' seats. A human leaving mid-hand is
// replaced by a bot so the hand can finish.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	r := ms.Room
	r.Mu.Lock()
	for _, p := range presences {
		userID := p.GetUserId()
		delete(ms.Presences, userID)
		seat, left := r.Leave(userID)
		if !left {
			continue
		}
		logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
		if r.Game != nil && r.Game.Phase != domain.PhaseFinished {
			if _, err := mh.fillBotSeat(ms); err != nil {
				logger.Error("MatchLeave: failed to replace seat %d with a bot: %v", seat, err)
			}
		}
	}
	humans := r.Humans()
	r.Mu.Unlock()

	if humans == 0 {
		logger.Info("MatchLeave: Terminating match with no humans.")
		mh.shutdown(ms)
		return nil
	}

	mh.updateLabel(ms, dispatcher, logger)
	mh.broadcastPlayers(ms, dispatcher, logger, OpPlayerLeft)
	return ms
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	ms, ok := state.(*MatchState)
	if !ok {
		return state
	}

	ms.Tick = tick
	for _, msg := range messages {
		mh.handleMessage(ctx, ms, dispatcher, logger, msg)
	}

	mh.drainBotResults(ctx, ms, dispatcher, logger)
	if ms.Config.BotsEnabled {
		mh.processBots(ctx, ms, dispatcher, logger)
	}
	mh.processSettlementTimeout(ctx, ms, dispatcher, logger)
	mh.updateLabel(ms, dispatcher, logger)
	return ms
}

func (mh *matchHandler) handleMessage(ctx context.Context, ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	userID := msg.GetUserId()
	if msg.GetOpCode() == OpRequestState {
		mh.sendRoomState(ms, dispatcher, logger, userID)
		return
	}

	events, err := mh.applyClientOp(ms, userID, msg.GetOpCode(), msg.GetData())
	if err != nil {
		logger.WithField("user", userID).Warn("handleMessage: op %d rejected: %v", msg.GetOpCode(), err)
		mh.sendError(ms, dispatcher, logger, userID, err)
		return
	}
	mh.dispatchEvents(ctx, ms, dispatcher, logger, events)
}

func (mh *matchHandler) applyClientOp(ms *MatchState, userID string, op int64, data []byte) ([]app.Event, error) {
	r := ms.Room
	r.Mu.Lock()
	defer r.Mu.Unlock()

	seat, _ := r.SeatOf(userID)
	switch op {
	case OpStartGame:
		if seat == domain.NoSeat || seat != r.HostSeat {
			return nil, app.ErrNotHost
		}
		if ms.Config.BotsEnabled {
			for !r.Full() {
				if _, err := mh.fillBotSeat(ms); err != nil {
					return nil, err
				}
			}
		}
		return ms.App.StartGame(r)
	case OpBid:
		var req BidRequest
		if err := decodeRequest(data, &req); err != nil {
			return nil, err
		}
		return ms.App.Bid(r, seat, req.Score)
	case OpTakeHole:
		return ms.App.TakeHole(r, seat)
	case OpPlayCards:
		var req PlayCardsRequest
		if err := decodeRequest(data, &req); err != nil {
			return nil, err
		}
		return ms.App.PlayCards(r, seat, req.Cards)
	case OpPass:
		return ms.App.Pass(r, seat)
	case OpUndo:
		return ms.App.Undo(r, seat)
	case OpSetMultiplier:
		var req MultiplierRequest
		if err := decodeRequest(data, &req); err != nil {
			return nil, err
		}
		return ms.App.SetSettlementMultiplier(r, seat, req.Multiplier)
	case OpReadyNextRound:
		return ms.App.ReadyNextRound(r, seat)
	}
	return nil, errors.New("unknown opcode")
}

func (mh *matchHandler) processBots(ctx context.Context, ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	r := ms.Room
	r.Mu.Lock()

	// Auto-fill a lobby with bots once a single human has waited long enough.
	if r.Game == nil && !r.Full() && r.Humans() == 1 {
		if ms.LastSinglePlayerTick == 0 {
			ms.LastSinglePlayerTick = ms.Tick
			logger.Debug("processBots: Single player detected, starting auto-fill timer.")
		}
		if ms.Tick-ms.LastSinglePlayerTick >= ticks(ms.Config.BotAutoFillDelaySeconds) {
			added := 0
			for !r.Full() {
				identity, err := mh.fillBotSeat(ms)
				if err != nil {
					logger.Error("processBots: failed to add bot: %v", err)
					break
				}
				logger.Info("processBots: Added bot %s (%s)", identity.DisplayName, identity.UserID)
				added++
			}
			ms.LastSinglePlayerTick = 0
			r.Mu.Unlock()
			if added > 0 {
				mh.updateLabel(ms, dispatcher, logger)
				mh.broadcastPlayers(ms, dispatcher, logger, OpPlayerJoined)
			}
			return
		}
	} else {
		ms.LastSinglePlayerTick = 0
	}
	defer r.Mu.Unlock()

	if !r.Active() || ms.BotThinking {
		return
	}
	seat := r.Game.CurrentTurn
	if !r.Bots[seat] {
		ms.BotWaitUntil = 0
		return
	}
	if ms.BotWaitUntil == 0 {
		spread := ms.Config.BotMaxDelaySeconds - ms.Config.BotMinDelaySeconds
		delay := ms.Config.BotMinDelaySeconds
		if spread > 0 {
			delay += rand.Intn(spread + 1)
		}
		ms.BotWaitUntil = ms.Tick + ticks(delay)
		logger.Debug("processBots: Bot at seat %d will act at tick %d (current %d)", seat, ms.BotWaitUntil, ms.Tick)
	}
	if ms.Tick < ms.BotWaitUntil {
		return
	}
	ms.BotWaitUntil = 0

	agent, err := mh.agentFor(ms, seat)
	if err != nil {
		logger.Error("processBots: no agent for seat %d: %v", seat, err)
		return
	}
	view, err := r.ViewFor(seat)
	if err != nil {
		logger.Error("processBots: %v", err)
		return
	}
	ms.BotThinking = true
	go decide(ms.ctx, ms.results, agent, seat, r.Version, view)
}

// decide runs one bot decision off the match loop. The result carries the
// room version it was computed from.
func decide(ctx context.Context, out chan<- botResult, agent *bot.Agent, seat int, version uint64, view domain.PlayerView) {
	dctx, cancel := context.WithTimeout(ctx, decideTimeout)
	defer cancel()
	move, err := agent.Decide(dctx, view)
	select {
	case out <- botResult{seat: seat, version: version, move: move, err: err}:
	case <-ctx.Done():
	}
}

func (mh *matchHandler) drainBotResults(ctx context.Context, ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for {
		select {
		case res := <-ms.results:
			mh.applyBotResult(ctx, ms, dispatcher, logger, res)
		default:
			return
		}
	}
}

func (mh *matchHandler) applyBotResult(ctx context.Context, ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, res botResult) {
	ms.BotThinking = false
	log := logger.WithField("seat", res.seat)
	if res.err != nil {
		log.Warn("applyBotResult: bot failed to decide: %v", res.err)
		return
	}

	r := ms.Room
	r.Mu.Lock()
	events, err := ms.App.ApplyBotMove(r, res.seat, res.version, res.move)
	r.Mu.Unlock()
	if errors.Is(err, app.ErrStaleDecision) {
		log.Debug("applyBotResult: discarded decision from version %d", res.version)
		return
	}
	if err != nil {
		log.Error("applyBotResult: bot move %s rejected: %v", res.move.Kind, err)
		return
	}
	mh.dispatchEvents(ctx, ms, dispatcher, logger, events)
}

// processSettlementTimeout commits a finished hand at the default multiplier
// when the host does not choose one in time, or when there is no host.
func (mh *matchHandler) processSettlementTimeout(ctx context.Context, ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	r := ms.Room
	r.Mu.Lock()
	g := r.Game
	if g == nil || g.Phase != domain.PhaseFinished || g.Multiplier != 0 {
		ms.SettleDeadline = 0
		r.Mu.Unlock()
		return
	}
	if ms.SettleDeadline == 0 && r.HostSeat != domain.NoSeat {
		ms.SettleDeadline = ms.Tick + ticks(ms.Config.SettlementTimeoutSeconds)
	}
	if r.HostSeat != domain.NoSeat && ms.Tick < ms.SettleDeadline {
		r.Mu.Unlock()
		return
	}
	events, err := ms.App.SettleByDefault(r)
	r.Mu.Unlock()
	ms.SettleDeadline = 0
	if err != nil {
		logger.Error("processSettlementTimeout: %v", err)
		return
	}
	logger.Info("processSettlementTimeout: settled round at multiplier %d", app.DefaultMultiplier)
	mh.dispatchEvents(ctx, ms, dispatcher, logger, events)
}

// dispatchEvents fans app events out to presences. Private events go to
// their connected recipients only.
func (mh *matchHandler) dispatchEvents(ctx context.Context, ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		op, data, err := encodeEvent(ev)
		if err != nil {
			logger.Error("dispatchEvents: %v", err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Recipients) > 0 {
			for _, uid := range ev.Recipients {
				if p, ok := ms.Presences[uid]; ok {
					recipients = append(recipients, p)
				}
			}
			// Intended for bots or disconnected players only; never widen to a broadcast.
			if len(recipients) == 0 {
				continue
			}
		}
		if err := dispatcher.BroadcastMessage(op, data, recipients, nil, true); err != nil {
			logger.Error("dispatchEvents: broadcast %s failed: %v", ev.Kind, err)
		}

		if ev.Kind == app.EventSettlementApplied {
			mh.settleWallets(ctx, ms, logger, ev.Payload.(app.SettlementAppliedPayload))
		}
	}
}

func (mh *matchHandler) settleWallets(ctx context.Context, ms *MatchState, logger runtime.Logger, p app.SettlementAppliedPayload) {
	if ms.Economy == nil {
		return
	}
	r := ms.Room
	r.Mu.Lock()
	seats, bots := r.Seats, r.Bots
	r.Mu.Unlock()

	updates := ports.SettlementUpdates(seats[:], bots[:], p.Deltas, ms.BaseBet, map[string]interface{}{
		"match_id":   r.ID,
		"round":      p.Round,
		"multiplier": p.Multiplier,
		"reason":     "game_settlement",
	})
	if err := ms.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("Failed to update balances: %v", err)
		return
	}
	for _, u := range updates {
		if balance, ok := ms.Balances[u.UserID]; ok {
			ms.Balances[u.UserID] = balance + u.Amount
		}
	}
}

// sendError sends an ErrorPayload to the acting user only.
func (mh *matchHandler) sendError(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, cause error) {
	presence, ok := ms.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}
	data, err := json.Marshal(errorPayload(cause))
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpError, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendError: %v", err)
	}
}

func (mh *matchHandler) sendRoomState(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := ms.Presences[userID]
	if !ok {
		return
	}
	r := ms.Room
	r.Mu.Lock()
	seat, _ := r.SeatOf(userID)
	view := ms.App.MaskedView(r, seat)
	r.Mu.Unlock()

	data, err := json.Marshal(view)
	if err != nil {
		logger.Error("sendRoomState: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpRoomState, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendRoomState: %v", err)
	}
}

// PlayerInfo is one occupied seat as shown in the lobby.
type PlayerInfo struct {
	Seat        int    `json:"seat"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Bot         bool   `json:"bot"`
	Host        bool   `json:"host"`
	Balance     int64  `json:"balance"`
}

// PlayersPayload is sent with OpPlayerJoined and OpPlayerLeft.
type PlayersPayload struct {
	Players  []PlayerInfo `json:"players"`
	HostSeat int          `json:"host_seat"`
	Tick     int64        `json:"tick"`
}

func (mh *matchHandler) broadcastPlayers(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, op int64) {
	r := ms.Room
	r.Mu.Lock()
	payload := PlayersPayload{HostSeat: r.HostSeat, Tick: ms.Tick}
	for seat, userID := range r.Seats {
		if userID == "" {
			continue
		}
		payload.Players = append(payload.Players, PlayerInfo{
			Seat:        seat,
			UserID:      userID,
			DisplayName: mh.displayName(ms, seat, userID),
			Bot:         r.Bots[seat],
			Host:        seat == r.HostSeat,
			Balance:     ms.Balances[userID],
		})
	}
	r.Mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("broadcastPlayers: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(op, data, nil, nil, true); err != nil {
		logger.Error("broadcastPlayers: %v", err)
	}
}

func (mh *matchHandler) displayName(ms *MatchState, seat int, userID string) string {
	if p, ok := ms.Presences[userID]; ok && p.GetUsername() != "" {
		return p.GetUsername()
	}
	if a, ok := ms.Agents[seat]; ok && a.ID == userID {
		return a.Name
	}
	if id, ok := mh.roster.Lookup(userID); ok {
		return id.DisplayName
	}
	return userID
}

// fillBotSeat seats a fresh bot in the first free seat. Caller holds the room lock.
func (mh *matchHandler) fillBotSeat(ms *MatchState) (bot.BotIdentity, error) {
	r := ms.Room
	identity := mh.pickBot(r)
	seat, err := r.Sit(identity.UserID, true)
	if err != nil {
		return bot.BotIdentity{}, err
	}
	d := identity.Difficulty
	if mh.roster.Len() == 0 || d == "" {
		d = bot.Difficulty(ms.Config.BotDifficulty)
	}
	agent, err := bot.NewAgent(identity.UserID, identity.DisplayName, d, rand.Int63())
	if err != nil {
		return identity, err
	}
	ms.Agents[seat] = agent
	return identity, nil
}

// pickBot returns a pool identity that is not already seated, or a
// generated one when the pool is exhausted.
func (mh *matchHandler) pickBot(r *app.Room) bot.BotIdentity {
	for i := 0; i < mh.roster.Len(); i++ {
		id := mh.roster.Pick(i)
		if id.UserID == "" {
			continue
		}
		if _, taken := r.SeatOf(id.UserID); !taken {
			return id
		}
	}
	return bot.NewRoster().Pick(botCount(r))
}

func (mh *matchHandler) agentFor(ms *MatchState, seat int) (*bot.Agent, error) {
	userID := ms.Room.Seats[seat]
	if a, ok := ms.Agents[seat]; ok && a.ID == userID {
		return a, nil
	}
	name, d := userID, bot.Difficulty(ms.Config.BotDifficulty)
	if id, ok := mh.roster.Lookup(userID); ok {
		name, d = id.DisplayName, id.Difficulty
	}
	a, err := bot.NewAgent(userID, name, d, rand.Int63())
	if err != nil {
		return nil, err
	}
	ms.Agents[seat] = a
	return a, nil
}

func botSeat(r *app.Room) int {
	for seat, isBot := range r.Bots {
		if isBot && r.Seats[seat] != "" {
			return seat
		}
	}
	return domain.NoSeat
}

func botCount(r *app.Room) int {
	n := 0
	for seat, isBot := range r.Bots {
		if isBot && r.Seats[seat] != "" {
			n++
		}
	}
	return n
}

func (mh *matchHandler) labelFor(ms *MatchState) (string, error) {
	r := ms.Room
	r.Mu.Lock()
	l := matchLabel{Phase: "lobby", Deck: ms.Config.Deck, Round: r.Round}
	for _, userID := range r.Seats {
		if userID == "" {
			l.Open++
		}
	}
	if r.Game != nil {
		l.Phase = string(r.Game.Phase)
	}
	r.Mu.Unlock()
	return l.marshal()
}

func (mh *matchHandler) updateLabel(ms *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := mh.labelFor(ms)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == ms.label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	ms.label = label
}

// shutdown stops pending bot work and drops the room. It must run without
// the room lock held.
func (mh *matchHandler) shutdown(ms *MatchState) {
	ms.cancel()
	mh.rooms.Delete(ms.Room.ID)
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with grace %d", graceSeconds)
	if ms, ok := state.(*MatchState); ok {
		mh.shutdown(ms)
	}
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
