package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"wakeng/internal/app"
	"wakeng/internal/bot"
	"wakeng/internal/config"
)

const gameConfigPath = "data/game_config.json"

// module is the state shared by the RPCs and every match of this process.
type module struct {
	cfg     config.GameConfig
	rooms   *app.Registry
	roster  *bot.Roster
	service *app.Service
}

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		cfg = cfg.WithEnv(env)
	}

	roster, err := bot.LoadRoster(cfg.BotIdentitiesPath)
	if err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
		roster = bot.NewRoster()
	}
	roster.Provision(ctx, nk, logger)

	mod := &module{
		cfg:     cfg,
		rooms:   app.NewRegistry(),
		roster:  roster,
		service: app.NewService(nil),
	}

	if err := initializer.RegisterRpc(RpcQuickMatch, mod.rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcScoreboard, mod.rpcScoreboard); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchName, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(mod.rooms, mod.roster, mod.cfg), nil
	}); err != nil {
		return err
	}

	logger.WithField("deck", cfg.Deck).Info("wakeng Go module loaded with %d bot identities.", roster.Len())
	return nil
}
