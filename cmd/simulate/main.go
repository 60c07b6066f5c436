// Command simulate plays bot-only rooms offline and prints score and
// bidding statistics per seat tier.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	goruntime "runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"

	"wakeng/internal/config"
	"wakeng/internal/logging"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	var (
		rooms      = flag.Int("rooms", 4, "number of rooms to simulate")
		hands      = flag.Int("hands", 10, "hands per room")
		deck       = flag.String("deck", envOr("SIM_DECK", config.DeckStandard), "deck preset: standard, no_hole or jokers")
		seats      = flag.String("seats", envOr("SIM_SEATS", "easy,normal,easy,normal"), "comma separated tier per seat")
		iterations = flag.Int("iterations", 200, "search iterations per decision; 0 uses each tier's time budget")
		parallel   = flag.Int("parallel", goruntime.NumCPU(), "rooms simulated at once")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "base random seed")
		level      = flag.String("log-level", envOr("SIM_LOG_LEVEL", "warn"), "log level")
	)
	flag.Parse()

	logger := logging.New(os.Stderr, *level)

	deckCfg, err := config.GameConfig{Deck: *deck}.DeckConfig()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}
	tiers, err := parseSeats(*seats)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := options{
		Rooms:      *rooms,
		Hands:      *hands,
		Deck:       deckCfg,
		Seats:      tiers,
		Iterations: *iterations,
		Parallel:   *parallel,
		Seed:       *seed,
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Simulating %d rooms x %d hands (%s deck)", opts.Rooms, opts.Hands, *deck))
	start := time.Now()
	res, err := simulate(ctx, opts, logger)
	if err != nil {
		spinner.Fail(err.Error())
		os.Exit(1)
	}
	spinner.Success(fmt.Sprintf("Played %d hands in %s", res.Hands, time.Since(start).Round(time.Millisecond)))

	if err := render(opts, res); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func render(opts options, res results) error {
	pterm.DefaultSection.Println("Seats")
	seatRows := pterm.TableData{{"Seat", "Tier", "Total", "Per hand"}}
	for seat, tier := range opts.Seats {
		perHand := 0.0
		if res.Hands > 0 {
			perHand = float64(res.Totals[seat]) / float64(res.Hands)
		}
		seatRows = append(seatRows, []string{
			fmt.Sprint(seat),
			string(tier),
			fmt.Sprint(res.Totals[seat]),
			fmt.Sprintf("%+.2f", perHand),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(seatRows).Render(); err != nil {
		return err
	}

	pterm.DefaultSection.Println("Bids")
	bidRows := pterm.TableData{{"Bid", "Hands", "Digger wins", "Win rate"}}
	for bid := 1; bid < len(res.ByBid); bid++ {
		b := res.ByBid[bid]
		rate := "-"
		if b.Hands > 0 {
			rate = fmt.Sprintf("%.1f%%", 100*float64(b.DiggerWins)/float64(b.Hands))
		}
		bidRows = append(bidRows, []string{fmt.Sprint(bid), fmt.Sprint(b.Hands), fmt.Sprint(b.DiggerWins), rate})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(bidRows).Render(); err != nil {
		return err
	}

	pterm.Info.Printfln("%d forced bids, %d max plays", res.Forced, res.MaxPlays)
	return nil
}
