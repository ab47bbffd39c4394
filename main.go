package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"quotedash/internal/aggregator"
	"quotedash/internal/alphavantage"
	"quotedash/internal/config"
	"quotedash/internal/dashboard"
	"quotedash/internal/fetcher"
	"quotedash/internal/logger"
	"quotedash/internal/quote"
	"quotedash/internal/watchlist"
	"quotedash/internal/yahoo"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logger.L().Error().Err(err).Msg("quotedash failed")
		os.Exit(1)
	}
}

// env is what every command needs, built once from configuration.
type env struct {
	cfg   *config.Config
	agg   *aggregator.Aggregator
	list  *watchlist.List
	board *dashboard.Board
	out   io.Writer
}

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "quotedash"
	app.Usage = "near-real-time stock quotes in the terminal"
	app.Version = "1.0.0"

	viewFlags := []cli.Flag{
		cli.StringFlag{Name: "sort", Value: "symbol", Usage: "sort column: symbol, price or changePercent"},
		cli.BoolFlag{Name: "desc", Usage: "sort descending"},
		cli.BoolFlag{Name: "no-chart", Usage: "hide the price chart"},
	}

	app.Commands = []cli.Command{
		{
			Name:  "watch",
			Usage: "show the watchlist and refresh it periodically",
			Flags: append([]cli.Flag{
				cli.DurationFlag{Name: "interval", Usage: "refresh interval (10s, 30s, 1m, 2m or 5m)"},
				cli.BoolFlag{Name: "once", Usage: "fetch and render once, then exit"},
			}, viewFlags...),
			Action: withEnv(out, watch),
		},
		{
			Name:      "quote",
			Usage:     "fetch the given symbols once, without touching the watchlist",
			ArgsUsage: "SYMBOL...",
			Flags:     viewFlags,
			Action:    withEnv(out, quoteOnce),
		},
		{
			Name:      "add",
			Usage:     "add a symbol to the watchlist",
			ArgsUsage: "SYMBOL",
			Action:    withEnv(out, add),
		},
		{
			Name:      "remove",
			Usage:     "remove a symbol from the watchlist",
			ArgsUsage: "SYMBOL",
			Action:    withEnv(out, remove),
		},
		{
			Name:   "list",
			Usage:  "print the watchlist",
			Action: withEnv(out, list),
		},
		{
			Name:  "export",
			Usage: "fetch the watchlist and write it as CSV",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "out, o", Usage: "output file (default stock-data-YYYY-MM-DD.csv, - for stdout)"},
				cli.StringFlag{Name: "sort", Value: "symbol", Usage: "sort column: symbol, price or changePercent"},
				cli.BoolFlag{Name: "desc", Usage: "sort descending"},
			},
			Action: withEnv(out, export),
		},
	}

	app.Action = withEnv(out, watch)
	return app
}

// withEnv loads configuration, wires the components and runs fn under a
// context cancelled by SIGINT/SIGTERM.
func withEnv(out io.Writer, fn func(ctx context.Context, c *cli.Context, e *env) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Init(cfg.LogLevel, cfg.LogPretty)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := newEnv(cfg, c, out)
		if err != nil {
			return err
		}
		return fn(ctx, c, e)
	}
}

func newEnv(cfg *config.Config, c *cli.Context, out io.Writer) (*env, error) {
	field, err := dashboard.ParseSortField(c.String("sort"))
	if err != nil {
		return nil, err
	}
	dir := dashboard.Asc
	if c.Bool("desc") {
		dir = dashboard.Desc
	}
	showChart := cfg.ShowChart && !c.Bool("no-chart")

	agg := aggregator.New(newSource(cfg), aggregator.WithLogger(*logger.L()))
	list := watchlist.New(cfg.WatchlistPath, cfg.DefaultSymbols)
	list.Load()

	board := dashboard.New(agg, list,
		dashboard.WithChart(showChart),
		dashboard.WithSort(field, dir),
	)

	return &env{cfg: cfg, agg: agg, list: list, board: board, out: out}, nil
}

func newSource(cfg *config.Config) fetcher.Source {
	if cfg.Provider == config.ProviderAlphavantage {
		return alphavantage.NewStockFetcher(cfg.AlphavantageAPIKey, cfg.AlphavantageBaseURL, cfg.UserAgent, cfg.RequestTimeout)
	}
	return yahoo.NewClient(yahoo.Options{
		BaseURL:   cfg.YahooBaseURL,
		Interval:  cfg.ChartInterval,
		Range:     cfg.ChartRange,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	})
}

func watch(ctx context.Context, c *cli.Context, e *env) error {
	interval := e.cfg.RefreshInterval
	if d := c.Duration("interval"); d > 0 {
		check := *e.cfg
		check.RefreshInterval = d
		if err := check.Validate(); err != nil {
			return err
		}
		interval = d
	}
	if !e.cfg.AutoRefresh || c.Bool("once") {
		interval = 0
	}

	return e.board.Run(ctx, e.out, dashboard.RunOptions{
		Interval:    interval,
		Timeout:     e.cfg.FetchTimeout,
		ClearScreen: interval > 0,
	})
}

func quoteOnce(ctx context.Context, c *cli.Context, e *env) error {
	if c.NArg() == 0 {
		return errors.New("quote: at least one SYMBOL is required")
	}

	symbols := watchlist.New("", nil)
	for _, s := range c.Args() {
		if err := symbols.Add(s); err != nil && !errors.Is(err, watchlist.ErrDuplicate) {
			return err
		}
	}

	board := dashboard.New(e.agg, symbols,
		dashboard.WithChart(e.board.ShowChart()),
		dashboard.WithSort(e.board.Sort()),
	)

	return board.Run(ctx, e.out, dashboard.RunOptions{Timeout: e.cfg.FetchTimeout})
}

func add(ctx context.Context, c *cli.Context, e *env) error {
	if c.NArg() != 1 {
		return errors.New("add: exactly one SYMBOL is required")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	q, err := e.board.Add(fetchCtx, c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Added %s at $%.2f\n", q.Symbol, q.Price)
	return nil
}

func remove(_ context.Context, c *cli.Context, e *env) error {
	if c.NArg() != 1 {
		return errors.New("remove: exactly one SYMBOL is required")
	}
	symbol := quote.NormalizeSymbol(c.Args().First())
	if err := e.board.Remove(symbol); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Removed %s\n", symbol)
	return nil
}

func list(_ context.Context, _ *cli.Context, e *env) error {
	for _, s := range e.list.Symbols() {
		fmt.Fprintln(e.out, s)
	}
	return nil
}

func export(ctx context.Context, c *cli.Context, e *env) error {
	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	if err := e.board.Refresh(fetchCtx); err != nil {
		return err
	}
	if msg := e.board.Message(); msg != "" {
		return errors.New(msg)
	}

	path := c.String("out")
	if path == "" {
		path = dashboard.ExportFileName(time.Now())
	}
	if path == "-" {
		return e.board.ExportCSV(e.out)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := e.board.ExportCSV(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Exported %d quotes to %s\n", len(e.board.Quotes()), path)
	return nil
}
