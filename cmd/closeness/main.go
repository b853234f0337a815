package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"StockCloseness/internal/analysis"
	"StockCloseness/internal/cache"
	"StockCloseness/internal/calculator"
	"StockCloseness/internal/collector"
	"StockCloseness/internal/config"
	"StockCloseness/internal/directory"
	"StockCloseness/internal/logging"
	"StockCloseness/internal/model"
	"StockCloseness/internal/notifier"
	"StockCloseness/internal/recorder"
	"StockCloseness/internal/scheduler"
)

type flags struct {
	configPath    string
	dataFolder    string
	source        string
	lookback      int
	topK          int
	workers       int
	simpleReturns bool
	logLevel      string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "closeness",
		Short:        "Rank stocks by how closely their price movements track each other",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", envOr("CONFIG_PATH", "configs/config.yaml"), "Path to YAML config")
	pf.StringVar(&f.dataFolder, "data", "", "Folder of <TICKER>.csv price files")
	pf.StringVar(&f.source, "source", "", "Price source (csv|alphavantage|yahoo)")
	pf.IntVar(&f.lookback, "lookback", 0, "Maximum trading days loaded per ticker")
	pf.IntVar(&f.topK, "top", 0, "Number of results per ranking")
	pf.IntVar(&f.workers, "workers", 0, "Parallel pairwise scoring workers")
	pf.BoolVar(&f.simpleReturns, "simple-returns", false, "Use simple instead of log returns")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug|info|warn|error)")

	root.AddCommand(
		rankCmd(f, "closest", "Instruments most closely cointegrated with TICKER", (*analysis.Service).Closest, notifier.FormatClosest),
		rankCmd(f, "opposite", "Instruments least likely to be cointegrated with TICKER", (*analysis.Service).Opposite, notifier.FormatOpposite),
		rankCmd(f, "correlated", "Instruments with the highest return correlation to TICKER", (*analysis.Service).Correlated, notifier.FormatCorrelated),
		compareCmd(f),
		menuCmd(f),
		watchCmd(f),
	)
	return root
}

type serviceRank func(*analysis.Service, context.Context, string) (model.Instrument, []model.RankedResult, error)

func rankCmd(f *flags, use, short string, rank serviceRank, format func(string, []model.RankedResult, notifier.Lookup) string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " TICKER",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer app.close()
			target, results, err := rank(app.service, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), format(target.Ticker, results, app.directory))
			return nil
		},
	}
}

func compareCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "compare TICKER1 TICKER2",
		Short: "Compare two instruments head to head",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer app.close()
			cmp, err := app.service.Compare(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatComparison(cmp, app.directory))
			return nil
		},
	}
}

func menuCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := setup(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer app.close()
			fmt.Fprintf(cmd.OutOrStdout(), "\nLoaded %d stocks.\n", len(app.service.Instruments))
			newMenu(app.service, app.directory, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
			return nil
		},
	}
}

func watchCmd(f *flags) *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh prices on a schedule and report watchlist rankings to Telegram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := build(f)
			if err != nil {
				return err
			}
			defer app.close()
			if err := app.cfg.ValidateWatch(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			tn := notifier.NewTelegramNotifier(app.cfg.Telegram.BotToken, app.cfg.Telegram.ChatID, app.cfg.Proxy, app.log)

			var rec recorder.Recorder = recorder.NewNoopRecorder()
			if app.cfg.Database.SQLitePath != "" {
				sr, err := recorder.NewSQLiteRecorder(app.cfg.Database.SQLitePath, app.log)
				if err != nil {
					app.log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
				} else {
					rec = sr
				}
			}
			defer rec.Close()

			sched := scheduler.NewScheduler(ctx, app.collector, app.directory, tn, rec, scheduler.Options{
				Universe: app.cfg.Data.Tickers,
				Watch:    app.cfg.Watch.Tickers,
				Lookback: app.cfg.Data.LookbackDays,
				TopK:     app.cfg.Ranking.TopK,
				Workers:  app.cfg.Ranking.Workers,
			}, app.log)
			if err := sched.RegisterAll(app.cfg.Schedule.RefreshCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			app.log.Info().Msg("telegram polling started")

			if runOnStart {
				go func() {
					if err := sched.RunNow(); err != nil {
						app.log.Error().Err(err).Msg("initial refresh")
					}
				}()
			}

			app.log.Info().Str("cron", app.cfg.Schedule.RefreshCron).Msg("watching, press Ctrl+C to stop")
			<-ctx.Done()
			app.log.Info().Msg("shutdown signal received, stopping")
			return nil
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "Refresh immediately on start")
	return cmd
}

type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	store     cache.Store
	collector *collector.Collector
	directory *directory.Directory
	service   *analysis.Service
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// build wires configuration, logging, cache, fetcher and directory.
func build(f *flags) (*app, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg, f)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log := logging.New(cfg.Log.Level, nil)
	a := &app{cfg: cfg, log: log}

	a.store, err = newStore(cfg, log)
	if err != nil {
		return nil, err
	}

	a.directory, err = directory.Load(cfg.Directory.Path)
	if err != nil {
		a.close()
		return nil, err
	}

	mode := calculator.LogReturns
	if cfg.Ranking.SimpleReturns {
		mode = calculator.SimpleReturns
	}
	fetcher := newFetcher(cfg)
	log.Info().Str("source", fetcher.Name()).Str("returns", mode.String()).Msg("data source ready")
	a.collector = collector.NewCollector(fetcher, a.store, cfg.Data.LookbackDays, mode, log)
	return a, nil
}

// setup builds the app and loads the universe once.
func setup(ctx context.Context, f *flags) (*app, error) {
	a, err := build(f)
	if err != nil {
		return nil, err
	}
	instruments, err := a.collector.Load(ctx, a.cfg.Data.Tickers)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("load instruments: %w", err)
	}
	a.service = analysis.NewService(instruments, a.directory, a.cfg.Ranking.TopK, a.cfg.Ranking.Workers)
	return a, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.Data.Source {
	case config.SourceAlphaVantage:
		av := collector.NewAlphaVantageFetcher(cfg.Data.APIKey, cfg.Proxy)
		if cfg.Data.BaseURL != "" {
			av.BaseURL = cfg.Data.BaseURL
		}
		return collector.NewGuardedFetcher(av, cfg.Data.RatePerMin)
	case config.SourceYahoo:
		y := collector.NewYahooFetcher(cfg.Proxy)
		if cfg.Data.BaseURL != "" {
			y.BaseURL = cfg.Data.BaseURL
		}
		return collector.NewGuardedFetcher(y, 0)
	default:
		return collector.NewCSVLoader(cfg.Data.Folder)
	}
}

// newStore picks Redis when configured, an in-process LRU for remote sources, and nothing for CSV.
func newStore(cfg *config.Config, log zerolog.Logger) (cache.Store, error) {
	if cfg.Cache.RedisURL != "" {
		rs, err := cache.NewRedisStore(context.Background(), cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err == nil {
			return rs, nil
		}
		log.Warn().Err(err).Msg("redis cache unavailable, falling back to memory")
	}
	if cfg.Data.Source == config.SourceCSV {
		return nil, nil
	}
	lru, err := cache.NewLRUStore(cfg.Cache.Size, cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("init memory cache: %w", err)
	}
	return lru, nil
}

func applyFlags(cfg *config.Config, f *flags) {
	if f.dataFolder != "" {
		cfg.Data.Folder = f.dataFolder
	}
	if f.source != "" {
		cfg.Data.Source = f.source
	}
	if f.lookback > 0 {
		cfg.Data.LookbackDays = f.lookback
	}
	if f.topK > 0 {
		cfg.Ranking.TopK = f.topK
	}
	if f.workers > 0 {
		cfg.Ranking.Workers = f.workers
	}
	if f.simpleReturns {
		cfg.Ranking.SimpleReturns = true
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
