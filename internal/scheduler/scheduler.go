package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockCloseness/internal/analysis"
	"StockCloseness/internal/model"
	"StockCloseness/internal/notifier"
	"StockCloseness/internal/ranker"
	"StockCloseness/internal/recorder"
)

// Loader produces the instrument universe for one refresh.
type Loader interface {
	Load(ctx context.Context, tickers []string) ([]model.Instrument, error)
}

// Sender delivers reports.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options configures a Scheduler.
type Options struct {
	Universe []string
	Watch    []string
	Lookback int
	TopK     int
	Workers  int
}

// Scheduler refreshes the universe on a cron schedule and reports watchlist rankings.
type Scheduler struct {
	Cron      *cron.Cron
	Loader    Loader
	Directory analysis.Lookup
	Notifier  Sender
	Recorder  recorder.Recorder
	Opts      Options
	Log       zerolog.Logger
	Ctx       context.Context

	mu      sync.RWMutex
	service *analysis.Service
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, loader Loader, dir analysis.Lookup, sender Sender, rec recorder.Recorder, opts Options, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Loader:    loader,
		Directory: dir,
		Notifier:  sender,
		Recorder:  rec,
		Opts:      opts,
		Log:       log,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info().Msg("scheduler stopped")
}

// RunNow executes the refresh task immediately.
func (s *Scheduler) RunNow() error {
	return s.refresh()
}

func (s *Scheduler) refreshTask() {
	if err := s.refresh(); err != nil {
		s.Log.Error().Err(err).Msg("refresh task")
		s.trySend(fmt.Sprintf("Refresh failed: %v", err))
	}
}

func (s *Scheduler) refresh() error {
	s.Log.Info().Int("watch", len(s.Opts.Watch)).Msg("running refresh task")
	instruments, err := s.Loader.Load(s.Ctx, s.Opts.Universe)
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}
	svc := analysis.NewService(instruments, s.Directory, s.Opts.TopK, s.Opts.Workers)
	s.mu.Lock()
	s.service = svc
	s.mu.Unlock()

	runID := uuid.NewString()
	for _, ticker := range s.Opts.Watch {
		s.report(svc, runID, ticker, ranker.TopSimilar(s.Opts.TopK).Name, svc.Closest, notifier.FormatClosest)
		s.report(svc, runID, ticker, ranker.MostOpposite(s.Opts.TopK).Name, svc.Opposite, notifier.FormatOpposite)
	}
	return nil
}

type rankFunc func(ctx context.Context, ticker string) (model.Instrument, []model.RankedResult, error)

type formatFunc func(target string, results []model.RankedResult, lookup notifier.Lookup) string

// report ranks ticker, records the result and notifies only when the ordering changed.
func (s *Scheduler) report(svc *analysis.Service, runID, ticker, policy string, rank rankFunc, format formatFunc) {
	target, results, err := rank(s.Ctx, ticker)
	if err != nil {
		s.Log.Warn().Err(err).Str("ticker", ticker).Str("policy", policy).Msg("watch ranking skipped")
		return
	}
	snap := &recorder.RankingSnapshot{
		RunID:    runID + ":" + policy + ":" + strings.ToUpper(target.Ticker),
		At:       time.Now(),
		Target:   target.Ticker,
		Policy:   policy,
		Lookback: s.Opts.Lookback,
		Results:  results,
	}

	previous, seen, err := s.Recorder.LastRanking(target.Ticker, policy)
	if err != nil {
		s.Log.Error().Err(err).Msg("read last ranking")
	}
	if err := s.Recorder.RecordRanking(snap); err != nil {
		s.Log.Error().Err(err).Msg("record ranking")
	}
	if seen && slices.Equal(previous, snap.Tickers()) {
		s.Log.Debug().Str("ticker", target.Ticker).Str("policy", policy).Msg("ranking unchanged")
		return
	}
	s.trySend(format(target.Ticker, results, s.Directory))
}

const helpText = `Available commands:
/closest TICKER - most similar instruments
/opposite TICKER - least similar instruments
/correlated TICKER - highest return correlation
/compare A B - head-to-head comparison
/refresh - reload prices and report the watchlist`

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	if fields[0] == "/refresh" {
		if err := s.refresh(); err != nil {
			return fmt.Sprintf("Refresh failed: %v", err)
		}
		s.mu.RLock()
		n := len(s.service.Instruments)
		s.mu.RUnlock()
		return fmt.Sprintf("Refreshed %d instruments.", n)
	}

	s.mu.RLock()
	svc := s.service
	s.mu.RUnlock()
	if svc == nil {
		return "No data loaded yet. Try /refresh."
	}

	switch {
	case fields[0] == "/closest" && len(fields) == 2:
		target, results, err := svc.Closest(ctx, fields[1])
		return replyOr(err, func() string { return notifier.FormatClosest(target.Ticker, results, s.Directory) })
	case fields[0] == "/opposite" && len(fields) == 2:
		target, results, err := svc.Opposite(ctx, fields[1])
		return replyOr(err, func() string { return notifier.FormatOpposite(target.Ticker, results, s.Directory) })
	case fields[0] == "/correlated" && len(fields) == 2:
		target, results, err := svc.Correlated(ctx, fields[1])
		return replyOr(err, func() string { return notifier.FormatCorrelated(target.Ticker, results, s.Directory) })
	case fields[0] == "/compare" && len(fields) == 3:
		cmp, err := svc.Compare(fields[1], fields[2])
		return replyOr(err, func() string { return notifier.FormatComparison(cmp, s.Directory) })
	default:
		return helpText
	}
}

func replyOr(err error, render func() string) string {
	switch {
	case errors.Is(err, analysis.ErrNoData), errors.Is(err, analysis.ErrUnknownTicker):
		return err.Error()
	case err != nil:
		return fmt.Sprintf("Error: %v", err)
	}
	return render()
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.Error().Err(err).Msg("send notification")
	}
}
