package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/metrics"
	"github.com/bnema/smsman-cli/internal/ports"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultPollInterval = 5 * time.Second

type SchedulerConfig struct {
	Interval time.Duration
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Scheduler polls the remote service for codes, one cron entry per pollable
// rental. It follows the store: every state replacement starts entries for
// new pollable rentals and cancels entries for rentals that left that set.
type Scheduler struct {
	store    *Store
	engine   *Engine
	gateway  ports.Gateway
	interval time.Duration
	cron     *cron.Cron
	metrics  *metrics.Metrics
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	handles map[domain.RequestID]*pollHandle
}

type pollHandle struct {
	lease   domain.Rental
	entryID cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewScheduler(store *Store, engine *Engine, gateway ports.Gateway, cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	logger := cronLogger{logger: cfg.Logger.Named("cron")}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		store:    store,
		engine:   engine,
		gateway:  gateway,
		interval: cfg.Interval,
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		ctx:     ctx,
		cancel:  cancel,
		handles: map[domain.RequestID]*pollHandle{},
	}

	store.Subscribe(s.reconcile)
	s.reconcile(domain.State{}, store.Snapshot())

	return s
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels every poll handle and waits for in-flight ticks to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()

	s.mu.Lock()
	for id, handle := range s.handles {
		s.stopLocked(id, handle)
	}
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Polling reports whether a rental currently has a poll handle.
func (s *Scheduler) Polling(id domain.RequestID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.handles[id]
	return ok
}

// NextPoll returns when the rental is next checked.
func (s *Scheduler) NextPoll(id domain.RequestID) (time.Time, bool) {
	s.mu.Lock()
	handle, ok := s.handles[id]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}

	entry := s.cron.Entry(handle.entryID)
	if !entry.Valid() || entry.Next.IsZero() {
		return time.Time{}, false
	}
	return entry.Next, true
}

func (s *Scheduler) reconcile(_, next domain.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}

	pollable := make(map[domain.RequestID]domain.Rental, len(next.Rentals))
	for _, rental := range next.Rentals {
		if rental.Status.IsPollable() {
			pollable[rental.RequestID] = rental
		}
	}

	for id, handle := range s.handles {
		rental, ok := pollable[id]
		if !ok || !rental.SameLease(handle.lease) {
			s.stopLocked(id, handle)
		}
	}

	for id, rental := range pollable {
		if _, ok := s.handles[id]; !ok {
			s.startLocked(rental)
		}
	}
}

func (s *Scheduler) startLocked(lease domain.Rental) {
	ctx, cancel := context.WithCancel(s.ctx)
	handle := &pollHandle{lease: lease, ctx: ctx, cancel: cancel}
	handle.entryID = s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.tick(handle)
	}))
	s.handles[lease.RequestID] = handle

	s.logger.Debug("polling started",
		zap.Int64("request_id", int64(lease.RequestID)),
		zap.Duration("interval", s.interval),
	)
}

func (s *Scheduler) stopLocked(id domain.RequestID, handle *pollHandle) {
	handle.cancel()
	s.cron.Remove(handle.entryID)
	delete(s.handles, id)

	s.logger.Debug("polling stopped", zap.Int64("request_id", int64(id)))
}

// tick performs one code check against the live rental and the live account
// token. Failures are swallowed: to the user they look the same as waiting.
func (s *Scheduler) tick(handle *pollHandle) {
	if handle.ctx.Err() != nil {
		return
	}

	state := s.store.Snapshot()
	rental, ok := state.Rental(handle.lease.RequestID)
	if !ok || !rental.SameLease(handle.lease) || !rental.Status.IsPollable() {
		s.metrics.ObservePoll(metrics.PollSkipped)
		return
	}

	account, ok := state.Account(rental.AccountID)
	if !ok {
		s.metrics.ObservePoll(metrics.PollSkipped)
		return
	}
	if !account.HasToken() {
		// The token may be set again later; keep the handle.
		s.metrics.ObservePoll(metrics.PollNoToken)
		s.logger.Debug("sms check skipped, account has no token", zap.Int64("request_id", int64(rental.RequestID)))
		return
	}

	code, err := s.gateway.GetSMS(handle.ctx, account.Token, rental.RequestID)
	if handle.ctx.Err() != nil {
		return
	}
	if err != nil {
		s.metrics.ObservePoll(metrics.PollFailed)
		s.logger.Debug("sms check failed", zap.Int64("request_id", int64(rental.RequestID)), zap.Error(err))
		return
	}
	if code == "" {
		s.metrics.ObservePoll(metrics.PollWaiting)
		return
	}

	s.metrics.ObservePoll(metrics.PollCode)
	if _, err := s.engine.resolveLease(handle.ctx, rental, code); err != nil {
		s.logger.Warn("record sms code", zap.Int64("request_id", int64(rental.RequestID)), zap.Error(err))
	}
}

// cronLogger routes cron's own diagnostics through zap.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
