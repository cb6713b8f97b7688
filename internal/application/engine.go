package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports"
	"go.uber.org/zap"
)

const DefaultRemovalGrace = 1500 * time.Millisecond

// CatalogSource returns the country/application catalog last fetched for an account.
type CatalogSource interface {
	Catalog(accountID domain.AccountID) domain.Catalog
}

type EngineConfig struct {
	RemovalGrace time.Duration
	Logger       *zap.Logger
}

// Engine drives rental lifecycles. It is the only writer of history records.
type Engine struct {
	store    *Store
	gateway  ports.Gateway
	catalogs CatalogSource
	clock    ports.Clock
	grace    time.Duration
	logger   *zap.Logger

	timersMu sync.Mutex
	timers   map[*time.Timer]struct{}
	closed   bool
}

func NewEngine(store *Store, gateway ports.Gateway, catalogs CatalogSource, clock ports.Clock, cfg EngineConfig) *Engine {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.RemovalGrace <= 0 {
		cfg.RemovalGrace = DefaultRemovalGrace
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Engine{
		store:    store,
		gateway:  gateway,
		catalogs: catalogs,
		clock:    clock,
		grace:    cfg.RemovalGrace,
		logger:   cfg.Logger,
		timers:   map[*time.Timer]struct{}{},
	}
}

// Rentals returns the active rentals of an account, or of every account when accountID is empty.
func (e *Engine) Rentals(accountID domain.AccountID) []domain.Rental {
	state := e.store.Snapshot()
	if accountID == "" {
		return state.Rentals
	}
	return state.RentalsFor(accountID)
}

func (e *Engine) Rental(id domain.RequestID) (domain.Rental, bool) {
	return e.store.Snapshot().Rental(id)
}

// Acquire rents a number with the active account and starts tracking it as pending.
func (e *Engine) Acquire(ctx context.Context, cmd AcquireCommand) (domain.Rental, error) {
	req := cmd.request()
	if !req.Currency.Valid() {
		return domain.Rental{}, fmt.Errorf("acquire number: unsupported currency %q", req.Currency)
	}

	account, ok := e.store.Snapshot().ActiveAccount()
	if !ok {
		return domain.Rental{}, fmt.Errorf("acquire number: %w", domain.ErrNoActiveAccount)
	}
	if !account.HasToken() {
		return domain.Rental{}, fmt.Errorf("acquire number: account %s: %w", account.ID, domain.ErrMissingToken)
	}

	acquired, err := e.gateway.AcquireNumber(ctx, account.Token, req)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("acquire number: %w", err)
	}

	rental := e.newRental(account.ID, req, acquired)

	_, changed, err := e.store.update(ctx, false, func(state domain.State) (domain.State, bool) {
		if _, ok := state.Account(account.ID); !ok {
			return state, false
		}
		return state.WithRental(rental), true
	})
	if err != nil {
		return domain.Rental{}, fmt.Errorf("acquire number: %w", err)
	}
	if !changed {
		return domain.Rental{}, fmt.Errorf("acquire number: account %s: %w", account.ID, domain.ErrAccountNotFound)
	}

	e.logger.Info("rental acquired",
		zap.Int64("request_id", int64(rental.RequestID)),
		zap.String("account_id", string(rental.AccountID)),
		zap.String("number", rental.Number),
	)
	return rental, nil
}

func (e *Engine) newRental(accountID domain.AccountID, req domain.NumberRequest, acquired domain.AcquiredNumber) domain.Rental {
	countryID := acquired.CountryID
	if countryID == 0 {
		countryID = req.CountryID
	}
	applicationID := acquired.ApplicationID
	if applicationID == 0 {
		applicationID = req.ApplicationID
	}

	var catalog domain.Catalog
	if e.catalogs != nil {
		catalog = e.catalogs.Catalog(accountID)
	}
	if catalog.IsEmpty() {
		e.logger.Warn("catalog not loaded before acquisition; display names fall back to ids",
			zap.String("account_id", string(accountID)),
		)
	}

	return domain.Rental{
		RequestID:     acquired.RequestID,
		Number:        acquired.Number,
		CountryID:     countryID,
		ApplicationID: applicationID,
		CountryName:   catalog.CountryName(countryID),
		ServiceName:   catalog.ApplicationName(applicationID),
		Status:        domain.RentalStatusPending,
		CreatedAt:     e.clock.Now(),
		AccountID:     accountID,
	}
}

// Resolve records an arrived code: the rental becomes received and a history
// record is appended in the same state replacement. Unknown or settled
// rentals are ignored.
func (e *Engine) Resolve(ctx context.Context, id domain.RequestID, code string) (bool, error) {
	return e.resolve(ctx, id, code, nil)
}

func (e *Engine) resolveLease(ctx context.Context, lease domain.Rental, code string) (bool, error) {
	return e.resolve(ctx, lease.RequestID, code, &lease)
}

func (e *Engine) resolve(ctx context.Context, id domain.RequestID, code string, lease *domain.Rental) (bool, error) {
	if code == "" {
		return false, nil
	}

	now := e.clock.Now()
	_, changed, err := e.store.update(ctx, true, func(state domain.State) (domain.State, bool) {
		if lease != nil {
			current, ok := state.Rental(id)
			if !ok || !current.SameLease(*lease) {
				return state, false
			}
		}
		return state.Resolved(id, code, now)
	})
	if err != nil {
		return false, fmt.Errorf("resolve rental %d: %w", id, err)
	}

	if changed {
		e.logger.Info("sms code received", zap.Int64("request_id", int64(id)))
	}
	return changed, nil
}

// SetStatus reports a status to the remote service and applies it locally.
// Close and reject archive the rental and drop it after the grace delay.
// Unknown request ids are ignored.
func (e *Engine) SetStatus(ctx context.Context, id domain.RequestID, status domain.RentalStatus) error {
	if !status.IsRemoteSettable() {
		return fmt.Errorf("set status: %w: %q", domain.ErrInvalidStatus, status)
	}

	state := e.store.Snapshot()
	rental, ok := state.Rental(id)
	if !ok {
		return nil
	}
	if !rental.Status.CanTransitionTo(status) {
		return fmt.Errorf("set status: %w: %s -> %s", domain.ErrInvalidTransition, rental.Status, status)
	}
	account, ok := state.Account(rental.AccountID)
	if !ok {
		return nil
	}

	if err := e.gateway.SetStatus(ctx, account.Token, id, status); err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	now := e.clock.Now()
	_, changed, err := e.store.update(ctx, status.Retires(), func(state domain.State) (domain.State, bool) {
		current, ok := state.Rental(id)
		if !ok || !current.SameLease(rental) {
			return state, false
		}
		if status.Retires() {
			return state.Retired(id, status, now)
		}
		return state.WithRentalStatus(id, status)
	})
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if !changed {
		return nil
	}

	e.logger.Info("rental status changed",
		zap.Int64("request_id", int64(id)),
		zap.String("status", string(status)),
	)
	if status.Retires() {
		e.scheduleRemoval(rental)
	}
	return nil
}

// Remove drops a rental from the active set without touching history.
func (e *Engine) Remove(ctx context.Context, id domain.RequestID) (bool, error) {
	_, changed, err := e.store.update(ctx, false, func(state domain.State) (domain.State, bool) {
		rental, ok := state.Rental(id)
		if !ok {
			return state, false
		}
		return state.WithoutRental(rental)
	})
	if err != nil {
		return false, fmt.Errorf("remove rental %d: %w", id, err)
	}
	return changed, nil
}

func (e *Engine) scheduleRemoval(lease domain.Rental) {
	e.timersMu.Lock()
	defer e.timersMu.Unlock()

	if e.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(e.grace, func() {
		e.timersMu.Lock()
		delete(e.timers, timer)
		e.timersMu.Unlock()

		_, _, err := e.store.update(context.Background(), false, func(state domain.State) (domain.State, bool) {
			return state.WithoutRental(lease)
		})
		if err != nil {
			e.logger.Warn("remove retired rental", zap.Int64("request_id", int64(lease.RequestID)), zap.Error(err))
		}
	})
	e.timers[timer] = struct{}{}
}

// Close cancels pending grace removals. Retired rentals stay in the active
// set; they are session-only and disappear with the process.
func (e *Engine) Close() {
	e.timersMu.Lock()
	defer e.timersMu.Unlock()

	e.closed = true
	for timer := range e.timers {
		timer.Stop()
	}
	clear(e.timers)
}
