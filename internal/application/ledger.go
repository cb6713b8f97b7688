package application

import (
	"context"
	"fmt"

	"github.com/bnema/smsman-cli/internal/domain"
)

// Ledger reads and clears the history of resolved and retired rentals.
// Records are written only by the engine.
type Ledger struct {
	store *Store
}

func NewLedger(store *Store) *Ledger {
	return &Ledger{store: store}
}

// List returns history newest first, for one account or for all when accountID is empty.
func (l *Ledger) List(accountID domain.AccountID) []domain.HistoryRecord {
	state := l.store.Snapshot()
	if accountID == "" {
		return state.History
	}
	return state.HistoryFor(accountID)
}

// Clear drops history for one account, or everything when accountID is empty,
// and reports how many records were removed.
func (l *Ledger) Clear(ctx context.Context, accountID domain.AccountID) (int, error) {
	removed := 0
	_, _, err := l.store.update(ctx, true, func(state domain.State) (domain.State, bool) {
		before := len(state.History)
		next, changed := state.WithoutHistory(accountID)
		removed = before - len(next.History)
		return next, changed
	})
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return removed, nil
}
