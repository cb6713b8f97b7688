package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bnema/smsman-cli/internal/domain"
	"github.com/bnema/smsman-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStoreUpdatePublishesAfterSave(t *testing.T) {
	repo := mocks.NewMockStateRepository(t)
	initial := stateWith([]domain.Account{testAccount("acc-1")})
	store := NewStore(initial, repo)

	var saved domain.PersistedState
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).RunAndReturn(func(_ context.Context, state domain.PersistedState) error {
		saved = state
		return nil
	}).Once()

	next, changed, err := store.update(context.Background(), true, func(state domain.State) (domain.State, bool) {
		return state.WithAccount(testAccount("acc-2"))
	})
	require.NoError(t, err)
	require.True(t, changed)
	assert.Len(t, next.Accounts, 2)
	assert.Len(t, saved.Accounts, 2)
	assert.Equal(t, next, store.Snapshot())
}

func TestStoreUpdateFailedSavePublishesNothing(t *testing.T) {
	repo := mocks.NewMockStateRepository(t)
	initial := stateWith([]domain.Account{testAccount("acc-1")})
	store := NewStore(initial, repo)

	notified := false
	store.Subscribe(func(_, _ domain.State) { notified = true })
	repo.EXPECT().Save(mockAnyContext(), mock.Anything).Return(errors.New("disk full")).Once()

	_, changed, err := store.update(context.Background(), true, func(state domain.State) (domain.State, bool) {
		return state.WithAccount(testAccount("acc-2"))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save state: disk full")
	assert.False(t, changed)
	assert.False(t, notified)
	assert.Len(t, store.Snapshot().Accounts, 1)
}

func TestStoreUpdateSessionOnlyChangeSkipsSave(t *testing.T) {
	repo := mocks.NewMockStateRepository(t)
	store := NewStore(stateWith([]domain.Account{testAccount("acc-1")}), repo)

	_, changed, err := store.update(context.Background(), false, func(state domain.State) (domain.State, bool) {
		return state.WithRental(pendingRental(1, "acc-1")), true
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, store.Snapshot().Rentals, 1)
}

func TestStoreListenersReceivePreviousAndNextState(t *testing.T) {
	store := newTestStore(t, stateWith([]domain.Account{testAccount("acc-1")}))

	var calls [][2]int
	store.Subscribe(func(prev, next domain.State) {
		calls = append(calls, [2]int{len(prev.Rentals), len(next.Rentals)})
	})

	for _, id := range []domain.RequestID{1, 2} {
		_, _, err := store.update(context.Background(), false, func(state domain.State) (domain.State, bool) {
			return state.WithRental(pendingRental(id, "acc-1")), true
		})
		require.NoError(t, err)
	}
	_, changed, err := store.update(context.Background(), false, func(state domain.State) (domain.State, bool) {
		return state, false
	})
	require.NoError(t, err)
	require.False(t, changed)

	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, calls)
}

func TestStoreReadersNeverObserveHalfResolvedRental(t *testing.T) {
	accounts := []domain.Account{testAccount("acc-1")}
	rentals := make([]domain.Rental, 0, 50)
	for i := 1; i <= 50; i++ {
		rentals = append(rentals, pendingRental(domain.RequestID(i), "acc-1"))
	}
	store := newTestStore(t, stateWith(accounts, rentals...))
	engine := NewEngine(store, nil, nil, fixedClock{now: testNow}, EngineConfig{})

	done := make(chan struct{})
	var violations int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			state := store.Snapshot()
			for _, rental := range state.Rentals {
				if rental.SMSCode == "" {
					continue
				}
				found := false
				for _, record := range state.History {
					if record.RequestID == rental.RequestID && record.SMSCode == rental.SMSCode {
						found = true
						break
					}
				}
				if !found {
					violations++
				}
			}
		}
	}()

	for _, rental := range rentals {
		_, err := engine.Resolve(context.Background(), rental.RequestID, "0000")
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()

	assert.Zero(t, violations)
	assert.Len(t, store.Snapshot().History, 50)
}

func TestLoadStateHydratesTokensFromSecrets(t *testing.T) {
	repo := mocks.NewMockStateRepository(t)
	secrets := mocks.NewMockSecretStore(t)

	withToken := testAccount("acc-1")
	withToken.Token = ""
	missing := testAccount("acc-2")
	missing.Token = ""

	repo.EXPECT().Load(mockAnyContext()).Return(domain.PersistedState{
		Accounts:        []domain.Account{withToken, missing},
		ActiveAccountID: "acc-1",
	}, nil)
	secrets.EXPECT().Get(mockAnyContext(), withToken.TokenRef).Return("tok-live", nil)
	secrets.EXPECT().Get(mockAnyContext(), missing.TokenRef).Return("", domain.ErrSecretNotFound)

	state, err := LoadState(context.Background(), repo, secrets, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.Len(t, state.Accounts, 2)
	assert.Equal(t, "tok-live", state.Accounts[0].Token)
	assert.False(t, state.Accounts[1].HasToken())
	assert.Equal(t, domain.AccountID("acc-1"), state.ActiveAccountID)
	assert.Empty(t, state.Rentals)
}

func TestLoadStateWrapsRepositoryErrors(t *testing.T) {
	repo := mocks.NewMockStateRepository(t)
	repo.EXPECT().Load(mockAnyContext()).Return(domain.PersistedState{}, errors.New("bad toml"))

	_, err := LoadState(context.Background(), repo, nil, nil)
	require.Error(t, err)
	assert.Equal(t, "load state: bad toml", err.Error())
}
